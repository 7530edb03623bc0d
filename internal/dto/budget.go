package dto

import (
	"time"

	"github.com/fintrackhq/fintrack_app/internal/core/domain"
)

// CreateBudgetRequest defines the data needed to create a budget. The period
// may be given as a month token, an explicit start/end range, or omitted
// entirely (defaulting to the current month).
type CreateBudgetRequest struct {
	CategoryID string `json:"categoryId" binding:"required,uuid"`
	Amount     int64  `json:"amount" binding:"required,gt=0"`
	Month      string `json:"month" binding:"omitempty,month"`
	StartDate  string `json:"startDate" binding:"omitempty,dateonly"`
	EndDate    string `json:"endDate" binding:"omitempty,dateonly"`
}

// ToPeriodSpec converts the request period fields to a domain period spec.
func (r CreateBudgetRequest) ToPeriodSpec() domain.PeriodSpec {
	s := domain.PeriodSpec{Month: r.Month}
	if d, err := ParseDate(r.StartDate); err == nil && r.StartDate != "" {
		s.Start = d
	}
	if d, err := ParseDate(r.EndDate); err == nil && r.EndDate != "" {
		s.End = d
	}
	return s
}

// UpdateBudgetRequest defines the data allowed for updating a budget.
type UpdateBudgetRequest struct {
	CategoryID *string `json:"categoryId" binding:"omitempty,uuid"`
	Amount     *int64  `json:"amount" binding:"omitempty,gt=0"`
	Month      *string `json:"month" binding:"omitempty,month"`
}

// ListBudgetsParams defines query parameters for listing budgets.
type ListBudgetsParams struct {
	Month string `form:"month" binding:"omitempty,month"`
}

// BudgetResponse defines the data returned for a budget with its progress.
type BudgetResponse struct {
	BudgetID        string              `json:"id"`
	CategoryID      string              `json:"categoryId"`
	Category        *CategorySummary    `json:"category,omitempty"`
	Period          string              `json:"period"`
	Month           string              `json:"month"`
	PeriodStart     string              `json:"periodStart"`
	PeriodEnd       string              `json:"periodEnd"`
	Amount          int64               `json:"amount"`
	CurrentSpent    int64               `json:"currentSpent"`
	UsagePercentage float64             `json:"usagePercentage"`
	RemainingAmount int64               `json:"remainingAmount"`
	Status          domain.BudgetStatus `json:"status"`
	CreatedAt       time.Time           `json:"createdAt"`
	UpdatedAt       time.Time           `json:"updatedAt"`
}

// CategorySummary is the category display subset embedded in budget responses.
type CategorySummary struct {
	CategoryID string `json:"id"`
	Name       string `json:"name"`
	Color      string `json:"color"`
	Icon       string `json:"icon"`
}

// BudgetSummaryResponse aggregates a month of budgets.
type BudgetSummaryResponse struct {
	Month          string `json:"month"`
	PeriodStart    string `json:"periodStart"`
	PeriodEnd      string `json:"periodEnd"`
	TotalBudgeted  int64  `json:"totalBudgeted"`
	TotalSpent     int64  `json:"totalSpent"`
	TotalRemaining int64  `json:"totalRemaining"`
}

// ListBudgetsResponse wraps a month's budgets with their summary.
type ListBudgetsResponse struct {
	Budgets []BudgetResponse      `json:"budgets"`
	Summary BudgetSummaryResponse `json:"summary"`
}

// ToBudgetResponse converts a domain.BudgetProgress to a response DTO
func ToBudgetResponse(bp *domain.BudgetProgress) BudgetResponse {
	res := BudgetResponse{
		BudgetID:        bp.BudgetID,
		CategoryID:      bp.CategoryID,
		Period:          bp.Period,
		Month:           bp.Month,
		PeriodStart:     FormatDate(bp.PeriodStart),
		PeriodEnd:       FormatDate(bp.PeriodEnd),
		Amount:          bp.Amount,
		CurrentSpent:    bp.CurrentSpent,
		UsagePercentage: bp.UsagePercentage,
		RemainingAmount: bp.RemainingAmount,
		Status:          bp.Status,
		CreatedAt:       bp.CreatedAt,
		UpdatedAt:       bp.UpdatedAt,
	}
	if bp.Category != nil {
		res.Category = &CategorySummary{
			CategoryID: bp.Category.CategoryID,
			Name:       bp.Category.Name,
			Color:      bp.Category.Color,
			Icon:       bp.Category.Icon,
		}
	}
	return res
}

// ToListBudgetsResponse converts budget progress rows and their summary.
func ToListBudgetsResponse(items []domain.BudgetProgress, summary domain.BudgetSummary) ListBudgetsResponse {
	budgets := make([]BudgetResponse, len(items))
	for i := range items {
		budgets[i] = ToBudgetResponse(&items[i])
	}
	return ListBudgetsResponse{
		Budgets: budgets,
		Summary: BudgetSummaryResponse{
			Month:          summary.Month,
			PeriodStart:    FormatDate(summary.PeriodStart),
			PeriodEnd:      FormatDate(summary.PeriodEnd),
			TotalBudgeted:  summary.TotalBudgeted,
			TotalSpent:     summary.TotalSpent,
			TotalRemaining: summary.TotalRemaining,
		},
	}
}
