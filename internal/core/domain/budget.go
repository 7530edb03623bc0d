package domain

import "time"

// BudgetStatus classifies how far along a budget's spending is.
type BudgetStatus string

const (
	BudgetHealthy  BudgetStatus = "healthy"
	BudgetWarning  BudgetStatus = "warning"
	BudgetExceeded BudgetStatus = "exceeded"
)

// Spending thresholds, in percent of the budgeted amount.
const (
	BudgetWarningThreshold  = 70
	BudgetExceededThreshold = 100
)

// StatusForUsage maps a usage percentage to a budget status.
func StatusForUsage(usagePercentage float64) BudgetStatus {
	switch {
	case usagePercentage >= BudgetExceededThreshold:
		return BudgetExceeded
	case usagePercentage >= BudgetWarningThreshold:
		return BudgetWarning
	default:
		return BudgetHealthy
	}
}

// Budget is a user-owned monthly spending limit for one expense category.
// PeriodStart/PeriodEnd are zero when the underlying schema lacks range
// columns; NormalizePeriod backfills them from the creation month.
type Budget struct {
	BudgetID    string    `json:"id"`
	UserID      string    `json:"userId"`
	CategoryID  string    `json:"categoryId"`
	Period      string    `json:"period"`
	Amount      int64     `json:"amount"`
	PeriodStart time.Time `json:"periodStart"`
	PeriodEnd   time.Time `json:"periodEnd"`
	Month       string    `json:"month"`
	AuditFields
}

// NormalizePeriod fills Month and the range bounds for budgets read from a
// degraded schema, using fallbackMonth, then the creation month, then the
// month containing now.
func (b *Budget) NormalizePeriod(fallbackMonth string, now time.Time) {
	if !b.PeriodStart.IsZero() && !b.PeriodEnd.IsZero() {
		b.Month = b.PeriodStart.UTC().Format("2006-01")
		return
	}
	month := fallbackMonth
	if month == "" && !b.CreatedAt.IsZero() {
		month = b.CreatedAt.UTC().Format("2006-01")
	}
	if month == "" {
		month = now.UTC().Format("2006-01")
	}
	if r, err := MonthRange(month); err == nil {
		b.Month = r.Month
		b.PeriodStart = r.Start
		b.PeriodEnd = r.End
	}
}

// Range returns the budget's resolved period range.
func (b Budget) Range() PeriodRange {
	return PeriodRange{Month: b.Month, Start: b.PeriodStart, End: b.PeriodEnd}
}

// BudgetProgress is a budget enriched with spend-to-date derived fields.
type BudgetProgress struct {
	Budget
	Category        *Category    `json:"category"`
	CurrentSpent    int64        `json:"currentSpent"`
	UsagePercentage float64      `json:"usagePercentage"`
	RemainingAmount int64        `json:"remainingAmount"`
	Status          BudgetStatus `json:"status"`
}

// BudgetSummary aggregates a batch of budgets for one month.
type BudgetSummary struct {
	Month          string    `json:"month"`
	PeriodStart    time.Time `json:"periodStart"`
	PeriodEnd      time.Time `json:"periodEnd"`
	TotalBudgeted  int64     `json:"totalBudgeted"`
	TotalSpent     int64     `json:"totalSpent"`
	TotalRemaining int64     `json:"totalRemaining"`
}
