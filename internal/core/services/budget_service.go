package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fintrackhq/fintrack_app/internal/apperrors"
	"github.com/fintrackhq/fintrack_app/internal/core/domain"
	"github.com/fintrackhq/fintrack_app/internal/core/ports"
	"github.com/fintrackhq/fintrack_app/internal/dto"
)

// budgetServiceImpl implements the BudgetService interface
type budgetServiceImpl struct {
	BaseService
	budgetRepo      ports.BudgetRepository
	categoryRepo    ports.CategoryRepository
	transactionRepo ports.TransactionRepository
	now             func() time.Time
}

// NewBudgetService creates a new budget service
func NewBudgetService(budgetRepo ports.BudgetRepository, categoryRepo ports.CategoryRepository, transactionRepo ports.TransactionRepository) ports.BudgetService {
	return &budgetServiceImpl{
		budgetRepo:      budgetRepo,
		categoryRepo:    categoryRepo,
		transactionRepo: transactionRepo,
		now:             time.Now,
	}
}

var _ ports.BudgetService = (*budgetServiceImpl)(nil)

func (s *budgetServiceImpl) CreateBudget(ctx context.Context, userID string, req dto.CreateBudgetRequest) (*domain.BudgetProgress, error) {
	category, err := s.categoryRepo.FindCategoryByID(ctx, userID, req.CategoryID)
	if err != nil {
		return nil, err
	}
	if category.Type != domain.FlowExpense {
		return nil, fmt.Errorf("%w: budgets apply to expense categories, %q is %s", apperrors.ErrValidation, category.Name, category.Type)
	}

	now := s.now().UTC()
	r, err := req.ToPeriodSpec().Resolve(now)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}
	if err := s.checkPeriodAllowed(r, now); err != nil {
		return nil, err
	}

	duplicate, err := s.budgetRepo.ExistsDuplicate(ctx, userID, req.CategoryID, domain.PeriodMonthly, r, "")
	if err != nil {
		return nil, err
	}
	if duplicate {
		return nil, fmt.Errorf("%w: category %s, month %s", apperrors.ErrDuplicateBudget, req.CategoryID, r.Month)
	}

	budget := domain.Budget{
		BudgetID:    uuid.NewString(),
		UserID:      userID,
		CategoryID:  req.CategoryID,
		Period:      domain.PeriodMonthly,
		Amount:      req.Amount,
		PeriodStart: r.Start,
		PeriodEnd:   r.End,
		Month:       r.Month,
		AuditFields: domain.AuditFields{
			CreatedAt: now,
			UpdatedAt: now,
		},
	}
	if err := s.budgetRepo.SaveBudget(ctx, budget); err != nil {
		s.LogError(ctx, err, "Failed to save budget", slog.String("budget_id", budget.BudgetID))
		return nil, err
	}

	return s.singleProgress(ctx, userID, budget)
}

func (s *budgetServiceImpl) GetBudget(ctx context.Context, userID, budgetID string) (*domain.BudgetProgress, error) {
	budget, err := s.budgetRepo.FindBudgetByID(ctx, userID, budgetID)
	if err != nil {
		return nil, err
	}
	budget.NormalizePeriod("", s.now().UTC())
	return s.singleProgress(ctx, userID, *budget)
}

func (s *budgetServiceImpl) ListBudgets(ctx context.Context, userID, month string) ([]domain.BudgetProgress, domain.BudgetSummary, error) {
	now := s.now().UTC()
	r, err := domain.PeriodSpec{Month: month}.Resolve(now)
	if err != nil {
		return nil, domain.BudgetSummary{}, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}

	budgets, err := s.budgetRepo.ListBudgetsForPeriod(ctx, userID, r)
	if err != nil {
		return nil, domain.BudgetSummary{}, err
	}
	for i := range budgets {
		budgets[i].NormalizePeriod("", now)
	}

	items, err := s.attachProgress(ctx, userID, budgets)
	if err != nil {
		return nil, domain.BudgetSummary{}, err
	}
	return items, buildSummary(items, r), nil
}

func (s *budgetServiceImpl) UpdateBudget(ctx context.Context, userID, budgetID string, req dto.UpdateBudgetRequest) (*domain.BudgetProgress, error) {
	budget, err := s.budgetRepo.FindBudgetByID(ctx, userID, budgetID)
	if err != nil {
		return nil, err
	}
	now := s.now().UTC()
	budget.NormalizePeriod("", now)

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if budget.PeriodEnd.Before(today) {
		return nil, fmt.Errorf("%w: period ended %s", apperrors.ErrClosedPeriod, budget.PeriodEnd.Format("2006-01-02"))
	}

	periodChanged := false
	if req.Month != nil && *req.Month != budget.Month {
		r, err := domain.MonthRange(*req.Month)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		if err := s.checkPeriodAllowed(r, now); err != nil {
			return nil, err
		}
		budget.PeriodStart = r.Start
		budget.PeriodEnd = r.End
		budget.Month = r.Month
		periodChanged = true
	}

	categoryChanged := false
	if req.CategoryID != nil && *req.CategoryID != budget.CategoryID {
		category, err := s.categoryRepo.FindCategoryByID(ctx, userID, *req.CategoryID)
		if err != nil {
			return nil, err
		}
		if category.Type != domain.FlowExpense {
			return nil, fmt.Errorf("%w: budgets apply to expense categories, %q is %s", apperrors.ErrValidation, category.Name, category.Type)
		}
		budget.CategoryID = *req.CategoryID
		categoryChanged = true
	}

	if periodChanged || categoryChanged {
		duplicate, err := s.budgetRepo.ExistsDuplicate(ctx, userID, budget.CategoryID, budget.Period, budget.Range(), budgetID)
		if err != nil {
			return nil, err
		}
		if duplicate {
			return nil, fmt.Errorf("%w: category %s, month %s", apperrors.ErrDuplicateBudget, budget.CategoryID, budget.Month)
		}
	}

	if req.Amount != nil {
		budget.Amount = *req.Amount
	}
	budget.UpdatedAt = now

	if err := s.budgetRepo.UpdateBudget(ctx, *budget); err != nil {
		s.LogError(ctx, err, "Failed to update budget", slog.String("budget_id", budgetID))
		return nil, err
	}
	return s.singleProgress(ctx, userID, *budget)
}

func (s *budgetServiceImpl) DeleteBudget(ctx context.Context, userID, budgetID string) error {
	if _, err := s.budgetRepo.FindBudgetByID(ctx, userID, budgetID); err != nil {
		return err
	}
	return s.budgetRepo.DeleteBudget(ctx, userID, budgetID)
}

// checkPeriodAllowed enforces the not-before-current-month rule, and in
// degraded mode (no persisted range columns) restricts budgets to the current
// month, the only period the created_at fallback can represent faithfully.
func (s *budgetServiceImpl) checkPeriodAllowed(r domain.PeriodRange, now time.Time) error {
	current := domain.CurrentMonthRange(now)
	if r.Start.Before(current.Start) {
		return fmt.Errorf("%w: month %s is in the past", apperrors.ErrValidation, r.Month)
	}
	if !s.budgetRepo.SupportsPeriodRange() && r.Month != current.Month {
		return fmt.Errorf("%w: schema without period columns only supports the current month, got %s", apperrors.ErrValidation, r.Month)
	}
	return nil
}

// attachProgress derives spent/usage/remaining/status for a batch of budgets
// with one categories query and one expense-transactions query spanning the
// widest period in the batch.
func (s *budgetServiceImpl) attachProgress(ctx context.Context, userID string, budgets []domain.Budget) ([]domain.BudgetProgress, error) {
	if len(budgets) == 0 {
		return []domain.BudgetProgress{}, nil
	}

	categoryIDs := make([]string, 0, len(budgets))
	seen := make(map[string]bool, len(budgets))
	minStart, maxEnd := budgets[0].PeriodStart, budgets[0].PeriodEnd
	for _, b := range budgets {
		if !seen[b.CategoryID] {
			seen[b.CategoryID] = true
			categoryIDs = append(categoryIDs, b.CategoryID)
		}
		if b.PeriodStart.Before(minStart) {
			minStart = b.PeriodStart
		}
		if b.PeriodEnd.After(maxEnd) {
			maxEnd = b.PeriodEnd
		}
	}

	categories, err := s.categoryRepo.FindCategoriesByIDs(ctx, userID, categoryIDs)
	if err != nil {
		return nil, err
	}
	expenses, err := s.transactionRepo.ListExpensesInRange(ctx, userID, categoryIDs, minStart, maxEnd)
	if err != nil {
		return nil, err
	}

	items := make([]domain.BudgetProgress, len(budgets))
	for i, b := range budgets {
		var spent int64
		for _, e := range expenses {
			if e.CategoryID == b.CategoryID && b.Range().Contains(e.Date) {
				spent += e.Amount
			}
		}

		// Thresholds apply to the raw ratio; rounding is display-only, so
		// 69.999% stays healthy even though it reads 70.00.
		rawUsage := 0.0
		displayUsage := 0.0
		if b.Amount > 0 {
			ratio := decimal.NewFromInt(spent).
				Div(decimal.NewFromInt(b.Amount)).
				Mul(decimal.NewFromInt(100))
			rawUsage, _ = ratio.Float64()
			displayUsage, _ = ratio.Round(2).Float64()
		}

		items[i] = domain.BudgetProgress{
			Budget:          b,
			CurrentSpent:    spent,
			UsagePercentage: displayUsage,
			RemainingAmount: b.Amount - spent,
			Status:          domain.StatusForUsage(rawUsage),
		}
		if cat, ok := categories[b.CategoryID]; ok {
			c := cat
			items[i].Category = &c
		}
	}
	return items, nil
}

func (s *budgetServiceImpl) singleProgress(ctx context.Context, userID string, budget domain.Budget) (*domain.BudgetProgress, error) {
	items, err := s.attachProgress(ctx, userID, []domain.Budget{budget})
	if err != nil {
		return nil, err
	}
	return &items[0], nil
}

// buildSummary totals a month's budgets.
func buildSummary(items []domain.BudgetProgress, r domain.PeriodRange) domain.BudgetSummary {
	summary := domain.BudgetSummary{
		Month:       r.Month,
		PeriodStart: r.Start,
		PeriodEnd:   r.End,
	}
	for _, item := range items {
		summary.TotalBudgeted += item.Amount
		summary.TotalSpent += item.CurrentSpent
		summary.TotalRemaining += item.RemainingAmount
	}
	return summary
}
