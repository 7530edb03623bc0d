package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fintrackhq/fintrack_app/internal/apperrors"
	"github.com/fintrackhq/fintrack_app/internal/core/domain"
	"github.com/fintrackhq/fintrack_app/internal/core/ports"
	"github.com/fintrackhq/fintrack_app/internal/core/schema"
)

// PgxBudgetRepository persists budgets. The amount column name and the
// presence of the period range columns come from the resolved schema; without
// range columns the creation timestamp window stands in for the period.
type PgxBudgetRepository struct {
	pool   *pgxpool.Pool
	schema schema.BudgetSchema
}

// newPgxBudgetRepository creates a new repository for budget data.
func newPgxBudgetRepository(pool *pgxpool.Pool, sch schema.BudgetSchema) ports.BudgetRepository {
	return &PgxBudgetRepository{pool: pool, schema: sch}
}

var _ ports.BudgetRepository = (*PgxBudgetRepository)(nil)

func (r *PgxBudgetRepository) SupportsPeriodRange() bool {
	return r.schema.HasRange
}

func (r *PgxBudgetRepository) selectColumns() string {
	rangeCols := "NULL::date, NULL::date"
	if r.schema.HasRange {
		rangeCols = "period_start, period_end"
	}
	return fmt.Sprintf("budget_id, user_id, category_id, period, %s, %s, created_at, updated_at",
		r.schema.AmountCol, rangeCols)
}

func scanBudget(row pgx.Row) (*domain.Budget, error) {
	var b domain.Budget
	var start, end *time.Time
	err := row.Scan(&b.BudgetID, &b.UserID, &b.CategoryID, &b.Period, &b.Amount, &start, &end, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if start != nil {
		b.PeriodStart = *start
	}
	if end != nil {
		b.PeriodEnd = *end
	}
	return &b, nil
}

func (r *PgxBudgetRepository) SaveBudget(ctx context.Context, budget domain.Budget) error {
	var query string
	var args []any
	if r.schema.HasRange {
		query = fmt.Sprintf(`
			INSERT INTO budgets (budget_id, user_id, category_id, period, %s, period_start, period_end, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);`, r.schema.AmountCol)
		args = []any{budget.BudgetID, budget.UserID, budget.CategoryID, budget.Period, budget.Amount,
			budget.PeriodStart, budget.PeriodEnd, budget.CreatedAt, budget.UpdatedAt}
	} else {
		query = fmt.Sprintf(`
			INSERT INTO budgets (budget_id, user_id, category_id, period, %s, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7);`, r.schema.AmountCol)
		args = []any{budget.BudgetID, budget.UserID, budget.CategoryID, budget.Period, budget.Amount,
			budget.CreatedAt, budget.UpdatedAt}
	}
	if _, err := r.pool.Exec(ctx, query, args...); err != nil {
		return mapWriteError(err, "budget")
	}
	return nil
}

func (r *PgxBudgetRepository) FindBudgetByID(ctx context.Context, userID, budgetID string) (*domain.Budget, error) {
	query := `SELECT ` + r.selectColumns() + ` FROM budgets WHERE budget_id = $1 AND user_id = $2;`
	budget, err := scanBudget(r.pool.QueryRow(ctx, query, budgetID, userID))
	if err != nil {
		return nil, mapFindError(err, "budget "+budgetID)
	}
	return budget, nil
}

func (r *PgxBudgetRepository) ListBudgetsForPeriod(ctx context.Context, userID string, period domain.PeriodRange) ([]domain.Budget, error) {
	var query string
	var args []any
	if r.schema.HasRange {
		query = `SELECT ` + r.selectColumns() + `
			FROM budgets
			WHERE user_id = $1 AND period_start <= $2 AND period_end >= $3
			ORDER BY created_at;`
		args = []any{userID, period.End, period.Start}
	} else {
		winStart, winEnd := period.TimestampWindow()
		query = `SELECT ` + r.selectColumns() + `
			FROM budgets
			WHERE user_id = $1 AND created_at >= $2 AND created_at < $3
			ORDER BY created_at;`
		args = []any{userID, winStart, winEnd}
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing budgets: %w", err)
	}
	defer rows.Close()

	var budgets []domain.Budget
	for rows.Next() {
		budget, err := scanBudget(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning budget: %w", err)
		}
		budgets = append(budgets, *budget)
	}
	return budgets, rows.Err()
}

func (r *PgxBudgetRepository) ExistsDuplicate(ctx context.Context, userID, categoryID, period string, periodRange domain.PeriodRange, excludeID string) (bool, error) {
	var query string
	var args []any
	if r.schema.HasRange {
		query = `SELECT EXISTS (
			SELECT 1 FROM budgets
			WHERE user_id = $1 AND category_id = $2 AND period = $3
			  AND period_start = $4 AND period_end = $5 AND budget_id <> $6);`
		args = []any{userID, categoryID, period, periodRange.Start, periodRange.End, excludeID}
	} else {
		winStart, winEnd := periodRange.TimestampWindow()
		query = `SELECT EXISTS (
			SELECT 1 FROM budgets
			WHERE user_id = $1 AND category_id = $2 AND period = $3
			  AND created_at >= $4 AND created_at < $5 AND budget_id <> $6);`
		args = []any{userID, categoryID, period, winStart, winEnd, excludeID}
	}

	var exists bool
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("checking budget uniqueness: %w", err)
	}
	return exists, nil
}

func (r *PgxBudgetRepository) UpdateBudget(ctx context.Context, budget domain.Budget) error {
	var query string
	var args []any
	if r.schema.HasRange {
		query = fmt.Sprintf(`
			UPDATE budgets
			SET category_id = $3, %s = $4, period_start = $5, period_end = $6, updated_at = $7
			WHERE budget_id = $1 AND user_id = $2;`, r.schema.AmountCol)
		args = []any{budget.BudgetID, budget.UserID, budget.CategoryID, budget.Amount,
			budget.PeriodStart, budget.PeriodEnd, budget.UpdatedAt}
	} else {
		query = fmt.Sprintf(`
			UPDATE budgets
			SET category_id = $3, %s = $4, updated_at = $5
			WHERE budget_id = $1 AND user_id = $2;`, r.schema.AmountCol)
		args = []any{budget.BudgetID, budget.UserID, budget.CategoryID, budget.Amount, budget.UpdatedAt}
	}

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return mapWriteError(err, "budget")
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: budget %s", apperrors.ErrNotFound, budget.BudgetID)
	}
	return nil
}

func (r *PgxBudgetRepository) DeleteBudget(ctx context.Context, userID, budgetID string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM budgets WHERE budget_id = $1 AND user_id = $2;`, budgetID, userID)
	if err != nil {
		return mapWriteError(err, "budget")
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: budget %s", apperrors.ErrNotFound, budgetID)
	}
	return nil
}
