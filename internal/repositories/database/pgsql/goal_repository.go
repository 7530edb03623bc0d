package pgsql

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fintrackhq/fintrack_app/internal/apperrors"
	"github.com/fintrackhq/fintrack_app/internal/core/domain"
	"github.com/fintrackhq/fintrack_app/internal/core/ports"
	"github.com/fintrackhq/fintrack_app/internal/core/schema"
)

// PgxGoalRepository persists savings goals against the resolved goal schema.
// Statements are assembled once from the detected table/column names; absent
// optional columns read back as typed NULLs so the scan order stays fixed.
type PgxGoalRepository struct {
	pool   *pgxpool.Pool
	schema schema.GoalSchema
}

// newPgxGoalRepository creates a new repository for goal data.
func newPgxGoalRepository(pool *pgxpool.Pool, sch schema.GoalSchema) ports.GoalRepository {
	return &PgxGoalRepository{pool: pool, schema: sch}
}

var _ ports.GoalRepository = (*PgxGoalRepository)(nil)

func (r *PgxGoalRepository) SupportsProgressView() bool {
	return r.schema.HasProgressView()
}

func (r *PgxGoalRepository) SupportsStatus() bool {
	return r.schema.HasStatus()
}

func colOrNull(col, cast string) string {
	if col == "" {
		return "NULL::" + cast
	}
	return col
}

func (r *PgxGoalRepository) selectColumns(withSaved bool) string {
	cols := []string{
		"goal_id",
		"user_id",
		"name",
		r.schema.TargetAmountCol,
		colOrNull(r.schema.StartDateCol, "date"),
		colOrNull(r.schema.TargetDateCol, "date"),
		colOrNull(r.schema.FrequencyCol, "text"),
		colOrNull(r.schema.DescriptionCol, "text"),
		colOrNull(r.schema.StatusCol, "text"),
		colOrNull(r.schema.AccountIDCol, "text"),
		"created_at",
		"updated_at",
	}
	if withSaved {
		cols = append(cols, "saved_amount")
	}
	return strings.Join(cols, ", ")
}

func scanGoal(row pgx.Row, withSaved bool) (*domain.Goal, error) {
	var g domain.Goal
	var frequency, description, status *string
	dest := []any{
		&g.GoalID, &g.UserID, &g.Name, &g.TargetAmount,
		&g.StartDate, &g.TargetDate, &frequency, &description, &status, &g.AccountID,
		&g.CreatedAt, &g.UpdatedAt,
	}
	if withSaved {
		dest = append(dest, &g.SavedAmount)
	}
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	if frequency != nil {
		g.Frequency = *frequency
	}
	if description != nil {
		g.Description = *description
	}
	g.Status = domain.GoalActive
	if status != nil && *status != "" {
		g.Status = domain.GoalStatus(*status)
	}
	return &g, nil
}

func (r *PgxGoalRepository) SaveGoal(ctx context.Context, goal domain.Goal) error {
	cols := []string{"goal_id", "user_id", "name", r.schema.TargetAmountCol, "created_at", "updated_at"}
	args := []any{goal.GoalID, goal.UserID, goal.Name, goal.TargetAmount, goal.CreatedAt, goal.UpdatedAt}

	addIfPresent := func(col string, value any) {
		if col != "" {
			cols = append(cols, col)
			args = append(args, value)
		}
	}
	addIfPresent(r.schema.StartDateCol, goal.StartDate)
	addIfPresent(r.schema.TargetDateCol, goal.TargetDate)
	addIfPresent(r.schema.FrequencyCol, goal.Frequency)
	addIfPresent(r.schema.DescriptionCol, goal.Description)
	addIfPresent(r.schema.StatusCol, goal.Status)
	addIfPresent(r.schema.AccountIDCol, goal.AccountID)

	placeholders := make([]string, len(cols))
	for i := range cols {
		placeholders[i] = "$" + strconv.Itoa(i+1)
	}
	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s);",
		r.schema.Table, strings.Join(cols, ", "), strings.Join(placeholders, ", "))

	if _, err := r.pool.Exec(ctx, query, args...); err != nil {
		return mapWriteError(err, "goal")
	}
	return nil
}

func (r *PgxGoalRepository) FindGoalByID(ctx context.Context, userID, goalID string) (*domain.Goal, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE goal_id = $1 AND user_id = $2;",
		r.selectColumns(false), r.schema.Table)
	goal, err := scanGoal(r.pool.QueryRow(ctx, query, goalID, userID), false)
	if err != nil {
		return nil, mapFindError(err, "goal "+goalID)
	}
	return goal, nil
}

func (r *PgxGoalRepository) ListGoals(ctx context.Context, userID string) ([]domain.Goal, error) {
	return r.listFrom(ctx, r.schema.Table, userID, false)
}

func (r *PgxGoalRepository) FindGoalWithProgress(ctx context.Context, userID, goalID string) (*domain.Goal, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE goal_id = $1 AND user_id = $2;",
		r.selectColumns(true), r.schema.ProgressView)
	goal, err := scanGoal(r.pool.QueryRow(ctx, query, goalID, userID), true)
	if err != nil {
		return nil, mapFindError(err, "goal "+goalID)
	}
	return goal, nil
}

func (r *PgxGoalRepository) ListGoalsWithProgress(ctx context.Context, userID string) ([]domain.Goal, error) {
	return r.listFrom(ctx, r.schema.ProgressView, userID, true)
}

func (r *PgxGoalRepository) listFrom(ctx context.Context, relation, userID string, withSaved bool) ([]domain.Goal, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE user_id = $1 ORDER BY created_at;",
		r.selectColumns(withSaved), relation)
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("listing goals: %w", err)
	}
	defer rows.Close()

	var goals []domain.Goal
	for rows.Next() {
		goal, err := scanGoal(rows, withSaved)
		if err != nil {
			return nil, fmt.Errorf("scanning goal: %w", err)
		}
		goals = append(goals, *goal)
	}
	return goals, rows.Err()
}

func (r *PgxGoalRepository) UpdateGoal(ctx context.Context, goal domain.Goal) error {
	sets := []string{"name = $3", r.schema.TargetAmountCol + " = $4", "updated_at = $5"}
	args := []any{goal.GoalID, goal.UserID, goal.Name, goal.TargetAmount, goal.UpdatedAt}

	addIfPresent := func(col string, value any) {
		if col != "" {
			args = append(args, value)
			sets = append(sets, col+" = $"+strconv.Itoa(len(args)))
		}
	}
	addIfPresent(r.schema.StartDateCol, goal.StartDate)
	addIfPresent(r.schema.TargetDateCol, goal.TargetDate)
	addIfPresent(r.schema.FrequencyCol, goal.Frequency)
	addIfPresent(r.schema.DescriptionCol, goal.Description)
	addIfPresent(r.schema.StatusCol, goal.Status)
	addIfPresent(r.schema.AccountIDCol, goal.AccountID)

	query := fmt.Sprintf("UPDATE %s SET %s WHERE goal_id = $1 AND user_id = $2;",
		r.schema.Table, strings.Join(sets, ", "))
	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return mapWriteError(err, "goal")
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: goal %s", apperrors.ErrNotFound, goal.GoalID)
	}
	return nil
}

func (r *PgxGoalRepository) UpdateGoalStatus(ctx context.Context, userID, goalID string, status domain.GoalStatus) error {
	if !r.schema.HasStatus() {
		return fmt.Errorf("%w: no status column on %s", apperrors.ErrSchemaUnsupported, r.schema.Table)
	}
	query := fmt.Sprintf("UPDATE %s SET %s = $3, updated_at = now() WHERE goal_id = $1 AND user_id = $2;",
		r.schema.Table, r.schema.StatusCol)
	tag, err := r.pool.Exec(ctx, query, goalID, userID, status)
	if err != nil {
		return mapWriteError(err, "goal status")
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: goal %s", apperrors.ErrNotFound, goalID)
	}
	return nil
}

func (r *PgxGoalRepository) DeleteGoal(ctx context.Context, userID, goalID string) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE goal_id = $1 AND user_id = $2;", r.schema.Table)
	tag, err := r.pool.Exec(ctx, query, goalID, userID)
	if err != nil {
		return mapWriteError(err, "goal")
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: goal %s", apperrors.ErrNotFound, goalID)
	}
	return nil
}
