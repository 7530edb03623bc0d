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

// PgxContributionRepository persists goal contributions against the resolved
// contribution schema. When the table carries no user_id column, ownership is
// enforced through the goal table instead.
type PgxContributionRepository struct {
	pool      *pgxpool.Pool
	schema    schema.ContributionSchema
	goalTable string
}

// newPgxContributionRepository creates a new repository for contribution data.
func newPgxContributionRepository(pool *pgxpool.Pool, sch schema.ContributionSchema, goalTable string) ports.ContributionRepository {
	return &PgxContributionRepository{pool: pool, schema: sch, goalTable: goalTable}
}

var _ ports.ContributionRepository = (*PgxContributionRepository)(nil)

// userScope returns a WHERE fragment binding the user id at the given
// placeholder position.
func (r *PgxContributionRepository) userScope(position int) string {
	p := "$" + strconv.Itoa(position)
	if r.schema.UserIDCol != "" {
		return r.schema.UserIDCol + " = " + p
	}
	return fmt.Sprintf("goal_id IN (SELECT goal_id FROM %s WHERE user_id = %s)", r.goalTable, p)
}

func (r *PgxContributionRepository) selectColumns() string {
	dateCol := "created_at"
	if r.schema.DateCol != "" {
		dateCol = r.schema.DateCol
	}
	return strings.Join([]string{
		"contribution_id",
		"goal_id",
		r.schema.AccountIDCol,
		"amount",
		dateCol,
		colOrNull(r.schema.DescriptionCol, "text"),
		"created_at",
		"updated_at",
	}, ", ")
}

func scanContribution(row pgx.Row, userID string) (*domain.GoalContribution, error) {
	var c domain.GoalContribution
	var description *string
	err := row.Scan(&c.ContributionID, &c.GoalID, &c.AccountID, &c.Amount, &c.Date, &description, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if description != nil {
		c.Description = *description
	}
	c.UserID = userID
	return &c, nil
}

func (r *PgxContributionRepository) SaveContribution(ctx context.Context, contribution domain.GoalContribution) error {
	cols := []string{"contribution_id", "goal_id", r.schema.AccountIDCol, "amount", "created_at", "updated_at"}
	args := []any{contribution.ContributionID, contribution.GoalID, contribution.AccountID,
		contribution.Amount, contribution.CreatedAt, contribution.UpdatedAt}

	addIfPresent := func(col string, value any) {
		if col != "" {
			cols = append(cols, col)
			args = append(args, value)
		}
	}
	addIfPresent(r.schema.UserIDCol, contribution.UserID)
	addIfPresent(r.schema.DateCol, contribution.Date)
	addIfPresent(r.schema.DescriptionCol, contribution.Description)

	placeholders := make([]string, len(cols))
	for i := range cols {
		placeholders[i] = "$" + strconv.Itoa(i+1)
	}
	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s);",
		r.schema.Table, strings.Join(cols, ", "), strings.Join(placeholders, ", "))

	if _, err := r.pool.Exec(ctx, query, args...); err != nil {
		return mapWriteError(err, "contribution")
	}
	return nil
}

func (r *PgxContributionRepository) FindContributionByID(ctx context.Context, userID, goalID, contributionID string) (*domain.GoalContribution, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE contribution_id = $1 AND goal_id = $2 AND %s;",
		r.selectColumns(), r.schema.Table, r.userScope(3))
	contribution, err := scanContribution(r.pool.QueryRow(ctx, query, contributionID, goalID, userID), userID)
	if err != nil {
		return nil, mapFindError(err, "contribution "+contributionID)
	}
	return contribution, nil
}

func (r *PgxContributionRepository) ListContributions(ctx context.Context, userID, goalID string) ([]domain.GoalContribution, error) {
	orderCol := "created_at"
	if r.schema.DateCol != "" {
		orderCol = r.schema.DateCol
	}
	query := fmt.Sprintf("SELECT %s FROM %s WHERE goal_id = $1 AND %s ORDER BY %s DESC;",
		r.selectColumns(), r.schema.Table, r.userScope(2), orderCol)

	rows, err := r.pool.Query(ctx, query, goalID, userID)
	if err != nil {
		return nil, fmt.Errorf("listing contributions: %w", err)
	}
	defer rows.Close()

	var contributions []domain.GoalContribution
	for rows.Next() {
		contribution, err := scanContribution(rows, userID)
		if err != nil {
			return nil, fmt.Errorf("scanning contribution: %w", err)
		}
		contributions = append(contributions, *contribution)
	}
	return contributions, rows.Err()
}

func (r *PgxContributionRepository) SumAmountsByGoal(ctx context.Context, userID string, goalIDs []string) (map[string]int64, error) {
	query := fmt.Sprintf("SELECT goal_id, COALESCE(SUM(amount), 0) FROM %s WHERE goal_id = ANY($1) AND %s GROUP BY goal_id;",
		r.schema.Table, r.userScope(2))

	rows, err := r.pool.Query(ctx, query, goalIDs, userID)
	if err != nil {
		return nil, fmt.Errorf("summing contributions: %w", err)
	}
	defer rows.Close()

	sums := make(map[string]int64, len(goalIDs))
	for rows.Next() {
		var goalID string
		var sum int64
		if err := rows.Scan(&goalID, &sum); err != nil {
			return nil, fmt.Errorf("scanning contribution sum: %w", err)
		}
		sums[goalID] = sum
	}
	return sums, rows.Err()
}

func (r *PgxContributionRepository) UpdateContribution(ctx context.Context, contribution domain.GoalContribution) error {
	sets := []string{r.schema.AccountIDCol + " = $3", "amount = $4", "updated_at = $5"}
	args := []any{contribution.ContributionID, contribution.GoalID, contribution.AccountID,
		contribution.Amount, contribution.UpdatedAt}

	addIfPresent := func(col string, value any) {
		if col != "" {
			args = append(args, value)
			sets = append(sets, col+" = $"+strconv.Itoa(len(args)))
		}
	}
	addIfPresent(r.schema.DateCol, contribution.Date)
	addIfPresent(r.schema.DescriptionCol, contribution.Description)

	args = append(args, contribution.UserID)
	query := fmt.Sprintf("UPDATE %s SET %s WHERE contribution_id = $1 AND goal_id = $2 AND %s;",
		r.schema.Table, strings.Join(sets, ", "), r.userScope(len(args)))

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return mapWriteError(err, "contribution")
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: contribution %s", apperrors.ErrNotFound, contribution.ContributionID)
	}
	return nil
}

func (r *PgxContributionRepository) DeleteContribution(ctx context.Context, userID, goalID, contributionID string) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE contribution_id = $1 AND goal_id = $2 AND %s;",
		r.schema.Table, r.userScope(3))
	tag, err := r.pool.Exec(ctx, query, contributionID, goalID, userID)
	if err != nil {
		return mapWriteError(err, "contribution")
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: contribution %s", apperrors.ErrNotFound, contributionID)
	}
	return nil
}
