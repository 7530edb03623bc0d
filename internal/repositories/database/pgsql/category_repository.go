package pgsql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fintrackhq/fintrack_app/internal/apperrors"
	"github.com/fintrackhq/fintrack_app/internal/core/domain"
	"github.com/fintrackhq/fintrack_app/internal/core/ports"
)

type PgxCategoryRepository struct {
	pool *pgxpool.Pool
}

// newPgxCategoryRepository creates a new repository for category data.
func newPgxCategoryRepository(pool *pgxpool.Pool) ports.CategoryRepository {
	return &PgxCategoryRepository{pool: pool}
}

var _ ports.CategoryRepository = (*PgxCategoryRepository)(nil)

const categoryColumns = `category_id, user_id, name, type, color, icon, is_active, created_at, updated_at`

func scanCategory(row pgx.Row) (*domain.Category, error) {
	var c domain.Category
	err := row.Scan(&c.CategoryID, &c.UserID, &c.Name, &c.Type, &c.Color, &c.Icon, &c.IsActive, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *PgxCategoryRepository) SaveCategory(ctx context.Context, category domain.Category) error {
	query := `
		INSERT INTO categories (category_id, user_id, name, type, color, icon, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	_, err := r.pool.Exec(ctx, query,
		category.CategoryID,
		category.UserID,
		category.Name,
		category.Type,
		category.Color,
		category.Icon,
		category.IsActive,
		category.CreatedAt,
		category.UpdatedAt,
	)
	if err != nil {
		return mapWriteError(err, "category")
	}
	return nil
}

func (r *PgxCategoryRepository) FindCategoryByID(ctx context.Context, userID, categoryID string) (*domain.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories WHERE category_id = $1 AND user_id = $2;`
	category, err := scanCategory(r.pool.QueryRow(ctx, query, categoryID, userID))
	if err != nil {
		return nil, mapFindError(err, "category "+categoryID)
	}
	return category, nil
}

func (r *PgxCategoryRepository) FindCategoriesByIDs(ctx context.Context, userID string, categoryIDs []string) (map[string]domain.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories WHERE user_id = $1 AND category_id = ANY($2);`
	rows, err := r.pool.Query(ctx, query, userID, categoryIDs)
	if err != nil {
		return nil, fmt.Errorf("finding categories: %w", err)
	}
	defer rows.Close()

	result := make(map[string]domain.Category, len(categoryIDs))
	for rows.Next() {
		category, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning category: %w", err)
		}
		result[category.CategoryID] = *category
	}
	return result, rows.Err()
}

func (r *PgxCategoryRepository) ListCategories(ctx context.Context, userID string, typeFilter *domain.FlowType) ([]domain.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories WHERE user_id = $1`
	args := []any{userID}
	if typeFilter != nil {
		query += ` AND type = $2`
		args = append(args, *typeFilter)
	}
	query += ` ORDER BY name;`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing categories: %w", err)
	}
	defer rows.Close()

	var categories []domain.Category
	for rows.Next() {
		category, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning category: %w", err)
		}
		categories = append(categories, *category)
	}
	return categories, rows.Err()
}

func (r *PgxCategoryRepository) UpdateCategory(ctx context.Context, category domain.Category) error {
	query := `
		UPDATE categories
		SET name = $3, type = $4, color = $5, icon = $6, is_active = $7, updated_at = $8
		WHERE category_id = $1 AND user_id = $2;
	`
	tag, err := r.pool.Exec(ctx, query,
		category.CategoryID,
		category.UserID,
		category.Name,
		category.Type,
		category.Color,
		category.Icon,
		category.IsActive,
		category.UpdatedAt,
	)
	if err != nil {
		return mapWriteError(err, "category")
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: category %s", apperrors.ErrNotFound, category.CategoryID)
	}
	return nil
}

func (r *PgxCategoryRepository) DeleteCategory(ctx context.Context, userID, categoryID string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM categories WHERE category_id = $1 AND user_id = $2;`, categoryID, userID)
	if err != nil {
		return mapWriteError(err, "category")
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: category %s", apperrors.ErrNotFound, categoryID)
	}
	return nil
}
