package pgsql

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/fintrackhq/fintrack_app/internal/apperrors"
)

// PostgreSQL error codes discriminated by the repositories.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgUndefinedTable      = "42P01"
	pgUndefinedColumn     = "42703"
)

// mapWriteError translates store-level write failures into the sentinel
// errors the services match on.
func mapWriteError(err error, entity string) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return fmt.Errorf("%w: %s", apperrors.ErrDuplicate, entity)
		case pgForeignKeyViolation:
			return fmt.Errorf("%w: %s", apperrors.ErrConstraintViolation, entity)
		}
	}
	return fmt.Errorf("saving %s: %w", entity, err)
}

// mapFindError translates read failures, turning an empty result into
// ErrNotFound.
func mapFindError(err error, entity string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%w: %s", apperrors.ErrNotFound, entity)
	}
	return fmt.Errorf("finding %s: %w", entity, err)
}
