package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fintrackhq/fintrack_app/internal/core/schema"
)

// PgxSchemaProber probes table and column existence with zero-row selects,
// discriminating missing relations/columns on the PostgreSQL error codes.
type PgxSchemaProber struct {
	pool *pgxpool.Pool
}

// NewPgxSchemaProber creates a prober backed by the given pool.
func NewPgxSchemaProber(pool *pgxpool.Pool) *PgxSchemaProber {
	return &PgxSchemaProber{pool: pool}
}

var _ schema.Prober = (*PgxSchemaProber)(nil)

// ProbeTable checks that a table or view exists.
func (p *PgxSchemaProber) ProbeTable(ctx context.Context, table string) error {
	query := fmt.Sprintf("SELECT 1 FROM %s LIMIT 0", pgx.Identifier{table}.Sanitize())
	rows, err := p.pool.Query(ctx, query)
	if err != nil {
		return classifyProbeError(err, table, "")
	}
	rows.Close()
	return rows.Err()
}

// ProbeColumn checks that a column exists on a table.
func (p *PgxSchemaProber) ProbeColumn(ctx context.Context, table, column string) error {
	query := fmt.Sprintf("SELECT %s FROM %s LIMIT 0",
		pgx.Identifier{column}.Sanitize(), pgx.Identifier{table}.Sanitize())
	rows, err := p.pool.Query(ctx, query)
	if err != nil {
		return classifyProbeError(err, table, column)
	}
	rows.Close()
	return rows.Err()
}

func classifyProbeError(err error, table, column string) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUndefinedTable:
			return fmt.Errorf("%w: %s", schema.ErrMissingRelation, table)
		case pgUndefinedColumn:
			return fmt.Errorf("%w: %s.%s", schema.ErrMissingColumn, table, column)
		}
	}
	return err
}
