package pgsql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fintrackhq/fintrack_app/internal/core/ports"
	"github.com/fintrackhq/fintrack_app/internal/core/schema"
)

// NewRepositoryProvider probes the live schema once and builds the repository
// set against whatever table/column variants it finds. A failed goal or
// budget capability resolution is fatal here, before the server starts
// serving requests.
func NewRepositoryProvider(ctx context.Context, dbPool *pgxpool.Pool) (ports.RepositoryProvider, error) {
	detector := schema.NewDetector(NewPgxSchemaProber(dbPool))

	goalSchema, err := schema.ResolveGoalSchema(ctx, detector)
	if err != nil {
		return ports.RepositoryProvider{}, fmt.Errorf("resolving goal schema: %w", err)
	}
	contributionSchema, err := schema.ResolveContributionSchema(ctx, detector)
	if err != nil {
		return ports.RepositoryProvider{}, fmt.Errorf("resolving contribution schema: %w", err)
	}
	budgetSchema, err := schema.ResolveBudgetSchema(ctx, detector)
	if err != nil {
		return ports.RepositoryProvider{}, fmt.Errorf("resolving budget schema: %w", err)
	}

	return ports.RepositoryProvider{
		AccountRepo:      newPgxAccountRepository(dbPool),
		CategoryRepo:     newPgxCategoryRepository(dbPool),
		TransactionRepo:  newPgxTransactionRepository(dbPool),
		BudgetRepo:       newPgxBudgetRepository(dbPool, budgetSchema),
		GoalRepo:         newPgxGoalRepository(dbPool, goalSchema),
		ContributionRepo: newPgxContributionRepository(dbPool, contributionSchema, goalSchema.Table),
		UserRepo:         newPgxUserRepository(dbPool),
	}, nil
}
