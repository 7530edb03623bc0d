package ports

import (
	"context"
	"time"

	"github.com/fintrackhq/fintrack_app/internal/core/domain"
)

// AccountRepository persists accounts. Every operation is scoped by the
// owning user id in addition to the entity id.
type AccountRepository interface {
	SaveAccount(ctx context.Context, account domain.Account) error
	FindAccountByID(ctx context.Context, userID, accountID string) (*domain.Account, error)
	ListAccounts(ctx context.Context, userID string) ([]domain.Account, error)
	UpdateAccount(ctx context.Context, account domain.Account) error
	// DeleteAccount fails with ErrConstraintViolation while transactions or
	// contributions still reference the account.
	DeleteAccount(ctx context.Context, userID, accountID string) error
	// UpdateBalance is the conditional balance update primitive. When expected
	// is non-nil the write only succeeds if the stored balance still equals
	// *expected; a lost race yields ErrConcurrentModification. A nil expected
	// performs an unconditional write, used only for saga compensation.
	UpdateBalance(ctx context.Context, userID, accountID string, expected *int64, newBalance int64) error
}

// CategoryRepository persists categories.
type CategoryRepository interface {
	SaveCategory(ctx context.Context, category domain.Category) error
	FindCategoryByID(ctx context.Context, userID, categoryID string) (*domain.Category, error)
	FindCategoriesByIDs(ctx context.Context, userID string, categoryIDs []string) (map[string]domain.Category, error)
	ListCategories(ctx context.Context, userID string, typeFilter *domain.FlowType) ([]domain.Category, error)
	UpdateCategory(ctx context.Context, category domain.Category) error
	DeleteCategory(ctx context.Context, userID, categoryID string) error
}

// TransactionRepository persists transactions and answers the aggregate
// queries the budget and category engines need.
type TransactionRepository interface {
	SaveTransaction(ctx context.Context, txn domain.Transaction) error
	FindTransactionByID(ctx context.Context, userID, transactionID string) (*domain.Transaction, error)
	ListTransactions(ctx context.Context, userID string, filter domain.TransactionFilter) ([]domain.TransactionDetail, error)
	UpdateTransaction(ctx context.Context, txn domain.Transaction) error
	DeleteTransaction(ctx context.Context, userID, transactionID string) error
	CountByCategory(ctx context.Context, userID, categoryID string) (int64, error)
	CountsByCategory(ctx context.Context, userID string) (map[string]int64, error)
	// ListExpensesInRange fetches expense transactions for the given
	// categories within [from, to], one batched query for a whole budget page.
	ListExpensesInRange(ctx context.Context, userID string, categoryIDs []string, from, to time.Time) ([]domain.Transaction, error)
}

// BudgetRepository persists budgets, hiding the degraded created_at fallback
// used when the schema lacks persisted range columns.
type BudgetRepository interface {
	// SupportsPeriodRange reports whether period_start/period_end are persisted.
	SupportsPeriodRange() bool
	SaveBudget(ctx context.Context, budget domain.Budget) error
	FindBudgetByID(ctx context.Context, userID, budgetID string) (*domain.Budget, error)
	ListBudgetsForPeriod(ctx context.Context, userID string, r domain.PeriodRange) ([]domain.Budget, error)
	// ExistsDuplicate reports whether another budget holds the same
	// (category, period, range), keyed on creation month in degraded mode.
	ExistsDuplicate(ctx context.Context, userID, categoryID, period string, r domain.PeriodRange, excludeID string) (bool, error)
	UpdateBudget(ctx context.Context, budget domain.Budget) error
	DeleteBudget(ctx context.Context, userID, budgetID string) error
}

// GoalRepository persists savings goals against whichever historical goal
// schema the detector resolved.
type GoalRepository interface {
	// SupportsProgressView reports whether a live aggregation view supplies
	// saved_amount directly.
	SupportsProgressView() bool
	// SupportsStatus reports whether a persisted status column exists.
	SupportsStatus() bool
	SaveGoal(ctx context.Context, goal domain.Goal) error
	FindGoalByID(ctx context.Context, userID, goalID string) (*domain.Goal, error)
	ListGoals(ctx context.Context, userID string) ([]domain.Goal, error)
	// FindGoalWithProgress and ListGoalsWithProgress read from the progress
	// view; callers must check SupportsProgressView first.
	FindGoalWithProgress(ctx context.Context, userID, goalID string) (*domain.Goal, error)
	ListGoalsWithProgress(ctx context.Context, userID string) ([]domain.Goal, error)
	UpdateGoal(ctx context.Context, goal domain.Goal) error
	// UpdateGoalStatus persists the recomputed status; no-op guard is the
	// caller's responsibility via SupportsStatus.
	UpdateGoalStatus(ctx context.Context, userID, goalID string, status domain.GoalStatus) error
	DeleteGoal(ctx context.Context, userID, goalID string) error
}

// ContributionRepository persists goal contributions.
type ContributionRepository interface {
	SaveContribution(ctx context.Context, c domain.GoalContribution) error
	FindContributionByID(ctx context.Context, userID, goalID, contributionID string) (*domain.GoalContribution, error)
	ListContributions(ctx context.Context, userID, goalID string) ([]domain.GoalContribution, error)
	SumAmountsByGoal(ctx context.Context, userID string, goalIDs []string) (map[string]int64, error)
	UpdateContribution(ctx context.Context, c domain.GoalContribution) error
	DeleteContribution(ctx context.Context, userID, goalID, contributionID string) error
}

// RepositoryProvider bundles the repository set handed to the services.
type RepositoryProvider struct {
	AccountRepo      AccountRepository
	CategoryRepo     CategoryRepository
	TransactionRepo  TransactionRepository
	BudgetRepo       BudgetRepository
	GoalRepo         GoalRepository
	ContributionRepo ContributionRepository
	UserRepo         UserRepository
}

// UserRepository persists users for the auth layer.
type UserRepository interface {
	SaveUser(ctx context.Context, user domain.User) error
	FindUserByEmail(ctx context.Context, email string) (*domain.User, error)
	FindUserByID(ctx context.Context, userID string) (*domain.User, error)
}
