package ports

import (
	"context"

	"github.com/fintrackhq/fintrack_app/internal/core/domain"
	"github.com/fintrackhq/fintrack_app/internal/dto"
)

// AccountService manages money accounts.
type AccountService interface {
	CreateAccount(ctx context.Context, userID string, req dto.CreateAccountRequest) (*domain.Account, error)
	GetAccount(ctx context.Context, userID, accountID string) (*domain.Account, error)
	ListAccounts(ctx context.Context, userID string) ([]domain.Account, error)
	UpdateAccount(ctx context.Context, userID, accountID string, req dto.UpdateAccountRequest) (*domain.Account, error)
	DeleteAccount(ctx context.Context, userID, accountID string) error
}

// CategoryService manages transaction categories.
type CategoryService interface {
	CreateCategory(ctx context.Context, userID string, req dto.CreateCategoryRequest) (*domain.Category, error)
	ListCategories(ctx context.Context, userID string, typeFilter *domain.FlowType) ([]domain.Category, map[string]int64, error)
	UpdateCategory(ctx context.Context, userID, categoryID string, req dto.UpdateCategoryRequest) (*domain.Category, error)
	DeleteCategory(ctx context.Context, userID, categoryID string) error
}

// TransactionService manages transactions and their balance side effects.
type TransactionService interface {
	CreateTransaction(ctx context.Context, userID string, req dto.CreateTransactionRequest) (*domain.Transaction, error)
	ListTransactions(ctx context.Context, userID string, filter domain.TransactionFilter) ([]domain.TransactionDetail, error)
	UpdateTransaction(ctx context.Context, userID, transactionID string, req dto.UpdateTransactionRequest) (*domain.Transaction, error)
	DeleteTransaction(ctx context.Context, userID, transactionID string) error
}

// BudgetService manages budgets and their derived progress.
type BudgetService interface {
	CreateBudget(ctx context.Context, userID string, req dto.CreateBudgetRequest) (*domain.BudgetProgress, error)
	GetBudget(ctx context.Context, userID, budgetID string) (*domain.BudgetProgress, error)
	ListBudgets(ctx context.Context, userID, month string) ([]domain.BudgetProgress, domain.BudgetSummary, error)
	UpdateBudget(ctx context.Context, userID, budgetID string, req dto.UpdateBudgetRequest) (*domain.BudgetProgress, error)
	DeleteBudget(ctx context.Context, userID, budgetID string) error
}

// GoalService manages savings goals and their contributions. Goal reads come
// back with SavedAmount populated and Status resolved for display.
type GoalService interface {
	CreateGoal(ctx context.Context, userID string, req dto.CreateGoalRequest) (*domain.Goal, error)
	GetGoal(ctx context.Context, userID, goalID string) (*domain.Goal, error)
	ListGoals(ctx context.Context, userID string) ([]domain.Goal, error)
	UpdateGoal(ctx context.Context, userID, goalID string, req dto.UpdateGoalRequest) (*domain.Goal, error)
	DeleteGoal(ctx context.Context, userID, goalID string) error

	CreateContribution(ctx context.Context, userID, goalID string, req dto.CreateContributionRequest) (*domain.GoalContribution, error)
	ListContributions(ctx context.Context, userID, goalID string) ([]domain.GoalContribution, error)
	UpdateContribution(ctx context.Context, userID, goalID, contributionID string, req dto.UpdateContributionRequest) (*domain.GoalContribution, error)
	DeleteContribution(ctx context.Context, userID, goalID, contributionID string) error
}

// ServiceContainer bundles the service set handed to the HTTP layer.
type ServiceContainer struct {
	Account     AccountService
	Category    CategoryService
	Transaction TransactionService
	Budget      BudgetService
	Goal        GoalService
	User        UserService
}

// UserService registers users and verifies credentials.
type UserService interface {
	Register(ctx context.Context, req dto.RegisterRequest) (*domain.User, string, error)
	Login(ctx context.Context, req dto.LoginRequest) (*domain.User, string, error)
}
