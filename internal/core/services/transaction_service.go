package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/fintrackhq/fintrack_app/internal/apperrors"
	"github.com/fintrackhq/fintrack_app/internal/core/domain"
	"github.com/fintrackhq/fintrack_app/internal/core/ports"
	"github.com/fintrackhq/fintrack_app/internal/dto"
)

// transactionServiceImpl implements the TransactionService interface. Every
// mutation is a compensating saga: validate, conditional balance write, row
// write, and an unconditional balance revert if the row write fails. The
// conditional write is keyed on the balance read at validation time, so a
// concurrent mutation of the same account loses with ErrConcurrentModification
// and is never silently absorbed.
type transactionServiceImpl struct {
	BaseService
	transactionRepo ports.TransactionRepository
	accountRepo     ports.AccountRepository
	categoryRepo    ports.CategoryRepository
}

// NewTransactionService creates a new transaction service
func NewTransactionService(transactionRepo ports.TransactionRepository, accountRepo ports.AccountRepository, categoryRepo ports.CategoryRepository) ports.TransactionService {
	return &transactionServiceImpl{
		transactionRepo: transactionRepo,
		accountRepo:     accountRepo,
		categoryRepo:    categoryRepo,
	}
}

var _ ports.TransactionService = (*transactionServiceImpl)(nil)

func (s *transactionServiceImpl) CreateTransaction(ctx context.Context, userID string, req dto.CreateTransactionRequest) (*domain.Transaction, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, userID, req.AccountID)
	if err != nil {
		return nil, err
	}
	category, err := s.categoryRepo.FindCategoryByID(ctx, userID, req.CategoryID)
	if err != nil {
		return nil, err
	}
	if req.Type != category.Type {
		return nil, fmt.Errorf("%w: %s transaction against %s category %q", apperrors.ErrTypeMismatch, req.Type, category.Type, category.Name)
	}

	date, err := dto.ParseDate(req.Date)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid date %q", apperrors.ErrValidation, req.Date)
	}

	impact := domain.SignedImpact(req.Type, req.Amount)
	newBalance := account.Balance + impact
	if newBalance < 0 {
		return nil, fmt.Errorf("%w: account %s would go to %d", apperrors.ErrInsufficientBalance, account.AccountID, newBalance)
	}

	expected := account.Balance
	if err := s.accountRepo.UpdateBalance(ctx, userID, account.AccountID, &expected, newBalance); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	txn := domain.Transaction{
		TransactionID: uuid.NewString(),
		UserID:        userID,
		AccountID:     req.AccountID,
		CategoryID:    req.CategoryID,
		Type:          req.Type,
		Amount:        req.Amount,
		Description:   req.Description,
		Date:          date,
		AuditFields: domain.AuditFields{
			CreatedAt: now,
			UpdatedAt: now,
		},
	}
	if err := s.transactionRepo.SaveTransaction(ctx, txn); err != nil {
		return nil, s.revertBalance(ctx, userID, account.AccountID, expected, err)
	}

	s.LogInfo(ctx, "Transaction created",
		slog.String("transaction_id", txn.TransactionID),
		slog.String("account_id", txn.AccountID),
		slog.Int64("balance_impact", impact))
	return &txn, nil
}

func (s *transactionServiceImpl) ListTransactions(ctx context.Context, userID string, filter domain.TransactionFilter) ([]domain.TransactionDetail, error) {
	return s.transactionRepo.ListTransactions(ctx, userID, filter)
}

func (s *transactionServiceImpl) UpdateTransaction(ctx context.Context, userID, transactionID string, req dto.UpdateTransactionRequest) (*domain.Transaction, error) {
	txn, err := s.transactionRepo.FindTransactionByID(ctx, userID, transactionID)
	if err != nil {
		return nil, err
	}
	account, err := s.accountRepo.FindAccountByID(ctx, userID, txn.AccountID)
	if err != nil {
		return nil, err
	}

	previousImpact := txn.SignedImpact()

	// Merge update fields into a prospective transaction.
	merged := *txn
	if req.CategoryID != nil {
		merged.CategoryID = *req.CategoryID
	}
	if req.Type != nil {
		merged.Type = *req.Type
	}
	if req.Amount != nil {
		merged.Amount = *req.Amount
	}
	if req.Description != nil {
		merged.Description = *req.Description
	}
	if req.Date != nil {
		d, err := dto.ParseDate(*req.Date)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid date %q", apperrors.ErrValidation, *req.Date)
		}
		merged.Date = d
	}

	category, err := s.categoryRepo.FindCategoryByID(ctx, userID, merged.CategoryID)
	if err != nil {
		return nil, err
	}
	if merged.Type != category.Type {
		return nil, fmt.Errorf("%w: %s transaction against %s category %q", apperrors.ErrTypeMismatch, merged.Type, category.Type, category.Name)
	}

	newBalance := account.Balance - previousImpact + merged.SignedImpact()
	if newBalance < 0 {
		return nil, fmt.Errorf("%w: account %s would go to %d", apperrors.ErrInsufficientBalance, account.AccountID, newBalance)
	}

	expected := account.Balance
	if err := s.accountRepo.UpdateBalance(ctx, userID, account.AccountID, &expected, newBalance); err != nil {
		return nil, err
	}

	merged.UpdatedAt = time.Now().UTC()
	if err := s.transactionRepo.UpdateTransaction(ctx, merged); err != nil {
		return nil, s.revertBalance(ctx, userID, account.AccountID, expected, err)
	}
	return &merged, nil
}

func (s *transactionServiceImpl) DeleteTransaction(ctx context.Context, userID, transactionID string) error {
	txn, err := s.transactionRepo.FindTransactionByID(ctx, userID, transactionID)
	if err != nil {
		return err
	}
	account, err := s.accountRepo.FindAccountByID(ctx, userID, txn.AccountID)
	if err != nil {
		return err
	}

	newBalance := account.Balance - txn.SignedImpact()
	if newBalance < 0 {
		// Other signed changes now depend on this income; removing it would
		// drive the balance negative.
		return fmt.Errorf("%w: account %s would go to %d", apperrors.ErrInsufficientBalance, account.AccountID, newBalance)
	}

	expected := account.Balance
	if err := s.accountRepo.UpdateBalance(ctx, userID, account.AccountID, &expected, newBalance); err != nil {
		return err
	}

	if err := s.transactionRepo.DeleteTransaction(ctx, userID, transactionID); err != nil {
		return s.revertBalance(ctx, userID, account.AccountID, expected, err)
	}

	s.LogInfo(ctx, "Transaction deleted",
		slog.String("transaction_id", transactionID),
		slog.String("account_id", account.AccountID))
	return nil
}

// revertBalance is the saga compensation step: restore the balance that held
// before the conditional write, unconditionally. If even that fails the
// account is recorded-inconsistent, which is logged distinctly and surfaced
// as ErrCompensationFailed without masking the original cause.
func (s *transactionServiceImpl) revertBalance(ctx context.Context, userID, accountID string, balance int64, cause error) error {
	if compErr := s.accountRepo.UpdateBalance(ctx, userID, accountID, nil, balance); compErr != nil {
		s.LogError(ctx, compErr, "Balance compensation failed, account left inconsistent",
			slog.String("account_id", accountID),
			slog.Int64("expected_balance", balance),
			slog.String("original_error", cause.Error()))
		return fmt.Errorf("%w: restoring account %s to %d: %v; original: %w", apperrors.ErrCompensationFailed, accountID, balance, compErr, cause)
	}
	return cause
}
