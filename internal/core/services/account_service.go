package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/fintrackhq/fintrack_app/internal/core/domain"
	"github.com/fintrackhq/fintrack_app/internal/core/ports"
	"github.com/fintrackhq/fintrack_app/internal/dto"
)

// accountServiceImpl implements the AccountService interface
type accountServiceImpl struct {
	BaseService
	accountRepo ports.AccountRepository
}

// NewAccountService creates a new account service
func NewAccountService(repo ports.AccountRepository) ports.AccountService {
	return &accountServiceImpl{accountRepo: repo}
}

var _ ports.AccountService = (*accountServiceImpl)(nil)

func (s *accountServiceImpl) CreateAccount(ctx context.Context, userID string, req dto.CreateAccountRequest) (*domain.Account, error) {
	now := time.Now().UTC()
	account := domain.Account{
		AccountID: uuid.NewString(),
		UserID:    userID,
		Name:      req.Name,
		Type:      req.Type,
		BankName:  req.BankName,
		Balance:   req.Balance,
		AuditFields: domain.AuditFields{
			CreatedAt: now,
			UpdatedAt: now,
		},
	}
	account.NormalizeBankName()

	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		s.LogError(ctx, err, "Failed to save account", slog.String("account_id", account.AccountID))
		return nil, err
	}

	s.LogInfo(ctx, "Account created", slog.String("account_id", account.AccountID))
	return &account, nil
}

func (s *accountServiceImpl) GetAccount(ctx context.Context, userID, accountID string) (*domain.Account, error) {
	return s.accountRepo.FindAccountByID(ctx, userID, accountID)
}

func (s *accountServiceImpl) ListAccounts(ctx context.Context, userID string) ([]domain.Account, error) {
	return s.accountRepo.ListAccounts(ctx, userID)
}

func (s *accountServiceImpl) UpdateAccount(ctx context.Context, userID, accountID string, req dto.UpdateAccountRequest) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, userID, accountID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		account.Name = *req.Name
	}
	if req.Type != nil {
		account.Type = *req.Type
	}
	if req.BankName != nil {
		account.BankName = req.BankName
	}
	account.NormalizeBankName()
	account.UpdatedAt = time.Now().UTC()

	if err := s.accountRepo.UpdateAccount(ctx, *account); err != nil {
		s.LogError(ctx, err, "Failed to update account", slog.String("account_id", accountID))
		return nil, err
	}
	return account, nil
}

func (s *accountServiceImpl) DeleteAccount(ctx context.Context, userID, accountID string) error {
	if _, err := s.accountRepo.FindAccountByID(ctx, userID, accountID); err != nil {
		return err
	}
	if err := s.accountRepo.DeleteAccount(ctx, userID, accountID); err != nil {
		s.LogError(ctx, err, "Failed to delete account", slog.String("account_id", accountID))
		return err
	}
	s.LogInfo(ctx, "Account deleted", slog.String("account_id", accountID))
	return nil
}
