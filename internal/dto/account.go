package dto

import (
	"time"

	"github.com/fintrackhq/fintrack_app/internal/core/domain"
)

// CreateAccountRequest defines the data needed to create a new account.
type CreateAccountRequest struct {
	Name     string             `json:"name" binding:"required"`
	Type     domain.AccountType `json:"type" binding:"required,oneof=cash bank credit savings investment other"`
	BankName *string            `json:"bankName"`
	Balance  int64              `json:"balance" binding:"gte=0"`
}

// UpdateAccountRequest defines the data allowed for updating an account.
// Pointers distinguish omitted fields from zero-value updates. The balance is
// deliberately absent: it only moves through transactions and contributions.
type UpdateAccountRequest struct {
	Name     *string             `json:"name"`
	Type     *domain.AccountType `json:"type" binding:"omitempty,oneof=cash bank credit savings investment other"`
	BankName *string             `json:"bankName"`
}

// AccountResponse defines the data returned for an account.
type AccountResponse struct {
	AccountID string             `json:"id"`
	Name      string             `json:"name"`
	Type      domain.AccountType `json:"type"`
	BankName  *string            `json:"bankName"`
	Balance   int64              `json:"balance"`
	CreatedAt time.Time          `json:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt"`
}

// ToAccountResponse converts a domain.Account to AccountResponse DTO
func ToAccountResponse(acc *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID: acc.AccountID,
		Name:      acc.Name,
		Type:      acc.Type,
		BankName:  acc.BankName,
		Balance:   acc.Balance,
		CreatedAt: acc.CreatedAt,
		UpdatedAt: acc.UpdatedAt,
	}
}

// ToListAccountResponse converts a slice of domain.Account to response DTOs
func ToListAccountResponse(accounts []domain.Account) []AccountResponse {
	res := make([]AccountResponse, len(accounts))
	for i := range accounts {
		res[i] = ToAccountResponse(&accounts[i])
	}
	return res
}
