package dto

import (
	"time"

	"github.com/fintrackhq/fintrack_app/internal/core/domain"
)

// CreateTransactionRequest defines the data needed to record a transaction.
type CreateTransactionRequest struct {
	AccountID   string          `json:"accountId" binding:"required,uuid"`
	CategoryID  string          `json:"categoryId" binding:"required,uuid"`
	Type        domain.FlowType `json:"type" binding:"required,oneof=income expense"`
	Amount      int64           `json:"amount" binding:"required,gt=0"`
	Description string          `json:"description"`
	Date        string          `json:"date" binding:"required,dateonly"`
}

// UpdateTransactionRequest defines the data allowed for updating a
// transaction. Pointers distinguish omitted fields from zero-value updates.
// The account is fixed at creation; moving money means delete and recreate.
type UpdateTransactionRequest struct {
	CategoryID  *string          `json:"categoryId" binding:"omitempty,uuid"`
	Type        *domain.FlowType `json:"type" binding:"omitempty,oneof=income expense"`
	Amount      *int64           `json:"amount" binding:"omitempty,gt=0"`
	Description *string          `json:"description"`
	Date        *string          `json:"date" binding:"omitempty,dateonly"`
}

// ListTransactionsParams defines query parameters for listing transactions.
type ListTransactionsParams struct {
	AccountID  string `form:"account_id" binding:"omitempty,uuid"`
	CategoryID string `form:"category_id" binding:"omitempty,uuid"`
	Type       string `form:"type" binding:"omitempty,oneof=income expense"`
	Date       string `form:"date" binding:"omitempty,dateonly"`
	DateFrom   string `form:"date_from" binding:"omitempty,dateonly"`
	DateTo     string `form:"date_to" binding:"omitempty,dateonly"`
}

// ToFilter converts the query parameters to a domain filter. Dates are
// validated by binding before this runs.
func (p ListTransactionsParams) ToFilter() domain.TransactionFilter {
	f := domain.TransactionFilter{
		AccountID:  p.AccountID,
		CategoryID: p.CategoryID,
		Type:       domain.FlowType(p.Type),
	}
	if d, err := ParseDate(p.Date); err == nil && p.Date != "" {
		f.Date = &d
	}
	if d, err := ParseDate(p.DateFrom); err == nil && p.DateFrom != "" {
		f.DateFrom = &d
	}
	if d, err := ParseDate(p.DateTo); err == nil && p.DateTo != "" {
		f.DateTo = &d
	}
	return f
}

// TransactionResponse defines the data returned for a transaction.
type TransactionResponse struct {
	TransactionID string          `json:"id"`
	AccountID     string          `json:"accountId"`
	CategoryID    string          `json:"categoryId"`
	Type          domain.FlowType `json:"type"`
	Amount        int64           `json:"amount"`
	Description   string          `json:"description"`
	Date          string          `json:"date"`
	AccountName   string          `json:"accountName,omitempty"`
	CategoryName  string          `json:"categoryName,omitempty"`
	CategoryColor string          `json:"categoryColor,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

// ToTransactionResponse converts a domain.Transaction to a response DTO
func ToTransactionResponse(txn *domain.Transaction) TransactionResponse {
	return TransactionResponse{
		TransactionID: txn.TransactionID,
		AccountID:     txn.AccountID,
		CategoryID:    txn.CategoryID,
		Type:          txn.Type,
		Amount:        txn.Amount,
		Description:   txn.Description,
		Date:          FormatDate(txn.Date),
		CreatedAt:     txn.CreatedAt,
		UpdatedAt:     txn.UpdatedAt,
	}
}

// ToListTransactionResponse converts joined transaction rows to response DTOs
func ToListTransactionResponse(details []domain.TransactionDetail) []TransactionResponse {
	res := make([]TransactionResponse, len(details))
	for i := range details {
		res[i] = ToTransactionResponse(&details[i].Transaction)
		res[i].AccountName = details[i].AccountName
		res[i].CategoryName = details[i].CategoryName
		res[i].CategoryColor = details[i].CategoryColor
	}
	return res
}
