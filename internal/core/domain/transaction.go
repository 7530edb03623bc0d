package domain

import "time"

// Transaction is a single categorized money movement against an account.
// Amount is a positive integer in minor currency units.
type Transaction struct {
	TransactionID string    `json:"id"`
	UserID        string    `json:"userId"`
	AccountID     string    `json:"accountId"`
	CategoryID    string    `json:"categoryId"`
	Type          FlowType  `json:"type"`
	Amount        int64     `json:"amount"`
	Description   string    `json:"description"`
	Date          time.Time `json:"date"`
	AuditFields
}

// SignedImpact is the balance delta this transaction contributes to its
// account: positive for income, negative for expense.
func (t Transaction) SignedImpact() int64 {
	return SignedImpact(t.Type, t.Amount)
}

// SignedImpact applies the income/expense sign convention to an amount.
func SignedImpact(flow FlowType, amount int64) int64 {
	if flow == FlowExpense {
		return -amount
	}
	return amount
}

// TransactionDetail is a transaction joined with the display fields of its
// account and category, as returned by list queries.
type TransactionDetail struct {
	Transaction
	AccountName   string `json:"accountName"`
	CategoryName  string `json:"categoryName"`
	CategoryColor string `json:"categoryColor"`
}

// TransactionFilter narrows transaction listings.
type TransactionFilter struct {
	AccountID  string
	CategoryID string
	Type       FlowType
	Date       *time.Time
	DateFrom   *time.Time
	DateTo     *time.Time
}
