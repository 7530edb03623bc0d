package domain

import "time"

// AuditFields holds standard audit information for domain entities.
type AuditFields struct {
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// FlowType classifies money movement for categories and transactions.
type FlowType string

const (
	FlowIncome  FlowType = "income"
	FlowExpense FlowType = "expense"
)

// Valid reports whether the flow type is one of the known values.
func (t FlowType) Valid() bool {
	return t == FlowIncome || t == FlowExpense
}
