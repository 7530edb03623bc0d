package domain

import "time"

// GoalContribution is money moved from an account into a savings goal.
// Creating one debits the account; deleting one credits it back.
type GoalContribution struct {
	ContributionID string    `json:"id"`
	GoalID         string    `json:"goalId"`
	UserID         string    `json:"userId"`
	AccountID      string    `json:"accountId"`
	Amount         int64     `json:"amount"`
	Date           time.Time `json:"date"`
	Description    string    `json:"description"`
	AuditFields
}
