package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// GoalStatus classifies a savings goal's lifecycle state.
type GoalStatus string

const (
	GoalActive    GoalStatus = "active"
	GoalPaused    GoalStatus = "paused"
	GoalCompleted GoalStatus = "completed"
)

// Goal is a user-owned savings target. SavedAmount is derived: populated from
// the progress view when the schema has one, otherwise from the contribution
// sum. It is never written directly.
type Goal struct {
	GoalID       string     `json:"id"`
	UserID       string     `json:"userId"`
	Name         string     `json:"name"`
	TargetAmount int64      `json:"targetAmount"`
	StartDate    *time.Time `json:"startDate"`
	TargetDate   *time.Time `json:"targetDate"`
	Frequency    string     `json:"frequency"`
	Description  string     `json:"description"`
	Status       GoalStatus `json:"status"`
	AccountID    *string    `json:"accountId"`
	SavedAmount  int64      `json:"savedAmount"`
	AuditFields
}

// GoalProgress holds the derived reporting fields for a goal.
type GoalProgress struct {
	SavedAmount        int64      `json:"savedAmount"`
	RemainingAmount    int64      `json:"remainingAmount"`
	ProgressPercentage float64    `json:"progressPercentage"`
	Status             GoalStatus `json:"status"`
}

// ComputeGoalProgress derives saved/remaining/progress and the displayed
// status. Status precedence: completed once the saved amount reaches the
// target, else the persisted paused state, else active, regardless of any
// caller-supplied status. Completion compares the integer amounts; the
// percentage is rounded for display only and may read 100.00 while the goal
// is still short of the target.
func ComputeGoalProgress(targetAmount, savedAmount int64, persisted GoalStatus) GoalProgress {
	progress := 0.0
	if targetAmount > 0 {
		progress, _ = decimal.NewFromInt(savedAmount).
			Div(decimal.NewFromInt(targetAmount)).
			Mul(decimal.NewFromInt(100)).
			Round(2).
			Float64()
	}

	status := GoalActive
	switch {
	case targetAmount > 0 && savedAmount >= targetAmount:
		status = GoalCompleted
	case persisted == GoalPaused:
		status = GoalPaused
	}

	return GoalProgress{
		SavedAmount:        savedAmount,
		RemainingAmount:    targetAmount - savedAmount,
		ProgressPercentage: progress,
		Status:             status,
	}
}
