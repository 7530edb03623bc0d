package dto

import (
	"time"

	"github.com/fintrackhq/fintrack_app/internal/core/domain"
)

// CreateGoalRequest defines the data needed to create a savings goal.
type CreateGoalRequest struct {
	Name         string  `json:"name" binding:"required"`
	TargetAmount int64   `json:"targetAmount" binding:"required,gt=0"`
	StartDate    string  `json:"startDate" binding:"omitempty,dateonly"`
	TargetDate   string  `json:"targetDate" binding:"omitempty,dateonly"`
	Frequency    string  `json:"frequency"`
	Description  string  `json:"description"`
	AccountID    *string `json:"accountId" binding:"omitempty,uuid"`
}

// UpdateGoalRequest defines the data allowed for updating a savings goal.
type UpdateGoalRequest struct {
	Name         *string            `json:"name"`
	TargetAmount *int64             `json:"targetAmount" binding:"omitempty,gt=0"`
	StartDate    *string            `json:"startDate" binding:"omitempty,dateonly"`
	TargetDate   *string            `json:"targetDate" binding:"omitempty,dateonly"`
	Frequency    *string            `json:"frequency"`
	Description  *string            `json:"description"`
	Status       *domain.GoalStatus `json:"status" binding:"omitempty,oneof=active paused completed"`
	AccountID    *string            `json:"accountId" binding:"omitempty,uuid"`
}

// GoalResponse defines the data returned for a savings goal.
type GoalResponse struct {
	GoalID             string            `json:"id"`
	Name               string            `json:"name"`
	TargetAmount       int64             `json:"targetAmount"`
	StartDate          *string           `json:"startDate"`
	TargetDate         *string           `json:"targetDate"`
	Frequency          string            `json:"frequency,omitempty"`
	Description        string            `json:"description,omitempty"`
	AccountID          *string           `json:"accountId"`
	SavedAmount        int64             `json:"savedAmount"`
	RemainingAmount    int64             `json:"remainingAmount"`
	ProgressPercentage float64           `json:"progressPercentage"`
	Status             domain.GoalStatus `json:"status"`
	CreatedAt          time.Time         `json:"createdAt"`
	UpdatedAt          time.Time         `json:"updatedAt"`
}

// ToGoalResponse converts a goal and its derived progress to a response DTO
func ToGoalResponse(g *domain.Goal, p domain.GoalProgress) GoalResponse {
	res := GoalResponse{
		GoalID:             g.GoalID,
		Name:               g.Name,
		TargetAmount:       g.TargetAmount,
		Frequency:          g.Frequency,
		Description:        g.Description,
		AccountID:          g.AccountID,
		SavedAmount:        p.SavedAmount,
		RemainingAmount:    p.RemainingAmount,
		ProgressPercentage: p.ProgressPercentage,
		Status:             p.Status,
		CreatedAt:          g.CreatedAt,
		UpdatedAt:          g.UpdatedAt,
	}
	if g.StartDate != nil {
		d := FormatDate(*g.StartDate)
		res.StartDate = &d
	}
	if g.TargetDate != nil {
		d := FormatDate(*g.TargetDate)
		res.TargetDate = &d
	}
	return res
}
