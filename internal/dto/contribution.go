package dto

import (
	"time"

	"github.com/fintrackhq/fintrack_app/internal/core/domain"
)

// CreateContributionRequest defines the data needed to record a goal
// contribution. The amount is debited from the referenced account.
type CreateContributionRequest struct {
	AccountID   string `json:"accountId" binding:"required,uuid"`
	Amount      int64  `json:"amount" binding:"required,gt=0"`
	Date        string `json:"date" binding:"omitempty,dateonly"`
	Description string `json:"description"`
}

// UpdateContributionRequest defines the data allowed for updating a
// contribution. Changing the account moves the money between accounts.
type UpdateContributionRequest struct {
	AccountID   *string `json:"accountId" binding:"omitempty,uuid"`
	Amount      *int64  `json:"amount" binding:"omitempty,gt=0"`
	Date        *string `json:"date" binding:"omitempty,dateonly"`
	Description *string `json:"description"`
}

// ContributionResponse defines the data returned for a contribution.
type ContributionResponse struct {
	ContributionID string    `json:"id"`
	GoalID         string    `json:"goalId"`
	AccountID      string    `json:"accountId"`
	Amount         int64     `json:"amount"`
	Date           string    `json:"date"`
	Description    string    `json:"description,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// ToContributionResponse converts a domain.GoalContribution to a response DTO
func ToContributionResponse(c *domain.GoalContribution) ContributionResponse {
	return ContributionResponse{
		ContributionID: c.ContributionID,
		GoalID:         c.GoalID,
		AccountID:      c.AccountID,
		Amount:         c.Amount,
		Date:           FormatDate(c.Date),
		Description:    c.Description,
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
	}
}

// ToListContributionResponse converts contributions to response DTOs
func ToListContributionResponse(contributions []domain.GoalContribution) []ContributionResponse {
	res := make([]ContributionResponse, len(contributions))
	for i := range contributions {
		res[i] = ToContributionResponse(&contributions[i])
	}
	return res
}
