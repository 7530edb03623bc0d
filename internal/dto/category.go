package dto

import (
	"time"

	"github.com/fintrackhq/fintrack_app/internal/core/domain"
)

// CreateCategoryRequest defines the data needed to create a new category.
type CreateCategoryRequest struct {
	Name  string          `json:"name" binding:"required"`
	Type  domain.FlowType `json:"type" binding:"required,oneof=income expense"`
	Color string          `json:"color"`
	Icon  string          `json:"icon"`
}

// UpdateCategoryRequest defines the data allowed for updating a category.
type UpdateCategoryRequest struct {
	Name     *string          `json:"name"`
	Type     *domain.FlowType `json:"type" binding:"omitempty,oneof=income expense"`
	Color    *string          `json:"color"`
	Icon     *string          `json:"icon"`
	IsActive *bool            `json:"isActive"`
}

// ListCategoriesParams defines query parameters for listing categories.
type ListCategoriesParams struct {
	Type string `form:"type" binding:"omitempty,oneof=income expense"`
}

// CategoryResponse defines the data returned for a category.
type CategoryResponse struct {
	CategoryID       string          `json:"id"`
	Name             string          `json:"name"`
	Type             domain.FlowType `json:"type"`
	Color            string          `json:"color"`
	Icon             string          `json:"icon"`
	IsActive         bool            `json:"isActive"`
	Status           string          `json:"status"`
	TransactionCount int64           `json:"transactionCount"`
	CreatedAt        time.Time       `json:"createdAt"`
	UpdatedAt        time.Time       `json:"updatedAt"`
}

// ToCategoryResponse converts a domain.Category to CategoryResponse DTO
func ToCategoryResponse(cat *domain.Category, transactionCount int64) CategoryResponse {
	status := "inactive"
	if cat.IsActive {
		status = "active"
	}
	return CategoryResponse{
		CategoryID:       cat.CategoryID,
		Name:             cat.Name,
		Type:             cat.Type,
		Color:            cat.Color,
		Icon:             cat.Icon,
		IsActive:         cat.IsActive,
		Status:           status,
		TransactionCount: transactionCount,
		CreatedAt:        cat.CreatedAt,
		UpdatedAt:        cat.UpdatedAt,
	}
}

// ToListCategoryResponse converts categories plus their transaction counts to
// response DTOs.
func ToListCategoryResponse(categories []domain.Category, counts map[string]int64) []CategoryResponse {
	res := make([]CategoryResponse, len(categories))
	for i := range categories {
		res[i] = ToCategoryResponse(&categories[i], counts[categories[i].CategoryID])
	}
	return res
}
