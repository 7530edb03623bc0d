package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/fintrackhq/fintrack_app/internal/apperrors"
	"github.com/fintrackhq/fintrack_app/internal/core/domain"
	"github.com/fintrackhq/fintrack_app/internal/core/ports"
	"github.com/fintrackhq/fintrack_app/internal/dto"
)

// categoryServiceImpl implements the CategoryService interface
type categoryServiceImpl struct {
	BaseService
	categoryRepo    ports.CategoryRepository
	transactionRepo ports.TransactionRepository
}

// NewCategoryService creates a new category service
func NewCategoryService(categoryRepo ports.CategoryRepository, transactionRepo ports.TransactionRepository) ports.CategoryService {
	return &categoryServiceImpl{
		categoryRepo:    categoryRepo,
		transactionRepo: transactionRepo,
	}
}

var _ ports.CategoryService = (*categoryServiceImpl)(nil)

func (s *categoryServiceImpl) CreateCategory(ctx context.Context, userID string, req dto.CreateCategoryRequest) (*domain.Category, error) {
	now := time.Now().UTC()
	category := domain.Category{
		CategoryID: uuid.NewString(),
		UserID:     userID,
		Name:       strings.TrimSpace(req.Name),
		Type:       req.Type,
		Color:      req.Color,
		Icon:       req.Icon,
		IsActive:   true,
		AuditFields: domain.AuditFields{
			CreatedAt: now,
			UpdatedAt: now,
		},
	}

	// Uniqueness per (user, type, lower(name)) is enforced by the store's
	// unique index and surfaces as ErrDuplicate.
	if err := s.categoryRepo.SaveCategory(ctx, category); err != nil {
		s.LogError(ctx, err, "Failed to save category", slog.String("category_name", category.Name))
		return nil, err
	}
	return &category, nil
}

func (s *categoryServiceImpl) ListCategories(ctx context.Context, userID string, typeFilter *domain.FlowType) ([]domain.Category, map[string]int64, error) {
	categories, err := s.categoryRepo.ListCategories(ctx, userID, typeFilter)
	if err != nil {
		return nil, nil, err
	}
	counts, err := s.transactionRepo.CountsByCategory(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	return categories, counts, nil
}

func (s *categoryServiceImpl) UpdateCategory(ctx context.Context, userID, categoryID string, req dto.UpdateCategoryRequest) (*domain.Category, error) {
	category, err := s.categoryRepo.FindCategoryByID(ctx, userID, categoryID)
	if err != nil {
		return nil, err
	}

	if req.Type != nil && *req.Type != category.Type {
		count, err := s.transactionRepo.CountByCategory(ctx, userID, categoryID)
		if err != nil {
			return nil, err
		}
		if count > 0 {
			return nil, fmt.Errorf("%w: category type cannot change while %d transactions reference it", apperrors.ErrValidation, count)
		}
		category.Type = *req.Type
	}
	if req.Name != nil {
		category.Name = strings.TrimSpace(*req.Name)
	}
	if req.Color != nil {
		category.Color = *req.Color
	}
	if req.Icon != nil {
		category.Icon = *req.Icon
	}
	if req.IsActive != nil {
		category.IsActive = *req.IsActive
	}
	category.UpdatedAt = time.Now().UTC()

	if err := s.categoryRepo.UpdateCategory(ctx, *category); err != nil {
		s.LogError(ctx, err, "Failed to update category", slog.String("category_id", categoryID))
		return nil, err
	}
	return category, nil
}

func (s *categoryServiceImpl) DeleteCategory(ctx context.Context, userID, categoryID string) error {
	if _, err := s.categoryRepo.FindCategoryByID(ctx, userID, categoryID); err != nil {
		return err
	}
	count, err := s.transactionRepo.CountByCategory(ctx, userID, categoryID)
	if err != nil {
		return err
	}
	if count > 0 {
		return fmt.Errorf("%w: category is referenced by %d transactions", apperrors.ErrConstraintViolation, count)
	}
	// The store's foreign key is the backstop for a transaction created
	// between the count and the delete.
	if err := s.categoryRepo.DeleteCategory(ctx, userID, categoryID); err != nil {
		s.LogError(ctx, err, "Failed to delete category", slog.String("category_id", categoryID))
		return err
	}
	return nil
}
