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
	"github.com/fintrackhq/fintrack_app/internal/utils"
)

// userServiceImpl implements the UserService interface
type userServiceImpl struct {
	BaseService
	userRepo    ports.UserRepository
	jwtSecret   string
	jwtExpiry   time.Duration
	tokenIssuer string
}

// NewUserService creates a new user service
func NewUserService(userRepo ports.UserRepository, jwtSecret string, jwtExpiry time.Duration, tokenIssuer string) ports.UserService {
	return &userServiceImpl{
		userRepo:    userRepo,
		jwtSecret:   jwtSecret,
		jwtExpiry:   jwtExpiry,
		tokenIssuer: tokenIssuer,
	}
}

var _ ports.UserService = (*userServiceImpl)(nil)

func (s *userServiceImpl) Register(ctx context.Context, req dto.RegisterRequest) (*domain.User, string, error) {
	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, "", fmt.Errorf("hashing password: %w", err)
	}

	now := time.Now().UTC()
	user := domain.User{
		UserID:       uuid.NewString(),
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		Name:         req.Name,
		PasswordHash: hash,
		AuditFields: domain.AuditFields{
			CreatedAt: now,
			UpdatedAt: now,
		},
	}
	if err := s.userRepo.SaveUser(ctx, user); err != nil {
		s.LogError(ctx, err, "Failed to save user", slog.String("email", user.Email))
		return nil, "", err
	}

	token, err := utils.GenerateJWT(user.UserID, s.jwtSecret, s.jwtExpiry, s.tokenIssuer)
	if err != nil {
		return nil, "", fmt.Errorf("signing token: %w", err)
	}
	return &user, token, nil
}

func (s *userServiceImpl) Login(ctx context.Context, req dto.LoginRequest) (*domain.User, string, error) {
	user, err := s.userRepo.FindUserByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		// Same response for unknown email and wrong password.
		return nil, "", fmt.Errorf("%w: invalid credentials", apperrors.ErrUnauthorized)
	}
	if !utils.CheckPasswordHash(req.Password, user.PasswordHash) {
		return nil, "", fmt.Errorf("%w: invalid credentials", apperrors.ErrUnauthorized)
	}

	token, err := utils.GenerateJWT(user.UserID, s.jwtSecret, s.jwtExpiry, s.tokenIssuer)
	if err != nil {
		return nil, "", fmt.Errorf("signing token: %w", err)
	}
	return user, token, nil
}
