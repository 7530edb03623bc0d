package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/fintrackhq/fintrack_app/internal/apperrors"
	"github.com/fintrackhq/fintrack_app/internal/core/domain"
	"github.com/fintrackhq/fintrack_app/internal/core/ports"
	"github.com/fintrackhq/fintrack_app/internal/core/services"
	"github.com/fintrackhq/fintrack_app/internal/dto"
	"github.com/fintrackhq/fintrack_app/internal/utils"
)

const testJWTSecret = "test-secret"

type UserServiceTestSuite struct {
	suite.Suite
	mockRepo *MockUserRepository
	service  ports.UserService
	ctx      context.Context
}

func (suite *UserServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockUserRepository)
	suite.service = services.NewUserService(suite.mockRepo, testJWTSecret, time.Hour, "fintrack-test")
	suite.ctx = context.Background()
}

func (suite *UserServiceTestSuite) TestRegister() {
	suite.mockRepo.On("SaveUser", suite.ctx, mock.MatchedBy(func(u domain.User) bool {
		return u.Email == "alex@example.com" && u.PasswordHash != "correct horse"
	})).Return(nil).Once()

	user, token, err := suite.service.Register(suite.ctx, dto.RegisterRequest{
		Email:    "  Alex@Example.com ",
		Name:     "Alex",
		Password: "correct horse",
	})

	suite.Require().NoError(err)
	suite.Equal("alex@example.com", user.Email)
	suite.True(utils.CheckPasswordHash("correct horse", user.PasswordHash))

	claims, err := utils.ParseAndValidateJWT(token, testJWTSecret)
	suite.Require().NoError(err)
	suite.Equal(user.UserID, claims.Subject)
	suite.Equal("fintrack-test", claims.Issuer)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *UserServiceTestSuite) TestRegister_DuplicateEmail() {
	suite.mockRepo.On("SaveUser", suite.ctx, mock.AnythingOfType("domain.User")).Return(apperrors.ErrDuplicate).Once()

	_, _, err := suite.service.Register(suite.ctx, dto.RegisterRequest{
		Email:    "alex@example.com",
		Name:     "Alex",
		Password: "correct horse",
	})

	suite.Require().ErrorIs(err, apperrors.ErrDuplicate)
}

func (suite *UserServiceTestSuite) TestLogin() {
	hash, err := utils.HashPassword("correct horse")
	suite.Require().NoError(err)
	stored := &domain.User{UserID: "user-1", Email: "alex@example.com", Name: "Alex", PasswordHash: hash}

	suite.mockRepo.On("FindUserByEmail", suite.ctx, "alex@example.com").Return(stored, nil).Once()

	user, token, err := suite.service.Login(suite.ctx, dto.LoginRequest{
		Email:    "Alex@Example.com",
		Password: "correct horse",
	})

	suite.Require().NoError(err)
	suite.Equal("user-1", user.UserID)
	suite.NotEmpty(token)
}

func (suite *UserServiceTestSuite) TestLogin_UnknownEmail() {
	suite.mockRepo.On("FindUserByEmail", suite.ctx, "alex@example.com").Return(nil, apperrors.ErrNotFound).Once()

	_, _, err := suite.service.Login(suite.ctx, dto.LoginRequest{
		Email:    "alex@example.com",
		Password: "correct horse",
	})

	suite.Require().ErrorIs(err, apperrors.ErrUnauthorized)
}

func (suite *UserServiceTestSuite) TestLogin_WrongPassword() {
	hash, err := utils.HashPassword("correct horse")
	suite.Require().NoError(err)
	stored := &domain.User{UserID: "user-1", Email: "alex@example.com", PasswordHash: hash}

	suite.mockRepo.On("FindUserByEmail", suite.ctx, "alex@example.com").Return(stored, nil).Once()

	_, _, err = suite.service.Login(suite.ctx, dto.LoginRequest{
		Email:    "alex@example.com",
		Password: "battery staple",
	})

	suite.Require().ErrorIs(err, apperrors.ErrUnauthorized)
}

func TestUserServiceSuite(t *testing.T) {
	suite.Run(t, new(UserServiceTestSuite))
}
