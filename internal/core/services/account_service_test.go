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
)

type AccountServiceTestSuite struct {
	suite.Suite
	mockRepo *MockAccountRepository
	service  ports.AccountService
	ctx      context.Context
}

func (suite *AccountServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockAccountRepository)
	suite.service = services.NewAccountService(suite.mockRepo)
	suite.ctx = context.Background()
}

func (suite *AccountServiceTestSuite) TestCreateAccount() {
	bank := "First National"
	suite.mockRepo.On("SaveAccount", suite.ctx, mock.AnythingOfType("domain.Account")).Return(nil).Once()

	account, err := suite.service.CreateAccount(suite.ctx, "user-1", dto.CreateAccountRequest{
		Name:     "Checking",
		Type:     domain.AccountBank,
		BankName: &bank,
		Balance:  50000,
	})

	suite.Require().NoError(err)
	suite.NotEmpty(account.AccountID)
	suite.Equal("user-1", account.UserID)
	suite.Equal(int64(50000), account.Balance)
	suite.Require().NotNil(account.BankName)
	suite.Equal("First National", *account.BankName)
	suite.WithinDuration(time.Now().UTC(), account.CreatedAt, time.Second)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestCreateAccount_DropsBankNameForCash() {
	bank := "First National"
	suite.mockRepo.On("SaveAccount", suite.ctx, mock.AnythingOfType("domain.Account")).Return(nil).Once()

	account, err := suite.service.CreateAccount(suite.ctx, "user-1", dto.CreateAccountRequest{
		Name:     "Wallet",
		Type:     domain.AccountCash,
		BankName: &bank,
	})

	suite.Require().NoError(err)
	suite.Nil(account.BankName)
}

func (suite *AccountServiceTestSuite) TestGetAccount_NotFound() {
	suite.mockRepo.On("FindAccountByID", suite.ctx, "user-1", "acc-1").Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.GetAccount(suite.ctx, "user-1", "acc-1")

	suite.Require().ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *AccountServiceTestSuite) TestUpdateAccount_NeverTouchesBalance() {
	existing := &domain.Account{
		AccountID: "acc-1",
		UserID:    "user-1",
		Name:      "Checking",
		Type:      domain.AccountBank,
		Balance:   50000,
	}
	newName := "Everyday"

	suite.mockRepo.On("FindAccountByID", suite.ctx, "user-1", "acc-1").Return(existing, nil).Once()
	suite.mockRepo.On("UpdateAccount", suite.ctx, mock.MatchedBy(func(a domain.Account) bool {
		return a.Name == "Everyday" && a.Balance == 50000
	})).Return(nil).Once()

	account, err := suite.service.UpdateAccount(suite.ctx, "user-1", "acc-1", dto.UpdateAccountRequest{Name: &newName})

	suite.Require().NoError(err)
	suite.Equal("Everyday", account.Name)
	suite.Equal(int64(50000), account.Balance)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestDeleteAccount_Referenced() {
	existing := &domain.Account{AccountID: "acc-1", UserID: "user-1", Name: "Checking", Type: domain.AccountBank}

	suite.mockRepo.On("FindAccountByID", suite.ctx, "user-1", "acc-1").Return(existing, nil).Once()
	suite.mockRepo.On("DeleteAccount", suite.ctx, "user-1", "acc-1").Return(apperrors.ErrConstraintViolation).Once()

	err := suite.service.DeleteAccount(suite.ctx, "user-1", "acc-1")

	suite.Require().ErrorIs(err, apperrors.ErrConstraintViolation)
}

func TestAccountServiceSuite(t *testing.T) {
	suite.Run(t, new(AccountServiceTestSuite))
}
