package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/fintrackhq/fintrack_app/internal/apperrors"
	"github.com/fintrackhq/fintrack_app/internal/core/domain"
	"github.com/fintrackhq/fintrack_app/internal/core/ports"
	"github.com/fintrackhq/fintrack_app/internal/core/services"
	"github.com/fintrackhq/fintrack_app/internal/dto"
)

type GoalServiceTestSuite struct {
	suite.Suite
	mockGoalRepo         *MockGoalRepository
	mockContributionRepo *MockContributionRepository
	mockAccountRepo      *MockAccountRepository
	service              ports.GoalService
	ctx                  context.Context
}

func (suite *GoalServiceTestSuite) SetupTest() {
	suite.mockGoalRepo = new(MockGoalRepository)
	suite.mockContributionRepo = new(MockContributionRepository)
	suite.mockAccountRepo = new(MockAccountRepository)
	suite.service = services.NewGoalService(suite.mockGoalRepo, suite.mockContributionRepo, suite.mockAccountRepo)
	suite.ctx = context.Background()
}

func (suite *GoalServiceTestSuite) goal(target, saved int64, status domain.GoalStatus) *domain.Goal {
	return &domain.Goal{
		GoalID:       "goal-1",
		UserID:       "user-1",
		Name:         "Vacation",
		TargetAmount: target,
		Status:       status,
		SavedAmount:  saved,
	}
}

func (suite *GoalServiceTestSuite) account(id string, balance int64) *domain.Account {
	return &domain.Account{
		AccountID: id,
		UserID:    "user-1",
		Name:      "Checking",
		Type:      domain.AccountBank,
		Balance:   balance,
	}
}

func (suite *GoalServiceTestSuite) contribution(id, accountID string, amount int64) *domain.GoalContribution {
	return &domain.GoalContribution{
		ContributionID: id,
		GoalID:         "goal-1",
		UserID:         "user-1",
		AccountID:      accountID,
		Amount:         amount,
	}
}

func (suite *GoalServiceTestSuite) TestCreateGoal() {
	suite.mockGoalRepo.On("SaveGoal", suite.ctx, mock.AnythingOfType("domain.Goal")).Return(nil).Once()

	goal, err := suite.service.CreateGoal(suite.ctx, "user-1", dto.CreateGoalRequest{
		Name:         "Vacation",
		TargetAmount: 100000,
		TargetDate:   "2026-06-01",
	})

	suite.Require().NoError(err)
	suite.NotEmpty(goal.GoalID)
	suite.Equal(domain.GoalActive, goal.Status)
	suite.Require().NotNil(goal.TargetDate)
	suite.Equal("2026-06-01", goal.TargetDate.Format("2006-01-02"))
	suite.mockGoalRepo.AssertExpectations(suite.T())
}

func (suite *GoalServiceTestSuite) TestGetGoal_CompletedOnceTargetReached() {
	suite.mockGoalRepo.On("SupportsProgressView").Return(true)
	suite.mockGoalRepo.On("FindGoalWithProgress", suite.ctx, "user-1", "goal-1").
		Return(suite.goal(100000, 100000, domain.GoalActive), nil).Once()

	goal, err := suite.service.GetGoal(suite.ctx, "user-1", "goal-1")

	suite.Require().NoError(err)
	suite.Equal(domain.GoalCompleted, goal.Status)
}

func (suite *GoalServiceTestSuite) TestGetGoal_SumFallbackKeepsPaused() {
	suite.mockGoalRepo.On("SupportsProgressView").Return(false)
	suite.mockGoalRepo.On("FindGoalByID", suite.ctx, "user-1", "goal-1").
		Return(suite.goal(100000, 0, domain.GoalPaused), nil).Once()
	suite.mockContributionRepo.On("SumAmountsByGoal", suite.ctx, "user-1", []string{"goal-1"}).
		Return(map[string]int64{"goal-1": 25000}, nil).Once()

	goal, err := suite.service.GetGoal(suite.ctx, "user-1", "goal-1")

	suite.Require().NoError(err)
	suite.Equal(int64(25000), goal.SavedAmount)
	suite.Equal(domain.GoalPaused, goal.Status)
}

func (suite *GoalServiceTestSuite) TestListGoals_BatchesContributionSums() {
	goals := []domain.Goal{
		{GoalID: "goal-1", UserID: "user-1", TargetAmount: 100000, Status: domain.GoalActive},
		{GoalID: "goal-2", UserID: "user-1", TargetAmount: 50000, Status: domain.GoalActive},
	}
	suite.mockGoalRepo.On("SupportsProgressView").Return(false)
	suite.mockGoalRepo.On("ListGoals", suite.ctx, "user-1").Return(goals, nil).Once()
	suite.mockContributionRepo.On("SumAmountsByGoal", suite.ctx, "user-1", []string{"goal-1", "goal-2"}).
		Return(map[string]int64{"goal-1": 40000, "goal-2": 50000}, nil).Once()

	result, err := suite.service.ListGoals(suite.ctx, "user-1")

	suite.Require().NoError(err)
	suite.Require().Len(result, 2)
	suite.Equal(int64(40000), result[0].SavedAmount)
	suite.Equal(domain.GoalActive, result[0].Status)
	suite.Equal(domain.GoalCompleted, result[1].Status)
	suite.mockContributionRepo.AssertExpectations(suite.T())
}

func (suite *GoalServiceTestSuite) TestUpdateGoal_TargetBelowSaved() {
	suite.mockGoalRepo.On("SupportsProgressView").Return(true)
	suite.mockGoalRepo.On("FindGoalWithProgress", suite.ctx, "user-1", "goal-1").
		Return(suite.goal(100000, 60000, domain.GoalActive), nil).Once()
	lowered := int64(50000)

	_, err := suite.service.UpdateGoal(suite.ctx, "user-1", "goal-1", dto.UpdateGoalRequest{TargetAmount: &lowered})

	suite.Require().ErrorIs(err, apperrors.ErrValidation)
	suite.mockGoalRepo.AssertNotCalled(suite.T(), "UpdateGoal", mock.Anything, mock.Anything)
}

func (suite *GoalServiceTestSuite) TestDeleteGoal_BlockedWhileFunded() {
	suite.mockGoalRepo.On("SupportsProgressView").Return(true)
	suite.mockGoalRepo.On("FindGoalWithProgress", suite.ctx, "user-1", "goal-1").
		Return(suite.goal(100000, 5000, domain.GoalActive), nil).Once()

	err := suite.service.DeleteGoal(suite.ctx, "user-1", "goal-1")

	suite.Require().ErrorIs(err, apperrors.ErrValidation)
	suite.mockGoalRepo.AssertNotCalled(suite.T(), "DeleteGoal", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *GoalServiceTestSuite) TestDeleteGoal_Empty() {
	suite.mockGoalRepo.On("SupportsProgressView").Return(true)
	suite.mockGoalRepo.On("FindGoalWithProgress", suite.ctx, "user-1", "goal-1").
		Return(suite.goal(100000, 0, domain.GoalActive), nil).Once()
	suite.mockGoalRepo.On("DeleteGoal", suite.ctx, "user-1", "goal-1").Return(nil).Once()

	err := suite.service.DeleteGoal(suite.ctx, "user-1", "goal-1")

	suite.Require().NoError(err)
	suite.mockGoalRepo.AssertExpectations(suite.T())
}

func (suite *GoalServiceTestSuite) TestCreateContribution_DebitsAccountAndSyncsStatus() {
	suite.mockGoalRepo.On("FindGoalByID", suite.ctx, "user-1", "goal-1").
		Return(suite.goal(100000, 0, domain.GoalActive), nil).Once()
	suite.mockAccountRepo.On("FindAccountByID", suite.ctx, "user-1", "acc-1").Return(suite.account("acc-1", 10000), nil).Once()
	suite.mockAccountRepo.On("UpdateBalance", suite.ctx, "user-1", "acc-1", expectedBalance(10000), int64(6000)).Return(nil).Once()
	suite.mockContributionRepo.On("SaveContribution", suite.ctx, mock.AnythingOfType("domain.GoalContribution")).Return(nil).Once()
	// Status resync after the mutation.
	suite.mockGoalRepo.On("SupportsProgressView").Return(true)
	suite.mockGoalRepo.On("FindGoalWithProgress", suite.ctx, "user-1", "goal-1").
		Return(suite.goal(100000, 4000, domain.GoalActive), nil).Once()
	suite.mockGoalRepo.On("SupportsStatus").Return(true)
	suite.mockGoalRepo.On("UpdateGoalStatus", suite.ctx, "user-1", "goal-1", domain.GoalActive).Return(nil).Once()

	contribution, err := suite.service.CreateContribution(suite.ctx, "user-1", "goal-1", dto.CreateContributionRequest{
		AccountID: "acc-1",
		Amount:    4000,
	})

	suite.Require().NoError(err)
	suite.Equal(int64(4000), contribution.Amount)
	suite.Equal("goal-1", contribution.GoalID)
	suite.mockAccountRepo.AssertExpectations(suite.T())
	suite.mockGoalRepo.AssertExpectations(suite.T())
}

func (suite *GoalServiceTestSuite) TestCreateContribution_InsufficientBalance() {
	suite.mockGoalRepo.On("FindGoalByID", suite.ctx, "user-1", "goal-1").
		Return(suite.goal(100000, 0, domain.GoalActive), nil).Once()
	suite.mockAccountRepo.On("FindAccountByID", suite.ctx, "user-1", "acc-1").Return(suite.account("acc-1", 3000), nil).Once()

	_, err := suite.service.CreateContribution(suite.ctx, "user-1", "goal-1", dto.CreateContributionRequest{
		AccountID: "acc-1",
		Amount:    4000,
	})

	suite.Require().ErrorIs(err, apperrors.ErrInsufficientBalance)
	suite.mockAccountRepo.AssertNotCalled(suite.T(), "UpdateBalance", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *GoalServiceTestSuite) TestCreateContribution_CompensatesOnRowFailure() {
	rowErr := errors.New("insert failed")
	suite.mockGoalRepo.On("FindGoalByID", suite.ctx, "user-1", "goal-1").
		Return(suite.goal(100000, 0, domain.GoalActive), nil).Once()
	suite.mockAccountRepo.On("FindAccountByID", suite.ctx, "user-1", "acc-1").Return(suite.account("acc-1", 10000), nil).Once()
	suite.mockAccountRepo.On("UpdateBalance", suite.ctx, "user-1", "acc-1", expectedBalance(10000), int64(6000)).Return(nil).Once()
	suite.mockContributionRepo.On("SaveContribution", suite.ctx, mock.AnythingOfType("domain.GoalContribution")).Return(rowErr).Once()
	suite.mockAccountRepo.On("UpdateBalance", suite.ctx, "user-1", "acc-1", (*int64)(nil), int64(10000)).Return(nil).Once()

	_, err := suite.service.CreateContribution(suite.ctx, "user-1", "goal-1", dto.CreateContributionRequest{
		AccountID: "acc-1",
		Amount:    4000,
	})

	suite.Require().ErrorIs(err, rowErr)
	suite.mockAccountRepo.AssertExpectations(suite.T())
	suite.mockGoalRepo.AssertNotCalled(suite.T(), "UpdateGoalStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *GoalServiceTestSuite) TestUpdateContribution_SameAccountDelta() {
	newAmount := int64(2500)
	suite.mockContributionRepo.On("FindContributionByID", suite.ctx, "user-1", "goal-1", "contrib-1").
		Return(suite.contribution("contrib-1", "acc-1", 4000), nil).Once()
	suite.mockAccountRepo.On("FindAccountByID", suite.ctx, "user-1", "acc-1").Return(suite.account("acc-1", 6000), nil).Once()
	// Shrinking the contribution refunds the 1500 difference.
	suite.mockAccountRepo.On("UpdateBalance", suite.ctx, "user-1", "acc-1", expectedBalance(6000), int64(7500)).Return(nil).Once()
	suite.mockContributionRepo.On("UpdateContribution", suite.ctx, mock.AnythingOfType("domain.GoalContribution")).Return(nil).Once()
	suite.mockGoalRepo.On("SupportsProgressView").Return(true)
	suite.mockGoalRepo.On("FindGoalWithProgress", suite.ctx, "user-1", "goal-1").
		Return(suite.goal(100000, 2500, domain.GoalActive), nil).Once()
	suite.mockGoalRepo.On("SupportsStatus").Return(true)
	suite.mockGoalRepo.On("UpdateGoalStatus", suite.ctx, "user-1", "goal-1", domain.GoalActive).Return(nil).Once()

	contribution, err := suite.service.UpdateContribution(suite.ctx, "user-1", "goal-1", "contrib-1", dto.UpdateContributionRequest{Amount: &newAmount})

	suite.Require().NoError(err)
	suite.Equal(int64(2500), contribution.Amount)
	suite.mockAccountRepo.AssertExpectations(suite.T())
}

func (suite *GoalServiceTestSuite) TestUpdateContribution_MovesBetweenAccounts() {
	newAccount := "acc-2"
	newAmount := int64(3000)
	suite.mockContributionRepo.On("FindContributionByID", suite.ctx, "user-1", "goal-1", "contrib-1").
		Return(suite.contribution("contrib-1", "acc-1", 4000), nil).Once()
	suite.mockAccountRepo.On("FindAccountByID", suite.ctx, "user-1", "acc-1").Return(suite.account("acc-1", 6000), nil).Once()
	suite.mockAccountRepo.On("FindAccountByID", suite.ctx, "user-1", "acc-2").Return(suite.account("acc-2", 5000), nil).Once()
	// Refund the source, then charge the destination.
	suite.mockAccountRepo.On("UpdateBalance", suite.ctx, "user-1", "acc-1", expectedBalance(6000), int64(10000)).Return(nil).Once()
	suite.mockAccountRepo.On("UpdateBalance", suite.ctx, "user-1", "acc-2", expectedBalance(5000), int64(2000)).Return(nil).Once()
	suite.mockContributionRepo.On("UpdateContribution", suite.ctx, mock.AnythingOfType("domain.GoalContribution")).Return(nil).Once()
	suite.mockGoalRepo.On("SupportsProgressView").Return(true)
	suite.mockGoalRepo.On("FindGoalWithProgress", suite.ctx, "user-1", "goal-1").
		Return(suite.goal(100000, 3000, domain.GoalActive), nil).Once()
	suite.mockGoalRepo.On("SupportsStatus").Return(true)
	suite.mockGoalRepo.On("UpdateGoalStatus", suite.ctx, "user-1", "goal-1", domain.GoalActive).Return(nil).Once()

	contribution, err := suite.service.UpdateContribution(suite.ctx, "user-1", "goal-1", "contrib-1", dto.UpdateContributionRequest{
		AccountID: &newAccount,
		Amount:    &newAmount,
	})

	suite.Require().NoError(err)
	suite.Equal("acc-2", contribution.AccountID)
	suite.mockAccountRepo.AssertExpectations(suite.T())
}

func (suite *GoalServiceTestSuite) TestUpdateContribution_MoveRollsBackSourceOnDestinationFailure() {
	newAccount := "acc-2"
	suite.mockContributionRepo.On("FindContributionByID", suite.ctx, "user-1", "goal-1", "contrib-1").
		Return(suite.contribution("contrib-1", "acc-1", 4000), nil).Once()
	suite.mockAccountRepo.On("FindAccountByID", suite.ctx, "user-1", "acc-1").Return(suite.account("acc-1", 6000), nil).Once()
	suite.mockAccountRepo.On("FindAccountByID", suite.ctx, "user-1", "acc-2").Return(suite.account("acc-2", 5000), nil).Once()
	suite.mockAccountRepo.On("UpdateBalance", suite.ctx, "user-1", "acc-1", expectedBalance(6000), int64(10000)).Return(nil).Once()
	suite.mockAccountRepo.On("UpdateBalance", suite.ctx, "user-1", "acc-2", expectedBalance(5000), int64(1000)).
		Return(apperrors.ErrConcurrentModification).Once()
	// Source refund is rolled back after the destination loses its race.
	suite.mockAccountRepo.On("UpdateBalance", suite.ctx, "user-1", "acc-1", (*int64)(nil), int64(6000)).Return(nil).Once()

	_, err := suite.service.UpdateContribution(suite.ctx, "user-1", "goal-1", "contrib-1", dto.UpdateContributionRequest{AccountID: &newAccount})

	suite.Require().ErrorIs(err, apperrors.ErrConcurrentModification)
	suite.mockAccountRepo.AssertExpectations(suite.T())
	suite.mockContributionRepo.AssertNotCalled(suite.T(), "UpdateContribution", mock.Anything, mock.Anything)
}

func (suite *GoalServiceTestSuite) TestUpdateContribution_MoveRestoresBothOnRowFailure() {
	newAccount := "acc-2"
	rowErr := errors.New("update failed")
	suite.mockContributionRepo.On("FindContributionByID", suite.ctx, "user-1", "goal-1", "contrib-1").
		Return(suite.contribution("contrib-1", "acc-1", 4000), nil).Once()
	suite.mockAccountRepo.On("FindAccountByID", suite.ctx, "user-1", "acc-1").Return(suite.account("acc-1", 6000), nil).Once()
	suite.mockAccountRepo.On("FindAccountByID", suite.ctx, "user-1", "acc-2").Return(suite.account("acc-2", 5000), nil).Once()
	suite.mockAccountRepo.On("UpdateBalance", suite.ctx, "user-1", "acc-1", expectedBalance(6000), int64(10000)).Return(nil).Once()
	suite.mockAccountRepo.On("UpdateBalance", suite.ctx, "user-1", "acc-2", expectedBalance(5000), int64(1000)).Return(nil).Once()
	suite.mockContributionRepo.On("UpdateContribution", suite.ctx, mock.AnythingOfType("domain.GoalContribution")).Return(rowErr).Once()
	suite.mockAccountRepo.On("UpdateBalance", suite.ctx, "user-1", "acc-2", (*int64)(nil), int64(5000)).Return(nil).Once()
	suite.mockAccountRepo.On("UpdateBalance", suite.ctx, "user-1", "acc-1", (*int64)(nil), int64(6000)).Return(nil).Once()

	_, err := suite.service.UpdateContribution(suite.ctx, "user-1", "goal-1", "contrib-1", dto.UpdateContributionRequest{AccountID: &newAccount})

	suite.Require().ErrorIs(err, rowErr)
	suite.mockAccountRepo.AssertExpectations(suite.T())
}

func (suite *GoalServiceTestSuite) TestDeleteContribution_CreditsAccountBack() {
	suite.mockContributionRepo.On("FindContributionByID", suite.ctx, "user-1", "goal-1", "contrib-1").
		Return(suite.contribution("contrib-1", "acc-1", 4000), nil).Once()
	suite.mockAccountRepo.On("FindAccountByID", suite.ctx, "user-1", "acc-1").Return(suite.account("acc-1", 6000), nil).Once()
	suite.mockAccountRepo.On("UpdateBalance", suite.ctx, "user-1", "acc-1", expectedBalance(6000), int64(10000)).Return(nil).Once()
	suite.mockContributionRepo.On("DeleteContribution", suite.ctx, "user-1", "goal-1", "contrib-1").Return(nil).Once()
	suite.mockGoalRepo.On("SupportsProgressView").Return(true)
	suite.mockGoalRepo.On("FindGoalWithProgress", suite.ctx, "user-1", "goal-1").
		Return(suite.goal(100000, 0, domain.GoalActive), nil).Once()
	suite.mockGoalRepo.On("SupportsStatus").Return(true)
	suite.mockGoalRepo.On("UpdateGoalStatus", suite.ctx, "user-1", "goal-1", domain.GoalActive).Return(nil).Once()

	err := suite.service.DeleteContribution(suite.ctx, "user-1", "goal-1", "contrib-1")

	suite.Require().NoError(err)
	suite.mockAccountRepo.AssertExpectations(suite.T())
	suite.mockContributionRepo.AssertExpectations(suite.T())
}

func TestGoalServiceSuite(t *testing.T) {
	suite.Run(t, new(GoalServiceTestSuite))
}
