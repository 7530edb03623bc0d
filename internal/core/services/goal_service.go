package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/fintrackhq/fintrack_app/internal/apperrors"
	"github.com/fintrackhq/fintrack_app/internal/core/domain"
	"github.com/fintrackhq/fintrack_app/internal/core/ports"
	"github.com/fintrackhq/fintrack_app/internal/dto"
)

// goalServiceImpl implements the GoalService interface. Contribution
// mutations are compensating sagas against account balances, mirroring the
// transaction service; moving a contribution between accounts chains two
// conditional updates and rolls the first back if the second fails.
type goalServiceImpl struct {
	BaseService
	goalRepo         ports.GoalRepository
	contributionRepo ports.ContributionRepository
	accountRepo      ports.AccountRepository
	now              func() time.Time
}

// NewGoalService creates a new goal service
func NewGoalService(goalRepo ports.GoalRepository, contributionRepo ports.ContributionRepository, accountRepo ports.AccountRepository) ports.GoalService {
	return &goalServiceImpl{
		goalRepo:         goalRepo,
		contributionRepo: contributionRepo,
		accountRepo:      accountRepo,
		now:              time.Now,
	}
}

var _ ports.GoalService = (*goalServiceImpl)(nil)

func (s *goalServiceImpl) CreateGoal(ctx context.Context, userID string, req dto.CreateGoalRequest) (*domain.Goal, error) {
	if req.AccountID != nil {
		if _, err := s.accountRepo.FindAccountByID(ctx, userID, *req.AccountID); err != nil {
			return nil, err
		}
	}

	now := s.now().UTC()
	goal := domain.Goal{
		GoalID:       uuid.NewString(),
		UserID:       userID,
		Name:         req.Name,
		TargetAmount: req.TargetAmount,
		Frequency:    req.Frequency,
		Description:  req.Description,
		Status:       domain.GoalActive,
		AccountID:    req.AccountID,
		AuditFields: domain.AuditFields{
			CreatedAt: now,
			UpdatedAt: now,
		},
	}
	var err error
	if goal.StartDate, err = parseOptionalDate(req.StartDate); err != nil {
		return nil, err
	}
	if goal.TargetDate, err = parseOptionalDate(req.TargetDate); err != nil {
		return nil, err
	}

	if err := s.goalRepo.SaveGoal(ctx, goal); err != nil {
		s.LogError(ctx, err, "Failed to save goal", slog.String("goal_id", goal.GoalID))
		return nil, err
	}
	return &goal, nil
}

func (s *goalServiceImpl) GetGoal(ctx context.Context, userID, goalID string) (*domain.Goal, error) {
	return s.loadGoalWithSaved(ctx, userID, goalID)
}

func (s *goalServiceImpl) ListGoals(ctx context.Context, userID string) ([]domain.Goal, error) {
	if s.goalRepo.SupportsProgressView() {
		goals, err := s.goalRepo.ListGoalsWithProgress(ctx, userID)
		if err != nil {
			return nil, err
		}
		resolveDisplayStatus(goals)
		return goals, nil
	}

	goals, err := s.goalRepo.ListGoals(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(goals) == 0 {
		return goals, nil
	}
	ids := make([]string, len(goals))
	for i, g := range goals {
		ids[i] = g.GoalID
	}
	sums, err := s.contributionRepo.SumAmountsByGoal(ctx, userID, ids)
	if err != nil {
		return nil, err
	}
	for i := range goals {
		goals[i].SavedAmount = sums[goals[i].GoalID]
	}
	resolveDisplayStatus(goals)
	return goals, nil
}

func (s *goalServiceImpl) UpdateGoal(ctx context.Context, userID, goalID string, req dto.UpdateGoalRequest) (*domain.Goal, error) {
	goal, err := s.loadGoalWithSaved(ctx, userID, goalID)
	if err != nil {
		return nil, err
	}

	if req.TargetAmount != nil {
		if *req.TargetAmount < goal.SavedAmount {
			return nil, fmt.Errorf("%w: target %d is below the %d already contributed", apperrors.ErrValidation, *req.TargetAmount, goal.SavedAmount)
		}
		goal.TargetAmount = *req.TargetAmount
	}
	if req.Name != nil {
		goal.Name = *req.Name
	}
	if req.Frequency != nil {
		goal.Frequency = *req.Frequency
	}
	if req.Description != nil {
		goal.Description = *req.Description
	}
	if req.Status != nil {
		goal.Status = *req.Status
	}
	if req.AccountID != nil {
		if _, err := s.accountRepo.FindAccountByID(ctx, userID, *req.AccountID); err != nil {
			return nil, err
		}
		goal.AccountID = req.AccountID
	}
	if req.StartDate != nil {
		d, err := parseOptionalDate(*req.StartDate)
		if err != nil {
			return nil, err
		}
		goal.StartDate = d
	}
	if req.TargetDate != nil {
		d, err := parseOptionalDate(*req.TargetDate)
		if err != nil {
			return nil, err
		}
		goal.TargetDate = d
	}
	goal.UpdatedAt = s.now().UTC()

	if err := s.goalRepo.UpdateGoal(ctx, *goal); err != nil {
		s.LogError(ctx, err, "Failed to update goal", slog.String("goal_id", goalID))
		return nil, err
	}

	goal.Status = domain.ComputeGoalProgress(goal.TargetAmount, goal.SavedAmount, goal.Status).Status
	return goal, nil
}

func (s *goalServiceImpl) DeleteGoal(ctx context.Context, userID, goalID string) error {
	goal, err := s.loadGoalWithSaved(ctx, userID, goalID)
	if err != nil {
		return err
	}
	if goal.SavedAmount > 0 {
		return fmt.Errorf("%w: goal holds %d in contributions, withdraw them first", apperrors.ErrValidation, goal.SavedAmount)
	}
	return s.goalRepo.DeleteGoal(ctx, userID, goalID)
}

func (s *goalServiceImpl) CreateContribution(ctx context.Context, userID, goalID string, req dto.CreateContributionRequest) (*domain.GoalContribution, error) {
	if _, err := s.goalRepo.FindGoalByID(ctx, userID, goalID); err != nil {
		return nil, err
	}
	account, err := s.accountRepo.FindAccountByID(ctx, userID, req.AccountID)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	date := now
	if req.Date != "" {
		if date, err = dto.ParseDate(req.Date); err != nil {
			return nil, fmt.Errorf("%w: invalid date %q", apperrors.ErrValidation, req.Date)
		}
	}

	newBalance := account.Balance - req.Amount
	if newBalance < 0 {
		return nil, fmt.Errorf("%w: account %s would go to %d", apperrors.ErrInsufficientBalance, account.AccountID, newBalance)
	}

	expected := account.Balance
	if err := s.accountRepo.UpdateBalance(ctx, userID, account.AccountID, &expected, newBalance); err != nil {
		return nil, err
	}
	contribution := domain.GoalContribution{
		ContributionID: uuid.NewString(),
		GoalID:         goalID,
		UserID:         userID,
		AccountID:      req.AccountID,
		Amount:         req.Amount,
		Date:           date,
		Description:    req.Description,
		AuditFields: domain.AuditFields{
			CreatedAt: now,
			UpdatedAt: now,
		},
	}
	if err := s.contributionRepo.SaveContribution(ctx, contribution); err != nil {
		return nil, s.revertBalance(ctx, userID, account.AccountID, expected, err)
	}

	s.syncGoalStatus(ctx, userID, goalID)
	return &contribution, nil
}

func (s *goalServiceImpl) ListContributions(ctx context.Context, userID, goalID string) ([]domain.GoalContribution, error) {
	if _, err := s.goalRepo.FindGoalByID(ctx, userID, goalID); err != nil {
		return nil, err
	}
	return s.contributionRepo.ListContributions(ctx, userID, goalID)
}

func (s *goalServiceImpl) UpdateContribution(ctx context.Context, userID, goalID, contributionID string, req dto.UpdateContributionRequest) (*domain.GoalContribution, error) {
	current, err := s.contributionRepo.FindContributionByID(ctx, userID, goalID, contributionID)
	if err != nil {
		return nil, err
	}

	merged := *current
	if req.Amount != nil {
		merged.Amount = *req.Amount
	}
	if req.AccountID != nil {
		merged.AccountID = *req.AccountID
	}
	if req.Description != nil {
		merged.Description = *req.Description
	}
	if req.Date != nil {
		d, err := dto.ParseDate(*req.Date)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid date %q", apperrors.ErrValidation, *req.Date)
		}
		merged.Date = d
	}
	merged.UpdatedAt = s.now().UTC()

	if merged.AccountID == current.AccountID {
		err = s.adjustSameAccount(ctx, userID, current, &merged)
	} else {
		err = s.moveBetweenAccounts(ctx, userID, current, &merged)
	}
	if err != nil {
		return nil, err
	}

	s.syncGoalStatus(ctx, userID, goalID)
	return &merged, nil
}

func (s *goalServiceImpl) DeleteContribution(ctx context.Context, userID, goalID, contributionID string) error {
	contribution, err := s.contributionRepo.FindContributionByID(ctx, userID, goalID, contributionID)
	if err != nil {
		return err
	}
	account, err := s.accountRepo.FindAccountByID(ctx, userID, contribution.AccountID)
	if err != nil {
		return err
	}

	// Deleting a contribution credits the money back to its account.
	expected := account.Balance
	if err := s.accountRepo.UpdateBalance(ctx, userID, account.AccountID, &expected, account.Balance+contribution.Amount); err != nil {
		return err
	}
	if err := s.contributionRepo.DeleteContribution(ctx, userID, goalID, contributionID); err != nil {
		return s.revertBalance(ctx, userID, account.AccountID, expected, err)
	}

	s.syncGoalStatus(ctx, userID, goalID)
	return nil
}

// adjustSameAccount applies an amount change within one account: the balance
// absorbs only the delta between the old and new contribution.
func (s *goalServiceImpl) adjustSameAccount(ctx context.Context, userID string, current, merged *domain.GoalContribution) error {
	account, err := s.accountRepo.FindAccountByID(ctx, userID, current.AccountID)
	if err != nil {
		return err
	}

	newBalance := account.Balance + current.Amount - merged.Amount
	if newBalance < 0 {
		return fmt.Errorf("%w: account %s would go to %d", apperrors.ErrInsufficientBalance, account.AccountID, newBalance)
	}

	expected := account.Balance
	if err := s.accountRepo.UpdateBalance(ctx, userID, account.AccountID, &expected, newBalance); err != nil {
		return err
	}
	if err := s.contributionRepo.UpdateContribution(ctx, *merged); err != nil {
		return s.revertBalance(ctx, userID, account.AccountID, expected, err)
	}
	return nil
}

// moveBetweenAccounts refunds the source account and charges the destination
// as two sequential conditional updates. A destination failure rolls the
// source back; a row-write failure restores both balances.
func (s *goalServiceImpl) moveBetweenAccounts(ctx context.Context, userID string, current, merged *domain.GoalContribution) error {
	source, err := s.accountRepo.FindAccountByID(ctx, userID, current.AccountID)
	if err != nil {
		return err
	}
	dest, err := s.accountRepo.FindAccountByID(ctx, userID, merged.AccountID)
	if err != nil {
		return err
	}

	newDestBalance := dest.Balance - merged.Amount
	if newDestBalance < 0 {
		return fmt.Errorf("%w: account %s would go to %d", apperrors.ErrInsufficientBalance, dest.AccountID, newDestBalance)
	}

	expectedSource := source.Balance
	if err := s.accountRepo.UpdateBalance(ctx, userID, source.AccountID, &expectedSource, source.Balance+current.Amount); err != nil {
		return err
	}

	expectedDest := dest.Balance
	if err := s.accountRepo.UpdateBalance(ctx, userID, dest.AccountID, &expectedDest, newDestBalance); err != nil {
		return s.revertBalance(ctx, userID, source.AccountID, expectedSource, err)
	}

	if err := s.contributionRepo.UpdateContribution(ctx, *merged); err != nil {
		err = s.revertBalance(ctx, userID, dest.AccountID, expectedDest, err)
		return s.revertBalance(ctx, userID, source.AccountID, expectedSource, err)
	}
	return nil
}

// syncGoalStatus recomputes the goal's status after a contribution mutation
// and persists it when the schema has a status column. The mutation itself
// already succeeded, so a sync failure is logged rather than surfaced.
func (s *goalServiceImpl) syncGoalStatus(ctx context.Context, userID, goalID string) {
	goal, err := s.loadGoalWithSaved(ctx, userID, goalID)
	if err != nil {
		s.LogError(ctx, err, "Failed to resync goal status", slog.String("goal_id", goalID))
		return
	}
	if !s.goalRepo.SupportsStatus() {
		return
	}
	if err := s.goalRepo.UpdateGoalStatus(ctx, userID, goalID, goal.Status); err != nil {
		s.LogError(ctx, err, "Failed to persist goal status", slog.String("goal_id", goalID))
	}
}

// loadGoalWithSaved reads a goal with SavedAmount populated, from the
// progress view when available and the contribution sum otherwise, and
// resolves the displayed status.
func (s *goalServiceImpl) loadGoalWithSaved(ctx context.Context, userID, goalID string) (*domain.Goal, error) {
	if s.goalRepo.SupportsProgressView() {
		goal, err := s.goalRepo.FindGoalWithProgress(ctx, userID, goalID)
		if err != nil {
			return nil, err
		}
		goal.Status = domain.ComputeGoalProgress(goal.TargetAmount, goal.SavedAmount, goal.Status).Status
		return goal, nil
	}

	goal, err := s.goalRepo.FindGoalByID(ctx, userID, goalID)
	if err != nil {
		return nil, err
	}
	sums, err := s.contributionRepo.SumAmountsByGoal(ctx, userID, []string{goalID})
	if err != nil {
		return nil, err
	}
	goal.SavedAmount = sums[goalID]
	goal.Status = domain.ComputeGoalProgress(goal.TargetAmount, goal.SavedAmount, goal.Status).Status
	return goal, nil
}

// revertBalance restores a balance after a failed saga step, unconditionally.
// A failed restore leaves the account recorded-inconsistent and surfaces as
// ErrCompensationFailed carrying the original cause.
func (s *goalServiceImpl) revertBalance(ctx context.Context, userID, accountID string, balance int64, cause error) error {
	if compErr := s.accountRepo.UpdateBalance(ctx, userID, accountID, nil, balance); compErr != nil {
		s.LogError(ctx, compErr, "Balance compensation failed, account left inconsistent",
			slog.String("account_id", accountID),
			slog.Int64("expected_balance", balance),
			slog.String("original_error", cause.Error()))
		return fmt.Errorf("%w: restoring account %s to %d: %v; original: %w", apperrors.ErrCompensationFailed, accountID, balance, compErr, cause)
	}
	return cause
}

func resolveDisplayStatus(goals []domain.Goal) {
	for i := range goals {
		goals[i].Status = domain.ComputeGoalProgress(goals[i].TargetAmount, goals[i].SavedAmount, goals[i].Status).Status
	}
}

func parseOptionalDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	d, err := dto.ParseDate(s)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid date %q", apperrors.ErrValidation, s)
	}
	return &d, nil
}
