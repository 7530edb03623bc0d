package schema

import (
	"context"
	"errors"
	"fmt"

	"github.com/fintrackhq/fintrack_app/internal/apperrors"
)

// GoalSchema describes which goal table and optional columns exist.
type GoalSchema struct {
	Table           string
	TargetAmountCol string
	TargetDateCol   string // empty = absent
	StartDateCol    string
	FrequencyCol    string
	DescriptionCol  string
	StatusCol       string
	AccountIDCol    string
	ProgressView    string // empty = no live aggregation view
}

// HasStatus reports whether a persisted status column exists.
func (s GoalSchema) HasStatus() bool { return s.StatusCol != "" }

// HasProgressView reports whether the live aggregation view exists.
func (s GoalSchema) HasProgressView() bool { return s.ProgressView != "" }

// ContributionSchema describes which contribution table and optional columns exist.
type ContributionSchema struct {
	Table          string
	UserIDCol      string
	AccountIDCol   string
	DateCol        string
	DescriptionCol string
}

// BudgetSchema describes which budget columns exist.
type BudgetSchema struct {
	AmountCol string
	HasRange  bool // period_start/period_end columns present
}

// ResolveGoalSchema probes the goal table, its optional columns and the
// progress view. The target amount column is required.
func ResolveGoalSchema(ctx context.Context, d *Detector) (GoalSchema, error) {
	table, err := d.ResolveTable(ctx, "saving_goals", "goals")
	if err != nil {
		return GoalSchema{}, err
	}

	s := GoalSchema{Table: table}

	s.TargetAmountCol, _, err = d.ResolveColumn(ctx, table, "target_amount", "goal_amount", "amount")
	if err != nil {
		return GoalSchema{}, err
	}
	if s.TargetAmountCol == "" {
		return GoalSchema{}, fmt.Errorf("%w: missing target amount column in %s", apperrors.ErrSchemaUnsupported, table)
	}

	optional := []struct {
		dst        *string
		candidates []string
	}{
		{&s.TargetDateCol, []string{"target_date", "deadline", "end_date"}},
		{&s.StartDateCol, []string{"start_date"}},
		{&s.FrequencyCol, []string{"frequency"}},
		{&s.DescriptionCol, []string{"description"}},
		{&s.StatusCol, []string{"status"}},
		{&s.AccountIDCol, []string{"account_id"}},
	}
	for _, opt := range optional {
		name, ok, err := d.ResolveColumn(ctx, table, opt.candidates...)
		if err != nil {
			return GoalSchema{}, err
		}
		if ok {
			*opt.dst = name
		}
	}

	view, err := d.ResolveTable(ctx, "saving_goals_with_progress", "goals_with_progress")
	switch {
	case err == nil:
		s.ProgressView = view
	case errors.Is(err, apperrors.ErrSchemaUnsupported):
		// no view; fall back to manual contribution summation
	default:
		return GoalSchema{}, err
	}

	return s, nil
}

// ResolveContributionSchema probes the contribution table and its optional
// columns. account_id is required to keep balances consistent.
func ResolveContributionSchema(ctx context.Context, d *Detector) (ContributionSchema, error) {
	table, err := d.ResolveTable(ctx, "saving_goal_contributions", "goal_contributions", "goals_contributions")
	if err != nil {
		return ContributionSchema{}, err
	}

	s := ContributionSchema{Table: table}

	optional := []struct {
		dst    *string
		column string
	}{
		{&s.UserIDCol, "user_id"},
		{&s.AccountIDCol, "account_id"},
		{&s.DateCol, "date"},
		{&s.DescriptionCol, "description"},
	}
	for _, opt := range optional {
		name, ok, err := d.ResolveColumn(ctx, table, opt.column)
		if err != nil {
			return ContributionSchema{}, err
		}
		if ok {
			*opt.dst = name
		}
	}

	if s.AccountIDCol == "" {
		return ContributionSchema{}, fmt.Errorf(
			"%w: %s.account_id is required to keep balances consistent", apperrors.ErrSchemaUnsupported, table)
	}

	return s, nil
}

// ResolveBudgetSchema probes the budgets amount column and the presence of
// the period range columns.
func ResolveBudgetSchema(ctx context.Context, d *Detector) (BudgetSchema, error) {
	amountCol, ok, err := d.ResolveColumn(ctx, "budgets", "limit_amount", "amount")
	if err != nil {
		return BudgetSchema{}, err
	}
	if !ok {
		return BudgetSchema{}, fmt.Errorf("%w: missing amount column in budgets", apperrors.ErrSchemaUnsupported)
	}

	_, hasStart, err := d.ResolveColumn(ctx, "budgets", "period_start")
	if err != nil {
		return BudgetSchema{}, err
	}
	_, hasEnd, err := d.ResolveColumn(ctx, "budgets", "period_end")
	if err != nil {
		return BudgetSchema{}, err
	}

	return BudgetSchema{
		AmountCol: amountCol,
		HasRange:  hasStart && hasEnd,
	}, nil
}
