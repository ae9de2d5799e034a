package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"finanzas/internal/apperror"
	"finanzas/internal/core"
	"finanzas/internal/records"
)

// BudgetPlanner persists monthly plans and produces reconciliation reports.
type BudgetPlanner struct {
	store records.Store
}

func NewBudgetPlanner(store records.Store) *BudgetPlanner {
	return &BudgetPlanner{store: store}
}

// SaveResult reports a stored plan together with the advisory income check.
type SaveResult struct {
	Plan core.BudgetPlan `json:"plan"`
	// ExceedsIncome is set when total allocation is above the trailing
	// 3-month average income. Advisory only; the save went through.
	ExceedsIncome bool       `json:"exceedsIncome"`
	AverageIncome core.Money `json:"averageIncome"`
}

// SavePlan upserts the plan for its month. When the total allocation exceeds
// the trailing 3-month average income (and that average is positive) the
// result carries a warning, but the save proceeds regardless.
func (s *BudgetPlanner) SavePlan(ctx context.Context, plan core.BudgetPlan, today time.Time) (SaveResult, error) {
	if plan.CreatedAt.IsZero() {
		plan.CreatedAt = time.Now()
	}
	if err := plan.Validate(); err != nil {
		return SaveResult{}, apperror.Validation(err.Error())
	}

	existing, err := s.store.GetBudgetByMonth(ctx, plan.Month)
	switch {
	case err == nil:
		plan.ID = existing.ID
		if err := s.store.PutBudget(ctx, plan); err != nil {
			return SaveResult{}, apperror.Storage("update budget", err)
		}
	case errors.Is(err, records.ErrNotFound):
		id, err := s.store.AddBudget(ctx, plan)
		if err != nil {
			return SaveResult{}, apperror.Storage("save budget", err)
		}
		plan.ID = id
	default:
		return SaveResult{}, apperror.Storage("load budget", err)
	}

	income, err := s.store.ListIncome(ctx)
	if err != nil {
		return SaveResult{}, apperror.Storage("list income", err)
	}

	result := SaveResult{
		Plan:          plan,
		AverageIncome: TrailingAverageIncome(income, today, 3),
	}
	if result.AverageIncome.Cents > 0 && plan.TotalAllocated().Cents > result.AverageIncome.Cents {
		result.ExceedsIncome = true
		slog.WarnContext(ctx, "Budget allocation exceeds average income",
			"month", plan.Month,
			"allocated", plan.TotalAllocated(),
			"average_income", result.AverageIncome)
	}
	return result, nil
}

// Report reconciles one month: the plan (when present), the month's expenses
// and the recurring credit payments.
func (s *BudgetPlanner) Report(ctx context.Context, month string) (BudgetReport, error) {
	if _, err := core.ParseMonthKey(month); err != nil {
		return BudgetReport{}, apperror.Validation("invalid month key")
	}

	var plan *core.BudgetPlan
	stored, err := s.store.GetBudgetByMonth(ctx, month)
	switch {
	case err == nil:
		plan = &stored
	case errors.Is(err, records.ErrNotFound):
	default:
		return BudgetReport{}, apperror.Storage("load budget", err)
	}

	expenses, err := s.store.ListExpenses(ctx)
	if err != nil {
		return BudgetReport{}, apperror.Storage("list expenses", err)
	}
	credits, err := s.store.ListCredits(ctx)
	if err != nil {
		return BudgetReport{}, apperror.Storage("list credits", err)
	}
	registry, err := s.store.LoadRegistry(ctx)
	if err != nil {
		return BudgetReport{}, apperror.Storage("load categories", err)
	}

	report := Reconcile(month, plan,
		FilterExpensesByMonth(expenses, month),
		RecurringMonthlyTotal(credits),
		registry)
	return report, nil
}

// Suggestions runs the suggestion engine over the trailing window.
func (s *BudgetPlanner) Suggestions(ctx context.Context, today time.Time) (SuggestionReport, error) {
	plans, err := s.store.ListBudgets(ctx)
	if err != nil {
		return SuggestionReport{}, apperror.Storage("list budgets", err)
	}
	expenses, err := s.store.ListExpenses(ctx)
	if err != nil {
		return SuggestionReport{}, apperror.Storage("list expenses", err)
	}
	income, err := s.store.ListIncome(ctx)
	if err != nil {
		return SuggestionReport{}, apperror.Storage("list income", err)
	}
	registry, err := s.store.LoadRegistry(ctx)
	if err != nil {
		return SuggestionReport{}, apperror.Storage("load categories", err)
	}
	return Suggest(today, plans, expenses, income, registry), nil
}

// Forecast projects the next horizon months from recorded transactions.
func (s *BudgetPlanner) Forecast(ctx context.Context, today time.Time, horizon int) ([]ForecastPoint, error) {
	expenses, err := s.store.ListExpenses(ctx)
	if err != nil {
		return nil, apperror.Storage("list expenses", err)
	}
	income, err := s.store.ListIncome(ctx)
	if err != nil {
		return nil, apperror.Storage("list income", err)
	}
	return Project(today, horizon, expenses, income), nil
}
