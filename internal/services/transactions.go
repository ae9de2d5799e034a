package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"finanzas/internal/apperror"
	"finanzas/internal/core"
	"finanzas/internal/records"
)

// TransactionService records expenses and income entries.
type TransactionService struct {
	store records.Store
}

func NewTransactionService(store records.Store) *TransactionService {
	return &TransactionService{store: store}
}

func (s *TransactionService) AddExpense(ctx context.Context, e core.Expense) (core.Expense, error) {
	e.ID = 0
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
	if err := e.Validate(); err != nil {
		return core.Expense{}, apperror.Validation(err.Error())
	}
	id, err := s.store.AddExpense(ctx, e)
	if err != nil {
		return core.Expense{}, apperror.Storage("save expense", err)
	}
	e.ID = id
	slog.InfoContext(ctx, "Expense recorded", "id", id, "category", e.Category, "amount", e.Amount)
	return e, nil
}

func (s *TransactionService) DeleteExpense(ctx context.Context, id int64) error {
	err := s.store.DeleteExpense(ctx, id)
	if errors.Is(err, records.ErrNotFound) {
		return apperror.NotFound(fmt.Sprintf("expense %d not found", id))
	}
	if err != nil {
		return apperror.Storage("delete expense", err)
	}
	return nil
}

// ListExpenses returns the expenses of one month, or everything when month
// is empty.
func (s *TransactionService) ListExpenses(ctx context.Context, month string) ([]core.Expense, error) {
	expenses, err := s.store.ListExpenses(ctx)
	if err != nil {
		return nil, apperror.Storage("list expenses", err)
	}
	if month == "" {
		return expenses, nil
	}
	if _, err := core.ParseMonthKey(month); err != nil {
		return nil, apperror.Validation("invalid month key")
	}
	return FilterExpensesByMonth(expenses, month), nil
}

func (s *TransactionService) AddIncome(ctx context.Context, in core.Income) (core.Income, error) {
	in.ID = 0
	if in.CreatedAt.IsZero() {
		in.CreatedAt = time.Now()
	}
	if err := in.Validate(); err != nil {
		return core.Income{}, apperror.Validation(err.Error())
	}
	id, err := s.store.AddIncome(ctx, in)
	if err != nil {
		return core.Income{}, apperror.Storage("save income", err)
	}
	in.ID = id
	slog.InfoContext(ctx, "Income recorded", "id", id, "type", in.Type, "amount", in.Amount)
	return in, nil
}

func (s *TransactionService) DeleteIncome(ctx context.Context, id int64) error {
	err := s.store.DeleteIncome(ctx, id)
	if errors.Is(err, records.ErrNotFound) {
		return apperror.NotFound(fmt.Sprintf("income %d not found", id))
	}
	if err != nil {
		return apperror.Storage("delete income", err)
	}
	return nil
}

func (s *TransactionService) ListIncome(ctx context.Context, month string) ([]core.Income, error) {
	income, err := s.store.ListIncome(ctx)
	if err != nil {
		return nil, apperror.Storage("list income", err)
	}
	if month == "" {
		return income, nil
	}
	if _, err := core.ParseMonthKey(month); err != nil {
		return nil, apperror.Validation("invalid month key")
	}
	return FilterIncomeByMonth(income, month), nil
}
