// Package records declares the ports over the five record collections and
// the settings store. The engines never persist anything themselves; they
// operate on data supplied through these interfaces.
package records

import (
	"context"
	"errors"

	"finanzas/internal/core"
)

// ErrNotFound is returned by Get/Put/Delete when the id does not exist.
var ErrNotFound = errors.New("record not found")

type (
	ExpenseStore interface {
		AddExpense(ctx context.Context, e core.Expense) (int64, error)
		GetExpense(ctx context.Context, id int64) (core.Expense, error)
		ListExpenses(ctx context.Context) ([]core.Expense, error)
		DeleteExpense(ctx context.Context, id int64) error
		ClearExpenses(ctx context.Context) error
	}

	IncomeStore interface {
		AddIncome(ctx context.Context, in core.Income) (int64, error)
		GetIncome(ctx context.Context, id int64) (core.Income, error)
		ListIncome(ctx context.Context) ([]core.Income, error)
		DeleteIncome(ctx context.Context, id int64) error
		ClearIncome(ctx context.Context) error
	}

	LoanStore interface {
		AddLoan(ctx context.Context, l core.Loan) (int64, error)
		PutLoan(ctx context.Context, l core.Loan) error
		GetLoan(ctx context.Context, id int64) (core.Loan, error)
		ListLoans(ctx context.Context) ([]core.Loan, error)
		DeleteLoan(ctx context.Context, id int64) error
		ClearLoans(ctx context.Context) error
	}

	CreditStore interface {
		AddCredit(ctx context.Context, c core.Credit) (int64, error)
		PutCredit(ctx context.Context, c core.Credit) error
		GetCredit(ctx context.Context, id int64) (core.Credit, error)
		ListCredits(ctx context.Context) ([]core.Credit, error)
		DeleteCredit(ctx context.Context, id int64) error
		ClearCredits(ctx context.Context) error
	}

	BudgetStore interface {
		AddBudget(ctx context.Context, p core.BudgetPlan) (int64, error)
		PutBudget(ctx context.Context, p core.BudgetPlan) error
		// GetBudgetByMonth returns ErrNotFound when no plan exists for the key.
		GetBudgetByMonth(ctx context.Context, month string) (core.BudgetPlan, error)
		ListBudgets(ctx context.Context) ([]core.BudgetPlan, error)
		DeleteBudget(ctx context.Context, id int64) error
		ClearBudgets(ctx context.Context) error
	}

	// SettingsStore persists the category registry, read at startup and
	// written on every category mutation.
	SettingsStore interface {
		LoadRegistry(ctx context.Context) (*core.Registry, error)
		SaveRegistry(ctx context.Context, r *core.Registry) error
	}

	// Store is the full record store: all five collections plus settings.
	Store interface {
		ExpenseStore
		IncomeStore
		LoanStore
		CreditStore
		BudgetStore
		SettingsStore
	}
)
