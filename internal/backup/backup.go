// Package backup implements the JSON backup file: a single document holding
// the category registry and all five record collections.
package backup

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"time"

	"finanzas/internal/apperror"
	"finanzas/internal/core"
	"finanzas/internal/records"
)

// Version is the schema version written on export. Imports accept older
// versions; missing collections simply restore empty.
const Version = "4.3.0"

// File is the backup document. Income appears under "income"; LegacyIncomes
// captures the "incomes" key older exports used. Budgets were added in a
// later schema version, so the array may be absent entirely.
type File struct {
	Version       string            `json:"version"`
	Timestamp     time.Time         `json:"timestamp"`
	Categories    *core.Registry    `json:"categories,omitempty"`
	Expenses      []core.Expense    `json:"expenses"`
	Income        []core.Income     `json:"income"`
	LegacyIncomes []core.Income     `json:"incomes,omitempty"`
	Loans         []core.Loan       `json:"loans"`
	Credits       []core.Credit     `json:"credits"`
	Budgets       []core.BudgetPlan `json:"budgets,omitempty"`
}

// Manager exports and imports the whole record store.
type Manager struct {
	store records.Store
}

func NewManager(store records.Store) *Manager {
	return &Manager{store: store}
}

// Export writes the full backup document to w.
func (m *Manager) Export(ctx context.Context, w io.Writer) error {
	file := File{Version: Version, Timestamp: time.Now().UTC()}

	var err error
	if file.Categories, err = m.store.LoadRegistry(ctx); err != nil {
		return apperror.Storage("load categories", err)
	}
	if file.Expenses, err = m.store.ListExpenses(ctx); err != nil {
		return apperror.Storage("list expenses", err)
	}
	if file.Income, err = m.store.ListIncome(ctx); err != nil {
		return apperror.Storage("list income", err)
	}
	if file.Loans, err = m.store.ListLoans(ctx); err != nil {
		return apperror.Storage("list loans", err)
	}
	if file.Credits, err = m.store.ListCredits(ctx); err != nil {
		return apperror.Storage("list credits", err)
	}
	if file.Budgets, err = m.store.ListBudgets(ctx); err != nil {
		return apperror.Storage("list budgets", err)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(file); err != nil {
		return fmt.Errorf("encode backup: %w", err)
	}
	return nil
}

// Import replaces the store contents with the backup document read from r.
// Every collection is cleared first and records are re-inserted with fresh
// ids. Collection writes are independent; a failure partway leaves a mixed
// state the caller must surface.
func (m *Manager) Import(ctx context.Context, r io.Reader) error {
	var file File
	if err := json.NewDecoder(r).Decode(&file); err != nil {
		return apperror.Validation(fmt.Sprintf("invalid backup file: %v", err))
	}
	income := file.Income
	if len(income) == 0 {
		income = file.LegacyIncomes
	}

	if err := m.ClearAll(ctx); err != nil {
		return err
	}

	for _, e := range file.Expenses {
		e.ID = 0
		if _, err := m.store.AddExpense(ctx, e); err != nil {
			return apperror.Storage("restore expense", err)
		}
	}
	for _, in := range income {
		in.ID = 0
		if _, err := m.store.AddIncome(ctx, in); err != nil {
			return apperror.Storage("restore income", err)
		}
	}
	for _, l := range file.Loans {
		l.ID = 0
		if _, err := m.store.AddLoan(ctx, l); err != nil {
			return apperror.Storage("restore loan", err)
		}
	}
	for _, c := range file.Credits {
		c.ID = 0
		if _, err := m.store.AddCredit(ctx, c); err != nil {
			return apperror.Storage("restore credit", err)
		}
	}
	for _, p := range file.Budgets {
		p.ID = 0
		if _, err := m.store.AddBudget(ctx, p); err != nil {
			return apperror.Storage("restore budget", err)
		}
	}

	if file.Categories != nil && file.Categories.Len() > 0 {
		if err := m.store.SaveRegistry(ctx, file.Categories); err != nil {
			return apperror.Storage("restore categories", err)
		}
	}

	slog.InfoContext(ctx, "Backup imported",
		"version", file.Version,
		"expenses", len(file.Expenses),
		"income", len(income),
		"loans", len(file.Loans),
		"credits", len(file.Credits),
		"budgets", len(file.Budgets))
	return nil
}

// ClearAll wipes every record collection. The category registry is kept.
func (m *Manager) ClearAll(ctx context.Context) error {
	if err := m.store.ClearExpenses(ctx); err != nil {
		return apperror.Storage("clear expenses", err)
	}
	if err := m.store.ClearIncome(ctx); err != nil {
		return apperror.Storage("clear income", err)
	}
	if err := m.store.ClearLoans(ctx); err != nil {
		return apperror.Storage("clear loans", err)
	}
	if err := m.store.ClearCredits(ctx); err != nil {
		return apperror.Storage("clear credits", err)
	}
	if err := m.store.ClearBudgets(ctx); err != nil {
		return apperror.Storage("clear budgets", err)
	}
	return nil
}
