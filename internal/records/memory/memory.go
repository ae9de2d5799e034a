// Package memory is an in-memory record store, used by tests and as the
// zero-configuration fallback backend.
package memory

import (
	"context"
	"sort"
	"sync"

	"finanzas/internal/core"
	"finanzas/internal/records"
)

// Store keeps every collection in maps guarded by one mutex. Ids are
// assigned from a single auto-increment counter per collection.
type Store struct {
	mu sync.Mutex

	nextID   map[string]int64
	expenses map[int64]core.Expense
	income   map[int64]core.Income
	loans    map[int64]core.Loan
	credits  map[int64]core.Credit
	budgets  map[int64]core.BudgetPlan
	registry *core.Registry
}

var _ records.Store = (*Store)(nil)

func New() *Store {
	return &Store{
		nextID:   make(map[string]int64),
		expenses: make(map[int64]core.Expense),
		income:   make(map[int64]core.Income),
		loans:    make(map[int64]core.Loan),
		credits:  make(map[int64]core.Credit),
		budgets:  make(map[int64]core.BudgetPlan),
		registry: core.DefaultRegistry(),
	}
}

func (s *Store) nextIDFor(collection string) int64 {
	s.nextID[collection]++
	return s.nextID[collection]
}

func (s *Store) AddExpense(_ context.Context, e core.Expense) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e.ID = s.nextIDFor("expenses")
	s.expenses[e.ID] = e
	return e.ID, nil
}

func (s *Store) GetExpense(_ context.Context, id int64) (core.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.expenses[id]
	if !ok {
		return core.Expense{}, records.ErrNotFound
	}
	return e, nil
}

func (s *Store) ListExpenses(_ context.Context) ([]core.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Expense, 0, len(s.expenses))
	for _, e := range s.expenses {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) DeleteExpense(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.expenses[id]; !ok {
		return records.ErrNotFound
	}
	delete(s.expenses, id)
	return nil
}

func (s *Store) ClearExpenses(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.expenses = make(map[int64]core.Expense)
	return nil
}

func (s *Store) AddIncome(_ context.Context, in core.Income) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	in.ID = s.nextIDFor("income")
	s.income[in.ID] = in
	return in.ID, nil
}

func (s *Store) GetIncome(_ context.Context, id int64) (core.Income, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	in, ok := s.income[id]
	if !ok {
		return core.Income{}, records.ErrNotFound
	}
	return in, nil
}

func (s *Store) ListIncome(_ context.Context) ([]core.Income, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Income, 0, len(s.income))
	for _, in := range s.income {
		out = append(out, in)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) DeleteIncome(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.income[id]; !ok {
		return records.ErrNotFound
	}
	delete(s.income, id)
	return nil
}

func (s *Store) ClearIncome(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.income = make(map[int64]core.Income)
	return nil
}

func (s *Store) AddLoan(_ context.Context, l core.Loan) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l.ID = s.nextIDFor("loans")
	s.loans[l.ID] = l
	return l.ID, nil
}

func (s *Store) PutLoan(_ context.Context, l core.Loan) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.loans[l.ID]; !ok {
		return records.ErrNotFound
	}
	s.loans[l.ID] = l
	return nil
}

func (s *Store) GetLoan(_ context.Context, id int64) (core.Loan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.loans[id]
	if !ok {
		return core.Loan{}, records.ErrNotFound
	}
	return l, nil
}

func (s *Store) ListLoans(_ context.Context) ([]core.Loan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Loan, 0, len(s.loans))
	for _, l := range s.loans {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) DeleteLoan(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.loans[id]; !ok {
		return records.ErrNotFound
	}
	delete(s.loans, id)
	return nil
}

func (s *Store) ClearLoans(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loans = make(map[int64]core.Loan)
	return nil
}

func (s *Store) AddCredit(_ context.Context, c core.Credit) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.ID = s.nextIDFor("credits")
	s.credits[c.ID] = c
	return c.ID, nil
}

func (s *Store) PutCredit(_ context.Context, c core.Credit) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.credits[c.ID]; !ok {
		return records.ErrNotFound
	}
	s.credits[c.ID] = c
	return nil
}

func (s *Store) GetCredit(_ context.Context, id int64) (core.Credit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.credits[id]
	if !ok {
		return core.Credit{}, records.ErrNotFound
	}
	return c, nil
}

func (s *Store) ListCredits(_ context.Context) ([]core.Credit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Credit, 0, len(s.credits))
	for _, c := range s.credits {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) DeleteCredit(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.credits[id]; !ok {
		return records.ErrNotFound
	}
	delete(s.credits, id)
	return nil
}

func (s *Store) ClearCredits(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.credits = make(map[int64]core.Credit)
	return nil
}

func (s *Store) AddBudget(_ context.Context, p core.BudgetPlan) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p.ID = s.nextIDFor("budgets")
	s.budgets[p.ID] = p
	return p.ID, nil
}

func (s *Store) PutBudget(_ context.Context, p core.BudgetPlan) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.budgets[p.ID]; !ok {
		return records.ErrNotFound
	}
	s.budgets[p.ID] = p
	return nil
}

func (s *Store) GetBudgetByMonth(_ context.Context, month string) (core.BudgetPlan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.budgets {
		if p.Month == month {
			return p, nil
		}
	}
	return core.BudgetPlan{}, records.ErrNotFound
}

func (s *Store) ListBudgets(_ context.Context) ([]core.BudgetPlan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.BudgetPlan, 0, len(s.budgets))
	for _, p := range s.budgets {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) DeleteBudget(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.budgets[id]; !ok {
		return records.ErrNotFound
	}
	delete(s.budgets, id)
	return nil
}

func (s *Store) ClearBudgets(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.budgets = make(map[int64]core.BudgetPlan)
	return nil
}

// LoadRegistry returns a copy so callers can mutate the result without
// racing against other readers of the stored registry.
func (s *Store) LoadRegistry(_ context.Context) (*core.Registry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.registry.Clone(), nil
}

func (s *Store) SaveRegistry(_ context.Context, r *core.Registry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.registry = r.Clone()
	return nil
}
