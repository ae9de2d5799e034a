package services

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"finanzas/internal/apperror"
	"finanzas/internal/core"
	"finanzas/internal/records"
)

// DashboardSummary is the headline view for one month: the month's flows,
// outstanding obligation balances and the overall balance across all records.
type DashboardSummary struct {
	Month            string     `json:"month"`
	MonthExpenses    core.Money `json:"monthExpenses"`
	MonthIncome      core.Money `json:"monthIncome"`
	MonthBalance     core.Money `json:"monthBalance"`
	TotalBalance     core.Money `json:"totalBalance"`
	LentOutstanding  core.Money `json:"lentOutstanding"`
	BorrowedOutstand core.Money `json:"borrowedOutstanding"`
	RecurringMonthly core.Money `json:"recurringMonthly"`
	OverdueCount     int        `json:"overdueCount"`
}

// Dashboard joins the four collections and aggregates the summary.
type Dashboard struct {
	store records.Store
}

func NewDashboard(store records.Store) *Dashboard {
	return &Dashboard{store: store}
}

// Summarize fetches expenses, income, loans and credits concurrently; the
// four reads have no ordering dependency. The month cursor picks which
// month's flows are reported; totals span everything recorded.
func (d *Dashboard) Summarize(ctx context.Context, month string, today time.Time) (DashboardSummary, error) {
	if _, err := core.ParseMonthKey(month); err != nil {
		return DashboardSummary{}, apperror.Validation("invalid month key")
	}

	var (
		expenses []core.Expense
		income   []core.Income
		loans    []core.Loan
		credits  []core.Credit
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		expenses, err = d.store.ListExpenses(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		income, err = d.store.ListIncome(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		loans, err = d.store.ListLoans(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		credits, err = d.store.ListCredits(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return DashboardSummary{}, apperror.Storage("load dashboard collections", err)
	}

	summary := DashboardSummary{Month: month}
	for _, e := range expenses {
		if e.Date.MonthKey() == month {
			summary.MonthExpenses = summary.MonthExpenses.Add(e.Amount)
		}
		summary.TotalBalance = summary.TotalBalance.Sub(e.Amount)
	}
	for _, in := range income {
		if in.Date.MonthKey() == month {
			summary.MonthIncome = summary.MonthIncome.Add(in.Amount)
		}
		summary.TotalBalance = summary.TotalBalance.Add(in.Amount)
	}
	summary.MonthBalance = summary.MonthIncome.Sub(summary.MonthExpenses)
	summary.LentOutstanding, summary.BorrowedOutstand = OutstandingLoans(loans)
	summary.RecurringMonthly = RecurringMonthlyTotal(credits)

	for _, l := range loans {
		if l.IsOverdue(today) {
			summary.OverdueCount++
		}
	}
	for _, c := range credits {
		if c.IsOverdue(today) {
			summary.OverdueCount++
		}
	}
	return summary, nil
}
