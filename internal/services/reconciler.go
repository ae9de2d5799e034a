// Package services holds the engines that turn stored records into views:
// budget reconciliation, suggestions, forecasting, the obligation ledger and
// the dashboard aggregation. Engines are pure where possible; the stateful
// ones talk to the record store through the ports in internal/records.
package services

import (
	"finanzas/internal/core"
)

const (
	BudgetOK         BudgetStatus = "ok"
	BudgetWarning    BudgetStatus = "warning"
	BudgetExceeded   BudgetStatus = "exceeded"
	BudgetUnbudgeted BudgetStatus = "unbudgeted"
)

type (
	// BudgetStatus classifies one category line of a monthly report.
	BudgetStatus string

	// BudgetLine is the reconciled view of one category for one month.
	BudgetLine struct {
		Category    string       `json:"category"`
		Label       string       `json:"label"`
		Icon        string       `json:"icon,omitempty"`
		Allocated   core.Money   `json:"allocated"`
		Spent       core.Money   `json:"spent"`
		Remaining   core.Money   `json:"remaining"`
		Utilization float64      `json:"utilization"`
		Status      BudgetStatus `json:"status"`
	}

	// BudgetReport is the full reconciliation of a month: one line per known
	// category plus the aggregate totals. Recurring monthly obligation
	// payments are folded into TotalSpent as a pseudo-category, so
	// TotalAvailable already accounts for them.
	BudgetReport struct {
		Month          string       `json:"month"`
		Lines          []BudgetLine `json:"lines"`
		TotalAllocated core.Money   `json:"totalAllocated"`
		TotalSpent     core.Money   `json:"totalSpent"`
		TotalAvailable core.Money   `json:"totalAvailable"`
		Recurring      core.Money   `json:"recurring"`
		HasPlan        bool         `json:"hasPlan"`
	}
)

// ClassifyBudget applies the status rules in order: no allocation is
// unbudgeted regardless of spend, then utilization at or above 100% is
// exceeded, at or above 80% is a warning, anything else ok.
func ClassifyBudget(allocated, spent core.Money) BudgetStatus {
	switch {
	case allocated.Cents == 0:
		return BudgetUnbudgeted
	case spent.Cents >= allocated.Cents:
		return BudgetExceeded
	case spent.Cents*100 >= allocated.Cents*80:
		return BudgetWarning
	default:
		return BudgetOK
	}
}

// Reconcile merges a month's plan against the expenses of that month. plan
// may be nil when no plan was saved; every line then reports unbudgeted.
// expenses must already be filtered to the report month; recurring is the
// combined monthly payment of all credits, folded into total spend.
func Reconcile(month string, plan *core.BudgetPlan, expenses []core.Expense, recurring core.Money, registry *core.Registry) BudgetReport {
	spentBy := make(map[string]core.Money)
	for _, e := range expenses {
		spentBy[e.Category] = spentBy[e.Category].Add(e.Amount)
	}

	// Known categories in registry order, then orphaned keys that only
	// exist on historical expenses or the plan.
	keys := registry.Keys()
	seen := make(map[string]bool, len(keys))
	for _, k := range keys {
		seen[k] = true
	}
	for k := range spentBy {
		if !seen[k] {
			keys = append(keys, k)
			seen[k] = true
		}
	}
	if plan != nil {
		for k := range plan.Allocations {
			if !seen[k] {
				keys = append(keys, k)
				seen[k] = true
			}
		}
	}

	report := BudgetReport{
		Month:     month,
		Lines:     make([]BudgetLine, 0, len(keys)),
		Recurring: recurring,
		HasPlan:   plan != nil,
	}
	for _, key := range keys {
		allocated := plan.Allocated(key)
		spent := spentBy[key]
		line := BudgetLine{
			Category:  key,
			Label:     registry.Label(key),
			Allocated: allocated,
			Spent:     spent,
			Remaining: allocated.Sub(spent),
			Status:    ClassifyBudget(allocated, spent),
		}
		if c, ok := registry.Get(key); ok {
			line.Icon = c.Icon
		}
		if allocated.Cents > 0 {
			line.Utilization = float64(spent.Cents) / float64(allocated.Cents) * 100
		}
		report.Lines = append(report.Lines, line)
		report.TotalAllocated = report.TotalAllocated.Add(allocated)
		report.TotalSpent = report.TotalSpent.Add(spent)
	}
	report.TotalSpent = report.TotalSpent.Add(recurring)
	report.TotalAvailable = report.TotalAllocated.Sub(report.TotalSpent)
	return report
}

// FilterExpensesByMonth keeps the expenses whose date falls in the month key.
func FilterExpensesByMonth(expenses []core.Expense, month string) []core.Expense {
	var out []core.Expense
	for _, e := range expenses {
		if e.Date.MonthKey() == month {
			out = append(out, e)
		}
	}
	return out
}

// FilterIncomeByMonth keeps the income entries whose date falls in the month key.
func FilterIncomeByMonth(income []core.Income, month string) []core.Income {
	var out []core.Income
	for _, in := range income {
		if in.Date.MonthKey() == month {
			out = append(out, in)
		}
	}
	return out
}
