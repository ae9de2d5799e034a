// Package charts builds the plain (label, value) series the rendering
// surface consumes. No drawing happens here.
package charts

import (
	"sort"
	"time"

	"finanzas/internal/core"
	"finanzas/internal/services"
)

// Point is one entry of a data series.
type Point struct {
	Label string     `json:"label"`
	Value core.Money `json:"value"`
}

// Series is an ordered, named sequence of points.
type Series struct {
	Name   string  `json:"name"`
	Points []Point `json:"points"`
}

// CategoryDistribution sums a month's expenses per category, in registry
// order, skipping categories with no spend.
func CategoryDistribution(expenses []core.Expense, month string, registry *core.Registry) Series {
	spentBy := make(map[string]core.Money)
	for _, e := range services.FilterExpensesByMonth(expenses, month) {
		spentBy[e.Category] = spentBy[e.Category].Add(e.Amount)
	}

	s := Series{Name: "category_distribution"}
	for _, key := range registry.Keys() {
		if spent, ok := spentBy[key]; ok && !spent.IsZero() {
			s.Points = append(s.Points, Point{Label: registry.Label(key), Value: spent})
			delete(spentBy, key)
		}
	}
	// Orphaned keys from deleted categories come last, labeled by raw key,
	// in sorted order so repeated calls build the same series.
	orphans := make([]string, 0, len(spentBy))
	for key := range spentBy {
		orphans = append(orphans, key)
	}
	sort.Strings(orphans)
	for _, key := range orphans {
		if spent := spentBy[key]; !spent.IsZero() {
			s.Points = append(s.Points, Point{Label: key, Value: spent})
		}
	}
	return s
}

// BudgetVsActual pairs the reconciled allocation and spend per category.
func BudgetVsActual(report services.BudgetReport) (allocated, spent Series) {
	allocated = Series{Name: "allocated"}
	spent = Series{Name: "spent"}
	for _, line := range report.Lines {
		allocated.Points = append(allocated.Points, Point{Label: line.Label, Value: line.Allocated})
		spent.Points = append(spent.Points, Point{Label: line.Label, Value: line.Spent})
	}
	return allocated, spent
}

// IncomeVsExpense totals both flows for one month.
func IncomeVsExpense(expenses []core.Expense, income []core.Income, month string) Series {
	var totalIn, totalOut core.Money
	for _, e := range services.FilterExpensesByMonth(expenses, month) {
		totalOut = totalOut.Add(e.Amount)
	}
	for _, in := range services.FilterIncomeByMonth(income, month) {
		totalIn = totalIn.Add(in.Amount)
	}
	return Series{
		Name: "income_vs_expense",
		Points: []Point{
			{Label: "income", Value: totalIn},
			{Label: "expenses", Value: totalOut},
		},
	}
}

// ForecastTrend turns forecast points into a balance trend line.
func ForecastTrend(today time.Time, horizon int, expenses []core.Expense, income []core.Income) Series {
	s := Series{Name: "forecast_balance"}
	for _, p := range services.Project(today, horizon, expenses, income) {
		s.Points = append(s.Points, Point{Label: p.Month, Value: p.Balance})
	}
	return s
}
