package services

import (
	"time"

	"finanzas/internal/core"
)

const (
	SuggestionUnbudgeted SuggestionKind = "chronic_unbudgeted"
	SuggestionSurplus    SuggestionKind = "reassignable_surplus"
	SuggestionReview     SuggestionKind = "review"
)

// surplusThreshold is 10,000 pesos: allocations left over by more than this
// are worth reassigning.
var surplusThreshold = core.Pesos(10000)

type (
	SuggestionKind string

	// Suggestion is one actionable finding about the budget history.
	Suggestion struct {
		Kind     SuggestionKind `json:"kind"`
		Category string         `json:"category,omitempty"`
		Label    string         `json:"label,omitempty"`
		Amount   core.Money     `json:"amount,omitempty"`
	}

	// SuggestionReport collects the findings for the trailing window plus the
	// trailing average income used by the advisory budget check.
	SuggestionReport struct {
		Suggestions   []Suggestion `json:"suggestions"`
		AverageIncome core.Money   `json:"averageIncome"`
		Reassignable  core.Money   `json:"reassignable"`
	}
)

// TrailingAverageIncome sums income recorded in the n months ending at today
// and divides by n, regardless of how many of those months have any entries.
// The fixed divisor is deliberate; an empty window averages to zero.
func TrailingAverageIncome(income []core.Income, today time.Time, n int) core.Money {
	if n <= 0 {
		return core.Money{}
	}
	window := make(map[string]bool, n)
	for _, key := range core.TrailingMonths(today, n) {
		window[key] = true
	}
	var total core.Money
	for _, in := range income {
		if window[in.Date.MonthKey()] {
			total = total.Add(in.Amount)
		}
	}
	return core.Money{Cents: total.Cents / int64(n)}
}

// Suggest inspects the trailing three months of budget history. A category is
// chronically unbudgeted when all three months either have no plan or give it
// a zero allocation. When chronic categories exist and the current month has
// a plan, allocations whose unspent surplus exceeds the threshold are flagged
// as reassignable; with no qualifying surplus a single neutral review
// suggestion is emitted instead.
func Suggest(today time.Time, plans []core.BudgetPlan, expenses []core.Expense, income []core.Income, registry *core.Registry) SuggestionReport {
	months := core.TrailingMonths(today, 3)
	planBy := make(map[string]*core.BudgetPlan, len(plans))
	for i := range plans {
		planBy[plans[i].Month] = &plans[i]
	}

	report := SuggestionReport{
		AverageIncome: TrailingAverageIncome(income, today, 3),
	}

	var chronic []string
	for _, key := range registry.Keys() {
		unbudgeted := true
		for _, month := range months {
			if plan, ok := planBy[month]; ok && plan.Allocated(key).Cents > 0 {
				unbudgeted = false
				break
			}
		}
		if unbudgeted {
			chronic = append(chronic, key)
			report.Suggestions = append(report.Suggestions, Suggestion{
				Kind:     SuggestionUnbudgeted,
				Category: key,
				Label:    registry.Label(key),
			})
		}
	}

	currentPlan := planBy[months[0]]
	if len(chronic) == 0 || currentPlan == nil {
		return report
	}

	spentBy := make(map[string]core.Money)
	for _, e := range FilterExpensesByMonth(expenses, months[0]) {
		spentBy[e.Category] = spentBy[e.Category].Add(e.Amount)
	}

	found := false
	for _, key := range registry.Keys() {
		surplus := currentPlan.Allocated(key).Sub(spentBy[key])
		if surplus.Cents > surplusThreshold.Cents {
			found = true
			report.Reassignable = report.Reassignable.Add(surplus)
			report.Suggestions = append(report.Suggestions, Suggestion{
				Kind:     SuggestionSurplus,
				Category: key,
				Label:    registry.Label(key),
				Amount:   surplus,
			})
		}
	}
	if !found {
		report.Suggestions = append(report.Suggestions, Suggestion{Kind: SuggestionReview})
	}
	return report
}
