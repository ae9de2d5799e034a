package services

import (
	"time"

	"finanzas/internal/core"
)

// DefaultForecastHorizon is how many months Project looks ahead when the
// caller does not override it.
const DefaultForecastHorizon = 6

// ForecastPoint is one projected month. Totals are the sums of transactions
// actually recorded for that month, including future-dated entries the user
// pre-entered; months with no entries report zero. Nothing is extrapolated.
type ForecastPoint struct {
	Month    string     `json:"month"`
	Income   core.Money `json:"income"`
	Expenses core.Money `json:"expenses"`
	Balance  core.Money `json:"balance"`
}

// Project returns one point per month from the month containing today through
// horizon-1 months ahead. Pure function of its inputs; recomputed fresh on
// every call.
func Project(today time.Time, horizon int, expenses []core.Expense, income []core.Income) []ForecastPoint {
	if horizon <= 0 {
		horizon = DefaultForecastHorizon
	}

	expenseBy := make(map[string]core.Money)
	for _, e := range expenses {
		key := e.Date.MonthKey()
		expenseBy[key] = expenseBy[key].Add(e.Amount)
	}
	incomeBy := make(map[string]core.Money)
	for _, in := range income {
		key := in.Date.MonthKey()
		incomeBy[key] = incomeBy[key].Add(in.Amount)
	}

	points := make([]ForecastPoint, 0, horizon)
	for i := 0; i < horizon; i++ {
		key := core.MonthKey(core.AddMonths(today, i))
		point := ForecastPoint{
			Month:    key,
			Income:   incomeBy[key],
			Expenses: expenseBy[key],
		}
		point.Balance = point.Income.Sub(point.Expenses)
		points = append(points, point)
	}
	return points
}
