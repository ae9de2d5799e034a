package http

import (
	"net/http"
	"strconv"
	"strings"

	"finanzas/internal/apperror"
	"finanzas/internal/charts"
	"finanzas/internal/core"
)

type budgetRequest struct {
	Month       string                `json:"month"`
	Allocations map[string]core.Money `json:"categories"`
}

func (s *Server) handleSaveBudget(w http.ResponseWriter, r *http.Request) {
	var req budgetRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}
	result, err := s.planner.SavePlan(r.Context(), core.BudgetPlan{
		Month:       req.Month,
		Allocations: req.Allocations,
	}, s.now())
	if err != nil {
		respondError(w, r, err)
		return
	}
	s.invalidateReports()
	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleListBudgets(w http.ResponseWriter, r *http.Request) {
	plans, err := s.store.ListBudgets(r.Context())
	if err != nil {
		respondError(w, r, apperror.Storage("list budgets", err))
		return
	}
	if plans == nil {
		plans = []core.BudgetPlan{}
	}
	respondJSON(w, http.StatusOK, plans)
}

func (s *Server) handleBudgetReport(w http.ResponseWriter, r *http.Request) {
	month, err := monthParam(r, s.now())
	if err != nil {
		respondError(w, r, err)
		return
	}
	if cached, ok := s.reportCache.Get(month); ok {
		respondJSON(w, http.StatusOK, cached)
		return
	}
	report, err := s.planner.Report(r.Context(), month)
	if err != nil {
		respondError(w, r, err)
		return
	}
	s.reportCache.Set(month, report)
	respondJSON(w, http.StatusOK, report)
}

func (s *Server) handleSuggestions(w http.ResponseWriter, r *http.Request) {
	report, err := s.planner.Suggestions(r.Context(), s.now())
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, report)
}

func (s *Server) handleForecast(w http.ResponseWriter, r *http.Request) {
	horizon := s.horizon
	if v := strings.TrimSpace(r.URL.Query().Get("months")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 36 {
			respondError(w, r, apperror.Validation("invalid months parameter"))
			return
		}
		horizon = n
	}
	points, err := s.planner.Forecast(r.Context(), s.now(), horizon)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, points)
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	month, err := monthParam(r, s.now())
	if err != nil {
		respondError(w, r, err)
		return
	}
	summary, err := s.dashboard.Summarize(r.Context(), month, s.now())
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, summary)
}

// chartInputs loads what the chart builders need in one place.
func (s *Server) chartInputs(r *http.Request) ([]core.Expense, []core.Income, *core.Registry, error) {
	expenses, err := s.store.ListExpenses(r.Context())
	if err != nil {
		return nil, nil, nil, apperror.Storage("list expenses", err)
	}
	income, err := s.store.ListIncome(r.Context())
	if err != nil {
		return nil, nil, nil, apperror.Storage("list income", err)
	}
	registry, err := s.store.LoadRegistry(r.Context())
	if err != nil {
		return nil, nil, nil, apperror.Storage("load categories", err)
	}
	return expenses, income, registry, nil
}

func (s *Server) handleChartCategories(w http.ResponseWriter, r *http.Request) {
	month, err := monthParam(r, s.now())
	if err != nil {
		respondError(w, r, err)
		return
	}
	expenses, _, registry, err := s.chartInputs(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, charts.CategoryDistribution(expenses, month, registry))
}

func (s *Server) handleChartBudget(w http.ResponseWriter, r *http.Request) {
	month, err := monthParam(r, s.now())
	if err != nil {
		respondError(w, r, err)
		return
	}
	report, err := s.planner.Report(r.Context(), month)
	if err != nil {
		respondError(w, r, err)
		return
	}
	allocated, spent := charts.BudgetVsActual(report)
	respondJSON(w, http.StatusOK, map[string]any{"allocated": allocated, "spent": spent})
}

func (s *Server) handleChartFlows(w http.ResponseWriter, r *http.Request) {
	month, err := monthParam(r, s.now())
	if err != nil {
		respondError(w, r, err)
		return
	}
	expenses, income, _, err := s.chartInputs(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, charts.IncomeVsExpense(expenses, income, month))
}

func (s *Server) handleChartForecast(w http.ResponseWriter, r *http.Request) {
	expenses, income, _, err := s.chartInputs(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, charts.ForecastTrend(s.now(), s.horizon, expenses, income))
}
