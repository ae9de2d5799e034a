package http

import (
	"net/http"

	"finanzas/internal/core"
)

type expenseRequest struct {
	Date        core.Date  `json:"date"`
	Category    string     `json:"category"`
	Description string     `json:"description"`
	Amount      core.Money `json:"amount"`
}

func (s *Server) handleAddExpense(w http.ResponseWriter, r *http.Request) {
	var req expenseRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}
	e, err := s.transactions.AddExpense(r.Context(), core.Expense{
		Date:        req.Date,
		Category:    sanitizeInput(req.Category),
		Description: sanitizeInput(req.Description),
		Amount:      req.Amount,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}
	s.invalidateReports()
	respondJSON(w, http.StatusCreated, e)
}

func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	month, err := monthParam(r, s.now())
	if err != nil {
		respondError(w, r, err)
		return
	}
	expenses, err := s.transactions.ListExpenses(r.Context(), month)
	if err != nil {
		respondError(w, r, err)
		return
	}
	if expenses == nil {
		expenses = []core.Expense{}
	}
	respondJSON(w, http.StatusOK, expenses)
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	if err := s.transactions.DeleteExpense(r.Context(), id); err != nil {
		respondError(w, r, err)
		return
	}
	s.invalidateReports()
	respondJSON(w, http.StatusNoContent, nil)
}

type incomeRequest struct {
	Date        core.Date       `json:"date"`
	Type        core.IncomeType `json:"type"`
	Description string          `json:"description"`
	Amount      core.Money      `json:"amount"`
	PayMonth    string          `json:"month,omitempty"`
}

func (s *Server) handleAddIncome(w http.ResponseWriter, r *http.Request) {
	var req incomeRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}
	in, err := s.transactions.AddIncome(r.Context(), core.Income{
		Date:        req.Date,
		Type:        req.Type,
		Description: sanitizeInput(req.Description),
		Amount:      req.Amount,
		PayMonth:    req.PayMonth,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}
	s.invalidateReports()
	respondJSON(w, http.StatusCreated, in)
}

func (s *Server) handleListIncome(w http.ResponseWriter, r *http.Request) {
	month, err := monthParam(r, s.now())
	if err != nil {
		respondError(w, r, err)
		return
	}
	income, err := s.transactions.ListIncome(r.Context(), month)
	if err != nil {
		respondError(w, r, err)
		return
	}
	if income == nil {
		income = []core.Income{}
	}
	respondJSON(w, http.StatusOK, income)
}

func (s *Server) handleDeleteIncome(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	if err := s.transactions.DeleteIncome(r.Context(), id); err != nil {
		respondError(w, r, err)
		return
	}
	s.invalidateReports()
	respondJSON(w, http.StatusNoContent, nil)
}
