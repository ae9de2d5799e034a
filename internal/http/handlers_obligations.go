package http

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"finanzas/internal/apperror"
	"finanzas/internal/core"
	"finanzas/internal/records"
)

type loanRequest struct {
	Direction    core.LoanDirection `json:"type"`
	Person       string             `json:"person"`
	Amount       core.Money         `json:"amount"`
	DueDate      core.Date          `json:"dueDate"`
	Payment      core.PaymentType   `json:"paymentType"`
	Installments int                `json:"installments,omitempty"`
}

func (s *Server) handleCreateLoan(w http.ResponseWriter, r *http.Request) {
	var req loanRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}
	l, err := s.ledger.CreateLoan(r.Context(), core.Loan{
		Direction:    req.Direction,
		Person:       sanitizeInput(req.Person),
		Principal:    req.Amount,
		DueDate:      req.DueDate,
		Payment:      req.Payment,
		Installments: req.Installments,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, l)
}

func (s *Server) handleListLoans(w http.ResponseWriter, r *http.Request) {
	loans, err := s.store.ListLoans(r.Context())
	if err != nil {
		respondError(w, r, apperror.Storage("list loans", err))
		return
	}
	if loans == nil {
		loans = []core.Loan{}
	}
	respondJSON(w, http.StatusOK, loans)
}

func (s *Server) handleDeleteLoan(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	err = s.store.DeleteLoan(r.Context(), id)
	if errors.Is(err, records.ErrNotFound) {
		respondError(w, r, apperror.NotFound(fmt.Sprintf("loan %d not found", id)))
		return
	}
	if err != nil {
		respondError(w, r, apperror.Storage("delete loan", err))
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

type returnUpdateRequest struct {
	Status     core.ObligationStatus `json:"status"`
	NewDueDate *core.Date            `json:"newDueDate,omitempty"`
	Amount     core.Money            `json:"amount,omitempty"`
	Notes      string                `json:"notes,omitempty"`
}

func (s *Server) handleReturnUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	var req returnUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}
	l, err := s.ledger.RecordReturnUpdate(r.Context(), id, core.ReturnUpdate{
		Status:     req.Status,
		NewDueDate: req.NewDueDate,
		Amount:     req.Amount,
		Notes:      req.Notes,
		At:         s.now(),
	})
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, l)
}

func (s *Server) handlePayInstallment(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	seq, err := strconv.Atoi(chi.URLParam(r, "seq"))
	if err != nil || seq < 1 {
		respondError(w, r, apperror.Validation("invalid installment number"))
		return
	}
	l, err := s.ledger.MarkLoanInstallmentPaid(r.Context(), id, seq)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, l)
}

func (s *Server) handleOverdue(w http.ResponseWriter, r *http.Request) {
	overdue, err := s.ledger.FindOverdue(r.Context(), s.now())
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, overdue)
}

type creditRequest struct {
	Description    string     `json:"description"`
	Amount         core.Money `json:"amount"`
	Installments   int        `json:"installments"`
	MonthlyPayment core.Money `json:"monthlyPayment,omitempty"`
	InterestRate   float64    `json:"interestRate,omitempty"`
	FirstPayment   core.Date  `json:"firstPayment"`
}

func (s *Server) handleCreateCredit(w http.ResponseWriter, r *http.Request) {
	var req creditRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}
	c, err := s.ledger.CreateCredit(r.Context(), core.Credit{
		Description:    sanitizeInput(req.Description),
		Principal:      req.Amount,
		Installments:   req.Installments,
		MonthlyPayment: req.MonthlyPayment,
		InterestRate:   req.InterestRate,
		FirstPayment:   req.FirstPayment,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}
	s.invalidateReports()
	respondJSON(w, http.StatusCreated, c)
}

func (s *Server) handleListCredits(w http.ResponseWriter, r *http.Request) {
	credits, err := s.store.ListCredits(r.Context())
	if err != nil {
		respondError(w, r, apperror.Storage("list credits", err))
		return
	}
	if credits == nil {
		credits = []core.Credit{}
	}
	respondJSON(w, http.StatusOK, credits)
}

type creditPaymentRequest struct {
	Amount core.Money `json:"amount"`
}

func (s *Server) handleCreditPayment(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	var req creditPaymentRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}
	c, err := s.ledger.RecordCreditPayment(r.Context(), id, req.Amount)
	if err != nil {
		respondError(w, r, err)
		return
	}
	s.invalidateReports()
	respondJSON(w, http.StatusOK, c)
}

func (s *Server) handleDeleteCredit(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	err = s.store.DeleteCredit(r.Context(), id)
	if errors.Is(err, records.ErrNotFound) {
		respondError(w, r, apperror.NotFound(fmt.Sprintf("credit %d not found", id)))
		return
	}
	if err != nil {
		respondError(w, r, apperror.Storage("delete credit", err))
		return
	}
	s.invalidateReports()
	respondJSON(w, http.StatusNoContent, nil)
}
