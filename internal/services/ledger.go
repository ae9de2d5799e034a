package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"finanzas/internal/apperror"
	"finanzas/internal/core"
	"finanzas/internal/records"
)

// ObligationLedger owns the lifecycle of loans and credits: creation with
// schedule generation, status updates, overdue detection and the balances the
// dashboard aggregates.
type ObligationLedger struct {
	loans   records.LoanStore
	credits records.CreditStore
}

func NewObligationLedger(loans records.LoanStore, credits records.CreditStore) *ObligationLedger {
	return &ObligationLedger{loans: loans, credits: credits}
}

// Overdue is the result of one overdue sweep over both obligation kinds.
type Overdue struct {
	Loans   []core.Loan   `json:"loans"`
	Credits []core.Credit `json:"credits"`
}

// CreateLoan validates the loan, generates its schedule when repayment is by
// installments, and stores it in pending status.
func (s *ObligationLedger) CreateLoan(ctx context.Context, l core.Loan) (core.Loan, error) {
	l.ID = 0
	l.Status = core.StatusPending
	l.History = nil
	if l.CreatedAt.IsZero() {
		l.CreatedAt = time.Now()
	}
	if err := l.Validate(); err != nil {
		return core.Loan{}, apperror.Validation(err.Error())
	}

	if l.Payment == core.PaymentInstallments {
		schedule, err := core.GenerateSchedule(l.Principal, l.Installments, l.DueDate.Time)
		if err != nil {
			return core.Loan{}, apperror.InvalidInput("generate loan schedule", err)
		}
		l.Schedule = schedule
	}

	id, err := s.loans.AddLoan(ctx, l)
	if err != nil {
		return core.Loan{}, apperror.Storage("save loan", err)
	}
	l.ID = id
	slog.InfoContext(ctx, "Loan created",
		"id", id, "direction", l.Direction, "person", l.Person, "amount", l.Principal)
	return l, nil
}

// CreateCredit validates the credit, generates its display schedule and
// derives the per-installment payment and final due date when absent.
func (s *ObligationLedger) CreateCredit(ctx context.Context, c core.Credit) (core.Credit, error) {
	c.ID = 0
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now()
	}
	if err := c.Validate(); err != nil {
		return core.Credit{}, apperror.Validation(err.Error())
	}

	schedule, err := core.GenerateSchedule(c.Principal, c.Installments, c.FirstPayment.Time)
	if err != nil {
		return core.Credit{}, apperror.InvalidInput("generate credit schedule", err)
	}
	c.Schedule = schedule
	if c.MonthlyPayment.IsZero() {
		c.MonthlyPayment = schedule[0].Amount
	}
	if c.FinalDue.IsZero() {
		c.FinalDue = schedule[len(schedule)-1].DueDate
	}

	id, err := s.credits.AddCredit(ctx, c)
	if err != nil {
		return core.Credit{}, apperror.Storage("save credit", err)
	}
	c.ID = id
	slog.InfoContext(ctx, "Credit created",
		"id", id, "description", c.Description, "installments", c.Installments)
	return c, nil
}

// RecordReturnUpdate appends a return entry to a loan and persists the new
// status. The partial amount is not checked against the remaining balance.
func (s *ObligationLedger) RecordReturnUpdate(ctx context.Context, id int64, u core.ReturnUpdate) (core.Loan, error) {
	l, err := s.loans.GetLoan(ctx, id)
	if errors.Is(err, records.ErrNotFound) {
		return core.Loan{}, apperror.NotFound(fmt.Sprintf("loan %d not found", id))
	}
	if err != nil {
		return core.Loan{}, apperror.Storage("load loan", err)
	}

	if err := l.ApplyReturnUpdate(u); err != nil {
		return core.Loan{}, apperror.Validation(err.Error())
	}
	if err := s.loans.PutLoan(ctx, l); err != nil {
		return core.Loan{}, apperror.Storage("update loan", err)
	}
	slog.InfoContext(ctx, "Loan return recorded", "id", id, "status", l.Status)
	return l, nil
}

// MarkLoanInstallmentPaid flips one schedule entry to paid. seq is 1-based.
func (s *ObligationLedger) MarkLoanInstallmentPaid(ctx context.Context, id int64, seq int) (core.Loan, error) {
	l, err := s.loans.GetLoan(ctx, id)
	if errors.Is(err, records.ErrNotFound) {
		return core.Loan{}, apperror.NotFound(fmt.Sprintf("loan %d not found", id))
	}
	if err != nil {
		return core.Loan{}, apperror.Storage("load loan", err)
	}

	if err := l.MarkInstallmentPaid(seq); err != nil {
		return core.Loan{}, apperror.Validation(err.Error())
	}
	if err := s.loans.PutLoan(ctx, l); err != nil {
		return core.Loan{}, apperror.Storage("update loan", err)
	}
	return l, nil
}

// RecordCreditPayment adds to a credit's aggregate paid total. Schedule
// entries are untouched; only the aggregate drives the derived status.
func (s *ObligationLedger) RecordCreditPayment(ctx context.Context, id int64, amount core.Money) (core.Credit, error) {
	if err := amount.Validate(); err != nil {
		return core.Credit{}, apperror.Validation(err.Error())
	}
	c, err := s.credits.GetCredit(ctx, id)
	if errors.Is(err, records.ErrNotFound) {
		return core.Credit{}, apperror.NotFound(fmt.Sprintf("credit %d not found", id))
	}
	if err != nil {
		return core.Credit{}, apperror.Storage("load credit", err)
	}

	c.Paid = c.Paid.Add(amount)
	if err := s.credits.PutCredit(ctx, c); err != nil {
		return core.Credit{}, apperror.Storage("update credit", err)
	}
	slog.InfoContext(ctx, "Credit payment recorded",
		"id", id, "paid", c.Paid, "status", c.Status())
	return c, nil
}

// FindOverdue sweeps both collections for obligations with a payment due on
// or before today.
func (s *ObligationLedger) FindOverdue(ctx context.Context, today time.Time) (Overdue, error) {
	loans, err := s.loans.ListLoans(ctx)
	if err != nil {
		return Overdue{}, apperror.Storage("list loans", err)
	}
	credits, err := s.credits.ListCredits(ctx)
	if err != nil {
		return Overdue{}, apperror.Storage("list credits", err)
	}

	var out Overdue
	for _, l := range loans {
		if l.IsOverdue(today) {
			out.Loans = append(out.Loans, l)
		}
	}
	for _, c := range credits {
		if c.IsOverdue(today) {
			out.Credits = append(out.Credits, c)
		}
	}
	return out, nil
}

// OutstandingLoans sums loan balances still owed, split by direction.
func OutstandingLoans(loans []core.Loan) (lent, borrowed core.Money) {
	for _, l := range loans {
		switch l.Direction {
		case core.DirectionLent:
			lent = lent.Add(l.Outstanding())
		case core.DirectionBorrowed:
			borrowed = borrowed.Add(l.Outstanding())
		}
	}
	return lent, borrowed
}

// RecurringMonthlyTotal is the combined monthly payment of every recorded
// credit, the amount the reconciler folds into a month's spend. Completed
// credits still count until the user deletes them; the sum is over all
// records, not just active ones.
func RecurringMonthlyTotal(credits []core.Credit) core.Money {
	var total core.Money
	for _, c := range credits {
		total = total.Add(c.MonthlyPayment)
	}
	return total
}
