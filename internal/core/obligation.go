package core

import (
	"errors"
	"strings"
	"time"
)

const (
	StatusPending   ObligationStatus = "pending"
	StatusPartial   ObligationStatus = "partial"
	StatusCompleted ObligationStatus = "completed"

	DirectionLent     LoanDirection = "lent"
	DirectionBorrowed LoanDirection = "borrowed"

	PaymentSingle       PaymentType = "single"
	PaymentInstallments PaymentType = "installments"

	InstallmentPending InstallmentStatus = "pending"
	InstallmentPaid    InstallmentStatus = "paid"

	CreditActive    CreditStatus = "active"
	CreditCompleted CreditStatus = "completed"
)

type (
	// ObligationStatus is the lifecycle state of a loan.
	ObligationStatus string

	// LoanDirection distinguishes money lent out from money borrowed.
	LoanDirection string

	// PaymentType is how a loan is repaid: one lump sum or installments.
	PaymentType string

	// InstallmentStatus is the state of one scheduled partial payment.
	InstallmentStatus string

	// CreditStatus is derived from aggregate payments, never stored.
	CreditStatus string

	// Installment is one scheduled partial payment of an obligation.
	Installment struct {
		Seq     int               `json:"seq"`
		DueDate Date              `json:"dueDate"`
		Amount  Money             `json:"amount"`
		Status  InstallmentStatus `json:"status"`
	}

	// ReturnEntry is one append-only record of a loan status update.
	ReturnEntry struct {
		At     time.Time        `json:"at"`
		Status ObligationStatus `json:"status"`
		Amount Money            `json:"amount,omitempty"`
		Notes  string           `json:"notes,omitempty"`
	}

	// ReturnUpdate is the caller's input to Loan.ApplyReturnUpdate.
	ReturnUpdate struct {
		Status     ObligationStatus
		NewDueDate *Date
		Amount     Money
		Notes      string
		At         time.Time
	}

	// Loan is money lent or borrowed against one or more future dates.
	Loan struct {
		ID           int64            `json:"id,omitempty"`
		Direction    LoanDirection    `json:"type"`
		Person       string           `json:"person"`
		Principal    Money            `json:"amount"`
		DueDate      Date             `json:"dueDate"`
		Payment      PaymentType      `json:"paymentType"`
		Installments int              `json:"installments,omitempty"`
		Schedule     []Installment    `json:"schedule,omitempty"`
		Status       ObligationStatus `json:"status"`
		History      []ReturnEntry    `json:"returnHistory,omitempty"`
		CreatedAt    time.Time        `json:"timestamp"`
	}

	// Credit is an installment purchase or bank credit. Progress is tracked
	// by the aggregate Paid total; the per-installment status on Schedule is
	// display-only and never transitions.
	Credit struct {
		ID             int64         `json:"id,omitempty"`
		Description    string        `json:"description"`
		Principal      Money         `json:"amount"`
		Installments   int           `json:"installments"`
		MonthlyPayment Money         `json:"monthlyPayment"`
		Paid           Money         `json:"paid"`
		InterestRate   float64       `json:"interestRate,omitempty"`
		FirstPayment   Date          `json:"firstPayment"`
		FinalDue       Date          `json:"finalDue"`
		Schedule       []Installment `json:"schedule,omitempty"`
		CreatedAt      time.Time     `json:"timestamp"`
	}
)

var (
	ErrEmptyPerson       = errors.New("empty counterparty name")
	ErrInvalidDirection  = errors.New("invalid loan direction")
	ErrInvalidPayment    = errors.New("invalid payment type")
	ErrInvalidStatus     = errors.New("invalid obligation status")
	ErrInstallmentRange  = errors.New("installment out of range")
	ErrInstallmentPaid   = errors.New("installment already paid")
	ErrScheduleImmutable = errors.New("completed loan schedule is immutable")
)

func (s ObligationStatus) Validate() error {
	switch s {
	case StatusPending, StatusPartial, StatusCompleted:
		return nil
	}
	return ErrInvalidStatus
}

func (l Loan) Validate() error {
	switch l.Direction {
	case DirectionLent, DirectionBorrowed:
	default:
		return ErrInvalidDirection
	}
	if strings.TrimSpace(l.Person) == "" {
		return ErrEmptyPerson
	}
	if err := l.Principal.Validate(); err != nil {
		return err
	}
	if err := l.DueDate.Validate(); err != nil {
		return err
	}
	switch l.Payment {
	case PaymentSingle:
	case PaymentInstallments:
		if l.Installments < 2 {
			return ErrInstallmentCount
		}
	default:
		return ErrInvalidPayment
	}
	return nil
}

// ApplyReturnUpdate appends a history entry and moves the loan to the new
// status, optionally replacing the due date. The partial amount is taken as
// given: nothing checks it against the remaining balance.
func (l *Loan) ApplyReturnUpdate(u ReturnUpdate) error {
	if err := u.Status.Validate(); err != nil {
		return err
	}
	at := u.At
	if at.IsZero() {
		at = time.Now()
	}
	l.History = append(l.History, ReturnEntry{
		At:     at,
		Status: u.Status,
		Amount: u.Amount,
		Notes:  strings.TrimSpace(u.Notes),
	})
	l.Status = u.Status
	if u.NewDueDate != nil {
		l.DueDate = *u.NewDueDate
	}
	return nil
}

// Outstanding is the balance the loan still contributes to dashboard totals:
// the full principal while pending, the principal minus all partial returns
// while partial, and zero once completed.
func (l Loan) Outstanding() Money {
	switch l.Status {
	case StatusCompleted:
		return Money{}
	case StatusPartial:
		remaining := l.Principal
		for _, e := range l.History {
			if e.Status == StatusPartial {
				remaining = remaining.Sub(e.Amount)
			}
		}
		return remaining
	default:
		return l.Principal
	}
}

// IsOverdue reports whether the loan has a payment due on or before today.
// Completed loans are never overdue; partial loans only through unpaid
// schedule entries.
func (l Loan) IsOverdue(today time.Time) bool {
	if l.Status == StatusCompleted {
		return false
	}
	if len(l.Schedule) > 0 {
		return anyInstallmentDue(l.Schedule, today)
	}
	return l.Status == StatusPending && !l.DueDate.IsZero() && !l.DueDate.After(today)
}

// MarkInstallmentPaid transitions one schedule entry to paid. seq is 1-based.
func (l *Loan) MarkInstallmentPaid(seq int) error {
	if l.Status == StatusCompleted {
		return ErrScheduleImmutable
	}
	if seq < 1 || seq > len(l.Schedule) {
		return ErrInstallmentRange
	}
	ins := &l.Schedule[seq-1]
	if ins.Status == InstallmentPaid {
		return ErrInstallmentPaid
	}
	ins.Status = InstallmentPaid
	return nil
}

func (c Credit) Validate() error {
	if strings.TrimSpace(c.Description) == "" {
		return ErrEmptyDescription
	}
	if err := c.Principal.Validate(); err != nil {
		return err
	}
	if c.Installments < 2 {
		return ErrInstallmentCount
	}
	if c.Paid.IsNegative() {
		return ErrInvalidAmount
	}
	if c.InterestRate < 0 {
		return errors.New("negative interest rate")
	}
	return c.FirstPayment.Validate()
}

// Status derives the credit state from aggregate payments.
func (c Credit) Status() CreditStatus {
	if c.Paid.Cents >= c.Principal.Cents {
		return CreditCompleted
	}
	return CreditActive
}

// Remaining is the principal not yet covered by aggregate payments.
func (c Credit) Remaining() Money {
	if c.Status() == CreditCompleted {
		return Money{}
	}
	return c.Principal.Sub(c.Paid)
}

// IsOverdue reports whether an active credit has a scheduled installment due
// on or before today.
func (c Credit) IsOverdue(today time.Time) bool {
	if c.Status() == CreditCompleted {
		return false
	}
	return anyInstallmentDue(c.Schedule, today)
}

func anyInstallmentDue(schedule []Installment, today time.Time) bool {
	for _, ins := range schedule {
		if ins.Status == InstallmentPending && !ins.DueDate.IsZero() && !ins.DueDate.After(today) {
			return true
		}
	}
	return false
}
