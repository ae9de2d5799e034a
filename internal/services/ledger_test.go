package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finanzas/internal/apperror"
	"finanzas/internal/core"
	"finanzas/internal/records/memory"
)

func newLedger(t *testing.T) (*ObligationLedger, *memory.Store) {
	t.Helper()
	store := memory.New()
	return NewObligationLedger(store, store), store
}

func TestCreateLoanSinglePayment(t *testing.T) {
	ledger, _ := newLedger(t)
	ctx := context.Background()

	loan, err := ledger.CreateLoan(ctx, core.Loan{
		ID:        99, // caller ids are ignored
		Direction: core.DirectionLent,
		Person:    "Carlos",
		Principal: core.Pesos(50000),
		DueDate:   core.NewDate(2024, 6, 1),
		Payment:   core.PaymentSingle,
		Status:    core.StatusCompleted, // callers cannot pre-complete
	})
	require.NoError(t, err)

	assert.Equal(t, int64(1), loan.ID)
	assert.Equal(t, core.StatusPending, loan.Status)
	assert.Empty(t, loan.Schedule)
	assert.Empty(t, loan.History)
	assert.False(t, loan.CreatedAt.IsZero())
}

func TestCreateLoanWithInstallments(t *testing.T) {
	ledger, _ := newLedger(t)
	ctx := context.Background()

	loan, err := ledger.CreateLoan(ctx, core.Loan{
		Direction:    core.DirectionBorrowed,
		Person:       "Banco",
		Principal:    core.Pesos(90000),
		DueDate:      core.NewDate(2024, 6, 1),
		Payment:      core.PaymentInstallments,
		Installments: 3,
	})
	require.NoError(t, err)

	require.Len(t, loan.Schedule, 3)
	assert.Equal(t, core.Pesos(90000), core.ScheduleTotal(loan.Schedule))
	assert.True(t, loan.Schedule[0].DueDate.Equal(core.NewDate(2024, 6, 1).Time))
	assert.True(t, loan.Schedule[2].DueDate.Equal(core.NewDate(2024, 8, 1).Time))
}

func TestCreateLoanValidationError(t *testing.T) {
	ledger, _ := newLedger(t)

	_, err := ledger.CreateLoan(context.Background(), core.Loan{
		Direction: "gift",
		Person:    "Carlos",
		Principal: core.Pesos(50000),
		DueDate:   core.NewDate(2024, 6, 1),
		Payment:   core.PaymentSingle,
	})
	require.Error(t, err)
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
}

func TestRecordReturnUpdateLifecycle(t *testing.T) {
	ledger, _ := newLedger(t)
	ctx := context.Background()

	loan, err := ledger.CreateLoan(ctx, core.Loan{
		Direction: core.DirectionLent,
		Person:    "Ana",
		Principal: core.Pesos(90000),
		DueDate:   core.NewDate(2024, 6, 1),
		Payment:   core.PaymentSingle,
	})
	require.NoError(t, err)

	loan, err = ledger.RecordReturnUpdate(ctx, loan.ID, core.ReturnUpdate{
		Status: core.StatusPartial,
		Amount: core.Pesos(30000),
		At:     time.Date(2024, 6, 5, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.Equal(t, core.StatusPartial, loan.Status)
	assert.Equal(t, core.Pesos(60000), loan.Outstanding())

	loan, err = ledger.RecordReturnUpdate(ctx, loan.ID, core.ReturnUpdate{
		Status: core.StatusCompleted,
		At:     time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.Equal(t, core.StatusCompleted, loan.Status)
	assert.True(t, loan.Outstanding().IsZero())
	assert.Len(t, loan.History, 2)
}

func TestRecordReturnUpdateNotFound(t *testing.T) {
	ledger, _ := newLedger(t)

	_, err := ledger.RecordReturnUpdate(context.Background(), 42, core.ReturnUpdate{
		Status: core.StatusCompleted,
	})
	require.Error(t, err)
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
}

func TestMarkLoanInstallmentPaid(t *testing.T) {
	ledger, _ := newLedger(t)
	ctx := context.Background()

	loan, err := ledger.CreateLoan(ctx, core.Loan{
		Direction:    core.DirectionLent,
		Person:       "Ana",
		Principal:    core.Pesos(60000),
		DueDate:      core.NewDate(2024, 6, 1),
		Payment:      core.PaymentInstallments,
		Installments: 2,
	})
	require.NoError(t, err)

	loan, err = ledger.MarkLoanInstallmentPaid(ctx, loan.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, core.InstallmentPaid, loan.Schedule[0].Status)

	_, err = ledger.MarkLoanInstallmentPaid(ctx, loan.ID, 1)
	require.Error(t, err)
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
}

func TestCreateCreditDerivesFields(t *testing.T) {
	ledger, _ := newLedger(t)

	credit, err := ledger.CreateCredit(context.Background(), core.Credit{
		Description:  "Refrigerador",
		Principal:    core.Pesos(600000),
		Installments: 12,
		FirstPayment: core.NewDate(2024, 2, 5),
	})
	require.NoError(t, err)

	require.Len(t, credit.Schedule, 12)
	assert.Equal(t, core.Pesos(50000), credit.MonthlyPayment)
	assert.True(t, credit.FinalDue.Equal(core.NewDate(2025, 1, 5).Time))
	assert.Equal(t, core.CreditActive, credit.Status())
}

func TestRecordCreditPayment(t *testing.T) {
	ledger, _ := newLedger(t)
	ctx := context.Background()

	credit, err := ledger.CreateCredit(ctx, core.Credit{
		Description:  "Notebook",
		Principal:    core.Pesos(300000),
		Installments: 3,
		FirstPayment: core.NewDate(2024, 2, 5),
	})
	require.NoError(t, err)

	credit, err = ledger.RecordCreditPayment(ctx, credit.ID, core.Pesos(100000))
	require.NoError(t, err)
	assert.Equal(t, core.Pesos(100000), credit.Paid)
	assert.Equal(t, core.CreditActive, credit.Status())

	credit, err = ledger.RecordCreditPayment(ctx, credit.ID, core.Pesos(200000))
	require.NoError(t, err)
	assert.Equal(t, core.CreditCompleted, credit.Status())
	assert.True(t, credit.Remaining().IsZero())

	_, err = ledger.RecordCreditPayment(ctx, credit.ID, core.Money{})
	require.Error(t, err)
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
}

func TestFindOverdue(t *testing.T) {
	ledger, _ := newLedger(t)
	ctx := context.Background()
	today := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)

	overdueLoan, err := ledger.CreateLoan(ctx, core.Loan{
		Direction: core.DirectionLent,
		Person:    "Ana",
		Principal: core.Pesos(50000),
		DueDate:   core.NewDate(2024, 6, 10),
		Payment:   core.PaymentSingle,
	})
	require.NoError(t, err)

	_, err = ledger.CreateLoan(ctx, core.Loan{
		Direction: core.DirectionLent,
		Person:    "Pedro",
		Principal: core.Pesos(50000),
		DueDate:   core.NewDate(2024, 7, 10),
		Payment:   core.PaymentSingle,
	})
	require.NoError(t, err)

	overdueCredit, err := ledger.CreateCredit(ctx, core.Credit{
		Description:  "Notebook",
		Principal:    core.Pesos(300000),
		Installments: 3,
		FirstPayment: core.NewDate(2024, 5, 1),
	})
	require.NoError(t, err)

	got, err := ledger.FindOverdue(ctx, today)
	require.NoError(t, err)

	require.Len(t, got.Loans, 1)
	assert.Equal(t, overdueLoan.ID, got.Loans[0].ID)
	require.Len(t, got.Credits, 1)
	assert.Equal(t, overdueCredit.ID, got.Credits[0].ID)
}

func TestOutstandingLoans(t *testing.T) {
	loans := []core.Loan{
		{Direction: core.DirectionLent, Principal: core.Pesos(50000), Status: core.StatusPending},
		{Direction: core.DirectionLent, Principal: core.Pesos(30000), Status: core.StatusCompleted},
		{Direction: core.DirectionBorrowed, Principal: core.Pesos(90000), Status: core.StatusPartial,
			History: []core.ReturnEntry{{Status: core.StatusPartial, Amount: core.Pesos(40000)}}},
	}

	lent, borrowed := OutstandingLoans(loans)
	assert.Equal(t, core.Pesos(50000), lent)
	assert.Equal(t, core.Pesos(50000), borrowed)
}

func TestRecurringMonthlyTotal(t *testing.T) {
	credits := []core.Credit{
		{MonthlyPayment: core.Pesos(45000)},
		{MonthlyPayment: core.Pesos(30000), Paid: core.Pesos(999999), Principal: core.Pesos(100)},
	}

	// Completed credits keep counting until deleted.
	assert.Equal(t, core.Pesos(75000), RecurringMonthlyTotal(credits))
	assert.True(t, RecurringMonthlyTotal(nil).IsZero())
}
