package worker

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finanzas/internal/amqp"
	"finanzas/internal/core"
	"finanzas/internal/records/memory"
)

type fakeMailer struct {
	loans   []core.Loan
	credits []core.Credit
	err     error
}

func (f *fakeMailer) SendOverdueSummary(loans []core.Loan, credits []core.Credit, _ time.Time) error {
	if f.err != nil {
		return f.err
	}
	f.loans = append(f.loans, loans...)
	f.credits = append(f.credits, credits...)
	return nil
}

func newTestConsumer(t *testing.T) (*ReminderConsumer, *memory.Store, *fakeMailer) {
	t.Helper()
	store := memory.New()
	mailer := &fakeMailer{}
	c := NewReminderConsumer(store, store, mailer)
	c.now = func() time.Time { return time.Date(2024, 6, 15, 9, 0, 0, 0, time.UTC) }
	return c, store, mailer
}

func TestConsumerMailsOverdueLoan(t *testing.T) {
	c, store, mailer := newTestConsumer(t)
	ctx := context.Background()

	id, err := store.AddLoan(ctx, core.Loan{
		Direction: core.DirectionLent,
		Person:    "Ana",
		Principal: core.Pesos(50000),
		DueDate:   core.NewDate(2024, 6, 1),
		Payment:   core.PaymentSingle,
		Status:    core.StatusPending,
	})
	require.NoError(t, err)

	msg := &amqp.ReminderMessage{Kind: amqp.ObligationLoan, ID: id}
	require.NoError(t, c.Handle(ctx, msg))
	require.Len(t, mailer.loans, 1)
	assert.Equal(t, "Ana", mailer.loans[0].Person)
	assert.Empty(t, mailer.credits)
}

func TestConsumerMailsOverdueCredit(t *testing.T) {
	c, store, mailer := newTestConsumer(t)
	ctx := context.Background()

	schedule, err := core.GenerateSchedule(core.Pesos(300000), 3, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	id, err := store.AddCredit(ctx, core.Credit{
		Description:    "Notebook",
		Principal:      core.Pesos(300000),
		Installments:   3,
		MonthlyPayment: core.Pesos(100000),
		FirstPayment:   core.NewDate(2024, 5, 1),
		Schedule:       schedule,
	})
	require.NoError(t, err)

	msg := &amqp.ReminderMessage{Kind: amqp.ObligationCredit, ID: id}
	require.NoError(t, c.Handle(ctx, msg))
	require.Len(t, mailer.credits, 1)
	assert.Equal(t, "Notebook", mailer.credits[0].Description)
	assert.Empty(t, mailer.loans)
}

func TestConsumerDropsDeletedRecord(t *testing.T) {
	c, _, mailer := newTestConsumer(t)

	msg := &amqp.ReminderMessage{Kind: amqp.ObligationLoan, ID: 99}
	assert.NoError(t, c.Handle(context.Background(), msg), "a deleted record must not requeue")
	assert.Empty(t, mailer.loans)
}

func TestConsumerDropsSettledLoan(t *testing.T) {
	c, store, mailer := newTestConsumer(t)
	ctx := context.Background()

	id, err := store.AddLoan(ctx, core.Loan{
		Direction: core.DirectionLent,
		Person:    "Ana",
		Principal: core.Pesos(50000),
		DueDate:   core.NewDate(2024, 6, 1),
		Payment:   core.PaymentSingle,
		Status:    core.StatusCompleted,
	})
	require.NoError(t, err)

	msg := &amqp.ReminderMessage{Kind: amqp.ObligationLoan, ID: id}
	assert.NoError(t, c.Handle(ctx, msg))
	assert.Empty(t, mailer.loans, "settled obligations must not mail")
}

func TestConsumerDropsUnknownKind(t *testing.T) {
	c, _, mailer := newTestConsumer(t)

	msg := &amqp.ReminderMessage{Kind: "subscription", ID: 1}
	assert.NoError(t, c.Handle(context.Background(), msg))
	assert.Empty(t, mailer.loans)
	assert.Empty(t, mailer.credits)
}

func TestConsumerSurfacesMailFailure(t *testing.T) {
	c, store, mailer := newTestConsumer(t)
	ctx := context.Background()
	mailer.err = context.DeadlineExceeded

	id, err := store.AddLoan(ctx, core.Loan{
		Direction: core.DirectionLent,
		Person:    "Ana",
		Principal: core.Pesos(50000),
		DueDate:   core.NewDate(2024, 6, 1),
		Payment:   core.PaymentSingle,
		Status:    core.StatusPending,
	})
	require.NoError(t, err)

	msg := &amqp.ReminderMessage{Kind: amqp.ObligationLoan, ID: id}
	assert.Error(t, c.Handle(ctx, msg), "mail failures requeue for another try")
}
