package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"finanzas/internal/amqp"
	"finanzas/internal/core"
	"finanzas/internal/records"
)

// ReminderConsumer turns queued reminder messages into email. A message
// carries only the kind and id; the consumer fetches the full record from
// the store so the mail reflects the obligation's current state.
type ReminderConsumer struct {
	loans   records.LoanStore
	credits records.CreditStore
	mailer  OverdueMailer

	now func() time.Time
}

func NewReminderConsumer(loans records.LoanStore, credits records.CreditStore, mailer OverdueMailer) *ReminderConsumer {
	return &ReminderConsumer{
		loans:   loans,
		credits: credits,
		mailer:  mailer,
		now:     time.Now,
	}
}

// Handle processes one reminder message. Reminders whose record was deleted
// or settled after publication are dropped, not requeued; only store and
// mail failures return an error.
func (c *ReminderConsumer) Handle(ctx context.Context, msg *amqp.ReminderMessage) error {
	today := c.now()

	switch msg.Kind {
	case amqp.ObligationLoan:
		l, err := c.loans.GetLoan(ctx, msg.ID)
		if errors.Is(err, records.ErrNotFound) {
			slog.WarnContext(ctx, "Reminded loan no longer exists, dropping", "id", msg.ID)
			return nil
		}
		if err != nil {
			return fmt.Errorf("load loan %d: %w", msg.ID, err)
		}
		if !l.IsOverdue(today) {
			slog.InfoContext(ctx, "Reminded loan no longer overdue, dropping", "id", msg.ID)
			return nil
		}
		return c.mailer.SendOverdueSummary([]core.Loan{l}, nil, today)

	case amqp.ObligationCredit:
		cr, err := c.credits.GetCredit(ctx, msg.ID)
		if errors.Is(err, records.ErrNotFound) {
			slog.WarnContext(ctx, "Reminded credit no longer exists, dropping", "id", msg.ID)
			return nil
		}
		if err != nil {
			return fmt.Errorf("load credit %d: %w", msg.ID, err)
		}
		if !cr.IsOverdue(today) {
			slog.InfoContext(ctx, "Reminded credit no longer overdue, dropping", "id", msg.ID)
			return nil
		}
		return c.mailer.SendOverdueSummary(nil, []core.Credit{cr}, today)
	}

	slog.WarnContext(ctx, "Unknown reminder kind, dropping", "kind", msg.Kind, "id", msg.ID)
	return nil
}
