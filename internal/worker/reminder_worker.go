// Package worker runs the reminder pipeline: the sweep finds loans and
// credits with payments due and publishes one message per obligation; the
// consumer turns queued messages into email.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"finanzas/internal/amqp"
	"finanzas/internal/core"
	"finanzas/internal/services"
)

// ReminderPublisher is the messaging side of the sweep. nil-able in tests.
type ReminderPublisher interface {
	PublishReminder(ctx context.Context, kind string, id int64, dueSince time.Time) error
}

// OverdueMailer sends the reminder email. *notify.Sender satisfies it.
type OverdueMailer interface {
	SendOverdueSummary(loans []core.Loan, credits []core.Credit, today time.Time) error
}

// ReminderWorker sweeps the obligation ledger for overdue payments.
type ReminderWorker struct {
	ledger    *services.ObligationLedger
	publisher ReminderPublisher
	mailer    OverdueMailer

	// seen tracks obligations already announced this process lifetime so a
	// sweep every few hours does not republish the same reminder.
	seenLoans   map[int64]bool
	seenCredits map[int64]bool
}

func NewReminderWorker(ledger *services.ObligationLedger, publisher ReminderPublisher, mailer OverdueMailer) *ReminderWorker {
	return &ReminderWorker{
		ledger:      ledger,
		publisher:   publisher,
		mailer:      mailer,
		seenLoans:   make(map[int64]bool),
		seenCredits: make(map[int64]bool),
	}
}

// RunSweep performs one overdue sweep. Failures are logged and surfaced
// once; nothing is retried.
func (w *ReminderWorker) RunSweep(ctx context.Context, today time.Time) error {
	overdue, err := w.ledger.FindOverdue(ctx, today)
	if err != nil {
		return fmt.Errorf("find overdue obligations: %w", err)
	}
	if len(overdue.Loans) == 0 && len(overdue.Credits) == 0 {
		slog.InfoContext(ctx, "Sweep found nothing overdue")
		return nil
	}

	slog.InfoContext(ctx, "Sweep found overdue obligations",
		"loans", len(overdue.Loans), "credits", len(overdue.Credits))

	var newLoans []core.Loan
	for _, l := range overdue.Loans {
		if w.seenLoans[l.ID] {
			continue
		}
		w.seenLoans[l.ID] = true
		newLoans = append(newLoans, l)
		w.publish(ctx, amqp.ObligationLoan, l.ID, l.DueDate.Time)
	}
	var newCredits []core.Credit
	for _, c := range overdue.Credits {
		if w.seenCredits[c.ID] {
			continue
		}
		w.seenCredits[c.ID] = true
		newCredits = append(newCredits, c)
		w.publish(ctx, amqp.ObligationCredit, c.ID, nextDue(c.Schedule, today))
	}

	// With a broker the queue consumer owns the mail; without one the sweep
	// mails the summary directly so reminders still reach the owner.
	if w.publisher == nil && w.mailer != nil && (len(newLoans) > 0 || len(newCredits) > 0) {
		if err := w.mailer.SendOverdueSummary(newLoans, newCredits, today); err != nil {
			slog.ErrorContext(ctx, "Failed to mail overdue summary", "error", err)
		}
	}
	return nil
}

func (w *ReminderWorker) publish(ctx context.Context, kind string, id int64, dueSince time.Time) {
	if w.publisher == nil {
		slog.WarnContext(ctx, "AMQP not available, skipping reminder", "kind", kind, "id", id)
		return
	}
	if err := w.publisher.PublishReminder(ctx, kind, id, dueSince); err != nil {
		slog.ErrorContext(ctx, "Failed to publish reminder",
			"kind", kind, "id", id, "error", err)
	}
}

// nextDue returns the earliest pending due date on or before today, or today
// when the schedule has none.
func nextDue(schedule []core.Installment, today time.Time) time.Time {
	due := today
	for _, ins := range schedule {
		if ins.Status != core.InstallmentPending || ins.DueDate.IsZero() {
			continue
		}
		if !ins.DueDate.After(today) && ins.DueDate.Before(due) {
			due = ins.DueDate.Time
		}
	}
	return due
}
