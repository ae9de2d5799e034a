package notify

import (
	"testing"
	"time"

	"finanzas/internal/core"
)

func TestSMTPConfigEnabled(t *testing.T) {
	if (SMTPConfig{}).Enabled() {
		t.Error("Enabled() = true with no host")
	}
	if !(SMTPConfig{Host: "smtp.example.com"}).Enabled() {
		t.Error("Enabled() = false with a host configured")
	}
}

func TestSendOverdueSummarySkipsWhenDisabled(t *testing.T) {
	s := NewSender(SMTPConfig{})
	loans := []core.Loan{{
		Direction: core.DirectionLent, Person: "Ana",
		Principal: core.Pesos(50000), Status: core.StatusPending,
		DueDate: core.NewDate(2024, 6, 1),
	}}

	if err := s.SendOverdueSummary(loans, nil, time.Now()); err != nil {
		t.Errorf("SendOverdueSummary() error = %v, want nil when mail is disabled", err)
	}
}

func TestSendOverdueSummaryNothingToReport(t *testing.T) {
	s := NewSender(SMTPConfig{Host: "smtp.example.com", Port: "587", From: "a@b.cl", To: "c@d.cl"})

	if err := s.SendOverdueSummary(nil, nil, time.Now()); err != nil {
		t.Errorf("SendOverdueSummary() error = %v, want nil with nothing overdue", err)
	}
}
