// Package notify sends the overdue-obligation reminder email.
package notify

import (
	"fmt"
	"log/slog"
	"net/smtp"
	"time"

	"github.com/jordan-wright/email"

	"finanzas/internal/core"
)

// SMTPConfig is the mail settings the sender needs. Empty Host disables mail.
type SMTPConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
	To       string
}

func (c SMTPConfig) Enabled() bool { return c.Host != "" }

// Sender emails the owner about overdue loans and credits.
type Sender struct {
	cfg SMTPConfig
}

func NewSender(cfg SMTPConfig) *Sender {
	return &Sender{cfg: cfg}
}

// SendOverdueSummary mails one message listing every overdue obligation.
// No-op when SMTP is not configured or there is nothing overdue.
func (s *Sender) SendOverdueSummary(loans []core.Loan, credits []core.Credit, today time.Time) error {
	if !s.cfg.Enabled() {
		slog.Debug("SMTP not configured, skipping overdue summary")
		return nil
	}
	if len(loans) == 0 && len(credits) == 0 {
		return nil
	}

	e := email.NewEmail()
	e.From = s.cfg.From
	e.To = []string{s.cfg.To}
	e.Subject = fmt.Sprintf("Pagos vencidos al %s", today.Format("2006-01-02"))

	body := "Tienes pagos vencidos:\n\n"
	for _, l := range loans {
		body += fmt.Sprintf("- Préstamo con %s: %s pendiente, vencía el %s\n",
			l.Person, l.Outstanding(), l.DueDate.Format("2006-01-02"))
	}
	for _, c := range credits {
		body += fmt.Sprintf("- Crédito %q: cuota de %s vencida, restante %s\n",
			c.Description, c.MonthlyPayment, c.Remaining())
	}
	body += "\nRevisa la sección de préstamos y créditos.\n"
	e.Text = []byte(body)

	addr := fmt.Sprintf("%s:%s", s.cfg.Host, s.cfg.Port)
	auth := smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	if err := e.Send(addr, auth); err != nil {
		slog.Error("Failed to send overdue summary", "to", s.cfg.To, "error", err)
		return fmt.Errorf("send overdue summary: %w", err)
	}

	slog.Info("Overdue summary sent", "to", s.cfg.To, "loans", len(loans), "credits", len(credits))
	return nil
}
