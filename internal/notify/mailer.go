// Package notify sends e-mails about workflow transitions.
package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/budgetflow/backend/internal/models"
	"github.com/budgetflow/backend/internal/workflow"
	"github.com/rs/zerolog/log"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gopkg.in/gomail.v2"
)

// Config is the SMTP configuration. Fallback receives notifications that
// have no stage recipients, e.g. final approvals and rejections.
type Config struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
	Fallback []string
}

// Sender delivers messages. *gomail.Dialer implements it.
type Sender interface {
	DialAndSend(m ...*gomail.Message) error
}

// Mailer implements workflow.Notifier.
type Mailer struct {
	sender   Sender
	from     string
	fallback []string
	printer  *message.Printer
}

// New returns a mailer sending through the configured SMTP server.
func New(cfg Config) *Mailer {
	return NewWithSender(gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password), cfg)
}

// NewWithSender returns a mailer delivering through sender.
func NewWithSender(sender Sender, cfg Config) *Mailer {
	return &Mailer{
		sender:   sender,
		from:     cfg.From,
		fallback: cfg.Fallback,
		printer:  message.NewPrinter(language.English),
	}
}

// Notify sends one e-mail to all recipients of the notification. Without
// any recipient nothing is sent.
func (m *Mailer) Notify(_ context.Context, n workflow.Notification) error {
	msg, ok := m.Message(n)
	if !ok {
		log.Debug().Str("transaction", n.TransactionCode).Msg("no recipients for workflow notification")
		return nil
	}

	if err := m.sender.DialAndSend(msg); err != nil {
		return fmt.Errorf("could not send notification for %s: %w", n.TransactionCode, err)
	}
	return nil
}

// Message builds the e-mail for a notification.
func (m *Mailer) Message(n workflow.Notification) (*gomail.Message, bool) {
	recipients := n.Recipients
	if len(recipients) == 0 {
		recipients = m.fallback
	}
	if len(recipients) == 0 {
		return nil, false
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", recipients...)
	msg.SetHeader("Subject", m.subject(n))
	msg.SetBody("text/plain", m.body(n))

	return msg, true
}

func (m *Mailer) subject(n workflow.Notification) string {
	switch n.Status {
	case models.WorkflowApproved:
		return fmt.Sprintf("Budget transfer %s approved", n.TransactionCode)
	case models.WorkflowRejected:
		return fmt.Sprintf("Budget transfer %s rejected", n.TransactionCode)
	case models.WorkflowInProgress:
		return fmt.Sprintf("Budget transfer %s waiting for your approval", n.TransactionCode)
	default:
		return fmt.Sprintf("Budget transfer %s reopened", n.TransactionCode)
	}
}

func (m *Mailer) body(n workflow.Notification) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Transaction: %s\n", n.TransactionCode)
	fmt.Fprintf(&b, "Action: %s by %s\n", n.Event, n.Actor)
	if n.StageName != "" {
		fmt.Fprintf(&b, "Stage: %d (%s)\n", n.Stage, n.StageName)
	}
	b.WriteString(m.printer.Sprintf("Amount: %.2f\n", n.Amount.InexactFloat64()))
	if n.Comment != "" {
		fmt.Fprintf(&b, "Comment: %s\n", n.Comment)
	}

	return b.String()
}
