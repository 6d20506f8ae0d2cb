// Package email sends staff notifications for contact and donation leads.
package email

import (
	"context"
	"fmt"
	"time"

	"github.com/resendlabs/resend-go"

	"github.com/Faseeh100/orphancare-web/internal/infrastructure/email/templates"
	"github.com/Faseeh100/orphancare-web/internal/infrastructure/observability/logging"
)

// LeadKind distinguishes the forms that produce leads
type LeadKind string

const (
	LeadContact  LeadKind = "contact"
	LeadDonation LeadKind = "donation"
)

// Lead is one public form submission worth telling staff about
type Lead struct {
	Kind        LeadKind
	Name        string
	Email       string
	Message     string
	Amount      string
	SubmittedAt time.Time
}

// Notifier delivers lead notifications; tests substitute a recorder
type Notifier interface {
	NotifyLead(ctx context.Context, lead Lead) error
}

// Config holds the Resend settings read from pkg/config
type Config struct {
	APIKey   string
	To       string
	From     string
	FromName string
}

// NewNotifier returns a Resend notifier, or a logging no-op when no API key
// or recipient is configured
func NewNotifier(cfg Config, logger *logging.ChanneledLogger) Notifier {
	if cfg.APIKey == "" || cfg.To == "" {
		logger.Email().Info("Lead notifications disabled", "reason", "RESEND_API_KEY or NOTIFY_EMAIL_TO not set")
		return &NoopNotifier{logger: logger}
	}
	if cfg.FromName == "" {
		cfg.FromName = "Orphan Care"
	}
	return &ResendNotifier{
		client: resend.NewClient(cfg.APIKey),
		cfg:    cfg,
		logger: logger,
	}
}

// ResendNotifier sends through the Resend API
type ResendNotifier struct {
	client *resend.Client
	cfg    Config
	logger *logging.ChanneledLogger
}

func (n *ResendNotifier) NotifyLead(ctx context.Context, lead Lead) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	start := time.Now()

	subject, html, err := renderLead(lead)
	if err != nil {
		return err
	}

	params := &resend.SendEmailRequest{
		From:    fmt.Sprintf("%s <%s>", n.cfg.FromName, n.cfg.From),
		To:      []string{n.cfg.To},
		Subject: subject,
		Html:    html,
		ReplyTo: lead.Email,
	}
	if _, err := n.client.Emails.Send(params); err != nil {
		n.logger.Email().Error("Lead notification failed", "kind", lead.Kind, "error", err)
		return fmt.Errorf("failed to send lead notification via Resend: %w", err)
	}

	n.logger.Email().Info("Lead notification sent", "kind", lead.Kind, "duration", time.Since(start))
	return nil
}

// NoopNotifier only logs
type NoopNotifier struct {
	logger *logging.ChanneledLogger
}

func (n *NoopNotifier) NotifyLead(ctx context.Context, lead Lead) error {
	n.logger.Email().Debug("Lead notification skipped", "kind", lead.Kind)
	return nil
}

func renderLead(lead Lead) (string, string, error) {
	props := templates.LeadProps{
		Fields: []templates.LeadField{
			{Label: "Name", Value: lead.Name},
			{Label: "Email", Value: lead.Email},
		},
		Message: lead.Message,
	}

	var subject string
	switch lead.Kind {
	case LeadDonation:
		subject = fmt.Sprintf("New donation pledge from %s", lead.Name)
		props.Heading = "New donation pledge"
		props.Fields = append(props.Fields,
			templates.LeadField{Label: "Amount", Value: lead.Amount},
		)
	default:
		subject = fmt.Sprintf("New contact message from %s", lead.Name)
		props.Heading = "New contact message"
	}
	if !lead.SubmittedAt.IsZero() {
		props.Fields = append(props.Fields, templates.LeadField{Label: "Received", Value: lead.SubmittedAt.Format("Jan 2, 2006 15:04 MST")})
	}

	content, err := templates.RenderLead(props)
	if err != nil {
		return "", "", err
	}
	html, err := templates.RenderLayout(templates.LayoutProps{
		Preheader: subject,
		Content:   content,
	})
	if err != nil {
		return "", "", err
	}
	return subject, html, nil
}
