package services

import (
	"context"
	"fmt"
	"time"

	"github.com/Faseeh100/orphancare-web/internal/application/forms"
	"github.com/Faseeh100/orphancare-web/internal/infrastructure/api"
	"github.com/Faseeh100/orphancare-web/internal/infrastructure/email"
	"github.com/Faseeh100/orphancare-web/internal/infrastructure/observability/logging"
)

const notifyTimeout = 10 * time.Second

// LeadService handles the public contact and donation forms
type LeadService struct {
	client   *api.Client
	notifier email.Notifier
	logger   *logging.ChanneledLogger
	now      func() time.Time
}

// NewLeadService creates a new lead application service
func NewLeadService(client *api.Client, notifier email.Notifier, logger *logging.ChanneledLogger) *LeadService {
	return &LeadService{
		client:   client,
		notifier: notifier,
		logger:   logger,
		now:      time.Now,
	}
}

// SubmitContact sends the message to the API and then tells staff. The
// returned text is the API's confirmation message.
func (s *LeadService) SubmitContact(ctx context.Context, w api.Write, draft forms.ContactDraft) (string, error) {
	ack, err := s.client.SubmitContact(ctx, w, draft.Input())
	if err != nil {
		s.logger.WithContext(logging.ChannelForms, ctx).Warn("Contact submission failed", "kind", string(api.KindOf(err)), "error", err)
		return "", fmt.Errorf("failed to submit contact message: %w", err)
	}
	s.logger.WithContext(logging.ChannelForms, ctx).Info("Contact message accepted")

	s.notify(ctx, email.Lead{
		Kind:        email.LeadContact,
		Name:        draft.Name,
		Email:       draft.Email,
		Message:     draft.Message,
		SubmittedAt: s.now(),
	})
	return ack.Message, nil
}

// RecordDonation logs a pledge and tells staff. No API endpoint stores
// donations, so the notification is the record.
func (s *LeadService) RecordDonation(ctx context.Context, draft forms.DonationDraft) {
	s.logger.WithContext(logging.ChannelForms, ctx).Info("Donation pledge received", "amount", draft.DisplayAmount())
	s.notify(ctx, email.Lead{
		Kind:        email.LeadDonation,
		Name:        draft.Name,
		Email:       draft.Email,
		Amount:      draft.DisplayAmount(),
		SubmittedAt: s.now(),
	})
}

// notify never fails the submission; the visitor already succeeded
func (s *LeadService) notify(ctx context.Context, lead email.Lead) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), notifyTimeout)
	defer cancel()
	if err := s.notifier.NotifyLead(ctx, lead); err != nil {
		s.logger.LogError(logging.ChannelEmail, "notify_lead", err, map[string]any{"kind": string(lead.Kind)})
	}
}
