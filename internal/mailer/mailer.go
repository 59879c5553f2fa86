// Package mailer sends transactional email through Resend.
package mailer

import (
	"context"
	"fmt"

	"github.com/resend/resend-go/v2"

	"github.com/otomasikan/home72/internal/config"
	"github.com/otomasikan/home72/internal/logger"
)

// Sender delivers a single email.
type Sender interface {
	Send(ctx context.Context, to, subject, html string) error
}

// ResendMailer is a Sender backed by the Resend API.
type ResendMailer struct {
	client *resend.Client
	from   string
}

// New creates a mailer from config. Returns nil when no API key is set, so
// callers can treat email as optional.
func New(cfg *config.Config) *ResendMailer {
	if !cfg.EmailEnabled() {
		return nil
	}
	return &ResendMailer{
		client: resend.NewClient(cfg.ResendAPIKey),
		from:   cfg.EmailFrom,
	}
}

// Send delivers one HTML email.
func (m *ResendMailer) Send(ctx context.Context, to, subject, html string) error {
	params := &resend.SendEmailRequest{
		From:    m.from,
		To:      []string{to},
		Subject: subject,
		Html:    html,
	}
	sent, err := m.client.Emails.SendWithContext(ctx, params)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	logger.Log.Debug().Str("email_id", sent.Id).Str("subject", subject).Msg("Email sent")
	return nil
}
