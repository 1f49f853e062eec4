// Package email provides the email client for sending escalation emails.
package email

import (
	"context"
	"fmt"
	"time"

	"github.com/resendlabs/resend-go"

	"github.com/nowa-systems/nowa-go/internal/domain/entities/chat"
	"github.com/nowa-systems/nowa-go/internal/infrastructure/email/templates"
	"github.com/nowa-systems/nowa-go/pkg/config"
)

// Service defines the interface for sending emails, allowing for mock implementations in tests.
type Service interface {
	SendEscalationEmail(ctx context.Context, record *chat.EscalationRecord) error
}

// ResendClient is the concrete implementation of the email Service using the Resend API.
type ResendClient struct {
	client    *resend.Client
	fromEmail string
	fromName  string
	toEmail   string
}

// NewService creates a new email service client, returning the Service interface.
func NewService() (Service, error) {
	apiKey := config.ResendAPIKey
	if apiKey == "" {
		return nil, fmt.Errorf("RESEND_API_KEY environment variable is required")
	}

	return &ResendClient{
		client:    resend.NewClient(apiKey),
		fromEmail: config.EmailFrom,
		fromName:  config.EmailFromName,
		toEmail:   config.EscalationEmailTo,
	}, nil
}

// SendEscalationEmail composes and sends the escalation notification email.
// The send runs under the caller's context bounded by EMAIL_TIMEOUT so the
// escalation request cannot hang indefinitely on dispatch.
func (c *ResendClient) SendEscalationEmail(ctx context.Context, record *chat.EscalationRecord) error {
	subject := "NOWA Systems Chatbot Escalation"

	content := templates.GetEscalationEmailContent(templates.EscalationEmailProps{
		Name:       record.Name,
		Email:      record.Email,
		Phone:      record.Phone,
		Question:   record.Question,
		Timestamp:  record.Date,
		Transcript: record.Transcript.Render(),
	})

	htmlContent := templates.GetEmailLayout(templates.EmailLayoutProps{
		Preheader: "New chatbot escalation from " + record.Name,
		Content:   content,
	})

	params := &resend.SendEmailRequest{
		From:    fmt.Sprintf("%s <%s>", c.fromName, c.fromEmail),
		To:      []string{c.toEmail},
		Subject: subject,
		Html:    htmlContent,
	}

	return sendWithTimeout(ctx, config.EmailTimeout, func() error {
		_, err := c.client.Emails.Send(params)
		return err
	})
}

// sendWithTimeout runs the provider call under the dispatch timeout so a hung
// API call cannot stall the escalation request indefinitely.
func sendWithTimeout(ctx context.Context, timeout time.Duration, send func() error) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- send()
	}()

	select {
	case <-ctx.Done():
		return fmt.Errorf("escalation email dispatch cancelled: %w", ctx.Err())
	case err := <-done:
		if err != nil {
			return fmt.Errorf("failed to send escalation email: %w", err)
		}
	}

	return nil
}

// DisabledService rejects every send; used when no API key is configured so
// escalation failures are explicit rather than silent.
type DisabledService struct{}

// NewDisabledService returns a Service that always errors.
func NewDisabledService() Service {
	return &DisabledService{}
}

// SendEscalationEmail always fails: email dispatch is not configured.
func (s *DisabledService) SendEscalationEmail(ctx context.Context, record *chat.EscalationRecord) error {
	return fmt.Errorf("email dispatch is not configured")
}
