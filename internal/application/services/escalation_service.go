package services

import (
	"context"
	"fmt"
	"time"

	"github.com/nowa-systems/nowa-go/internal/domain/entities/chat"
	"github.com/nowa-systems/nowa-go/internal/infrastructure/email"
	"github.com/nowa-systems/nowa-go/internal/infrastructure/messaging"
	"github.com/nowa-systems/nowa-go/internal/infrastructure/observability/logging"
	"github.com/nowa-systems/nowa-go/internal/infrastructure/observability/performance"
	"github.com/nowa-systems/nowa-go/internal/infrastructure/persistence/escalations"
	"github.com/nowa-systems/nowa-go/internal/infrastructure/security"
)

// EscalationService records a handoff request, notifies the support inbox,
// and hands back a WhatsApp deep link for immediate follow-up.
type EscalationService struct {
	log            *escalations.Log
	mailer         email.Service
	broadcaster    *messaging.EscalationBroadcaster
	whatsAppNumber string
	logger         *logging.ChanneledLogger
	perfTracker    *performance.Tracker
}

// NewEscalationService creates a new escalation service.
func NewEscalationService(
	log *escalations.Log,
	mailer email.Service,
	broadcaster *messaging.EscalationBroadcaster,
	whatsAppNumber string,
	logger *logging.ChanneledLogger,
	perfTracker *performance.Tracker,
) *EscalationService {
	return &EscalationService{
		log:            log,
		mailer:         mailer,
		broadcaster:    broadcaster,
		whatsAppNumber: whatsAppNumber,
		logger:         logger,
		perfTracker:    perfTracker,
	}
}

// EscalationResult is what the handler returns to the widget after a handoff.
type EscalationResult struct {
	ID           string
	WhatsAppLink string
}

// Escalate validates the contact details, appends the record to the log, and
// sends the notification email. The record is persisted before the email is
// attempted so a dispatch failure never loses the escalation; the caller
// still sees the error and can tell the visitor.
func (s *EscalationService) Escalate(ctx context.Context, details chat.ContactDetails, transcript chat.Transcript, clientID string) (*EscalationResult, error) {
	marker := s.perfTracker.StartOperation("escalate", clientID)
	defer marker.Complete()

	sanitized := chat.ContactDetails{
		Name:     security.StripTags(details.Name),
		Email:    security.StripTags(details.Email),
		Phone:    security.StripTags(details.Phone),
		Question: security.StripTags(details.Question),
	}

	var missing []string
	if sanitized.Name == "" {
		missing = append(missing, "name")
	}
	if sanitized.Email == "" {
		missing = append(missing, "email")
	}
	if sanitized.Phone == "" {
		missing = append(missing, "phone")
	}
	if sanitized.Question == "" {
		missing = append(missing, "question")
	}
	if len(missing) > 0 {
		marker.SetSuccess(false)
		return nil, &chat.ValidationError{Fields: missing}
	}

	record := &chat.EscalationRecord{
		ID:         security.GenerateULID(),
		Name:       sanitized.Name,
		Email:      sanitized.Email,
		Phone:      sanitized.Phone,
		Question:   sanitized.Question,
		Transcript: transcript,
		Date:       time.Now().UTC(),
	}

	if err := s.log.Append(record); err != nil {
		marker.SetError(err)
		return nil, fmt.Errorf("failed to persist escalation: %w", err)
	}

	s.logger.Escalation().Info("Escalation recorded",
		"escalationId", record.ID,
		"name", record.Name,
		"email", record.Email)

	if s.broadcaster != nil {
		s.broadcaster.BroadcastEscalation(record)
	}

	result := &EscalationResult{
		ID:           record.ID,
		WhatsAppLink: messaging.BuildEscalationLink(s.whatsAppNumber, record.Name, record.Question),
	}

	if err := s.mailer.SendEscalationEmail(ctx, record); err != nil {
		marker.SetError(err)
		s.logger.Email().Error("Escalation email failed", "escalationId", record.ID, "error", err.Error())
		return result, fmt.Errorf("failed to send escalation email: %w", err)
	}

	s.logger.Email().Info("Escalation email sent", "escalationId", record.ID)
	return result, nil
}

// Recent returns the most recent escalation records for the admin surface.
func (s *EscalationService) Recent(limit int) ([]*chat.EscalationRecord, error) {
	records, err := s.log.All()
	if err != nil {
		return nil, fmt.Errorf("failed to load escalations: %w", err)
	}
	if limit > 0 && len(records) > limit {
		records = records[len(records)-limit:]
	}
	return records, nil
}
