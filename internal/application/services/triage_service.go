// Package services provides application-level orchestration services
package services

import (
	"strings"

	"github.com/nowa-systems/nowa-go/internal/domain/entities/chat"
	"github.com/nowa-systems/nowa-go/internal/infrastructure/observability/logging"
	"github.com/nowa-systems/nowa-go/internal/infrastructure/observability/performance"
	"github.com/nowa-systems/nowa-go/internal/infrastructure/security"
)

// TriageService classifies incoming chat messages against the ordered intent
// rules and decides when a conversation must be handed to a human.
type TriageService struct {
	rules       []chat.IntentRule
	threshold   float64
	logger      *logging.ChanneledLogger
	perfTracker *performance.Tracker
}

// NewTriageService creates a new triage service over the given rule set.
func NewTriageService(rules []chat.IntentRule, threshold float64, logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *TriageService {
	return &TriageService{
		rules:       rules,
		threshold:   threshold,
		logger:      logger,
		perfTracker: perfTracker,
	}
}

// Classify runs a message through the intent rules. Rules are evaluated in
// order and the first keyword hit wins. A handoff is requested when the
// visitor explicitly asks for a human, when the best match sits below the
// confidence threshold, and when nothing matches at all.
func (s *TriageService) Classify(message, clientID string) chat.TriageResult {
	marker := s.perfTracker.StartOperation("classify_message", clientID)
	defer marker.Complete()

	cleaned := security.StripTags(message)
	if cleaned == "" {
		marker.SetSuccess(false)
		return chat.TriageResult{Response: chat.InvalidMessagePrompt, Escalate: false}
	}

	normalized := strings.ToLower(cleaned)

	for _, keyword := range chat.HumanKeywords {
		if strings.Contains(normalized, keyword) {
			s.logger.Chat().Info("Forced escalation keyword matched", "keyword", keyword, "clientId", clientID)
			marker.AddMetadata("escalated", true)
			return chat.TriageResult{Response: chat.EscalationPrompt, Escalate: true}
		}
	}

	for _, rule := range s.rules {
		if !rule.Matches(normalized) {
			continue
		}
		marker.AddMetadata("confidence", rule.Confidence)
		if rule.Confidence >= s.threshold {
			return chat.TriageResult{Response: rule.Response, Escalate: false}
		}
		s.logger.Chat().Debug("Matched rule below confidence threshold", "confidence", rule.Confidence, "threshold", s.threshold, "clientId", clientID)
		marker.AddMetadata("escalated", true)
		return chat.TriageResult{Response: chat.EscalationPrompt, Escalate: true}
	}

	s.logger.Chat().Debug("No intent rule matched", "clientId", clientID)
	marker.AddMetadata("escalated", true)
	return chat.TriageResult{Response: chat.EscalationPrompt, Escalate: true}
}
