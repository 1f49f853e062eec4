package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nowa-systems/nowa-go/internal/domain/entities/chat"
	"github.com/nowa-systems/nowa-go/internal/infrastructure/observability/logging"
	"github.com/nowa-systems/nowa-go/internal/infrastructure/observability/performance"
)

func newTriageService(t *testing.T) *TriageService {
	t.Helper()
	return NewTriageService(
		chat.DefaultRules(chat.DefaultKnowledgeBase()),
		0.6,
		logging.NewTestLogger(t),
		performance.NewTracker(),
	)
}

func TestClassify(t *testing.T) {
	svc := newTriageService(t)

	tests := []struct {
		name         string
		message      string
		wantEscalate bool
		wantContains string
	}{
		{
			name:         "greeting",
			message:      "hello",
			wantEscalate: false,
			wantContains: "Hello! How can I help you with NOWA Systems today?",
		},
		{
			name:         "greeting uppercase",
			message:      "HELLO there",
			wantEscalate: false,
			wantContains: "Hello!",
		},
		{
			name:         "services",
			message:      "what services do you offer?",
			wantEscalate: false,
			wantContains: "NOWA Systems offers:",
		},
		{
			name:         "contact",
			message:      "how do I contact you",
			wantEscalate: false,
			wantContains: "info@nowasystems.com",
		},
		{
			name:         "website",
			message:      "where is your site",
			wantEscalate: false,
			wantContains: "https://nowa-systems.vercel.app",
		},
		{
			name:         "digital transformation",
			message:      "tell me about digital transformation",
			wantEscalate: false,
			wantContains: "Digital transformation involves modernizing",
		},
		{
			name:         "ai automation",
			message:      "do you do ai work",
			wantEscalate: false,
			wantContains: "AI automation streamlines",
		},
		{
			name:         "consulting",
			message:      "I need consulting",
			wantEscalate: false,
			wantContains: "IT consulting services",
		},
		{
			name:         "explicit human request escalates",
			message:      "I want to speak to a human",
			wantEscalate: true,
			wantContains: chat.EscalationPrompt,
		},
		{
			name:         "help keyword escalates",
			message:      "help",
			wantEscalate: true,
			wantContains: chat.EscalationPrompt,
		},
		{
			name:         "speak to someone escalates",
			message:      "can I speak to someone please",
			wantEscalate: true,
			wantContains: chat.EscalationPrompt,
		},
		{
			name:         "unmatched input escalates",
			message:      "what is the weather on mars",
			wantEscalate: true,
			wantContains: chat.EscalationPrompt,
		},
		{
			name:         "empty message is invalid",
			message:      "",
			wantEscalate: false,
			wantContains: chat.InvalidMessagePrompt,
		},
		{
			name:         "whitespace only is invalid",
			message:      "   \t\n  ",
			wantEscalate: false,
			wantContains: chat.InvalidMessagePrompt,
		},
		{
			name:         "markup only is invalid",
			message:      "<script>alert(1)</script>",
			wantEscalate: false,
			wantContains: chat.InvalidMessagePrompt,
		},
		{
			name:         "markup is stripped before matching",
			message:      "<b>hello</b>",
			wantEscalate: false,
			wantContains: "Hello!",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := svc.Classify(tt.message, "test-client")
			assert.Equal(t, tt.wantEscalate, result.Escalate)
			assert.Contains(t, result.Response, tt.wantContains)
		})
	}
}

func TestClassify_FirstMatchWins(t *testing.T) {
	svc := newTriageService(t)

	// "hello" (rule 1) and "services" (rule 2) both match; rule order decides.
	result := svc.Classify("hello, what services do you have?", "test-client")
	assert.False(t, result.Escalate)
	assert.Contains(t, result.Response, "Hello!")
}

func TestClassify_BelowThresholdEscalates(t *testing.T) {
	rules := []chat.IntentRule{
		{Keywords: []string{"pricing"}, Response: "Our pricing is flexible.", Confidence: 0.5},
	}
	svc := NewTriageService(rules, 0.6, logging.NewTestLogger(t), performance.NewTracker())

	result := svc.Classify("tell me about pricing", "test-client")
	assert.True(t, result.Escalate)
	assert.Equal(t, chat.EscalationPrompt, result.Response)
}
