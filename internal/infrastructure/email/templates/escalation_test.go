package templates

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGetEscalationEmailContent(t *testing.T) {
	content := GetEscalationEmailContent(EscalationEmailProps{
		Name:       "Jane Doe",
		Email:      "jane@example.com",
		Phone:      "+254700000001",
		Question:   "Do you build mobile apps?",
		Timestamp:  time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
		Transcript: "user: hi\nbot: Hello!\n",
	})

	assert.Contains(t, content, "New Chatbot Escalation")
	assert.Contains(t, content, "Jane Doe")
	assert.Contains(t, content, "jane@example.com")
	assert.Contains(t, content, "+254700000001")
	assert.Contains(t, content, "Do you build mobile apps?")
	assert.Contains(t, content, "2026-08-01T12:00:00Z")
	assert.Contains(t, content, "user: hi")
}

func TestGetEscalationEmailContent_EscapesMarkup(t *testing.T) {
	content := GetEscalationEmailContent(EscalationEmailProps{
		Name: "<script>alert(1)</script>",
	})
	assert.NotContains(t, content, "<script>")
}

func TestGetEmailLayout_WrapsContent(t *testing.T) {
	html := GetEmailLayout(EmailLayoutProps{
		Preheader: "New chatbot escalation",
		Content:   "<p>hello</p>",
	})

	assert.Contains(t, html, "New chatbot escalation")
	assert.Contains(t, html, "<p>hello</p>")
	assert.Contains(t, html, "NOWA Systems")
}
