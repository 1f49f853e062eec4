package chat

import (
	"fmt"
	"strings"
	"time"
)

// ContactDetails is the contact form submitted with an escalation request.
type ContactDetails struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Question string `json:"question"`
}

// EscalationRecord is one append-only log entry for a human handoff.
type EscalationRecord struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Email      string     `json:"email"`
	Phone      string     `json:"phone"`
	Question   string     `json:"question"`
	Transcript Transcript `json:"transcript"`
	Date       time.Time  `json:"date"`
}

// TriageResult is the outcome of classifying one message.
type TriageResult struct {
	Response string `json:"response"`
	Escalate bool   `json:"escalate"`
}

// ValidationError reports which contact fields were missing or empty after
// sanitization. The request is rejected as a whole; no partial record exists.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("missing required fields: %s", strings.Join(e.Fields, ", "))
}
