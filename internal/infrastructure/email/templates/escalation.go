package templates

import (
	"bytes"
	"html/template"
	"log"
	"time"
)

// EscalationEmailProps carries the escalation details into the template.
type EscalationEmailProps struct {
	Name       string
	Email      string
	Phone      string
	Question   string
	Timestamp  time.Time
	Transcript string
}

var escalationTemplate = template.Must(template.New("escalationEmail").Parse(`
    <h2 style="font-family: Helvetica, sans-serif; font-size: 24px; font-weight: bold; margin: 0; margin-bottom: 16px;">New Chatbot Escalation</h2>
    <p style="font-family: Helvetica, sans-serif; font-size: 16px; font-weight: normal; margin: 0; margin-bottom: 8px;"><strong>Name:</strong> {{.Name}}</p>
    <p style="font-family: Helvetica, sans-serif; font-size: 16px; font-weight: normal; margin: 0; margin-bottom: 8px;"><strong>Email:</strong> {{.Email}}</p>
    <p style="font-family: Helvetica, sans-serif; font-size: 16px; font-weight: normal; margin: 0; margin-bottom: 8px;"><strong>Phone:</strong> {{.Phone}}</p>
    <p style="font-family: Helvetica, sans-serif; font-size: 16px; font-weight: normal; margin: 0; margin-bottom: 8px;"><strong>Question:</strong> {{.Question}}</p>
    <p style="font-family: Helvetica, sans-serif; font-size: 16px; font-weight: normal; margin: 0; margin-bottom: 16px;"><strong>Timestamp:</strong> {{.TimestampText}}</p>
    <h3 style="font-family: Helvetica, sans-serif; font-size: 18px; font-weight: bold; margin: 0; margin-bottom: 8px;">Conversation Transcript:</h3>
    <pre style="font-family: monospace; font-size: 14px; background-color: #f4f5f6; border-radius: 4px; padding: 12px; white-space: pre-wrap;">{{.Transcript}}</pre>`))

type escalationTemplateData struct {
	Name          string
	Email         string
	Phone         string
	Question      string
	TimestampText string
	Transcript    string
}

// GetEscalationEmailContent renders the escalation email body for the layout.
func GetEscalationEmailContent(props EscalationEmailProps) string {
	data := escalationTemplateData{
		Name:          props.Name,
		Email:         props.Email,
		Phone:         props.Phone,
		Question:      props.Question,
		TimestampText: props.Timestamp.UTC().Format(time.RFC3339),
		Transcript:    props.Transcript,
	}

	var buf bytes.Buffer
	if err := escalationTemplate.Execute(&buf, data); err != nil {
		log.Printf("ERROR: failed to execute escalation email template: %v", err)
		return ""
	}
	return buf.String()
}
