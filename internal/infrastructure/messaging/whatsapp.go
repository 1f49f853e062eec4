// Package messaging provides outbound notification channels for escalations.
package messaging

import (
	"fmt"
	"net/url"
)

// BuildEscalationLink constructs a wa.me deep link that opens a WhatsApp
// conversation with the support number, pre-filled with the escalation
// summary. The number must be in international format without a leading plus.
func BuildEscalationLink(number, name, question string) string {
	text := fmt.Sprintf("New escalation: %s - %s", name, question)
	return "https://wa.me/" + number + "?text=" + url.QueryEscape(text)
}
