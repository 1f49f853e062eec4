package chat

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Sender identifies which side of the conversation produced a turn.
type Sender string

const (
	SenderUser Sender = "user"
	SenderBot  Sender = "bot"
)

// Turn is a single message within a chat session.
type Turn struct {
	Sender    Sender    `json:"sender"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp,omitempty"`
}

// Transcript is the ordered conversation history for one session. It is held
// in memory only and persisted solely as part of an escalation record.
//
// The chat widget serializes its history as a JSON string rather than a JSON
// array, so Transcript accepts both encodings.
type Transcript []Turn

// UnmarshalJSON accepts either a JSON array of turns or a JSON string that
// itself contains an encoded array (or free text, kept as a single user turn).
func (t *Transcript) UnmarshalJSON(data []byte) error {
	var turns []Turn
	if err := json.Unmarshal(data, &turns); err == nil {
		*t = turns
		return nil
	}

	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("transcript must be an array of turns or a string: %w", err)
	}

	if err := json.Unmarshal([]byte(raw), &turns); err == nil {
		*t = turns
		return nil
	}

	if strings.TrimSpace(raw) == "" {
		*t = nil
		return nil
	}

	*t = Transcript{{Sender: SenderUser, Text: raw}}
	return nil
}

// Render formats the transcript as plain text, one turn per line.
func (t Transcript) Render() string {
	var b strings.Builder
	for _, turn := range t {
		fmt.Fprintf(&b, "%s: %s\n", turn.Sender, turn.Text)
	}
	return b.String()
}
