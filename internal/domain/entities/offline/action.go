// Package offline defines the domain entities for the offline action queue.
package offline

import "time"

// PendingAction is a side-effecting request recorded while the client was
// offline, replayed oldest-first on the next sync trigger and deleted once a
// replay succeeds. Delivery is at-least-once; a failed replay keeps the
// action queued for the next cycle.
type PendingAction struct {
	ID       string            `json:"id"`
	URL      string            `json:"url"`
	Method   string            `json:"method"`
	Headers  map[string]string `json:"headers,omitempty"`
	Body     []byte            `json:"body,omitempty"`
	QueuedAt time.Time         `json:"queuedAt"`
}
