package performance

import (
	"sync"
	"time"
)

// Tracker manages performance markers and provides basic aggregation
type Tracker struct {
	markers    []*Marker
	maxMarkers int
	mu         sync.RWMutex
	started    time.Time
}

// NewTracker creates a new performance tracker
func NewTracker() *Tracker {
	return &Tracker{
		markers:    make([]*Marker, 0, 256),
		maxMarkers: 5000,
		started:    time.Now().UTC(),
	}
}

// StartOperation creates and registers a marker for an operation
func (t *Tracker) StartOperation(operation, clientID string) *Marker {
	marker := &Marker{
		Operation: operation,
		ClientID:  clientID,
		StartTime: time.Now(),
		Success:   true,
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	t.markers = append(t.markers, marker)
	if len(t.markers) > t.maxMarkers {
		// Drop the oldest half rather than shifting one at a time
		t.markers = append(t.markers[:0], t.markers[len(t.markers)/2:]...)
	}

	return marker
}

// RecentMarkers returns up to n most recent markers, newest first
func (t *Tracker) RecentMarkers(n int) []*Marker {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if n > len(t.markers) {
		n = len(t.markers)
	}

	out := make([]*Marker, 0, n)
	for i := len(t.markers) - 1; i >= len(t.markers)-n; i-- {
		out = append(out, t.markers[i])
	}
	return out
}

// Uptime reports how long the tracker has been running
func (t *Tracker) Uptime() time.Duration {
	return time.Since(t.started)
}
