// Package types defines the data structures for the versioned offline cache.
package types

import (
	"net/http"
	"strings"
	"sync"
	"time"
)

// LifecycleState tracks the cache controller through its version rollout.
type LifecycleState string

const (
	StateInstalling LifecycleState = "installing"
	StateInstalled  LifecycleState = "installed"
	StateActivating LifecycleState = "activating"
	StateActive     LifecycleState = "active"
)

// Entry is one captured response. Immutable once written; it is only ever
// replaced wholesale by a fresh network fetch for the same key.
type Entry struct {
	Key      string      `json:"key"`
	Status   int         `json:"status"`
	Header   http.Header `json:"header"`
	Body     []byte      `json:"-"`
	StoredAt time.Time   `json:"storedAt"`
}

// Clone returns a copy safe to hand to a response writer.
func (e *Entry) Clone() *Entry {
	header := make(http.Header, len(e.Header))
	for k, v := range e.Header {
		header[k] = append([]string(nil), v...)
	}
	body := append([]byte(nil), e.Body...)
	return &Entry{
		Key:      e.Key,
		Status:   e.Status,
		Header:   header,
		Body:     body,
		StoredAt: e.StoredAt,
	}
}

// EntryKey builds the canonical cache key for a request. GET only.
func EntryKey(method, url string) string {
	return strings.ToUpper(method) + " " + url
}

// Generation is one versioned partition of cache entries, e.g. static-v1.0.0.
// Exactly one generation per partition name is retained after activation.
type Generation struct {
	Name      string // partition name, e.g. "static"
	Version   string // version tag, e.g. "v1.0.0"
	Entries   map[string]*Entry
	CreatedAt time.Time
	Mu        sync.RWMutex // Exported for access
}

// FullName returns the qualified partition name, e.g. "static-v1.0.0".
func (g *Generation) FullName() string {
	return g.Name + "-" + g.Version
}

// Get retrieves an entry by key.
func (g *Generation) Get(key string) (*Entry, bool) {
	g.Mu.RLock()
	defer g.Mu.RUnlock()
	entry, ok := g.Entries[key]
	return entry, ok
}

// Put stores an entry, replacing any existing one (last writer wins).
func (g *Generation) Put(entry *Entry) {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	g.Entries[entry.Key] = entry
}

// Len returns the number of entries.
func (g *Generation) Len() int {
	g.Mu.RLock()
	defer g.Mu.RUnlock()
	return len(g.Entries)
}
