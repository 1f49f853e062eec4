// Package stores provides the concrete partition store for the offline cache.
package stores

import (
	"sync"
	"time"

	"github.com/nowa-systems/nowa-go/internal/infrastructure/caching/types"
	"github.com/nowa-systems/nowa-go/internal/infrastructure/observability/logging"
)

// PartitionStore holds all cache generations keyed by their qualified name.
type PartitionStore struct {
	generations map[string]*types.Generation // "static-v1.0.0" -> generation
	mu          sync.RWMutex
	logger      *logging.ChanneledLogger
}

// NewPartitionStore creates an empty partition store.
func NewPartitionStore(logger *logging.ChanneledLogger) *PartitionStore {
	return &PartitionStore{
		generations: make(map[string]*types.Generation),
		logger:      logger,
	}
}

// Create adds a new empty generation for the given partition name and
// version. An existing generation with the same qualified name is reused.
func (ps *PartitionStore) Create(name, version string) *types.Generation {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	gen := &types.Generation{
		Name:      name,
		Version:   version,
		Entries:   make(map[string]*types.Entry),
		CreatedAt: time.Now().UTC(),
	}

	if existing, ok := ps.generations[gen.FullName()]; ok {
		return existing
	}

	ps.generations[gen.FullName()] = gen
	if ps.logger != nil {
		ps.logger.Cache().Debug("Cache partition created", "partition", gen.FullName())
	}
	return gen
}

// Adopt inserts a pre-populated generation, replacing any generation with the
// same qualified name. Used when a staged install is activated.
func (ps *PartitionStore) Adopt(gen *types.Generation) {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	ps.generations[gen.FullName()] = gen
}

// Get returns the generation with the given qualified name.
func (ps *PartitionStore) Get(fullName string) (*types.Generation, bool) {
	ps.mu.RLock()
	defer ps.mu.RUnlock()
	gen, ok := ps.generations[fullName]
	return gen, ok
}

// Lookup searches every generation for an entry with the given key. The
// first hit wins; with one active generation per partition name there is at
// most one.
func (ps *PartitionStore) Lookup(key string) (*types.Entry, string, bool) {
	ps.mu.RLock()
	defer ps.mu.RUnlock()

	for fullName, gen := range ps.generations {
		if entry, ok := gen.Get(key); ok {
			return entry, fullName, true
		}
	}
	return nil, "", false
}

// PurgeOtherVersions deletes every generation whose version tag differs from
// the given version, returning the purged qualified names.
func (ps *PartitionStore) PurgeOtherVersions(version string) []string {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	var purged []string
	for fullName, gen := range ps.generations {
		if gen.Version != version {
			delete(ps.generations, fullName)
			purged = append(purged, fullName)
		}
	}

	if ps.logger != nil && len(purged) > 0 {
		ps.logger.Cache().Info("Stale cache partitions purged", "partitions", purged, "version", version)
	}
	return purged
}

// Names returns the qualified names of all generations.
func (ps *PartitionStore) Names() []string {
	ps.mu.RLock()
	defer ps.mu.RUnlock()

	names := make([]string, 0, len(ps.generations))
	for fullName := range ps.generations {
		names = append(names, fullName)
	}
	return names
}

// EntryCounts reports the number of entries per generation.
func (ps *PartitionStore) EntryCounts() map[string]int {
	ps.mu.RLock()
	defer ps.mu.RUnlock()

	counts := make(map[string]int, len(ps.generations))
	for fullName, gen := range ps.generations {
		counts[fullName] = gen.Len()
	}
	return counts
}

// EvictExpired removes dynamic-partition entries older than ttl. Static
// shell entries are never evicted; they rotate with the version.
func (ps *PartitionStore) EvictExpired(dynamicName string, ttl time.Duration) int {
	ps.mu.RLock()
	defer ps.mu.RUnlock()

	now := time.Now().UTC()
	evicted := 0
	for _, gen := range ps.generations {
		if gen.Name != dynamicName {
			continue
		}
		gen.Mu.Lock()
		for key, entry := range gen.Entries {
			if now.Sub(entry.StoredAt) > ttl {
				delete(gen.Entries, key)
				evicted++
			}
		}
		gen.Mu.Unlock()
	}
	return evicted
}
