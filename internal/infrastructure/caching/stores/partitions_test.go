package stores

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nowa-systems/nowa-go/internal/infrastructure/caching/types"
	"github.com/nowa-systems/nowa-go/internal/infrastructure/observability/logging"
)

func entry(key string, age time.Duration) *types.Entry {
	return &types.Entry{
		Key:      key,
		Status:   http.StatusOK,
		Header:   make(http.Header),
		Body:     []byte("x"),
		StoredAt: time.Now().UTC().Add(-age),
	}
}

func TestPartitionStore_LookupAcrossPartitions(t *testing.T) {
	ps := NewPartitionStore(logging.NewTestLogger(t))

	static := ps.Create("static", "v1")
	static.Put(entry("GET http://origin.test/", 0))
	dynamic := ps.Create("dynamic", "v1")
	dynamic.Put(entry("GET http://origin.test/api/data", 0))

	got, partition, ok := ps.Lookup("GET http://origin.test/")
	require.True(t, ok)
	assert.Equal(t, "static-v1", partition)
	assert.Equal(t, "GET http://origin.test/", got.Key)

	_, _, ok = ps.Lookup("GET http://origin.test/missing")
	assert.False(t, ok)
}

func TestPartitionStore_PurgeOtherVersions(t *testing.T) {
	ps := NewPartitionStore(logging.NewTestLogger(t))
	ps.Create("static", "v1")
	ps.Create("dynamic", "v1")
	ps.Create("static", "v2")

	purged := ps.PurgeOtherVersions("v2")
	assert.ElementsMatch(t, []string{"static-v1", "dynamic-v1"}, purged)
	assert.ElementsMatch(t, []string{"static-v2"}, ps.Names())
}

func TestPartitionStore_EvictExpired(t *testing.T) {
	ps := NewPartitionStore(logging.NewTestLogger(t))
	dynamic := ps.Create("dynamic", "v1")
	dynamic.Put(entry("GET http://origin.test/fresh", time.Minute))
	dynamic.Put(entry("GET http://origin.test/stale", 25*time.Hour))

	evicted := ps.EvictExpired("dynamic", 24*time.Hour)
	assert.Equal(t, 1, evicted)

	_, ok := dynamic.Get("GET http://origin.test/fresh")
	assert.True(t, ok)
	_, ok = dynamic.Get("GET http://origin.test/stale")
	assert.False(t, ok)
}

func TestPartitionStore_EvictExpiredMissingPartition(t *testing.T) {
	ps := NewPartitionStore(logging.NewTestLogger(t))
	assert.Zero(t, ps.EvictExpired("nonexistent", time.Hour))
}

func TestGeneration_CloneIsolation(t *testing.T) {
	e := entry("GET http://origin.test/", 0)
	e.Header.Set("Content-Type", "text/html")

	clone := e.Clone()
	clone.Header.Set("Content-Type", "text/plain")
	clone.Body[0] = 'y'

	assert.Equal(t, "text/html", e.Header.Get("Content-Type"))
	assert.Equal(t, []byte("x"), e.Body)
}
