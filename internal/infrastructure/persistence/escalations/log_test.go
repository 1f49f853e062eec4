package escalations

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nowa-systems/nowa-go/internal/domain/entities/chat"
	"github.com/nowa-systems/nowa-go/internal/infrastructure/observability/logging"
)

func newTestLog(t *testing.T) (*Log, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "escalations.json")
	return NewLog(path, logging.NewTestLogger(t)), path
}

func record(id string) *chat.EscalationRecord {
	return &chat.EscalationRecord{
		ID:       id,
		Name:     "Jane Doe",
		Email:    "jane@example.com",
		Phone:    "+254700000001",
		Question: "Do you build mobile apps?",
		Date:     time.Now().UTC(),
	}
}

func TestLog_AppendAndReadBack(t *testing.T) {
	log, path := newTestLog(t)

	require.NoError(t, log.Append(record("01A")))
	require.NoError(t, log.Append(record("01B")))

	records, err := log.All()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "01A", records[0].ID)
	assert.Equal(t, "01B", records[1].ID)

	// The file on disk is one well-formed JSON array
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	var parsed []map[string]any
	require.NoError(t, json.Unmarshal(raw, &parsed))
	assert.Len(t, parsed, 2)
}

func TestLog_MissingFileReadsEmpty(t *testing.T) {
	log, _ := newTestLog(t)

	records, err := log.All()
	require.NoError(t, err)
	assert.Empty(t, records)

	count, err := log.Count()
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestLog_SurvivesReopen(t *testing.T) {
	log, path := newTestLog(t)
	require.NoError(t, log.Append(record("01A")))

	reopened := NewLog(path, logging.NewTestLogger(t))
	records, err := reopened.All()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "01A", records[0].ID)
}

func TestLog_ConcurrentAppends(t *testing.T) {
	log, _ := newTestLog(t)

	const writers = 20
	var wg sync.WaitGroup
	wg.Add(writers)
	for i := 0; i < writers; i++ {
		go func(i int) {
			defer wg.Done()
			assert.NoError(t, log.Append(record(fmt.Sprintf("%02d", i))))
		}(i)
	}
	wg.Wait()

	records, err := log.All()
	require.NoError(t, err)
	assert.Len(t, records, writers)

	seen := make(map[string]bool)
	for _, r := range records {
		assert.False(t, seen[r.ID], "record %s interleaved or duplicated", r.ID)
		seen[r.ID] = true
	}
}
