// Package escalations provides the durable append-only escalation log.
package escalations

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/nowa-systems/nowa-go/internal/domain/entities/chat"
	"github.com/nowa-systems/nowa-go/internal/infrastructure/observability/logging"
)

// Log is a JSON-array file of escalation records. The whole array is read,
// appended to, and rewritten on each append; a single-writer mutex keeps
// concurrent appends from interleaving.
type Log struct {
	path   string
	mu     sync.Mutex
	logger *logging.ChanneledLogger
}

// NewLog creates a log backed by the given file path. The file is created
// lazily on the first append.
func NewLog(path string, logger *logging.ChanneledLogger) *Log {
	return &Log{path: path, logger: logger}
}

// Append adds one record to the log. Either the whole record is written or
// the file is left untouched.
func (l *Log) Append(record *chat.EscalationRecord) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	records, err := l.readAll()
	if err != nil {
		return err
	}

	records = append(records, record)

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal escalation log: %w", err)
	}

	if err := os.WriteFile(l.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write escalation log: %w", err)
	}

	if l.logger != nil {
		l.logger.Escalation().Info("Escalation record appended", "id", record.ID, "total", len(records))
	}
	return nil
}

// All returns every record in the log, oldest first.
func (l *Log) All() ([]*chat.EscalationRecord, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.readAll()
}

// Count returns the number of records in the log.
func (l *Log) Count() (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	records, err := l.readAll()
	if err != nil {
		return 0, err
	}
	return len(records), nil
}

func (l *Log) readAll() ([]*chat.EscalationRecord, error) {
	data, err := os.ReadFile(l.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read escalation log: %w", err)
	}

	if len(data) == 0 {
		return nil, nil
	}

	var records []*chat.EscalationRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to parse escalation log: %w", err)
	}
	return records, nil
}
