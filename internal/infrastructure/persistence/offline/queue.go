// Package offline provides the durable pending-action queue.
package offline

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	_ "github.com/tursodatabase/libsql-client-go/libsql"

	"github.com/nowa-systems/nowa-go/internal/domain/entities/offline"
	"github.com/nowa-systems/nowa-go/internal/infrastructure/observability/logging"
)

const schema = `
CREATE TABLE IF NOT EXISTS pending_actions (
	id TEXT PRIMARY KEY,
	url TEXT NOT NULL,
	method TEXT NOT NULL,
	headers TEXT,
	body BLOB,
	queued_at TEXT NOT NULL
)`

// Config selects the queue's storage backend: a local SQLite file by
// default, or a remote libsql/Turso database when enabled.
type Config struct {
	SQLitePath       string
	TursoDatabaseURL string
	TursoAuthToken   string
	TursoEnabled     bool
}

// Queue is a SQL-backed FIFO of pending offline actions. List returns
// actions in storage order (queued_at, then id) so replay is oldest-first.
type Queue struct {
	conn     *sql.DB
	useTurso bool
	logger   *logging.ChanneledLogger
}

// NewQueue opens the queue storage and ensures the schema exists.
func NewQueue(cfg Config, logger *logging.ChanneledLogger) (*Queue, error) {
	var conn *sql.DB
	var err error
	var useTurso bool

	if cfg.TursoEnabled && cfg.TursoDatabaseURL != "" && cfg.TursoAuthToken != "" {
		connStr := cfg.TursoDatabaseURL + "?authToken=" + cfg.TursoAuthToken
		conn, err = sql.Open("libsql", connStr)
		if err != nil {
			return nil, fmt.Errorf("turso connection failed: %w", err)
		}
		if err := conn.Ping(); err != nil {
			conn.Close()
			return nil, fmt.Errorf("turso connection failed: %w", err)
		}
		useTurso = true
	} else {
		conn, err = sql.Open("sqlite3", cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("sqlite connection failed: %w", err)
		}
	}

	if _, err := conn.Exec(schema); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create pending_actions table: %w", err)
	}

	if logger != nil {
		logger.Sync().Info("Pending-action queue opened", "turso", useTurso)
	}

	return &Queue{conn: conn, useTurso: useTurso, logger: logger}, nil
}

// Enqueue records a pending action.
func (q *Queue) Enqueue(ctx context.Context, action *offline.PendingAction) error {
	headers, err := json.Marshal(action.Headers)
	if err != nil {
		return fmt.Errorf("failed to marshal action headers: %w", err)
	}

	_, err = q.conn.ExecContext(ctx,
		`INSERT INTO pending_actions (id, url, method, headers, body, queued_at) VALUES (?, ?, ?, ?, ?, ?)`,
		action.ID, action.URL, action.Method, string(headers), action.Body,
		action.QueuedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("failed to enqueue pending action %s: %w", action.ID, err)
	}
	return nil
}

// List returns all queued actions, oldest first.
func (q *Queue) List(ctx context.Context) ([]*offline.PendingAction, error) {
	rows, err := q.conn.QueryContext(ctx,
		`SELECT id, url, method, headers, body, queued_at FROM pending_actions ORDER BY queued_at ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query pending actions: %w", err)
	}
	defer rows.Close()

	var actions []*offline.PendingAction
	for rows.Next() {
		var action offline.PendingAction
		var headers string
		var queuedAt string

		if err := rows.Scan(&action.ID, &action.URL, &action.Method, &headers, &action.Body, &queuedAt); err != nil {
			return nil, fmt.Errorf("failed to scan pending action: %w", err)
		}

		if headers != "" {
			if err := json.Unmarshal([]byte(headers), &action.Headers); err != nil {
				return nil, fmt.Errorf("failed to unmarshal headers for action %s: %w", action.ID, err)
			}
		}

		if ts, err := time.Parse(time.RFC3339Nano, queuedAt); err == nil {
			action.QueuedAt = ts
		}

		actions = append(actions, &action)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed reading pending actions: %w", err)
	}

	return actions, nil
}

// Delete removes an action once it has been replayed successfully.
func (q *Queue) Delete(ctx context.Context, id string) error {
	_, err := q.conn.ExecContext(ctx, `DELETE FROM pending_actions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete pending action %s: %w", id, err)
	}
	return nil
}

// Close closes the underlying connection.
func (q *Queue) Close() error {
	return q.conn.Close()
}
