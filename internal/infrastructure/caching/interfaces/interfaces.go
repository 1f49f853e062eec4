// Package interfaces defines the contracts for the offline cache controller.
package interfaces

import (
	"context"
	"net/http"

	"github.com/nowa-systems/nowa-go/internal/domain/entities/offline"
)

// Fetcher issues upstream HTTP requests. *http.Client satisfies it; tests
// substitute a counting implementation.
type Fetcher interface {
	Do(req *http.Request) (*http.Response, error)
}

// PendingQueue is the durable store for offline actions awaiting replay.
// List returns actions in storage order, oldest first.
type PendingQueue interface {
	Enqueue(ctx context.Context, action *offline.PendingAction) error
	List(ctx context.Context) ([]*offline.PendingAction, error)
	Delete(ctx context.Context, id string) error
	Close() error
}
