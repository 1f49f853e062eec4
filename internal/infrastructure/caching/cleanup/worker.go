// Package cleanup provides the background maintenance worker for the
// offline cache controller.
package cleanup

import (
	"context"
	"time"

	"github.com/nowa-systems/nowa-go/internal/infrastructure/caching/manager"
	"github.com/nowa-systems/nowa-go/internal/infrastructure/observability/logging"
)

// Config carries the worker's tunables.
type Config struct {
	CleanupInterval time.Duration // how often expired dynamic entries are evicted
	SyncInterval    time.Duration // how often the pending-action queue is replayed
	DynamicName     string        // dynamic partition name
	DynamicEntryTTL time.Duration // max age of a dynamic entry
}

// Worker periodically evicts expired dynamic entries and replays the
// pending-action queue. It runs until its context is cancelled.
type Worker struct {
	controller *manager.Controller
	config     Config
	logger     *logging.ChanneledLogger
}

// NewWorker creates a maintenance worker for the given controller.
func NewWorker(controller *manager.Controller, config Config, logger *logging.ChanneledLogger) *Worker {
	return &Worker{
		controller: controller,
		config:     config,
		logger:     logger,
	}
}

// Start begins the maintenance loop.
func (w *Worker) Start(ctx context.Context) {
	cleanupTicker := time.NewTicker(w.config.CleanupInterval)
	defer cleanupTicker.Stop()

	syncTicker := time.NewTicker(w.config.SyncInterval)
	defer syncTicker.Stop()

	if w.logger != nil {
		w.logger.Cache().Info("Cache maintenance worker started",
			"cleanupInterval", w.config.CleanupInterval,
			"syncInterval", w.config.SyncInterval)
	}

	for {
		select {
		case <-ctx.Done():
			if w.logger != nil {
				w.logger.Cache().Info("Cache maintenance worker stopping")
			}
			return
		case <-cleanupTicker.C:
			w.evictExpired()
		case <-syncTicker.C:
			w.replayPending(ctx)
		}
	}
}

func (w *Worker) evictExpired() {
	start := time.Now()
	evicted := w.controller.Store().EvictExpired(w.config.DynamicName, w.config.DynamicEntryTTL)
	if evicted > 0 && w.logger != nil {
		w.logger.Cache().Info("Expired dynamic entries evicted",
			"count", evicted, "duration", time.Since(start))
	}
}

func (w *Worker) replayPending(ctx context.Context) {
	start := time.Now()
	drained, remaining, err := w.controller.ReplayPending(ctx)
	if err != nil {
		if w.logger != nil {
			w.logger.Sync().Error("Background replay cycle failed", "error", err.Error())
		}
		return
	}
	if (drained > 0 || remaining > 0) && w.logger != nil {
		w.logger.Sync().Info("Background replay cycle finished",
			"drained", drained, "remaining", remaining, "duration", time.Since(start))
	}
}
