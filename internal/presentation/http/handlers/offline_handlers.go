package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nowa-systems/nowa-go/internal/domain/entities/offline"
	"github.com/nowa-systems/nowa-go/internal/infrastructure/caching/interfaces"
	"github.com/nowa-systems/nowa-go/internal/infrastructure/caching/manager"
	"github.com/nowa-systems/nowa-go/internal/infrastructure/caching/types"
	"github.com/nowa-systems/nowa-go/internal/infrastructure/observability/logging"
	"github.com/nowa-systems/nowa-go/internal/infrastructure/observability/performance"
	"github.com/nowa-systems/nowa-go/internal/infrastructure/security"
)

// Message channel commands understood by PostMessage.
const (
	MessageSkipWaiting = "SKIP_WAITING"
	MessageGetVersion  = "GET_VERSION"
)

// OfflineHandlers exposes the cache controller over HTTP: the catch-all GET
// proxy, the message channel, the pending-action queue, and status.
type OfflineHandlers struct {
	controller  *manager.Controller
	queue       interfaces.PendingQueue
	logger      *logging.ChanneledLogger
	perfTracker *performance.Tracker
}

// NewOfflineHandlers creates offline cache handlers with injected dependencies.
func NewOfflineHandlers(controller *manager.Controller, queue interfaces.PendingQueue, logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *OfflineHandlers {
	return &OfflineHandlers{
		controller:  controller,
		queue:       queue,
		logger:      logger,
		perfTracker: perfTracker,
	}
}

// HandleFetch is the catch-all route. GET requests run the cache-first
// algorithm; everything else is forwarded to the origin untouched.
func (h *OfflineHandlers) HandleFetch(c *gin.Context) {
	if c.Request.Method != http.MethodGet {
		h.passThrough(c)
		return
	}

	marker := h.perfTracker.StartOperation("handle_fetch", c.ClientIP())
	defer marker.Complete()

	result, err := h.controller.HandleFetch(c.Request.Context(), c.Request)
	if err != nil {
		marker.SetError(err)
		h.logger.Cache().Error("Fetch handling failed", "path", c.Request.URL.Path, "error", err.Error())
		c.String(http.StatusInternalServerError, "Internal error")
		return
	}

	if result.FromCache {
		marker.AddCacheHit()
	} else {
		marker.AddCacheMiss()
	}

	h.relayEntry(c, result.Entry)
}

// passThrough proxies a non-GET request straight to the origin. No cache
// lookup, no cache write.
func (h *OfflineHandlers) passThrough(c *gin.Context) {
	marker := h.perfTracker.StartOperation("pass_through", c.ClientIP())
	defer marker.Complete()

	entry, err := h.controller.PassThrough(c.Request.Context(), c.Request)
	if err != nil {
		marker.SetError(err)
		h.logger.Cache().Warn("Pass-through failed", "method", c.Request.Method, "path", c.Request.URL.Path, "error", err.Error())
		c.String(http.StatusBadGateway, "Upstream unavailable")
		return
	}
	marker.SetSuccess(true)

	h.relayEntry(c, entry)
}

func (h *OfflineHandlers) relayEntry(c *gin.Context, entry *types.Entry) {
	for key, values := range entry.Header {
		for _, value := range values {
			c.Writer.Header().Add(key, value)
		}
	}
	c.Status(entry.Status)
	c.Writer.Write(entry.Body)
}

// MessageRequest is one command on the controller message channel.
type MessageRequest struct {
	Type string `json:"type" binding:"required"`
}

// PostMessage handles POST /api/v1/cache/message - the SKIP_WAITING and
// GET_VERSION command channel.
func (h *OfflineHandlers) PostMessage(c *gin.Context) {
	var req MessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "A message type is required"})
		return
	}

	switch req.Type {
	case MessageSkipWaiting:
		if err := h.controller.SkipWaiting(); err != nil {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		h.logger.Cache().Info("Waiting version activated via message channel", "version", h.controller.Version())
		c.JSON(http.StatusOK, gin.H{"activated": true, "version": h.controller.Version()})
	case MessageGetVersion:
		c.JSON(http.StatusOK, gin.H{"version": h.controller.Version()})
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown message type"})
	}
}

// QueueActionRequest describes one action to replay once connectivity returns.
type QueueActionRequest struct {
	URL     string            `json:"url" binding:"required"`
	Method  string            `json:"method" binding:"required"`
	Headers map[string]string `json:"headers,omitempty"`
	Body    []byte            `json:"body,omitempty"`
}

// PostQueueAction handles POST /api/v1/sync/queue - persists an action for
// later replay.
func (h *OfflineHandlers) PostQueueAction(c *gin.Context) {
	var req QueueActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "A url and method are required"})
		return
	}

	action := &offline.PendingAction{
		ID:       security.GenerateULID(),
		URL:      req.URL,
		Method:   req.Method,
		Headers:  req.Headers,
		Body:     req.Body,
		QueuedAt: time.Now().UTC(),
	}

	if err := h.queue.Enqueue(c.Request.Context(), action); err != nil {
		h.logger.Sync().Error("Failed to queue pending action", "url", req.URL, "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to queue action"})
		return
	}

	h.logger.Sync().Info("Pending action queued", "actionId", action.ID, "method", action.Method, "url", action.URL)
	c.JSON(http.StatusAccepted, gin.H{"queued": true, "id": action.ID})
}

// PostSyncTrigger handles POST /api/v1/sync/trigger - drains the pending
// queue immediately instead of waiting for the periodic worker.
func (h *OfflineHandlers) PostSyncTrigger(c *gin.Context) {
	marker := h.perfTracker.StartOperation("sync_trigger", c.ClientIP())
	defer marker.Complete()

	drained, remaining, err := h.controller.ReplayPending(c.Request.Context())
	if err != nil {
		marker.SetError(err)
		h.logger.Sync().Error("Replay trigger failed", "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to replay pending actions"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"drained": drained, "remaining": remaining})
}

// GetStatus handles GET /api/v1/cache/status - reports lifecycle state,
// version, and per-partition entry counts.
func (h *OfflineHandlers) GetStatus(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"state":      string(h.controller.State()),
		"version":    h.controller.Version(),
		"waiting":    h.controller.HasWaiting(),
		"partitions": h.controller.Partitions(),
	})
}
