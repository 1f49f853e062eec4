package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nowa-systems/nowa-go/internal/infrastructure/caching/manager"
	"github.com/nowa-systems/nowa-go/internal/infrastructure/observability/performance"
)

// HealthHandlers contains the health check handlers.
type HealthHandlers struct {
	controller  *manager.Controller
	perfTracker *performance.Tracker
}

// NewHealthHandlers creates health handlers with injected dependencies.
func NewHealthHandlers(controller *manager.Controller, perfTracker *performance.Tracker) *HealthHandlers {
	return &HealthHandlers{
		controller:  controller,
		perfTracker: perfTracker,
	}
}

// GetHealth handles GET /health - liveness plus basic runtime facts.
func (h *HealthHandlers) GetHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":       "ok",
		"uptime":       h.perfTracker.Uptime().Round(time.Second).String(),
		"cacheState":   string(h.controller.State()),
		"cacheVersion": h.controller.Version(),
	})
}
