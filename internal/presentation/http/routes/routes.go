// Package routes provides HTTP route configuration for the presentation layer.
package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/nowa-systems/nowa-go/internal/application/container"
	"github.com/nowa-systems/nowa-go/internal/presentation/http/handlers"
	"github.com/nowa-systems/nowa-go/internal/presentation/http/middleware"
)

// SetupRoutes configures all HTTP routes and middleware with dependency injection.
func SetupRoutes(container *container.Container) *gin.Engine {
	r := gin.Default()

	r.Use(middleware.CORSMiddleware())
	r.Use(middleware.SecurityHeadersMiddleware())

	// Initialize handlers
	chatHandlers := handlers.NewChatHandlers(container.TriageService, container.TranscriptionService, container.Logger, container.PerfTracker)
	escalationHandlers := handlers.NewEscalationHandlers(container.EscalationService, container.Logger, container.PerfTracker)
	offlineHandlers := handlers.NewOfflineHandlers(container.CacheController, container.PendingQueue, container.Logger, container.PerfTracker)
	adminHandlers := handlers.NewAdminHandlers(container.EscalationService, container.Broadcaster, container.Logger)
	healthHandlers := handlers.NewHealthHandlers(container.CacheController, container.PerfTracker)

	r.GET("/health", healthHandlers.GetHealth)

	// Chat widget API. Rate limiting applies to the triage endpoint only,
	// matching the widget's per-client quota.
	r.POST("/api/chat", middleware.RateLimitMiddleware(container.RateLimiter, container.Logger), chatHandlers.PostChat)
	r.POST("/api/escalate", escalationHandlers.PostEscalate)

	api := r.Group("/api/v1")
	{
		chatGroup := api.Group("/chat")
		{
			chatGroup.POST("/transcribe", chatHandlers.PostTranscribe)
		}

		cacheGroup := api.Group("/cache")
		{
			cacheGroup.POST("/message", offlineHandlers.PostMessage)
			cacheGroup.GET("/status", adminHandlers.AdminAuthMiddleware(), offlineHandlers.GetStatus)
		}

		syncGroup := api.Group("/sync")
		{
			syncGroup.POST("/queue", offlineHandlers.PostQueueAction)
			syncGroup.POST("/trigger", offlineHandlers.PostSyncTrigger)
		}
	}

	// Admin surface
	adminAPI := api.Group("/admin")
	{
		adminAPI.GET("/auth", adminHandlers.AuthCheck)
		adminAPI.POST("/login", adminHandlers.Login)

		adminAPI.Use(adminHandlers.AdminAuthMiddleware())
		{
			adminAPI.GET("/escalations", adminHandlers.GetEscalations)
			adminAPI.GET("/escalations/live", adminHandlers.StreamEscalations)
			adminAPI.GET("/logs/levels", adminHandlers.GetLogLevels)
			adminAPI.POST("/logs/levels", adminHandlers.SetLogLevel)
		}
	}

	// Everything else is a GET through the offline cache controller.
	r.NoRoute(offlineHandlers.HandleFetch)

	return r
}
