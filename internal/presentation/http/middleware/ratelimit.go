package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nowa-systems/nowa-go/internal/infrastructure/observability/logging"
	"github.com/nowa-systems/nowa-go/internal/infrastructure/ratelimit"
)

// RateLimitMiddleware rejects clients that exceed the per-window request cap.
// Clients are identified by IP. A limiter backend error fails open so a Redis
// outage does not take the chat widget down with it.
func RateLimitMiddleware(limiter ratelimit.Limiter, logger *logging.ChanneledLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		allowed, err := limiter.Allow(c.Request.Context(), c.ClientIP())
		if err != nil {
			logger.System().Error("Rate limiter backend error", "clientIp", c.ClientIP(), "error", err.Error())
			c.Next()
			return
		}

		if !allowed {
			logger.Chat().Warn("Rate limit exceeded", "clientIp", c.ClientIP())
			c.JSON(http.StatusTooManyRequests, gin.H{
				"message": "Too many requests, please try again later.",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
