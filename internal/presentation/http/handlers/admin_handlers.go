package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/nowa-systems/nowa-go/internal/application/services"
	"github.com/nowa-systems/nowa-go/internal/infrastructure/messaging"
	"github.com/nowa-systems/nowa-go/internal/infrastructure/observability/logging"
	"github.com/nowa-systems/nowa-go/internal/infrastructure/security"
	"github.com/nowa-systems/nowa-go/pkg/config"
)

// AdminHandlers contains the admin surface HTTP handlers.
type AdminHandlers struct {
	escalationService *services.EscalationService
	broadcaster       *messaging.EscalationBroadcaster
	logger            *logging.ChanneledLogger
	upgrader          websocket.Upgrader
}

// NewAdminHandlers creates admin handlers with injected dependencies.
func NewAdminHandlers(escalationService *services.EscalationService, broadcaster *messaging.EscalationBroadcaster, logger *logging.ChanneledLogger) *AdminHandlers {
	return &AdminHandlers{
		escalationService: escalationService,
		broadcaster:       broadcaster,
		logger:            logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || origin == config.OriginURL
			},
		},
	}
}

// AuthCheck reports whether the admin surface is protected and whether the
// caller holds a valid session.
func (h *AdminHandlers) AuthCheck(c *gin.Context) {
	response := gin.H{
		"passwordRequired": config.AdminPassword != "",
		"authenticated":    false,
	}
	if config.AdminPassword == "" {
		response["message"] = "Set ADMIN_PASSWORD to enable the admin surface"
	}

	if token := bearerToken(c); token != "" {
		if claims, err := security.ValidateJWT(token, config.JWTSecret); err == nil && security.IsAdminClaims(claims) {
			response["authenticated"] = true
		}
	}

	c.JSON(http.StatusOK, response)
}

// Login handles admin authentication and issues a session token.
func (h *AdminHandlers) Login(c *gin.Context) {
	var request struct {
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if !security.VerifyAdminPassword(request.Password, config.AdminPassword) {
		h.logger.Auth().Warn("Admin login rejected", "clientIp", c.ClientIP())
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid password"})
		return
	}

	token, err := security.GenerateAdminToken(config.JWTSecret)
	if err != nil {
		h.logger.Auth().Error("Failed to issue admin token", "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to issue token"})
		return
	}

	h.logger.Auth().Info("Admin login succeeded", "clientIp", c.ClientIP())
	c.JSON(http.StatusOK, gin.H{"success": true, "token": token})
}

// AdminAuthMiddleware guards the authenticated admin endpoints.
func (h *AdminHandlers) AdminAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			token = c.Query("token") // websocket clients cannot set headers
		}

		claims, err := security.ValidateJWT(token, config.JWTSecret)
		if err != nil || !security.IsAdminClaims(claims) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			c.Abort()
			return
		}
		c.Next()
	}
}

// GetEscalations returns the most recent escalation records.
func (h *AdminHandlers) GetEscalations(c *gin.Context) {
	records, err := h.escalationService.Recent(100)
	if err != nil {
		h.logger.Escalation().Error("Failed to load escalations", "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load escalations"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"escalations": records, "count": len(records)})
}

// StreamEscalations upgrades to a websocket and feeds new escalations live.
// The connection stays registered until the client goes away.
func (h *AdminHandlers) StreamEscalations(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Escalation().Warn("Live feed upgrade failed", "clientIp", c.ClientIP(), "error", err.Error())
		return
	}

	h.broadcaster.AddClient(conn)

	// Reads are discarded; the read loop only detects disconnects.
	go func() {
		defer h.broadcaster.RemoveClient(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

// GetLogLevels returns the current per-channel log levels.
func (h *AdminHandlers) GetLogLevels(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"levels": h.logger.GetChannelLevels()})
}

// SetLogLevel adjusts one channel's log level at runtime.
func (h *AdminHandlers) SetLogLevel(c *gin.Context) {
	var request struct {
		Channel string `json:"channel" binding:"required"`
		Level   string `json:"level" binding:"required"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "A channel and level are required"})
		return
	}

	var level slog.Level
	switch request.Level {
	case "DEBUG":
		level = slog.LevelDebug
	case "INFO":
		level = slog.LevelInfo
	case "WARN":
		level = slog.LevelWarn
	case "ERROR":
		level = slog.LevelError
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid log level specified"})
		return
	}

	if err := h.logger.SetChannelLevel(logging.Channel(request.Channel), level); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func bearerToken(c *gin.Context) string {
	auth := c.GetHeader("Authorization")
	if strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}
	return ""
}
