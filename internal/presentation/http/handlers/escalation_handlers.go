package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nowa-systems/nowa-go/internal/application/services"
	"github.com/nowa-systems/nowa-go/internal/domain/entities/chat"
	"github.com/nowa-systems/nowa-go/internal/infrastructure/observability/logging"
	"github.com/nowa-systems/nowa-go/internal/infrastructure/observability/performance"
)

// EscalationHandlers contains the escalation HTTP handlers.
type EscalationHandlers struct {
	escalationService *services.EscalationService
	logger            *logging.ChanneledLogger
	perfTracker       *performance.Tracker
}

// NewEscalationHandlers creates escalation handlers with injected dependencies.
func NewEscalationHandlers(escalationService *services.EscalationService, logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *EscalationHandlers {
	return &EscalationHandlers{
		escalationService: escalationService,
		logger:            logger,
		perfTracker:       perfTracker,
	}
}

// EscalateRequest represents the request body for POST /api/escalate.
type EscalateRequest struct {
	Name       string          `json:"name"`
	Email      string          `json:"email"`
	Phone      string          `json:"phone"`
	Question   string          `json:"question"`
	Transcript chat.Transcript `json:"transcript"`
}

// EscalateResponse represents the outcome of an escalation request.
type EscalateResponse struct {
	Success     bool   `json:"success"`
	Message     string `json:"message"`
	WhatsAppURL string `json:"whatsappUrl,omitempty"`
}

// PostEscalate handles POST /api/escalate - records the handoff, emails the
// support inbox, and returns a WhatsApp deep link.
func (h *EscalationHandlers) PostEscalate(c *gin.Context) {
	var req EscalateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Escalation().Warn("Invalid escalation request", "clientIp", c.ClientIP(), "error", err.Error())
		c.JSON(http.StatusBadRequest, EscalateResponse{
			Success: false,
			Message: "All fields are required.",
		})
		return
	}

	details := chat.ContactDetails{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Question: req.Question,
	}

	result, err := h.escalationService.Escalate(c.Request.Context(), details, req.Transcript, c.ClientIP())
	if err != nil {
		var validationErr *chat.ValidationError
		if errors.As(err, &validationErr) {
			c.JSON(http.StatusBadRequest, EscalateResponse{
				Success: false,
				Message: "All fields are required.",
			})
			return
		}

		h.logger.Escalation().Error("Escalation failed", "clientIp", c.ClientIP(), "error", err.Error())
		c.JSON(http.StatusInternalServerError, EscalateResponse{
			Success: false,
			Message: "Failed to process escalation. Please try again.",
		})
		return
	}

	c.JSON(http.StatusOK, EscalateResponse{
		Success:     true,
		Message:     "Thank you! Our team will contact you soon.",
		WhatsAppURL: result.WhatsAppLink,
	})
}
