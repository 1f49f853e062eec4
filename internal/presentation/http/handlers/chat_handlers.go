// Package handlers provides HTTP request handlers for the presentation layer.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nowa-systems/nowa-go/internal/application/services"
	"github.com/nowa-systems/nowa-go/internal/domain/entities/chat"
	"github.com/nowa-systems/nowa-go/internal/infrastructure/observability/logging"
	"github.com/nowa-systems/nowa-go/internal/infrastructure/observability/performance"
)

// ChatHandlers contains the chat triage HTTP handlers.
type ChatHandlers struct {
	triageService        *services.TriageService
	transcriptionService *services.TranscriptionService
	logger               *logging.ChanneledLogger
	perfTracker          *performance.Tracker
}

// NewChatHandlers creates chat handlers with injected dependencies.
func NewChatHandlers(
	triageService *services.TriageService,
	transcriptionService *services.TranscriptionService,
	logger *logging.ChanneledLogger,
	perfTracker *performance.Tracker,
) *ChatHandlers {
	return &ChatHandlers{
		triageService:        triageService,
		transcriptionService: transcriptionService,
		logger:               logger,
		perfTracker:          perfTracker,
	}
}

// ChatRequest represents the request body for POST /api/chat.
type ChatRequest struct {
	Message string          `json:"message"`
	History chat.Transcript `json:"history,omitempty"`
}

// ChatResponse represents the triage answer for the widget.
type ChatResponse struct {
	Response string `json:"response"`
	Escalate bool   `json:"escalate"`
}

// PostChat handles POST /api/chat - classifies a message into a canned
// response or an escalation request. The optional history is accepted as
// context but does not influence the decision.
func (h *ChatHandlers) PostChat(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Chat().Warn("Invalid chat request", "clientIp", c.ClientIP(), "error", err.Error())
		c.JSON(http.StatusOK, ChatResponse{Response: chat.InvalidMessagePrompt, Escalate: false})
		return
	}

	result := h.triageService.Classify(req.Message, c.ClientIP())
	c.JSON(http.StatusOK, ChatResponse{Response: result.Response, Escalate: result.Escalate})
}

// TranscribeResponse carries the recognized text plus its triage decision so
// the widget handles voice notes exactly like typed messages.
type TranscribeResponse struct {
	Success  bool   `json:"success"`
	Text     string `json:"text,omitempty"`
	Response string `json:"response,omitempty"`
	Escalate bool   `json:"escalate"`
	Error    string `json:"error,omitempty"`
}

// PostTranscribe handles POST /api/v1/chat/transcribe - accepts a multipart
// voice note under the "audio" field and returns the transcript text with a
// triage result.
func (h *ChatHandlers) PostTranscribe(c *gin.Context) {
	if !h.transcriptionService.Enabled() {
		c.JSON(http.StatusServiceUnavailable, TranscribeResponse{
			Success: false,
			Error:   "Transcription is not configured",
		})
		return
	}

	file, _, err := c.Request.FormFile("audio")
	if err != nil {
		h.logger.Chat().Warn("Missing audio upload", "clientIp", c.ClientIP(), "error", err.Error())
		c.JSON(http.StatusBadRequest, TranscribeResponse{
			Success: false,
			Error:   "An audio file is required",
		})
		return
	}
	defer file.Close()

	text, err := h.transcriptionService.TranscribeAudio(c.Request.Context(), file, c.ClientIP())
	if err != nil {
		h.logger.Chat().Error("Transcription failed", "clientIp", c.ClientIP(), "error", err.Error())
		c.JSON(http.StatusBadGateway, TranscribeResponse{
			Success: false,
			Error:   "Failed to transcribe audio",
		})
		return
	}

	result := h.triageService.Classify(text, c.ClientIP())
	c.JSON(http.StatusOK, TranscribeResponse{
		Success:  true,
		Text:     text,
		Response: result.Response,
		Escalate: result.Escalate,
	})
}
