package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nowa-systems/nowa-go/internal/application/services"
	"github.com/nowa-systems/nowa-go/internal/domain/entities/chat"
	"github.com/nowa-systems/nowa-go/internal/infrastructure/observability/logging"
	"github.com/nowa-systems/nowa-go/internal/infrastructure/observability/performance"
	"github.com/nowa-systems/nowa-go/internal/infrastructure/persistence/escalations"
	"github.com/nowa-systems/nowa-go/internal/infrastructure/ratelimit"
	"github.com/nowa-systems/nowa-go/internal/presentation/http/middleware"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubMailer struct {
	sent int
	err  error
}

func (m *stubMailer) SendEscalationEmail(_ context.Context, _ *chat.EscalationRecord) error {
	if m.err != nil {
		return m.err
	}
	m.sent++
	return nil
}

func newChatRouter(t *testing.T, limiter ratelimit.Limiter) *gin.Engine {
	t.Helper()
	logger := logging.NewTestLogger(t)
	tracker := performance.NewTracker()

	triage := services.NewTriageService(chat.DefaultRules(chat.DefaultKnowledgeBase()), 0.6, logger, tracker)
	transcription := services.NewTranscriptionService("", logger, tracker)
	chatHandlers := NewChatHandlers(triage, transcription, logger, tracker)

	r := gin.New()
	if limiter != nil {
		r.POST("/api/chat", middleware.RateLimitMiddleware(limiter, logger), chatHandlers.PostChat)
	} else {
		r.POST("/api/chat", chatHandlers.PostChat)
	}
	r.POST("/api/v1/chat/transcribe", chatHandlers.PostTranscribe)
	return r
}

func postJSON(t *testing.T, r *gin.Engine, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestPostChat(t *testing.T) {
	r := newChatRouter(t, nil)

	tests := []struct {
		name         string
		body         string
		wantEscalate bool
		wantContains string
	}{
		{"greeting", `{"message":"hello"}`, false, "Hello!"},
		{"human request", `{"message":"I need to speak to someone"}`, true, "escalate this to our human support team"},
		{"empty message", `{"message":""}`, false, "Please enter a valid message."},
		{"missing message field", `{}`, false, "Please enter a valid message."},
		{"malformed body", `{not json`, false, "Please enter a valid message."},
		{"history is accepted", `{"message":"hello","history":[{"sender":"user","text":"hi"}]}`, false, "Hello!"},
		{"string history is accepted", `{"message":"hello","history":"[]"}`, false, "Hello!"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postJSON(t, r, "/api/chat", tt.body)
			require.Equal(t, http.StatusOK, w.Code)

			var resp ChatResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tt.wantEscalate, resp.Escalate)
			assert.Contains(t, resp.Response, tt.wantContains)
		})
	}
}

func TestPostChat_RateLimited(t *testing.T) {
	r := newChatRouter(t, ratelimit.NewMemoryLimiter(10, time.Minute))

	for i := 0; i < 10; i++ {
		w := postJSON(t, r, "/api/chat", `{"message":"hello"}`)
		require.Equal(t, http.StatusOK, w.Code, "request %d should pass", i+1)
	}

	w := postJSON(t, r, "/api/chat", `{"message":"hello"}`)
	require.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), "Too many requests, please try again later.")
}

func TestPostTranscribe_DisabledWithoutAPIKey(t *testing.T) {
	r := newChatRouter(t, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/chat/transcribe", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func newEscalateRouter(t *testing.T, mailer *stubMailer) (*gin.Engine, *escalations.Log) {
	t.Helper()
	logger := logging.NewTestLogger(t)
	tracker := performance.NewTracker()

	log := escalations.NewLog(filepath.Join(t.TempDir(), "escalations.json"), logger)
	svc := services.NewEscalationService(log, mailer, nil, "254700000000", logger, tracker)
	escalationHandlers := NewEscalationHandlers(svc, logger, tracker)

	r := gin.New()
	r.POST("/api/escalate", escalationHandlers.PostEscalate)
	return r, log
}

func TestPostEscalate_Success(t *testing.T) {
	mailer := &stubMailer{}
	r, log := newEscalateRouter(t, mailer)

	body := `{"name":"Jane Doe","email":"jane@example.com","phone":"+254700000001","question":"Do you build mobile apps?","transcript":[{"sender":"user","text":"hi"}]}`
	w := postJSON(t, r, "/api/escalate", body)
	require.Equal(t, http.StatusOK, w.Code)

	var resp EscalateResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "Thank you! Our team will contact you soon.", resp.Message)
	assert.Contains(t, resp.WhatsAppURL, "https://wa.me/254700000000?text=")
	assert.Equal(t, 1, mailer.sent)

	records, err := log.All()
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestPostEscalate_ValidationFailure(t *testing.T) {
	r, log := newEscalateRouter(t, &stubMailer{})

	w := postJSON(t, r, "/api/escalate", `{"name":"Jane Doe","email":"","phone":"","question":""}`)
	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp EscalateResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Equal(t, "All fields are required.", resp.Message)

	records, err := log.All()
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestPostEscalate_EmailFailureIsServerError(t *testing.T) {
	mailer := &stubMailer{err: assert.AnError}
	r, log := newEscalateRouter(t, mailer)

	body := `{"name":"Jane Doe","email":"jane@example.com","phone":"+254700000001","question":"Apps?"}`
	w := postJSON(t, r, "/api/escalate", body)
	require.Equal(t, http.StatusInternalServerError, w.Code)

	var resp EscalateResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Equal(t, "Failed to process escalation. Please try again.", resp.Message)

	// The documented at-least-once behavior: the log entry survives
	records, err := log.All()
	require.NoError(t, err)
	assert.Len(t, records, 1)
}
