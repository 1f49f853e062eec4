package services

import (
	"context"
	"fmt"
	"io"

	"github.com/AssemblyAI/assemblyai-go-sdk"

	"github.com/nowa-systems/nowa-go/internal/infrastructure/observability/logging"
	"github.com/nowa-systems/nowa-go/internal/infrastructure/observability/performance"
)

// TranscriptionService turns uploaded voice notes into text so they can be
// triaged like any typed message.
type TranscriptionService struct {
	client      *assemblyai.Client
	enabled     bool
	logger      *logging.ChanneledLogger
	perfTracker *performance.Tracker
}

// NewTranscriptionService creates a transcription service. An empty API key
// leaves the service disabled rather than failing startup.
func NewTranscriptionService(apiKey string, logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *TranscriptionService {
	svc := &TranscriptionService{
		enabled:     apiKey != "",
		logger:      logger,
		perfTracker: perfTracker,
	}
	if svc.enabled {
		svc.client = assemblyai.NewClient(apiKey)
	}
	return svc
}

// Enabled reports whether an API key was configured.
func (s *TranscriptionService) Enabled() bool {
	return s.enabled
}

// TranscribeAudio uploads the audio stream and waits for the transcript text.
func (s *TranscriptionService) TranscribeAudio(ctx context.Context, audio io.Reader, clientID string) (string, error) {
	marker := s.perfTracker.StartOperation("transcribe_audio", clientID)
	defer marker.Complete()

	if !s.enabled {
		marker.SetSuccess(false)
		return "", fmt.Errorf("transcription is not configured")
	}

	transcript, err := s.client.Transcripts.TranscribeFromReader(ctx, audio, nil)
	if err != nil {
		marker.SetError(err)
		return "", fmt.Errorf("failed to transcribe audio: %w", err)
	}

	text := ""
	if transcript.Text != nil {
		text = *transcript.Text
	}

	s.logger.Chat().Debug("Voice note transcribed", "clientId", clientID, "chars", len(text))
	return text, nil
}
