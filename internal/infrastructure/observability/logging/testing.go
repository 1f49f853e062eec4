package logging

import (
	"log/slog"
	"testing"
)

// NewTestLogger returns a quiet logger for tests. Only errors reach the
// console so failing tests still show what went wrong.
func NewTestLogger(t testing.TB) *ChanneledLogger {
	t.Helper()

	logger, err := NewChanneledLogger(&LoggerConfig{
		OutputToFile:    false,
		OutputToConsole: true,
		JSONFormat:      false,
		DefaultLevel:    slog.LevelError,
		ChannelLevels:   make(map[Channel]slog.Level),
	})
	if err != nil {
		t.Fatalf("failed to create test logger: %v", err)
	}
	return logger
}
