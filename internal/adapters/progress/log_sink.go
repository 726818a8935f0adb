package progress

import (
	"context"
	"log/slog"

	"github.com/trebuchet-org/govindex/internal/usecase"
)

// LogSink reports progress through the logger. It is used when output is
// not a terminal or in non-interactive mode.
type LogSink struct {
	log *slog.Logger
}

// NewLogSink creates a new log-backed progress sink
func NewLogSink(log *slog.Logger) *LogSink {
	return &LogSink{log: log.With("component", "progress")}
}

// OnProgress logs stage changes at info and per-event updates at debug
func (s *LogSink) OnProgress(ctx context.Context, event usecase.ProgressEvent) {
	level := slog.LevelDebug
	if !event.Spinner {
		level = slog.LevelInfo
	}
	s.log.Log(ctx, level, event.Message, "stage", event.Stage, "current", event.Current, "total", event.Total)
}

// Info logs an info message
func (s *LogSink) Info(message string) {
	s.log.Info(message)
}

// Error logs an error message
func (s *LogSink) Error(message string) {
	s.log.Error(message)
}

// Ensure LogSink implements ProgressSink
var _ usecase.ProgressSink = (*LogSink)(nil)
