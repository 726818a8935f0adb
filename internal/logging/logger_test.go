package logging

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevelFor(t *testing.T) {
	tests := []struct {
		val   string
		debug bool
		want  slog.Level
	}{
		{"", false, slog.LevelInfo},
		{"DEBUG", false, slog.LevelDebug},
		{"warning", false, slog.LevelWarn},
		{"error", false, slog.LevelError},
		{"nonsense", false, slog.LevelInfo},
		{"error", true, slog.LevelDebug},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, levelFor(tt.val, tt.debug), "val=%q debug=%v", tt.val, tt.debug)
	}
}

func TestNewLogger_DropsTime(t *testing.T) {
	var buf bytes.Buffer
	log := newLogger(&buf, slog.LevelInfo, false)
	log.With("component", "Indexer").Warn("stale parameter", "param", "quorumBps")
	log.Debug("hidden")

	assert.Equal(t, "level=WARN msg=\"stale parameter\" component=Indexer param=quorumBps\n", buf.String())
}

func TestShortPath(t *testing.T) {
	assert.Equal(t, "internal/usecase/indexer.go", shortPath("/home/dev/src/govindex/internal/usecase/indexer.go"))
	assert.Equal(t, "usecase/indexer.go", shortPath("/build/internal/usecase/indexer.go"))
}
