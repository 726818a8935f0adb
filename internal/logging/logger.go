package logging

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/wire"
	"github.com/trebuchet-org/govindex/internal/config"
)

var LoggingSet = wire.NewSet(
	NewLogger,
)

// NewLogger creates a new logger based on runtime configuration
func NewLogger(cfg *config.RuntimeConfig) *slog.Logger {
	return newLogger(os.Stderr, levelFor(os.Getenv("GOVINDEX_LOG_LEVEL"), cfg.Debug), cfg.Debug)
}

// levelFor maps GOVINDEX_LOG_LEVEL to a level. --debug wins over the variable.
func levelFor(val string, debug bool) slog.Level {
	if debug {
		return slog.LevelDebug
	}
	switch strings.ToLower(val) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func newLogger(w io.Writer, level slog.Level, addSource bool) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: addSource,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				return slog.Attr{}
			}
			// Shorten source paths
			if a.Key == slog.SourceKey {
				if source, ok := a.Value.Any().(*slog.Source); ok {
					source.File = shortPath(source.File)
				}
			}
			return a
		},
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// shortPath trims a source path to its package directory and file name
func shortPath(file string) string {
	if idx := strings.Index(file, "govindex/"); idx != -1 {
		return file[idx+len("govindex/"):]
	}
	dir, name := filepath.Split(file)
	return filepath.Join(filepath.Base(dir), name)
}
