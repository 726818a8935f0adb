package progress

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/trebuchet-org/govindex/internal/usecase"
)

func TestSpinnerSink_CompletionLine(t *testing.T) {
	color.NoColor = true
	var out bytes.Buffer
	sink := newSpinnerSink(&out)
	ctx := context.Background()

	sink.OnProgress(ctx, usecase.ProgressEvent{Stage: "ingesting", Current: 1, Message: "Applied VoteCast", Spinner: true})
	sink.OnProgress(ctx, usecase.ProgressEvent{Stage: "complete", Current: 3, Total: 3, Message: "Ingestion complete"})
	sink.Info("resumed")

	assert.Contains(t, out.String(), "✓ Ingestion complete [3/3]")
	assert.Contains(t, out.String(), "resumed")
	assert.False(t, sink.spinner.Active())
}

func TestLogSink(t *testing.T) {
	var out bytes.Buffer
	sink := NewLogSink(slog.New(slog.NewTextHandler(&out, &slog.HandlerOptions{Level: slog.LevelInfo})))

	sink.OnProgress(context.Background(), usecase.ProgressEvent{Stage: "ingesting", Message: "per event", Spinner: true})
	sink.OnProgress(context.Background(), usecase.ProgressEvent{Stage: "complete", Current: 2, Total: 2, Message: "Ingestion complete"})
	sink.Error("boom")

	assert.NotContains(t, out.String(), "per event")
	assert.Contains(t, out.String(), "msg=\"Ingestion complete\" component=progress stage=complete current=2 total=2")
	assert.Contains(t, out.String(), "level=ERROR msg=boom")
}
