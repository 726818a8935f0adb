package render

import (
	"fmt"
	"io"

	"github.com/trebuchet-org/govindex/internal/usecase"
)

// IngestRenderer renders the summary of an ingestion run
type IngestRenderer struct {
	out io.Writer
}

// NewIngestRenderer creates a new ingest renderer
func NewIngestRenderer(out io.Writer) *IngestRenderer {
	return &IngestRenderer{out: out}
}

// Render implements Renderer
func (r *IngestRenderer) Render(result *usecase.IngestEventsResult) error {
	if result.Applied == 0 {
		fmt.Fprintln(r.out, "No new events")
	} else {
		fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("Applied %d events", result.Applied)))
	}
	if result.Start != nil {
		fmt.Fprintf(r.out, "  %s %s\n", labelStyle.Sprintf("%-12s", "Resumed at:"), result.Start)
	}
	if result.Last != nil {
		fmt.Fprintf(r.out, "  %s %s\n", labelStyle.Sprintf("%-12s", "Checkpoint:"), result.Last)
	}
	if result.Skipped > 0 {
		fmt.Fprintf(r.out, "  %s %d\n", labelStyle.Sprintf("%-12s", "Replayed:"), result.Skipped)
	}
	if result.Unknown > 0 {
		fmt.Fprintf(r.out, "  %s %d\n", labelStyle.Sprintf("%-12s", "Unknown:"), result.Unknown)
	}
	return nil
}
