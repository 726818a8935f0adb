package progress

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/trebuchet-org/govindex/internal/usecase"
)

// SpinnerSink shows ingestion progress on a terminal spinner
type SpinnerSink struct {
	spinner *spinner.Spinner
	out     io.Writer
	started time.Time
	stage   string
}

// NewSpinnerSink creates a spinner that writes to stderr
func NewSpinnerSink() *SpinnerSink {
	return newSpinnerSink(os.Stderr)
}

func newSpinnerSink(out io.Writer) *SpinnerSink {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(out))
	s.HideCursor = false
	return &SpinnerSink{spinner: s, out: out}
}

// OnProgress handles progress events
func (r *SpinnerSink) OnProgress(ctx context.Context, event usecase.ProgressEvent) {
	if event.Stage != r.stage {
		r.stage = event.Stage
		r.started = time.Now()
	}

	if !event.Spinner {
		if r.spinner.Active() {
			r.spinner.Stop()
		}
		if event.Message != "" {
			color.New(color.FgGreen).Fprintf(r.out, "✓ %s%s\n", event.Message, r.counter(event))
		}
		return
	}

	if !r.spinner.Active() {
		r.spinner.Start()
	}
	r.spinner.Suffix = fmt.Sprintf(" %s%s (%s)", event.Message, r.counter(event), time.Since(r.started).Round(time.Second))
}

func (r *SpinnerSink) counter(event usecase.ProgressEvent) string {
	switch {
	case event.Total > 0:
		return fmt.Sprintf(" [%d/%d]", event.Current, event.Total)
	case event.Current > 0:
		return fmt.Sprintf(" [%d]", event.Current)
	default:
		return ""
	}
}

// Info prints an info message
func (r *SpinnerSink) Info(message string) {
	r.pause(func() { color.New(color.FgCyan).Fprintln(r.out, message) })
}

// Error prints an error message
func (r *SpinnerSink) Error(message string) {
	r.pause(func() { color.New(color.FgRed).Fprintln(r.out, message) })
}

// pause stops the spinner while fn prints, then restarts it
func (r *SpinnerSink) pause(fn func()) {
	wasActive := r.spinner.Active()
	if wasActive {
		r.spinner.Stop()
	}
	fn()
	if wasActive {
		r.spinner.Start()
	}
}

// Ensure SpinnerSink implements ProgressSink
var _ usecase.ProgressSink = (*SpinnerSink)(nil)
