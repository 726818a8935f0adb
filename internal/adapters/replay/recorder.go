package replay

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/trebuchet-org/govindex/internal/domain"
	"github.com/trebuchet-org/govindex/internal/usecase"
)

// Recorder copies every log it streams into a JSON Lines replay file
type Recorder struct {
	source usecase.LogSource
	enc    *json.Encoder
}

// NewRecorder wraps source and writes each delivered log to w
func NewRecorder(source usecase.LogSource, w io.Writer) *Recorder {
	return &Recorder{source: source, enc: json.NewEncoder(w)}
}

func (r *Recorder) Stream(ctx context.Context, from *domain.Position, handle func(domain.RawLog) error) error {
	return r.source.Stream(ctx, from, func(raw domain.RawLog) error {
		if err := r.enc.Encode(NewRecord(raw)); err != nil {
			return fmt.Errorf("failed to record log: %w", err)
		}
		return handle(raw)
	})
}

// Ensure Recorder implements usecase.LogSource
var _ usecase.LogSource = (*Recorder)(nil)
