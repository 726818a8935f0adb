package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/trebuchet-org/govindex/internal/domain"
)

// Skip reasons reported to metrics
const (
	SkipAlreadyIndexed = "already_indexed"
	SkipUnknownEvent   = "unknown_event"
)

// IngestEventsParams contains parameters for an ingestion run
type IngestEventsParams struct {
	// MaxEvents stops the run after this many applied events; zero means no limit
	MaxEvents int
}

// IngestEventsResult summarizes an ingestion run
type IngestEventsResult struct {
	Applied int
	Skipped int
	Unknown int
	Start   *domain.Position
	Last    *domain.Position
}

var errEventLimit = errors.New("event limit reached")

// IngestEvents is the use case that feeds a log source through the indexer
type IngestEvents struct {
	source  LogSource
	decoder EventDecoder
	indexer *Indexer
	metrics IngestMetrics
	sink    ProgressSink
	log     *slog.Logger
}

// NewIngestEvents creates a new IngestEvents use case
func NewIngestEvents(
	source LogSource,
	decoder EventDecoder,
	indexer *Indexer,
	metrics IngestMetrics,
	sink ProgressSink,
	log *slog.Logger,
) *IngestEvents {
	return &IngestEvents{
		source:  source,
		decoder: decoder,
		indexer: indexer,
		metrics: metrics,
		sink:    sink,
		log:     log.With("component", "ingest"),
	}
}

// Run resumes from the stored checkpoint and applies events until the
// source is exhausted, the limit is reached or ctx is canceled.
func (uc *IngestEvents) Run(ctx context.Context, params IngestEventsParams) (*IngestEventsResult, error) {
	checkpoint, err := uc.indexer.Checkpoint(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read checkpoint: %w", err)
	}

	result := &IngestEventsResult{}
	if checkpoint != nil {
		pos := checkpoint.Position()
		result.Start = &pos
		uc.log.Info("resuming from checkpoint", "block", pos.BlockNumber, "logIndex", pos.LogIndex, "processed", checkpoint.EventsProcessed)
	}

	uc.sink.OnProgress(ctx, ProgressEvent{
		Stage:   "ingesting",
		Message: "Waiting for logs",
		Spinner: true,
	})

	err = uc.source.Stream(ctx, result.Start, func(raw domain.RawLog) error {
		if err := ctx.Err(); err != nil {
			return err
		}

		pos := raw.Position()
		if result.Start != nil && !pos.After(*result.Start) {
			result.Skipped++
			uc.metrics.EventSkipped(SkipAlreadyIndexed)
			return nil
		}

		ev, err := uc.decoder.Decode(raw)
		if errors.Is(err, domain.ErrUnknownEvent) {
			result.Unknown++
			uc.metrics.EventSkipped(SkipUnknownEvent)
			uc.log.Debug("skipping unknown log", "address", raw.Log.Address.Hex(), "block", pos.BlockNumber, "logIndex", pos.LogIndex)
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to decode log at %s: %w", pos, err)
		}

		if err := uc.indexer.Apply(ctx, ev); err != nil {
			return err
		}

		result.Applied++
		result.Last = &pos
		uc.sink.OnProgress(ctx, ProgressEvent{
			Stage:   "ingesting",
			Current: result.Applied,
			Message: fmt.Sprintf("Applied %s at block %d", ev.ContractEventName(), pos.BlockNumber),
			Spinner: true,
		})

		if params.MaxEvents > 0 && result.Applied >= params.MaxEvents {
			return errEventLimit
		}
		return nil
	})
	if err != nil && !errors.Is(err, errEventLimit) {
		return result, err
	}

	uc.sink.OnProgress(ctx, ProgressEvent{
		Stage:   "complete",
		Current: result.Applied,
		Total:   result.Applied,
		Message: "Ingestion complete",
	})
	uc.log.Info("ingestion finished", "applied", result.Applied, "skipped", result.Skipped, "unknown", result.Unknown)
	return result, nil
}
