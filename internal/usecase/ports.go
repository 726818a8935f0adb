package usecase

import (
	"context"
	"time"

	"github.com/trebuchet-org/govindex/internal/domain"
	"github.com/trebuchet-org/govindex/internal/domain/models"
)

// Mutation is a single write in an entity store batch
type Mutation struct {
	Kind   models.EntityKind
	ID     []byte
	Data   []byte
	Delete bool
}

// EntityStore persists JSON documents addressed by entity kind and byte id
type EntityStore interface {
	// Get returns the stored document or domain.ErrNotFound.
	Get(ctx context.Context, kind models.EntityKind, id []byte) ([]byte, error)
	// Scan calls fn for every document of a kind. Order is backend specific.
	Scan(ctx context.Context, kind models.EntityKind, fn func(id, data []byte) error) error
	// Apply writes a batch of mutations, atomically where the backend allows it.
	Apply(ctx context.Context, batch []Mutation) error
	// Clear removes every document of every kind.
	Clear(ctx context.Context) error
}

// LogSource delivers raw logs in chain order
type LogSource interface {
	// Stream calls handle for each log in (block, log index) order, starting
	// no later than from, until the source is exhausted or ctx is canceled.
	// Logs at or before from may be delivered again.
	Stream(ctx context.Context, from *domain.Position, handle func(domain.RawLog) error) error
}

// EventDecoder turns raw logs into typed events
type EventDecoder interface {
	// Decode returns domain.ErrUnknownEvent for logs it does not recognise.
	Decode(raw domain.RawLog) (domain.Event, error)
}

// IngestMetrics receives counters from the ingestion pipeline
type IngestMetrics interface {
	EventApplied(name string, took time.Duration)
	EventSkipped(reason string)
	ConsistencyWarning(kind string)
	CheckpointAdvanced(pos domain.Position)
}

// NopMetrics discards all measurements
type NopMetrics struct{}

func (NopMetrics) EventApplied(string, time.Duration) {}
func (NopMetrics) EventSkipped(string)                {}
func (NopMetrics) ConsistencyWarning(string)          {}
func (NopMetrics) CheckpointAdvanced(domain.Position) {}

// Progress tracking interfaces

// ProgressEvent represents a progress update
type ProgressEvent struct {
	Stage   string
	Current int
	Total   int
	Message string
	Spinner bool
}

// ProgressSink receives progress events
type ProgressSink interface {
	OnProgress(ctx context.Context, event ProgressEvent)
	Info(message string)
	Error(message string)
}

// NopProgress is a no-op implementation of ProgressSink
type NopProgress struct{}

func (NopProgress) OnProgress(context.Context, ProgressEvent) {}
func (NopProgress) Info(string)                               {}
func (NopProgress) Error(string)                              {}

// ProposalSelector handles interactive selection of proposals
type ProposalSelector interface {
	SelectProposal(ctx context.Context, proposals []*models.Proposal, prompt string) (*models.Proposal, error)
}

// Confirmer asks the user a yes/no question
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) (bool, error)
}
