package app

import (
	"log/slog"

	"github.com/trebuchet-org/govindex/internal/adapters/metrics"
	"github.com/trebuchet-org/govindex/internal/config"
	"github.com/trebuchet-org/govindex/internal/usecase"
)

// App is the main application container that holds all use cases
type App struct {
	// Configuration
	Config *config.RuntimeConfig
	Log    *slog.Logger

	// Shared dependencies
	Store     usecase.EntityStore
	Confirmer usecase.Confirmer
	Sink      usecase.ProgressSink

	// Use cases
	ListProposals  *usecase.ListProposals
	ShowProposal   *usecase.ShowProposal
	ListVotes      *usecase.ListVotes
	ShowDelegate   *usecase.ShowDelegate
	ShowGovernance *usecase.ShowGovernance
	ResetStore     *usecase.ResetStore

	// Ingestion pieces; the log source depends on command flags
	Indexer *usecase.Indexer
	Decoder usecase.EventDecoder
	Metrics *metrics.Collector
}

// NewApp creates a new application instance with all use cases
func NewApp(
	cfg *config.RuntimeConfig,
	log *slog.Logger,
	store usecase.EntityStore,
	confirmer usecase.Confirmer,
	sink usecase.ProgressSink,
	listProposals *usecase.ListProposals,
	showProposal *usecase.ShowProposal,
	listVotes *usecase.ListVotes,
	showDelegate *usecase.ShowDelegate,
	showGovernance *usecase.ShowGovernance,
	resetStore *usecase.ResetStore,
	indexer *usecase.Indexer,
	decoder usecase.EventDecoder,
	collector *metrics.Collector,
) *App {
	return &App{
		Config:         cfg,
		Log:            log,
		Store:          store,
		Confirmer:      confirmer,
		Sink:           sink,
		ListProposals:  listProposals,
		ShowProposal:   showProposal,
		ListVotes:      listVotes,
		ShowDelegate:   showDelegate,
		ShowGovernance: showGovernance,
		ResetStore:     resetStore,
		Indexer:        indexer,
		Decoder:        decoder,
		Metrics:        collector,
	}
}

// NewIngestEvents builds the ingestion use case over source
func (a *App) NewIngestEvents(source usecase.LogSource) *usecase.IngestEvents {
	return usecase.NewIngestEvents(source, a.Decoder, a.Indexer, a.Metrics, a.Sink, a.Log)
}
