package adapters

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/wire"
	"github.com/trebuchet-org/govindex/internal/adapters/abi"
	"github.com/trebuchet-org/govindex/internal/adapters/fs"
	"github.com/trebuchet-org/govindex/internal/adapters/interactive"
	"github.com/trebuchet-org/govindex/internal/adapters/memory"
	"github.com/trebuchet-org/govindex/internal/adapters/metrics"
	"github.com/trebuchet-org/govindex/internal/adapters/postgres"
	"github.com/trebuchet-org/govindex/internal/adapters/progress"
	"github.com/trebuchet-org/govindex/internal/adapters/redis"
	"github.com/trebuchet-org/govindex/internal/config"
	"github.com/trebuchet-org/govindex/internal/usecase"
)

const connectTimeout = 10 * time.Second

// ProvideEntityStore opens the configured store backend. The cleanup func
// releases its connections.
func ProvideEntityStore(cfg *config.RuntimeConfig, log *slog.Logger) (usecase.EntityStore, func(), error) {
	log = log.With("component", "EntityStore", "backend", cfg.Store.Backend)

	switch cfg.Store.Backend {
	case config.StoreMemory:
		return memory.NewEntityStore(), func() {}, nil

	case config.StoreFS:
		store, err := fs.NewEntityStore(cfg.Store.Path)
		if err != nil {
			return nil, nil, err
		}
		log.Debug("using file store", "path", cfg.Store.Path)
		return store, func() {}, nil

	case config.StorePostgres:
		if cfg.Store.DatabaseURL == "" {
			return nil, nil, fmt.Errorf("postgres store needs store.database_url or GOVINDEX_DATABASE_URL")
		}
		ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
		defer cancel()
		store, err := postgres.NewEntityStore(ctx, cfg.Store.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		return store, store.Close, nil

	case config.StoreRedis:
		if cfg.Store.RedisURL == "" {
			return nil, nil, fmt.Errorf("redis store needs store.redis_url or GOVINDEX_REDIS_URL")
		}
		store, err := redis.NewEntityStore(cfg.Store.RedisURL, cfg.Store.RedisPrefix)
		if err != nil {
			return nil, nil, err
		}
		return store, func() {
			if err := store.Close(); err != nil {
				log.Warn("failed to close redis client", "err", err)
			}
		}, nil

	default:
		return nil, nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}
}

// ProvideContractAddresses maps the configured addresses to their contracts
func ProvideContractAddresses(cfg *config.RuntimeConfig) map[common.Address]abi.Contract {
	contracts := make(map[common.Address]abi.Contract)
	for addr, c := range map[string]abi.Contract{
		cfg.Contracts.Governor: abi.ContractGovernor,
		cfg.Contracts.Token:    abi.ContractToken,
		cfg.Contracts.Executor: abi.ContractExecutor,
	} {
		if addr != "" {
			contracts[common.HexToAddress(addr)] = c
		}
	}
	return contracts
}

// ProvideIngestMetrics exposes the collector through the use case port
func ProvideIngestMetrics(c *metrics.Collector) usecase.IngestMetrics {
	return c
}

// ProvideProgressSink picks a spinner for terminals and the logger otherwise
func ProvideProgressSink(cfg *config.RuntimeConfig, log *slog.Logger) usecase.ProgressSink {
	if cfg.NonInteractive || cfg.JSON {
		return progress.NewLogSink(log)
	}
	return progress.NewSpinnerSink()
}

// StoreSet provides the entity store
var StoreSet = wire.NewSet(
	ProvideEntityStore,
)

// DecoderSet provides log decoding
var DecoderSet = wire.NewSet(
	ProvideContractAddresses,
	abi.NewEventDecoder,
	wire.Bind(new(usecase.EventDecoder), new(*abi.EventDecoder)),
)

// MetricsSet provides ingestion metrics
var MetricsSet = wire.NewSet(
	metrics.NewCollector,
	ProvideIngestMetrics,
)

// ProgressSet provides progress reporting
var ProgressSet = wire.NewSet(
	ProvideProgressSink,
)

// InteractiveSet provides interactive implementations
var InteractiveSet = wire.NewSet(
	interactive.NewSelectorAdapter,
	wire.Bind(new(usecase.ProposalSelector), new(*interactive.SelectorAdapter)),
	wire.Bind(new(usecase.Confirmer), new(*interactive.SelectorAdapter)),
)

// AllAdapters includes all adapter sets
var AllAdapters = wire.NewSet(
	StoreSet,
	DecoderSet,
	MetricsSet,
	ProgressSet,
	InteractiveSet,
)
