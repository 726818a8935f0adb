package blockchain

import (
	"context"
	"fmt"
	"log/slog"
	"math/big"
	"sort"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/trebuchet-org/govindex/internal/domain"
	"github.com/trebuchet-org/govindex/internal/usecase"
)

const (
	DefaultBatchSize    = 2000
	DefaultPollInterval = 12 * time.Second
)

// chainReader is the subset of ethclient.Client the log source needs
type chainReader interface {
	BlockNumber(ctx context.Context) (uint64, error)
	FilterLogs(ctx context.Context, q ethereum.FilterQuery) ([]types.Log, error)
	HeaderByNumber(ctx context.Context, number *big.Int) (*types.Header, error)
}

// LogSourceOptions controls which logs are fetched and how
type LogSourceOptions struct {
	Addresses     []common.Address
	StartBlock    uint64
	ToBlock       uint64 // zero means the confirmed head
	BatchSize     uint64
	Confirmations uint64
	Follow        bool
	PollInterval  time.Duration
}

// LogSource streams protocol logs from a JSON-RPC node with eth_getLogs
type LogSource struct {
	client chainReader
	opts   LogSourceOptions
	log    *slog.Logger
}

// DialLogSource connects to rpcURL and checks the chain ID when one is given.
func DialLogSource(ctx context.Context, rpcURL string, chainID uint64, opts LogSourceOptions, log *slog.Logger) (*LogSource, error) {
	client, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RPC: %w", err)
	}

	networkChainID, err := client.ChainID(ctx)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to get chain ID: %w", err)
	}
	if chainID != 0 && networkChainID.Uint64() != chainID {
		client.Close()
		return nil, fmt.Errorf("chain ID mismatch: expected %d, got %d", chainID, networkChainID.Uint64())
	}

	return NewLogSource(client, opts, log), nil
}

// NewLogSource creates a log source over an existing client
func NewLogSource(client chainReader, opts LogSourceOptions, log *slog.Logger) *LogSource {
	if opts.BatchSize == 0 {
		opts.BatchSize = DefaultBatchSize
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = DefaultPollInterval
	}
	return &LogSource{
		client: client,
		opts:   opts,
		log:    log.With("component", "LogSource"),
	}
}

// Close releases the RPC connection when the client owns one
func (s *LogSource) Close() {
	if c, ok := s.client.(interface{ Close() }); ok {
		c.Close()
	}
}

// Stream implements usecase.LogSource. It re-reads the block of from so no
// log in a partially applied block is missed.
func (s *LogSource) Stream(ctx context.Context, from *domain.Position, handle func(domain.RawLog) error) error {
	if len(s.opts.Addresses) == 0 {
		return fmt.Errorf("no contract addresses configured")
	}

	next := s.opts.StartBlock
	if from != nil && from.BlockNumber > next {
		next = from.BlockNumber
	}

	for {
		if s.opts.ToBlock > 0 && next > s.opts.ToBlock {
			return nil
		}

		safe, err := s.confirmedHead(ctx)
		if err != nil {
			return err
		}

		if next > safe {
			if !s.opts.Follow {
				return nil
			}
			s.log.Debug("waiting for new blocks", "next", next, "head", safe)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(s.opts.PollInterval):
			}
			continue
		}

		end := min(next+s.opts.BatchSize-1, safe)
		if err := s.streamRange(ctx, next, end, handle); err != nil {
			return err
		}
		next = end + 1
	}
}

// confirmedHead returns the newest block with enough confirmations, capped
// at ToBlock.
func (s *LogSource) confirmedHead(ctx context.Context) (uint64, error) {
	head, err := s.client.BlockNumber(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to get block number: %w", err)
	}
	if head < s.opts.Confirmations {
		return 0, nil
	}
	safe := head - s.opts.Confirmations
	if s.opts.ToBlock > 0 && s.opts.ToBlock < safe {
		safe = s.opts.ToBlock
	}
	return safe, nil
}

func (s *LogSource) streamRange(ctx context.Context, from, to uint64, handle func(domain.RawLog) error) error {
	logs, err := s.client.FilterLogs(ctx, ethereum.FilterQuery{
		FromBlock: new(big.Int).SetUint64(from),
		ToBlock:   new(big.Int).SetUint64(to),
		Addresses: s.opts.Addresses,
	})
	if err != nil {
		return fmt.Errorf("failed to fetch logs for blocks %d-%d: %w", from, to, err)
	}
	s.log.Debug("fetched logs", "from", from, "to", to, "count", len(logs))

	sort.SliceStable(logs, func(i, j int) bool {
		if logs[i].BlockNumber != logs[j].BlockNumber {
			return logs[i].BlockNumber < logs[j].BlockNumber
		}
		return logs[i].Index < logs[j].Index
	})

	timestamps := make(map[uint64]uint64)
	for _, l := range logs {
		if l.Removed {
			continue
		}
		ts, ok := timestamps[l.BlockNumber]
		if !ok {
			header, err := s.client.HeaderByNumber(ctx, new(big.Int).SetUint64(l.BlockNumber))
			if err != nil {
				return fmt.Errorf("failed to get header %d: %w", l.BlockNumber, err)
			}
			ts = header.Time
			timestamps[l.BlockNumber] = ts
		}
		if err := handle(domain.RawLog{Log: l, Timestamp: ts}); err != nil {
			return err
		}
	}
	return nil
}

// Ensure LogSource implements usecase.LogSource
var _ usecase.LogSource = (*LogSource)(nil)
