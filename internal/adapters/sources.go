package adapters

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/govindex/internal/adapters/blockchain"
	"github.com/trebuchet-org/govindex/internal/adapters/replay"
	"github.com/trebuchet-org/govindex/internal/config"
	"github.com/trebuchet-org/govindex/internal/usecase"
)

// LogSourceParams selects where an ingestion run reads logs from
type LogSourceParams struct {
	FromFile string    // replay file; RPC when empty
	Follow   bool      // keep polling for new blocks
	ToBlock  uint64    // stop after this block; zero means the confirmed head
	Record   io.Writer // copy every delivered log as JSON Lines
}

// OpenLogSource builds the log source for an ingestion run. The cleanup func
// closes any RPC connection.
func OpenLogSource(ctx context.Context, cfg *config.RuntimeConfig, params LogSourceParams, log *slog.Logger) (usecase.LogSource, func(), error) {
	var (
		source  usecase.LogSource
		cleanup = func() {}
	)

	if params.FromFile != "" {
		source = replay.NewLogFile(params.FromFile)
	} else {
		if cfg.Chain.RPCURL == "" {
			return nil, nil, fmt.Errorf("no RPC URL configured: set chain.rpc_url in %s or GOVINDEX_RPC_URL", config.ProjectFileName)
		}

		addresses := make([]common.Address, 0, 3)
		for addr := range ProvideContractAddresses(cfg) {
			addresses = append(addresses, addr)
		}
		if len(addresses) == 0 {
			return nil, nil, fmt.Errorf("no contract addresses configured in [contracts]")
		}

		rpc, err := blockchain.DialLogSource(ctx, cfg.Chain.RPCURL, cfg.Chain.ChainID, blockchain.LogSourceOptions{
			Addresses:     addresses,
			StartBlock:    cfg.Chain.StartBlock,
			ToBlock:       params.ToBlock,
			BatchSize:     cfg.Chain.BatchSize,
			Confirmations: cfg.Chain.Confirmations,
			Follow:        params.Follow,
			PollInterval:  cfg.Chain.PollInterval,
		}, log)
		if err != nil {
			return nil, nil, err
		}
		source, cleanup = rpc, rpc.Close
	}

	if params.Record != nil {
		source = replay.NewRecorder(source, params.Record)
	}
	return source, cleanup, nil
}
