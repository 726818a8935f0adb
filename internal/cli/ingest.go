package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/trebuchet-org/govindex/internal/adapters"
	"github.com/trebuchet-org/govindex/internal/adapters/metrics"
	"github.com/trebuchet-org/govindex/internal/cli/render"
	"github.com/trebuchet-org/govindex/internal/usecase"
)

// NewIngestCmd creates the ingest command
func NewIngestCmd() *cobra.Command {
	var (
		fromFile  string
		record    string
		follow    bool
		toBlock   uint64
		maxEvents int
	)

	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Index governance events",
		Long: `Index governance events into the configured store.

Ingestion resumes after the last stored checkpoint. Logs are read from the
JSON-RPC node in chain.rpc_url, or replayed from a JSON Lines or YAML file
with --from-file.`,
		Example: `  # Index up to the confirmed head
  govindex ingest

  # Keep indexing new blocks and expose metrics
  govindex ingest --follow --metrics-addr :9464

  # Record the logs of a range for later replay
  govindex ingest --to-block 19000000 --record logs.jsonl

  # Replay a recorded file into an in-memory store
  govindex ingest --store memory --from-file logs.jsonl`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			var recordOut io.Writer
			if record != "" {
				f, err := os.Create(record)
				if err != nil {
					return fmt.Errorf("failed to create record file: %w", err)
				}
				defer f.Close()
				recordOut = f
			}

			source, closeSource, err := adapters.OpenLogSource(ctx, app.Config, adapters.LogSourceParams{
				FromFile: fromFile,
				Follow:   follow,
				ToBlock:  toBlock,
				Record:   recordOut,
			}, app.Log)
			if err != nil {
				return err
			}
			defer closeSource()

			if addr := app.Config.Metrics.Addr; addr != "" {
				srv := metrics.NewServer(addr, app.Metrics, app.Log)
				if _, err := srv.Start(); err != nil {
					return fmt.Errorf("failed to start metrics server: %w", err)
				}
				defer func() {
					if err := srv.Shutdown(context.Background()); err != nil {
						app.Log.Warn("failed to stop metrics server", "err", err)
					}
				}()
			}

			result, err := app.NewIngestEvents(source).Run(ctx, usecase.IngestEventsParams{
				MaxEvents: maxEvents,
			})
			// An interrupt ends a run cleanly; every applied event is already stored
			if errors.Is(err, context.Canceled) && ctx.Err() != nil && cmd.Context().Err() == nil {
				app.Sink.Info("Interrupted, progress saved")
				err = nil
			}
			if err != nil {
				return err
			}

			if app.Config.JSON {
				return render.RenderJSON(cmd.OutOrStdout(), result)
			}
			return render.NewIngestRenderer(cmd.OutOrStdout()).Render(result)
		},
	}

	cmd.Flags().StringVar(&fromFile, "from-file", "", "Replay logs from a JSON Lines or YAML file instead of RPC")
	cmd.Flags().StringVar(&record, "record", "", "Write every delivered log to this JSON Lines file")
	cmd.Flags().BoolVar(&follow, "follow", false, "Keep polling for new blocks")
	cmd.Flags().Uint64Var(&toBlock, "to-block", 0, "Stop after this block (default: confirmed head)")
	cmd.Flags().IntVar(&maxEvents, "max-events", 0, "Stop after applying this many events")
	cmd.Flags().String("rpc-url", "", "JSON-RPC endpoint (overrides chain.rpc_url)")
	cmd.Flags().String("metrics-addr", "", "Serve Prometheus metrics on this address while ingesting")

	return cmd
}
