package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/trebuchet-org/govindex/internal/app"
	"github.com/trebuchet-org/govindex/internal/config"
)

// contextKey is the type for context keys
type contextKey string

const (
	// appKey is the context key for the app instance
	appKey contextKey = "app"
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	var cleanup func()

	rootCmd := &cobra.Command{
		Use:   "govindex",
		Short: "Governance event indexer",
		Long: `govindex indexes the events of an on-chain governance protocol (governor,
votes token and executor) into queryable proposal, vote, delegate, member
and protocol records.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if skipsApp(cmd) {
				return nil
			}

			projectRoot, err := config.FindProjectRoot()
			if err != nil {
				return err
			}

			// Set up viper; flags and GOVINDEX_* variables override govindex.toml
			v := config.SetupViper(projectRoot, cmd)

			appInstance, appCleanup, err := app.InitApp(v)
			if err != nil {
				return fmt.Errorf("failed to initialize app: %w", err)
			}
			cleanup = appCleanup

			ctx := context.WithValue(cmd.Context(), appKey, appInstance)

			// Queries are bounded by the timeout; ingestion runs until done or interrupted
			if appInstance.Config.Timeout > 0 && cmd.Name() != "ingest" {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, appInstance.Config.Timeout)
				cmd.PostRun = func(cmd *cobra.Command, args []string) {
					cancel()
				}
			}

			cmd.SetContext(ctx)
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if cleanup != nil {
				cleanup()
			}
		},
	}

	// Global flags
	rootCmd.PersistentFlags().String("config", "", "Path to govindex.toml (defaults to the project root)")
	rootCmd.PersistentFlags().String("store", "", "Store backend: memory, fs, postgres or redis")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug output")
	rootCmd.PersistentFlags().Bool("json", false, "Output in JSON format")
	rootCmd.PersistentFlags().Bool("non-interactive", false, "Disable interactive prompts")

	rootCmd.AddGroup(&cobra.Group{
		ID:    "main",
		Title: "Main Commands",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "management",
		Title: "Management Commands",
	})

	// Main commands
	ingestCmd := NewIngestCmd()
	ingestCmd.GroupID = "main"
	rootCmd.AddCommand(ingestCmd)

	proposalsCmd := NewProposalsCmd()
	proposalsCmd.GroupID = "main"
	rootCmd.AddCommand(proposalsCmd)

	delegateCmd := NewDelegateCmd()
	delegateCmd.GroupID = "main"
	rootCmd.AddCommand(delegateCmd)

	governanceCmd := NewGovernanceCmd()
	governanceCmd.GroupID = "main"
	rootCmd.AddCommand(governanceCmd)

	// Management commands
	resetCmd := NewResetCmd()
	resetCmd.GroupID = "management"
	rootCmd.AddCommand(resetCmd)

	rootCmd.AddCommand(NewVersionCmd())

	return rootCmd
}

// skipsApp reports whether a command runs without a wired app
func skipsApp(cmd *cobra.Command) bool {
	switch cmd.Name() {
	case "version", "help", "completion", cobra.ShellCompRequestCmd, cobra.ShellCompNoDescRequestCmd:
		return true
	}
	// Group commands only print help
	return !cmd.Runnable()
}

// getApp retrieves the app instance from the command context
func getApp(cmd *cobra.Command) (*app.App, error) {
	appInstance := cmd.Context().Value(appKey)
	if appInstance == nil {
		return nil, fmt.Errorf("app not initialized")
	}

	app, ok := appInstance.(*app.App)
	if !ok {
		return nil, fmt.Errorf("invalid app instance")
	}

	return app, nil
}
