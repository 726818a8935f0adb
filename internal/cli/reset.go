package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/trebuchet-org/govindex/internal/cli/render"
	"github.com/trebuchet-org/govindex/internal/usecase"
)

// NewResetCmd creates the reset command
func NewResetCmd() *cobra.Command {
	var (
		yes    bool
		dryRun bool
	)

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete every indexed entity and the checkpoint",
		Long: `Delete every indexed entity and the checkpoint from the configured store.

The next ingest run starts again from chain.start_block. In non-interactive
mode --yes is required.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			// First, count what would be deleted
			result, err := app.ResetStore.Run(cmd.Context(), usecase.ResetStoreParams{DryRun: true})
			if err != nil {
				return err
			}

			if result.Total == 0 {
				fmt.Fprintln(out, "Nothing to reset. The store is empty.")
				return nil
			}

			render.RenderResetPlan(out, result)
			if dryRun {
				return nil
			}

			if !yes {
				if app.Config.NonInteractive {
					return fmt.Errorf("refusing to reset in non-interactive mode without --yes")
				}
				ok, err := app.Confirmer.Confirm(cmd.Context(), fmt.Sprintf("Delete %d entities from the %s store? This cannot be undone", result.Total, app.Config.Store.Backend))
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(out, "Reset cancelled.")
					return nil
				}
			}

			result, err = app.ResetStore.Run(cmd.Context(), usecase.ResetStoreParams{DryRun: false})
			if err != nil {
				return err
			}

			fmt.Fprintln(out, render.FormatSuccess(fmt.Sprintf("Deleted %d entities", result.Total)))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Only show what would be deleted")

	return cmd
}
