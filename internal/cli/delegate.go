package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/trebuchet-org/govindex/internal/cli/render"
	"github.com/trebuchet-org/govindex/internal/usecase"
)

// NewDelegateCmd creates the delegate command
func NewDelegateCmd() *cobra.Command {
	var at string

	cmd := &cobra.Command{
		Use:     "delegate <address>",
		Aliases: []string{"account"},
		Short:   "Show an account's voting power, roles and token balance",
		Example: `  # Show an account
  govindex delegate 0x5FbDB2315678afecb367f032d93F642f64180aa3

  # Check role status at a point in time
  govindex delegate 0x5FbDB2315678afecb367f032d93F642f64180aa3 --at 2024-06-01T00:00:00Z`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			params := usecase.ShowDelegateParams{Address: args[0]}
			if at != "" {
				params.At, err = time.Parse(time.RFC3339, at)
				if err != nil {
					return fmt.Errorf("invalid --at time: %w", err)
				}
			}

			detail, err := app.ShowDelegate.Run(cmd.Context(), params)
			if err != nil {
				return err
			}

			if app.Config.JSON {
				return render.RenderJSON(cmd.OutOrStdout(), detail)
			}
			return render.NewDelegateRenderer(cmd.OutOrStdout()).Render(detail)
		},
	}

	cmd.Flags().StringVar(&at, "at", "", "Evaluate roles at this RFC 3339 time (default: now)")

	return cmd
}
