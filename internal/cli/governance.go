package cli

import (
	"github.com/spf13/cobra"
	"github.com/trebuchet-org/govindex/internal/cli/render"
)

// NewGovernanceCmd creates the governance command
func NewGovernanceCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "governance",
		Aliases: []string{"status"},
		Short:   "Show protocol parameters, supply and index status",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			overview, err := app.ShowGovernance.Run(cmd.Context())
			if err != nil {
				return err
			}

			if app.Config.JSON {
				return render.RenderJSON(cmd.OutOrStdout(), overview)
			}
			return render.NewGovernanceRenderer(cmd.OutOrStdout()).Render(overview)
		},
	}
}
