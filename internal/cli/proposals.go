package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/trebuchet-org/govindex/internal/cli/render"
	"github.com/trebuchet-org/govindex/internal/domain"
	"github.com/trebuchet-org/govindex/internal/domain/models"
	"github.com/trebuchet-org/govindex/internal/usecase"
)

// NewProposalsCmd creates the proposals command group
func NewProposalsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "proposals",
		Aliases: []string{"proposal", "p"},
		Short:   "Query indexed proposals",
	}

	cmd.AddCommand(newProposalsListCmd())
	cmd.AddCommand(newProposalsShowCmd())
	cmd.AddCommand(newProposalsVotesCmd())

	return cmd
}

func newProposalsListCmd() *cobra.Command {
	var (
		state  string
		shells bool
	)

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List indexed proposals",
		Long: `List indexed proposals, newest first.

Proposals that received votes before their creation event was indexed are
hidden unless --include-shells is given.`,
		Example: `  # List all proposals
  govindex proposals list

  # List proposals that are open for voting
  govindex proposals list --state active`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			proposalState, err := parseProposalState(state)
			if err != nil {
				return err
			}

			result, err := app.ListProposals.Run(cmd.Context(), usecase.ListProposalsParams{
				State:         proposalState,
				IncludeShells: shells,
			})
			if err != nil {
				return err
			}

			if app.Config.JSON {
				return render.RenderJSON(cmd.OutOrStdout(), result)
			}
			return render.NewProposalsRenderer(cmd.OutOrStdout()).RenderList(result)
		},
	}

	cmd.Flags().StringVar(&state, "state", "", "Filter by state (pending, active, queued, executed, canceled)")
	cmd.Flags().BoolVar(&shells, "include-shells", false, "Include proposals whose creation event was not indexed")

	return cmd
}

func newProposalsShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id|title>",
		Short: "Show a proposal with its tally, actions and votes",
		Long: `Show a proposal with its tally, actions and votes.

The proposal is looked up by its decimal or 0x-prefixed id first, then by a
case-insensitive match on its title. When several titles match, you are
asked to pick one unless --non-interactive is set.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			detail, err := app.ShowProposal.Run(cmd.Context(), usecase.ShowProposalParams{
				Query:       args[0],
				Interactive: !app.Config.NonInteractive && !app.Config.JSON,
			})
			if err != nil {
				return fmt.Errorf("failed to resolve proposal: %w", err)
			}

			if app.Config.JSON {
				return render.RenderJSON(cmd.OutOrStdout(), detail)
			}
			return render.NewProposalsRenderer(cmd.OutOrStdout()).RenderDetail(detail)
		},
	}
}

func newProposalsVotesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "votes <id>",
		Short: "List the votes cast on a proposal, heaviest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			id, err := domain.ParseID(args[0])
			if err != nil {
				return err
			}

			votes, err := app.ListVotes.Run(cmd.Context(), id)
			if err != nil {
				return err
			}

			if app.Config.JSON {
				return render.RenderJSON(cmd.OutOrStdout(), votes)
			}
			return render.NewProposalsRenderer(cmd.OutOrStdout()).RenderVotes(votes)
		},
	}
}

// parseProposalState accepts a state name in any case
func parseProposalState(s string) (models.ProposalState, error) {
	if s == "" {
		return "", nil
	}
	for _, state := range []models.ProposalState{
		models.ProposalStatePending,
		models.ProposalStateActive,
		models.ProposalStateQueued,
		models.ProposalStateExecuted,
		models.ProposalStateCanceled,
	} {
		if strings.EqualFold(s, string(state)) {
			return state, nil
		}
	}
	return "", fmt.Errorf("invalid state: %s (valid: pending, active, queued, executed, canceled)", s)
}
