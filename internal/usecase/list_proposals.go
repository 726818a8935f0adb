package usecase

import (
	"context"
	"fmt"
	"sort"

	"github.com/samber/lo"
	"github.com/trebuchet-org/govindex/internal/domain/models"
)

// ListProposalsParams contains parameters for listing proposals
type ListProposalsParams struct {
	// State filters by lifecycle state when set
	State models.ProposalState
	// IncludeShells keeps proposals whose creation event was never seen
	IncludeShells bool
}

// ProposalListResult contains the result of listing proposals
type ProposalListResult struct {
	Proposals []*models.Proposal
	Summary   ProposalSummary
}

// ProposalSummary provides summary statistics
type ProposalSummary struct {
	Total   int
	ByState map[models.ProposalState]int
}

// ListProposals is the use case for listing indexed proposals
type ListProposals struct {
	store EntityStore
	sink  ProgressSink
}

// NewListProposals creates a new ListProposals use case
func NewListProposals(store EntityStore, sink ProgressSink) *ListProposals {
	return &ListProposals{
		store: store,
		sink:  sink,
	}
}

// Run executes the list proposals use case
func (uc *ListProposals) Run(ctx context.Context, params ListProposalsParams) (*ProposalListResult, error) {
	uc.sink.OnProgress(ctx, ProgressEvent{
		Stage:   "loading",
		Message: "Loading proposals",
		Spinner: true,
	})

	all, err := scanEntities(ctx, uc.store, models.EntityKindProposal, nil, func() *models.Proposal {
		return &models.Proposal{}
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list proposals: %w", err)
	}

	proposals := lo.Filter(all, func(p *models.Proposal, _ int) bool {
		if p.IsShell() && !params.IncludeShells {
			return false
		}
		return params.State == "" || p.State == params.State
	})
	sortProposals(proposals)

	uc.sink.OnProgress(ctx, ProgressEvent{
		Stage:   "complete",
		Current: len(proposals),
		Total:   len(proposals),
		Message: "Proposals loaded",
	})

	return &ProposalListResult{
		Proposals: proposals,
		Summary:   summarizeProposals(proposals),
	}, nil
}

// sortProposals orders proposals newest first, then by id
func sortProposals(proposals []*models.Proposal) {
	sort.Slice(proposals, func(i, j int) bool {
		if proposals[i].CreatedAtBlock != proposals[j].CreatedAtBlock {
			return proposals[i].CreatedAtBlock > proposals[j].CreatedAtBlock
		}
		return proposals[i].ID.Cmp(proposals[j].ID) < 0
	})
}

func summarizeProposals(proposals []*models.Proposal) ProposalSummary {
	summary := ProposalSummary{
		Total:   len(proposals),
		ByState: make(map[models.ProposalState]int),
	}
	for _, p := range proposals {
		summary.ByState[p.State]++
	}
	return summary
}
