package usecase

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/govindex/internal/domain"
	"github.com/trebuchet-org/govindex/internal/domain/models"
)

// ShowProposalParams contains parameters for showing a proposal
type ShowProposalParams struct {
	// Query is a decimal or hex proposal id, or part of a title
	Query string
	// Interactive allows prompting when a title matches several proposals
	Interactive bool
}

// ProposalDetail is a proposal together with its votes
type ProposalDetail struct {
	Proposal *models.Proposal
	Votes    []*models.ProposalVote
}

// ShowProposal is the use case for showing a single proposal
type ShowProposal struct {
	store    EntityStore
	selector ProposalSelector
	sink     ProgressSink
}

// NewShowProposal creates a new ShowProposal use case
func NewShowProposal(store EntityStore, selector ProposalSelector, sink ProgressSink) *ShowProposal {
	return &ShowProposal{
		store:    store,
		selector: selector,
		sink:     sink,
	}
}

// Run executes the show proposal use case
func (uc *ShowProposal) Run(ctx context.Context, params ShowProposalParams) (*ProposalDetail, error) {
	uc.sink.OnProgress(ctx, ProgressEvent{
		Stage:   "loading",
		Message: "Loading proposal",
		Spinner: true,
	})

	proposal, err := uc.resolve(ctx, params)
	uc.sink.OnProgress(ctx, ProgressEvent{Stage: "complete"})
	if err != nil {
		return nil, err
	}

	votes, err := listVotes(ctx, uc.store, proposal.ID)
	if err != nil {
		return nil, err
	}

	return &ProposalDetail{Proposal: proposal, Votes: votes}, nil
}

func (uc *ShowProposal) resolve(ctx context.Context, params ShowProposalParams) (*models.Proposal, error) {
	if id, err := domain.ParseID(params.Query); err == nil {
		p, err := readEntity(ctx, uc.store, models.EntityKindProposal, id.Bytes(), func() *models.Proposal {
			return &models.Proposal{}
		})
		if err == nil {
			return p, nil
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
	}

	all, err := scanEntities(ctx, uc.store, models.EntityKindProposal, nil, func() *models.Proposal {
		return &models.Proposal{}
	})
	if err != nil {
		return nil, fmt.Errorf("failed to search proposals: %w", err)
	}

	needle := strings.ToLower(params.Query)
	var matches []*models.Proposal
	for _, p := range all {
		if strings.Contains(strings.ToLower(p.Title), needle) {
			matches = append(matches, p)
		}
	}
	sortProposals(matches)

	switch {
	case len(matches) == 1:
		return matches[0], nil
	case len(matches) == 0:
		return nil, fmt.Errorf("proposal %q: %w", params.Query, domain.ErrNotFound)
	case !params.Interactive || uc.selector == nil:
		return nil, fmt.Errorf("%d proposals match %q, use the proposal id", len(matches), params.Query)
	default:
		uc.sink.OnProgress(ctx, ProgressEvent{Stage: "selecting"})
		return uc.selector.SelectProposal(ctx, matches, "Select a proposal")
	}
}

// ListVotes is the use case for listing the votes cast on a proposal
type ListVotes struct {
	store EntityStore
}

// NewListVotes creates a new ListVotes use case
func NewListVotes(store EntityStore) *ListVotes {
	return &ListVotes{store: store}
}

// Run returns the votes on a proposal, heaviest first.
func (uc *ListVotes) Run(ctx context.Context, proposalID common.Hash) ([]*models.ProposalVote, error) {
	return listVotes(ctx, uc.store, proposalID)
}

func listVotes(ctx context.Context, store EntityStore, proposalID common.Hash) ([]*models.ProposalVote, error) {
	prefix := proposalID.Bytes()
	votes, err := scanEntities(ctx, store, models.EntityKindProposalVote, func(id []byte) bool {
		return bytes.HasPrefix(id, prefix)
	}, func() *models.ProposalVote {
		return &models.ProposalVote{}
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list votes: %w", err)
	}

	sort.Slice(votes, func(i, j int) bool {
		if c := votes[i].Weight.Cmp(votes[j].Weight); c != 0 {
			return c > 0
		}
		return bytes.Compare(votes[i].Voter.Bytes(), votes[j].Voter.Bytes()) < 0
	})
	return votes, nil
}
