package usecase

import (
	"context"
	"fmt"

	"github.com/trebuchet-org/govindex/internal/domain"
	"github.com/trebuchet-org/govindex/internal/domain/models"
)

func (ix *Indexer) onProposalCreated(ctx context.Context, s *Session, e domain.ProposalCreated) error {
	p, err := loadProposal(ctx, s, domain.EncodeID(e.ProposalID))
	if err != nil {
		return err
	}

	isProposer, err := NewRoleLedger(s).HasRole(ctx, e.Proposer, domain.RoleProposer, e.BlockTimestamp)
	if err != nil {
		return err
	}

	p.ApplyCreated(e, isProposer)
	if !p.HasConsistentActions() {
		ix.warn(WarnActionArrays, e, "proposal action arrays differ in length",
			"proposal", p.ID.Hex(),
			"targets", len(p.Targets),
			"values", len(p.Values),
			"calldatas", len(p.Calldatas),
			"signatures", len(p.Signatures),
		)
	}
	s.Save(p)

	g, err := loadGovernance(ctx, s)
	if err != nil {
		return err
	}
	g.IncrementProposalCount()
	s.Save(g)

	ix.log.Debug("proposal created", "proposal", p.ID.Hex(), "state", p.State, "clock", p.ClockMode, "title", p.Title)
	return nil
}

func (ix *Indexer) onProposalDeadlineExtended(ctx context.Context, s *Session, e domain.ProposalDeadlineExtended) error {
	p, err := loadProposal(ctx, s, domain.EncodeID(e.ProposalID))
	if err != nil {
		return err
	}
	p.ApplyDeadlineExtended(e)
	s.Save(p)
	return nil
}

func (ix *Indexer) onProposalQueued(ctx context.Context, s *Session, e domain.ProposalQueued) error {
	p, err := loadProposal(ctx, s, domain.EncodeID(e.ProposalID))
	if err != nil {
		return err
	}
	p.ApplyQueued(e)
	s.Save(p)
	return nil
}

func (ix *Indexer) onProposalExecuted(ctx context.Context, s *Session, e domain.ProposalExecuted) error {
	p, err := loadProposal(ctx, s, domain.EncodeID(e.ProposalID))
	if err != nil {
		return err
	}
	p.ApplyExecuted(e)
	s.Save(p)
	return nil
}

func (ix *Indexer) onProposalCanceled(ctx context.Context, s *Session, e domain.ProposalCanceled) error {
	p, err := loadProposal(ctx, s, domain.EncodeID(e.ProposalID))
	if err != nil {
		return err
	}

	isCanceler, err := NewRoleLedger(s).HasRole(ctx, e.Canceler, domain.RoleCanceler, e.BlockTimestamp)
	if err != nil {
		return err
	}

	p.ApplyCanceled(e, isCanceler)
	s.Save(p)
	return nil
}

// onVote records a voter's latest vote and moves their weight between tallies.
func (ix *Indexer) onVote(ctx context.Context, s *Session, e domain.VoteCastWithParams) error {
	if _, err := NewRoleLedger(s).Delegate(ctx, e.Voter); err != nil {
		return err
	}

	p, err := loadProposal(ctx, s, domain.EncodeID(e.ProposalID))
	if err != nil {
		return err
	}

	next := models.NewProposalVote(e)
	prev, existed, err := Load(ctx, s, models.EntityKindProposalVote, next.ID, func() *models.ProposalVote {
		return &models.ProposalVote{}
	})
	if err != nil {
		return err
	}
	if !existed {
		prev = nil
	}

	if !models.IsKnownSupport(e.Support) {
		ix.warn(WarnUnknownSupport, e, "vote has unknown support code, weight not tallied",
			"proposal", p.ID.Hex(),
			"voter", e.Voter.Hex(),
			"support", e.Support,
		)
	}

	p.ApplyVote(prev, next)
	s.Save(next)
	s.Save(p)
	return nil
}

func (ix *Indexer) onRoleGranted(ctx context.Context, s *Session, e domain.RoleGranted) error {
	role, ok := domain.RoleFromHash(e.Role)
	if !ok {
		ix.log.Debug("ignoring untracked role", "role", e.Role.Hex(), "account", e.Account.Hex())
		return nil
	}
	return NewRoleLedger(s).Grant(ctx, e.Account, role, e.ExpiresAt)
}

func (ix *Indexer) onRoleRevoked(ctx context.Context, s *Session, e domain.RoleRevoked) error {
	role, ok := domain.RoleFromHash(e.Role)
	if !ok {
		ix.log.Debug("ignoring untracked role", "role", e.Role.Hex(), "account", e.Account.Hex())
		return nil
	}
	return NewRoleLedger(s).Revoke(ctx, e.Account, role)
}

func (ix *Indexer) onGovernorBaseInitialized(ctx context.Context, s *Session, e domain.GovernorBaseInitialized) error {
	g, err := loadGovernance(ctx, s)
	if err != nil {
		return err
	}
	g.ApplyInitialized(e)
	s.Save(g)
	return nil
}

func (ix *Indexer) onGovernorFounded(ctx context.Context, s *Session, e domain.GovernorFounded) error {
	g, err := loadGovernance(ctx, s)
	if err != nil {
		return err
	}
	g.IsFounded = true
	s.Save(g)
	return nil
}

// onParameterUpdated replaces one mirrored numeric value, warning when the
// event's previous value disagrees with what was stored.
func (ix *Indexer) onParameterUpdated(ctx context.Context, s *Session, e domain.ParameterUpdated) error {
	g, err := loadGovernance(ctx, s)
	if err != nil {
		return err
	}

	current, ok := g.Param(e.Param)
	if !ok {
		return fmt.Errorf("%w: %s is not a numeric parameter", domain.ErrMalformedEvent, e.Param)
	}
	if e.Old != nil && current.Cmp(e.Old) != 0 {
		ix.warn(WarnStaleParameter, e, "previous parameter value does not match stored value",
			"param", e.Param,
			"stored", current.String(),
			"reported", e.Old.String(),
		)
	}

	g.SetParam(e.Param, e.New)
	s.Save(g)
	return nil
}

func (ix *Indexer) onAddressParameterUpdated(ctx context.Context, s *Session, e domain.AddressParameterUpdated) error {
	g, err := loadGovernance(ctx, s)
	if err != nil {
		return err
	}

	current, ok := g.AddressParam(e.Param)
	if !ok {
		return fmt.Errorf("%w: %s is not an address parameter", domain.ErrMalformedEvent, e.Param)
	}
	if e.Old != nil && current != *e.Old {
		ix.warn(WarnStaleParameter, e, "previous parameter value does not match stored value",
			"param", e.Param,
			"stored", current.Hex(),
			"reported", e.Old.Hex(),
		)
	}

	g.SetAddressParam(e.Param, e.New)
	s.Save(g)
	return nil
}
