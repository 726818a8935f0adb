package usecase

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/govindex/internal/domain"
)

func (ix *Indexer) onTransfer(ctx context.Context, s *Session, e domain.Transfer) error {
	value := e.Value
	if value == nil {
		value = new(big.Int)
	}

	if e.IsMint() || e.IsBurn() {
		g, err := loadGovernance(ctx, s)
		if err != nil {
			return err
		}
		if e.IsMint() {
			g.Mint(value)
		}
		if e.IsBurn() && !g.Burn(value) {
			ix.warn(WarnNegativeSupply, e, "burn exceeds indexed total supply, clamped to zero",
				"value", value.String(),
			)
		}
		s.Save(g)
	}

	if !e.IsMint() {
		from, err := loadMember(ctx, s, e.From)
		if err != nil {
			return err
		}
		if !from.Debit(value) {
			ix.warn(WarnNegativeBalance, e, "transfer exceeds indexed balance, clamped to zero",
				"member", e.From.Hex(),
				"value", value.String(),
			)
		}
		s.Save(from)
	}

	if !e.IsBurn() {
		to, err := loadMember(ctx, s, e.To)
		if err != nil {
			return err
		}
		to.Credit(value)
		s.Save(to)
	}
	return nil
}

func (ix *Indexer) onDelegateChanged(ctx context.Context, s *Session, e domain.DelegateChanged) error {
	if e.Delegator == (common.Address{}) {
		return nil
	}

	m, err := loadMember(ctx, s, e.Delegator)
	if err != nil {
		return err
	}

	var current common.Address
	if m.Delegate != nil {
		current = *m.Delegate
	}
	if current != e.FromDelegate {
		ix.warn(WarnStaleDelegate, e, "previous delegate does not match stored delegate",
			"member", e.Delegator.Hex(),
			"stored", current.Hex(),
			"reported", e.FromDelegate.Hex(),
		)
	}

	m.SetDelegate(e.ToDelegate)
	s.Save(m)
	return nil
}

func (ix *Indexer) onDelegateVotesChanged(ctx context.Context, s *Session, e domain.DelegateVotesChanged) error {
	d, err := NewRoleLedger(s).Delegate(ctx, e.Delegate)
	if err != nil {
		return err
	}

	if e.PreviousVotes != nil && d.DelegatedVotesBalance.Cmp(e.PreviousVotes) != 0 {
		ix.warn(WarnStaleVotes, e, "previous delegated votes do not match stored balance",
			"delegate", e.Delegate.Hex(),
			"stored", d.DelegatedVotesBalance.String(),
			"reported", e.PreviousVotes.String(),
		)
	}

	d.DelegatedVotesBalance = new(big.Int)
	if e.NewVotes != nil {
		d.DelegatedVotesBalance.Set(e.NewVotes)
	}
	s.Save(d)
	return nil
}
