package usecase

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/govindex/internal/domain"
	"github.com/trebuchet-org/govindex/internal/domain/models"
)

// RoleLedger tracks time-bounded governor roles on Delegate records within a session
type RoleLedger struct {
	session *Session
}

// NewRoleLedger binds a ledger to the current unit of work.
func NewRoleLedger(s *Session) RoleLedger {
	return RoleLedger{session: s}
}

// Delegate loads the account's ledger entry, creating and staging a zeroed
// one on first reference.
func (r RoleLedger) Delegate(ctx context.Context, account common.Address) (*models.Delegate, error) {
	d, existed, err := Load(ctx, r.session, models.EntityKindDelegate, account.Bytes(), func() *models.Delegate {
		return models.NewDelegate(account)
	})
	if err != nil {
		return nil, err
	}
	if !existed {
		r.session.Save(d)
	}
	return d, nil
}

// Grant sets the absolute expiry of a role.
func (r RoleLedger) Grant(ctx context.Context, account common.Address, role domain.Role, expiresAt *big.Int) error {
	d, err := r.Delegate(ctx, account)
	if err != nil {
		return err
	}
	d.SetRoleExpiry(role, expiresAt)
	r.session.Save(d)
	return nil
}

// Revoke expires a role immediately.
func (r RoleLedger) Revoke(ctx context.Context, account common.Address, role domain.Role) error {
	d, err := r.Delegate(ctx, account)
	if err != nil {
		return err
	}
	d.SetRoleExpiry(role, new(big.Int))
	r.session.Save(d)
	return nil
}

// HasRole reports whether account holds role at the given timestamp.
func (r RoleLedger) HasRole(ctx context.Context, account common.Address, role domain.Role, at uint64) (bool, error) {
	d, err := r.Delegate(ctx, account)
	if err != nil {
		return false, err
	}
	return d.HasRole(role, at), nil
}
