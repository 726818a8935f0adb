package models

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/govindex/internal/domain"
)

// Delegate is an account that can receive voting power and hold governor roles
type Delegate struct {
	ID                    common.Address `json:"id"`
	DelegatedVotesBalance *big.Int       `json:"delegatedVotesBalance"`
	ProposerRoleExpiresAt *big.Int       `json:"proposerRoleExpiresAt"`
	CancelerRoleExpiresAt *big.Int       `json:"cancelerRoleExpiresAt"`
}

func NewDelegate(account common.Address) *Delegate {
	return &Delegate{
		ID:                    account,
		DelegatedVotesBalance: new(big.Int),
		ProposerRoleExpiresAt: new(big.Int),
		CancelerRoleExpiresAt: new(big.Int),
	}
}

func (d *Delegate) EntityKind() EntityKind { return EntityKindDelegate }
func (d *Delegate) EntityID() []byte       { return d.ID.Bytes() }

// RoleExpiresAt returns the stored expiry of a role, zero when never granted.
func (d *Delegate) RoleExpiresAt(role domain.Role) *big.Int {
	switch role {
	case domain.RoleProposer:
		return orZero(d.ProposerRoleExpiresAt)
	case domain.RoleCanceler:
		return orZero(d.CancelerRoleExpiresAt)
	default:
		return new(big.Int)
	}
}

// SetRoleExpiry records an absolute expiry for a role. Zero revokes it.
func (d *Delegate) SetRoleExpiry(role domain.Role, expiresAt *big.Int) {
	switch role {
	case domain.RoleProposer:
		d.ProposerRoleExpiresAt = copyInt(expiresAt)
	case domain.RoleCanceler:
		d.CancelerRoleExpiresAt = copyInt(expiresAt)
	}
}

// HasRole reports whether the role is held at time at: the expiry must be strictly later.
func (d *Delegate) HasRole(role domain.Role, at uint64) bool {
	return d.RoleExpiresAt(role).Cmp(new(big.Int).SetUint64(at)) > 0
}

// Member is a token holder
type Member struct {
	ID           common.Address  `json:"id"`
	TokenBalance *big.Int        `json:"tokenBalance"`
	Delegate     *common.Address `json:"delegate,omitempty"`
}

func NewMember(account common.Address) *Member {
	return &Member{ID: account, TokenBalance: new(big.Int)}
}

func (m *Member) EntityKind() EntityKind { return EntityKindMember }
func (m *Member) EntityID() []byte       { return m.ID.Bytes() }

// Credit adds amount to the balance.
func (m *Member) Credit(amount *big.Int) {
	m.TokenBalance = add(m.TokenBalance, amount)
}

// Debit subtracts amount from the balance. It reports false, and leaves a
// zero balance, when the balance did not cover the amount.
func (m *Member) Debit(amount *big.Int) bool {
	m.TokenBalance = sub(m.TokenBalance, amount)
	if m.TokenBalance.Sign() < 0 {
		m.TokenBalance = new(big.Int)
		return false
	}
	return true
}

// SetDelegate points the member at a delegate. The zero address clears it.
func (m *Member) SetDelegate(to common.Address) {
	if to == (common.Address{}) {
		m.Delegate = nil
		return
	}
	m.Delegate = &to
}
