package domain

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// Role is a time-bounded governor role tracked per account
type Role string

const (
	RoleProposer Role = "proposer"
	RoleCanceler Role = "canceler"
)

// Role hashes as defined by the governor contract
var (
	ProposerRoleHash = crypto.Keccak256Hash([]byte("PROPOSER"))
	CancelerRoleHash = crypto.Keccak256Hash([]byte("CANCELER"))
)

// RoleFromHash maps an on-chain role hash to a tracked role.
func RoleFromHash(h common.Hash) (Role, bool) {
	switch h {
	case ProposerRoleHash:
		return RoleProposer, true
	case CancelerRoleHash:
		return RoleCanceler, true
	default:
		return "", false
	}
}
