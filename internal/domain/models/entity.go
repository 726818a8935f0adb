package models

import "math/big"

// EntityKind identifies a table of the entity store
type EntityKind string

const (
	EntityKindProposal          EntityKind = "Proposal"
	EntityKindProposalVote      EntityKind = "ProposalVote"
	EntityKindDelegate          EntityKind = "Delegate"
	EntityKindMember            EntityKind = "Member"
	EntityKindGovernanceData    EntityKind = "GovernanceData"
	EntityKindExecutorModule    EntityKind = "ExecutorModule"
	EntityKindExecutorOperation EntityKind = "ExecutorOperation"
	EntityKindExecutorCall      EntityKind = "ExecutorCall"
	EntityKindDeposit           EntityKind = "Deposit"
	EntityKindWithdrawal        EntityKind = "Withdrawal"
	EntityKindCheckpoint        EntityKind = "Checkpoint"
)

// AllEntityKinds lists every kind in the order they are reset and exported.
var AllEntityKinds = []EntityKind{
	EntityKindProposal,
	EntityKindProposalVote,
	EntityKindDelegate,
	EntityKindMember,
	EntityKindGovernanceData,
	EntityKindExecutorModule,
	EntityKindExecutorOperation,
	EntityKindExecutorCall,
	EntityKindDeposit,
	EntityKindWithdrawal,
	EntityKindCheckpoint,
}

// Entity is a record addressable in the entity store
type Entity interface {
	EntityKind() EntityKind
	EntityID() []byte
}

// orZero treats a missing amount as zero.
func orZero(n *big.Int) *big.Int {
	if n == nil {
		return new(big.Int)
	}
	return n
}

func add(a, b *big.Int) *big.Int {
	return new(big.Int).Add(orZero(a), orZero(b))
}

func sub(a, b *big.Int) *big.Int {
	return new(big.Int).Sub(orZero(a), orZero(b))
}

func copyInt(n *big.Int) *big.Int {
	return new(big.Int).Set(orZero(n))
}
