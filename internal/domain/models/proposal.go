package models

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/trebuchet-org/govindex/internal/domain"
)

// ProposalState represents the lifecycle state of a proposal
type ProposalState string

const (
	ProposalStatePending  ProposalState = "Pending"
	ProposalStateActive   ProposalState = "Active"
	ProposalStateQueued   ProposalState = "Queued"
	ProposalStateExecuted ProposalState = "Executed"
	ProposalStateCanceled ProposalState = "Canceled"
)

// ClockMode is the unit a proposal's voting window is measured in
type ClockMode string

const (
	ClockModeTimestamp   ClockMode = "timestamp"
	ClockModeBlockNumber ClockMode = "blocknumber"
)

// Support codes carried by vote events
const (
	SupportAgainst uint8 = 0
	SupportFor     uint8 = 1
	SupportAbstain uint8 = 2
)

// Proposal is the indexed state of a governor proposal
type Proposal struct {
	ID common.Hash `json:"id"`

	// Creation
	Proposer       common.Address   `json:"proposer"`
	IsProposerRole bool             `json:"isProposerRole"`
	Targets        []common.Address `json:"targets"`
	Values         []*big.Int       `json:"values"`
	Calldatas      []hexutil.Bytes  `json:"calldatas"`
	Signatures     []string         `json:"signatures"`
	Title          string           `json:"title"`
	Description    string           `json:"description"`

	// Voting window
	ClockMode       ClockMode `json:"clockMode,omitempty"`
	VoteStart       *big.Int  `json:"voteStart"`
	VoteEnd         *big.Int  `json:"voteEnd"`
	OriginalVoteEnd *big.Int  `json:"originalVoteEnd"`

	State ProposalState `json:"state,omitempty"`

	// Tallies
	ForVotes     *big.Int `json:"forVotes"`
	AgainstVotes *big.Int `json:"againstVotes"`
	AbstainVotes *big.Int `json:"abstainVotes"`

	CreatedAtBlock     uint64       `json:"createdAtBlock,omitempty"`
	CreatedAtTimestamp uint64       `json:"createdAtTimestamp,omitempty"`
	CreatedTxHash      *common.Hash `json:"createdTxHash,omitempty"`

	ETA               *big.Int `json:"eta,omitempty"`
	QueuedAtBlock     uint64   `json:"queuedAtBlock,omitempty"`
	QueuedAtTimestamp uint64   `json:"queuedAtTimestamp,omitempty"`

	ExecutedAtBlock     uint64       `json:"executedAtBlock,omitempty"`
	ExecutedAtTimestamp uint64       `json:"executedAtTimestamp,omitempty"`
	ExecutedTxHash      *common.Hash `json:"executedTxHash,omitempty"`

	Canceler            *common.Address `json:"canceler,omitempty"`
	IsCancelerRole      bool            `json:"isCancelerRole,omitempty"`
	CanceledAtBlock     uint64          `json:"canceledAtBlock,omitempty"`
	CanceledAtTimestamp uint64          `json:"canceledAtTimestamp,omitempty"`
}

// NewProposal returns an empty shell for the given id. A shell has no
// state until its creation event is seen.
func NewProposal(id common.Hash) *Proposal {
	return &Proposal{
		ID:           id,
		ForVotes:     new(big.Int),
		AgainstVotes: new(big.Int),
		AbstainVotes: new(big.Int),
	}
}

func (p *Proposal) EntityKind() EntityKind { return EntityKindProposal }
func (p *Proposal) EntityID() []byte       { return p.ID.Bytes() }

// IsShell reports whether the creation event has not been applied yet
func (p *Proposal) IsShell() bool { return p.CreatedTxHash == nil }

// Number returns the proposal id as an integer
func (p *Proposal) Number() *big.Int { return new(big.Int).SetBytes(p.ID.Bytes()) }

// ApplyCreated initializes the proposal from its creation event.
// isProposerRole is the proposer's role status at the event timestamp.
func (p *Proposal) ApplyCreated(e domain.ProposalCreated, isProposerRole bool) {
	p.Proposer = e.Proposer
	p.IsProposerRole = isProposerRole
	p.Targets = e.Targets
	p.Values = e.Values
	p.Calldatas = make([]hexutil.Bytes, len(e.Calldatas))
	for i, c := range e.Calldatas {
		p.Calldatas[i] = c
	}
	p.Signatures = e.Signatures
	p.Description = e.Description
	p.Title = domain.ExtractTitle(e.Description)

	voteStart := orZero(e.VoteStart)
	eventTime := new(big.Int).SetUint64(e.BlockTimestamp)

	clock := eventTime
	p.ClockMode = ClockModeTimestamp
	if voteStart.Cmp(eventTime) < 0 {
		p.ClockMode = ClockModeBlockNumber
		clock = new(big.Int).SetUint64(e.BlockNumber)
	}

	p.State = ProposalStateActive
	if clock.Cmp(voteStart) < 0 {
		p.State = ProposalStatePending
	}

	p.VoteStart = copyInt(voteStart)
	p.VoteEnd = copyInt(e.VoteEnd)
	if p.OriginalVoteEnd == nil {
		p.OriginalVoteEnd = copyInt(e.VoteEnd)
	}

	p.ForVotes = orZero(p.ForVotes)
	p.AgainstVotes = orZero(p.AgainstVotes)
	p.AbstainVotes = orZero(p.AbstainVotes)

	txHash := e.TxHash
	p.CreatedAtBlock = e.BlockNumber
	p.CreatedAtTimestamp = e.BlockTimestamp
	p.CreatedTxHash = &txHash
}

// ApplyDeadlineExtended moves the end of the voting window.
func (p *Proposal) ApplyDeadlineExtended(e domain.ProposalDeadlineExtended) {
	p.VoteEnd = copyInt(e.ExtendedDeadline)
}

func (p *Proposal) ApplyQueued(e domain.ProposalQueued) {
	p.State = ProposalStateQueued
	p.ETA = copyInt(e.ETA)
	p.QueuedAtBlock = e.BlockNumber
	p.QueuedAtTimestamp = e.BlockTimestamp
}

func (p *Proposal) ApplyExecuted(e domain.ProposalExecuted) {
	txHash := e.TxHash
	p.State = ProposalStateExecuted
	p.ExecutedAtBlock = e.BlockNumber
	p.ExecutedAtTimestamp = e.BlockTimestamp
	p.ExecutedTxHash = &txHash
}

// ApplyCanceled cancels the proposal from any state. isCancelerRole is the
// canceler's role status at the event timestamp.
func (p *Proposal) ApplyCanceled(e domain.ProposalCanceled, isCancelerRole bool) {
	canceler := e.Canceler
	p.State = ProposalStateCanceled
	p.Canceler = &canceler
	p.IsCancelerRole = isCancelerRole
	p.CanceledAtBlock = e.BlockNumber
	p.CanceledAtTimestamp = e.BlockTimestamp
}

// ApplyVote moves a voter's contribution from prev to next. prev is nil for
// a first vote. A recorded vote implies voting is open, so the proposal is
// forced into the Active state.
func (p *Proposal) ApplyVote(prev, next *ProposalVote) {
	if p.State != ProposalStateActive {
		p.State = ProposalStateActive
	}
	if prev != nil {
		if bucket := p.tally(prev.Support); bucket != nil {
			*bucket = sub(*bucket, prev.Weight)
		}
	}
	if bucket := p.tally(next.Support); bucket != nil {
		*bucket = add(*bucket, next.Weight)
	}
}

// TotalVotes is the sum of all three tallies
func (p *Proposal) TotalVotes() *big.Int {
	return add(add(p.ForVotes, p.AgainstVotes), p.AbstainVotes)
}

// HasConsistentActions reports whether the parallel action arrays agree in length.
func (p *Proposal) HasConsistentActions() bool {
	n := len(p.Targets)
	return len(p.Values) == n && len(p.Calldatas) == n && len(p.Signatures) == n
}

func (p *Proposal) tally(support uint8) **big.Int {
	switch support {
	case SupportAgainst:
		return &p.AgainstVotes
	case SupportFor:
		return &p.ForVotes
	case SupportAbstain:
		return &p.AbstainVotes
	default:
		return nil
	}
}

// IsKnownSupport reports whether a support code is tallied
func IsKnownSupport(support uint8) bool {
	return support <= SupportAbstain
}
