package models

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/trebuchet-org/govindex/internal/domain"
)

// ProposalVoteIDLength is the width of a vote key: encoded proposal id followed by the voter.
const ProposalVoteIDLength = domain.IDLength + common.AddressLength

// ProposalVote is the latest vote of one voter on one proposal
type ProposalVote struct {
	ID            hexutil.Bytes  `json:"id"`
	Proposal      common.Hash    `json:"proposal"`
	Voter         common.Address `json:"voter"`
	Weight        *big.Int       `json:"weight"`
	Support       uint8          `json:"support"`
	IsForProposal bool           `json:"isForProposal"`
	Reason        string         `json:"reason,omitempty"`
	Params        hexutil.Bytes  `json:"params,omitempty"`

	BlockNumber    uint64      `json:"blockNumber"`
	BlockTimestamp uint64      `json:"blockTimestamp"`
	TxHash         common.Hash `json:"txHash"`
}

// ProposalVoteID builds the key of a voter's vote on a proposal.
func ProposalVoteID(proposal common.Hash, voter common.Address) []byte {
	id := make([]byte, 0, ProposalVoteIDLength)
	id = append(id, proposal.Bytes()...)
	return append(id, voter.Bytes()...)
}

// NewProposalVote builds the vote record for an event. Empty reasons and
// params are left unset.
func NewProposalVote(e domain.VoteCastWithParams) *ProposalVote {
	proposal := domain.EncodeID(e.ProposalID)
	v := &ProposalVote{
		ID:             ProposalVoteID(proposal, e.Voter),
		Proposal:       proposal,
		Voter:          e.Voter,
		Weight:         copyInt(e.Weight),
		Support:        e.Support,
		IsForProposal:  e.Support == SupportFor,
		BlockNumber:    e.BlockNumber,
		BlockTimestamp: e.BlockTimestamp,
		TxHash:         e.TxHash,
	}
	if e.Reason != "" {
		v.Reason = e.Reason
	}
	if len(e.Params) > 0 {
		v.Params = e.Params
	}
	return v
}

func (v *ProposalVote) EntityKind() EntityKind { return EntityKindProposalVote }
func (v *ProposalVote) EntityID() []byte       { return v.ID }
