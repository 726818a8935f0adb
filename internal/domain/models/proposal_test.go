package models

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/govindex/internal/domain"
)

func created(voteStart, voteEnd int64, block, timestamp uint64) domain.ProposalCreated {
	return domain.ProposalCreated{
		EventMeta: domain.EventMeta{
			BlockNumber:    block,
			BlockTimestamp: timestamp,
			TxHash:         common.HexToHash("0xc0ffee"),
		},
		ProposalID:  big.NewInt(1),
		Proposer:    common.HexToAddress("0x01"),
		Targets:     []common.Address{common.HexToAddress("0xaa")},
		Values:      []*big.Int{big.NewInt(0)},
		Calldatas:   [][]byte{{0xde, 0xad}},
		Signatures:  []string{""},
		VoteStart:   big.NewInt(voteStart),
		VoteEnd:     big.NewInt(voteEnd),
		Description: "# Hello\nworld",
	}
}

func vote(voter common.Address, support uint8, weight int64) *ProposalVote {
	return NewProposalVote(domain.VoteCastWithParams{
		Voter:      voter,
		ProposalID: big.NewInt(1),
		Support:    support,
		Weight:     big.NewInt(weight),
	})
}

func TestProposal_ApplyCreated(t *testing.T) {
	tests := []struct {
		name      string
		voteStart int64
		block     uint64
		timestamp uint64
		wantMode  ClockMode
		wantState ProposalState
	}{
		{"timestamp clock before start", 1000, 10, 900, ClockModeTimestamp, ProposalStatePending},
		{"timestamp clock at start", 1000, 10, 1000, ClockModeTimestamp, ProposalStateActive},
		{"block clock before start", 50, 10, 900, ClockModeBlockNumber, ProposalStatePending},
		{"block clock after start", 50, 60, 900, ClockModeBlockNumber, ProposalStateActive},
		{"block clock at start", 50, 50, 900, ClockModeBlockNumber, ProposalStateActive},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewProposal(domain.EncodeID(big.NewInt(1)))
			p.ApplyCreated(created(tt.voteStart, 5000, tt.block, tt.timestamp), true)

			assert.Equal(t, tt.wantMode, p.ClockMode)
			assert.Equal(t, tt.wantState, p.State)
			assert.Equal(t, "Hello", p.Title)
			assert.True(t, p.IsProposerRole)
			assert.Equal(t, int64(5000), p.OriginalVoteEnd.Int64())
			assert.Equal(t, int64(0), p.TotalVotes().Int64())
			require.NotNil(t, p.CreatedTxHash)
		})
	}
}

func TestProposal_OriginalVoteEndIsImmutable(t *testing.T) {
	p := NewProposal(domain.EncodeID(big.NewInt(1)))
	p.ApplyCreated(created(1000, 2000, 1, 900), false)

	for _, deadline := range []int64{2100, 2500, 1900} {
		p.ApplyDeadlineExtended(domain.ProposalDeadlineExtended{
			ProposalID:       big.NewInt(1),
			ExtendedDeadline: big.NewInt(deadline),
		})
		assert.Equal(t, deadline, p.VoteEnd.Int64())
		assert.Equal(t, int64(2000), p.OriginalVoteEnd.Int64())
		assert.Equal(t, ProposalStatePending, p.State)
	}
}

func TestProposal_Lifecycle(t *testing.T) {
	p := NewProposal(domain.EncodeID(big.NewInt(1)))
	assert.True(t, p.IsShell())

	p.ApplyCreated(created(1000, 2000, 1, 900), false)
	assert.Equal(t, ProposalStatePending, p.State)

	p.ApplyQueued(domain.ProposalQueued{
		EventMeta:  domain.EventMeta{BlockNumber: 5, BlockTimestamp: 2100},
		ProposalID: big.NewInt(1),
		ETA:        big.NewInt(3000),
	})
	assert.Equal(t, ProposalStateQueued, p.State)
	assert.Equal(t, int64(3000), p.ETA.Int64())
	assert.Equal(t, uint64(2100), p.QueuedAtTimestamp)

	p.ApplyExecuted(domain.ProposalExecuted{
		EventMeta:  domain.EventMeta{BlockNumber: 6, BlockTimestamp: 3001, TxHash: common.HexToHash("0x06")},
		ProposalID: big.NewInt(1),
	})
	assert.Equal(t, ProposalStateExecuted, p.State)
	require.NotNil(t, p.ExecutedTxHash)
	assert.Equal(t, common.HexToHash("0x06"), *p.ExecutedTxHash)
}

func TestProposal_CancelFromAnyState(t *testing.T) {
	for _, state := range []ProposalState{"", ProposalStatePending, ProposalStateActive, ProposalStateQueued, ProposalStateExecuted} {
		t.Run(string(state), func(t *testing.T) {
			p := NewProposal(domain.EncodeID(big.NewInt(1)))
			p.State = state

			p.ApplyCanceled(domain.ProposalCanceled{
				EventMeta:  domain.EventMeta{BlockNumber: 9, BlockTimestamp: 99},
				ProposalID: big.NewInt(1),
				Canceler:   common.HexToAddress("0xcc"),
			}, true)

			assert.Equal(t, ProposalStateCanceled, p.State)
			require.NotNil(t, p.Canceler)
			assert.Equal(t, common.HexToAddress("0xcc"), *p.Canceler)
			assert.True(t, p.IsCancelerRole)
		})
	}
}

func TestProposal_ApplyVote(t *testing.T) {
	alice := common.HexToAddress("0xa1")
	bob := common.HexToAddress("0xb0")

	p := NewProposal(domain.EncodeID(big.NewInt(1)))
	p.ApplyCreated(created(1000, 2000, 1, 900), false)

	first := vote(alice, SupportFor, 10)
	p.ApplyVote(nil, first)
	assert.Equal(t, ProposalStateActive, p.State)
	assert.Equal(t, int64(10), p.ForVotes.Int64())

	p.ApplyVote(nil, vote(bob, SupportAbstain, 3))
	assert.Equal(t, int64(3), p.AbstainVotes.Int64())

	// replaying the identical vote leaves the sums unchanged
	p.ApplyVote(first, vote(alice, SupportFor, 10))
	assert.Equal(t, int64(10), p.ForVotes.Int64())

	// changing stance moves the weight between buckets
	second := vote(alice, SupportAgainst, 7)
	p.ApplyVote(first, second)
	assert.Equal(t, int64(0), p.ForVotes.Int64())
	assert.Equal(t, int64(7), p.AgainstVotes.Int64())
	assert.Equal(t, int64(10), p.TotalVotes().Int64())
}

func TestProposal_ApplyVoteUnknownSupport(t *testing.T) {
	p := NewProposal(domain.EncodeID(big.NewInt(1)))
	p.State = ProposalStateQueued

	p.ApplyVote(nil, vote(common.HexToAddress("0xa1"), 7, 10))

	assert.Equal(t, ProposalStateActive, p.State)
	assert.Equal(t, int64(0), p.TotalVotes().Int64())
	assert.False(t, IsKnownSupport(7))
}

func TestProposalVote_ID(t *testing.T) {
	voter := common.HexToAddress("0x00000000000000000000000000000000000000a1")
	v := vote(voter, SupportFor, 1)

	require.Len(t, v.ID, ProposalVoteIDLength)
	assert.Equal(t, domain.EncodeID(big.NewInt(1)).Bytes(), []byte(v.ID[:domain.IDLength]))
	assert.Equal(t, voter.Bytes(), []byte(v.ID[domain.IDLength:]))
	assert.True(t, v.IsForProposal)
	assert.Empty(t, v.Reason)
	assert.Nil(t, v.Params)
}

func TestProposal_HasConsistentActions(t *testing.T) {
	p := NewProposal(domain.EncodeID(big.NewInt(1)))
	p.ApplyCreated(created(1000, 2000, 1, 900), false)
	assert.True(t, p.HasConsistentActions())

	p.Signatures = nil
	assert.False(t, p.HasConsistentActions())
}
