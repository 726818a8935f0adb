package usecase_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/govindex/internal/adapters/memory"
	"github.com/trebuchet-org/govindex/internal/domain"
	"github.com/trebuchet-org/govindex/internal/domain/models"
	"github.com/trebuchet-org/govindex/internal/usecase"
)

var (
	proposer = common.HexToAddress("0x1000000000000000000000000000000000000001")
	canceler = common.HexToAddress("0x2000000000000000000000000000000000000002")
	alice    = common.HexToAddress("0xa11ce00000000000000000000000000000000000")
	bob      = common.HexToAddress("0xb0b0000000000000000000000000000000000000")
)

// recordingMetrics counts consistency warnings by kind
type recordingMetrics struct {
	usecase.NopMetrics
	warnings map[string]int
	applied  int
}

func newRecordingMetrics() *recordingMetrics {
	return &recordingMetrics{warnings: make(map[string]int)}
}

func (m *recordingMetrics) ConsistencyWarning(kind string)     { m.warnings[kind]++ }
func (m *recordingMetrics) EventApplied(string, time.Duration) { m.applied++ }

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fixture struct {
	ctx     context.Context
	store   *memory.EntityStore
	metrics *recordingMetrics
	indexer *usecase.Indexer
	logIdx  uint
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewEntityStore()
	metrics := newRecordingMetrics()
	return &fixture{
		ctx:     context.Background(),
		store:   store,
		metrics: metrics,
		indexer: usecase.NewIndexer(store, metrics, discardLogger()),
	}
}

// meta returns provenance for the next event in a strictly increasing order.
func (f *fixture) meta(block, timestamp uint64) domain.EventMeta {
	f.logIdx++
	return domain.EventMeta{
		BlockNumber:    block,
		BlockTimestamp: timestamp,
		TxHash:         common.BigToHash(big.NewInt(int64(f.logIdx))),
		LogIndex:       f.logIdx,
	}
}

func (f *fixture) apply(t *testing.T, ev domain.Event) {
	t.Helper()
	require.NoError(t, f.indexer.Apply(f.ctx, ev))
}

func load[T models.Entity](t *testing.T, f *fixture, kind models.EntityKind, id []byte, v T) T {
	t.Helper()
	data, err := f.store.Get(f.ctx, kind, id)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, v))
	return v
}

func (f *fixture) proposal(t *testing.T, id int64) *models.Proposal {
	t.Helper()
	return load(t, f, models.EntityKindProposal, domain.EncodeID(big.NewInt(id)).Bytes(), &models.Proposal{})
}

func (f *fixture) governance(t *testing.T) *models.GovernanceData {
	t.Helper()
	return load(t, f, models.EntityKindGovernanceData, models.GovernanceDataID, &models.GovernanceData{})
}

func (f *fixture) exists(kind models.EntityKind, id []byte) bool {
	_, err := f.store.Get(f.ctx, kind, id)
	return err == nil
}

func (f *fixture) create(id, voteStart int64, block, timestamp uint64) domain.ProposalCreated {
	return domain.ProposalCreated{
		EventMeta:   f.meta(block, timestamp),
		ProposalID:  big.NewInt(id),
		Proposer:    proposer,
		Targets:     []common.Address{common.HexToAddress("0xaa")},
		Values:      []*big.Int{big.NewInt(0)},
		Calldatas:   [][]byte{{0x01}},
		Signatures:  []string{"transfer(address,uint256)"},
		VoteStart:   big.NewInt(voteStart),
		VoteEnd:     big.NewInt(voteStart + 100),
		Description: "# Proposal " + big.NewInt(id).String() + "\nbody",
	}
}

func (f *fixture) vote(id int64, voter common.Address, support uint8, weight int64) domain.VoteCast {
	return domain.VoteCast{
		EventMeta:  f.meta(10, 1000),
		Voter:      voter,
		ProposalID: big.NewInt(id),
		Support:    support,
		Weight:     big.NewInt(weight),
	}
}

func TestIndexer_ScenarioA_BlockClockCreation(t *testing.T) {
	f := newFixture(t)

	f.apply(t, f.create(1, 5, 0, 99))

	p := f.proposal(t, 1)
	assert.Equal(t, models.ClockModeBlockNumber, p.ClockMode)
	assert.Equal(t, models.ProposalStatePending, p.State)
	assert.Equal(t, int64(0), p.ForVotes.Int64())
	assert.Equal(t, int64(0), p.AgainstVotes.Int64())
	assert.Equal(t, int64(0), p.AbstainVotes.Int64())
	assert.Equal(t, "Proposal 1", p.Title)
	assert.Equal(t, int64(1), f.governance(t).ProposalCount.Int64())

	// proposer ledger entry is created by the role lookup
	assert.True(t, f.exists(models.EntityKindDelegate, proposer.Bytes()))
	assert.False(t, p.IsProposerRole)
}

func TestIndexer_ScenarioB_VoteActivatesPendingProposal(t *testing.T) {
	f := newFixture(t)
	f.apply(t, f.create(1, 5, 0, 99))

	f.apply(t, f.vote(1, alice, models.SupportAgainst, 100))

	p := f.proposal(t, 1)
	assert.Equal(t, models.ProposalStateActive, p.State)
	assert.Equal(t, int64(100), p.AgainstVotes.Int64())

	v := load(t, f, models.EntityKindProposalVote, models.ProposalVoteID(p.ID, alice), &models.ProposalVote{})
	assert.False(t, v.IsForProposal)
	assert.Equal(t, int64(100), v.Weight.Int64())
	assert.True(t, f.exists(models.EntityKindDelegate, alice.Bytes()))
}

func TestIndexer_ScenarioC_MintTransfer(t *testing.T) {
	f := newFixture(t)

	f.apply(t, domain.Transfer{
		EventMeta: f.meta(1, 10),
		From:      common.Address{},
		To:        alice,
		Value:     big.NewInt(100),
	})

	assert.Equal(t, int64(100), f.governance(t).TotalSupply.Int64())
	assert.False(t, f.exists(models.EntityKindMember, common.Address{}.Bytes()))
	m := load(t, f, models.EntityKindMember, alice.Bytes(), &models.Member{})
	assert.Equal(t, int64(100), m.TokenBalance.Int64())

	f.apply(t, domain.Transfer{EventMeta: f.meta(2, 20), From: alice, To: bob, Value: big.NewInt(30)})
	f.apply(t, domain.Transfer{EventMeta: f.meta(3, 30), From: bob, To: common.Address{}, Value: big.NewInt(10)})

	assert.Equal(t, int64(90), f.governance(t).TotalSupply.Int64())
	assert.Equal(t, int64(70), load(t, f, models.EntityKindMember, alice.Bytes(), &models.Member{}).TokenBalance.Int64())
	assert.Equal(t, int64(20), load(t, f, models.EntityKindMember, bob.Bytes(), &models.Member{}).TokenBalance.Int64())
	assert.False(t, f.exists(models.EntityKindMember, common.Address{}.Bytes()))
}

func TestIndexer_BurnBeyondSupplyClampsToZero(t *testing.T) {
	f := newFixture(t)

	f.apply(t, domain.Transfer{EventMeta: f.meta(1, 10), From: common.Address{}, To: alice, Value: big.NewInt(10)})
	f.apply(t, domain.Transfer{EventMeta: f.meta(2, 20), From: alice, To: common.Address{}, Value: big.NewInt(30)})

	assert.Equal(t, int64(0), f.governance(t).TotalSupply.Int64())
	assert.Equal(t, int64(0), load(t, f, models.EntityKindMember, alice.Bytes(), &models.Member{}).TokenBalance.Int64())
	assert.Equal(t, 1, f.metrics.warnings[usecase.WarnNegativeSupply])
	assert.Equal(t, 1, f.metrics.warnings[usecase.WarnNegativeBalance])
}

func TestIndexer_ScenarioD_RoleGrantAndRevoke(t *testing.T) {
	f := newFixture(t)

	f.apply(t, domain.RoleGranted{
		EventMeta: f.meta(1, 10),
		Role:      domain.ProposerRoleHash,
		Account:   proposer,
		ExpiresAt: big.NewInt(100),
	})
	d := load(t, f, models.EntityKindDelegate, proposer.Bytes(), &models.Delegate{})
	assert.True(t, d.HasRole(domain.RoleProposer, 50))
	assert.True(t, d.HasRole(domain.RoleProposer, 99))

	f.apply(t, domain.RoleRevoked{
		EventMeta: f.meta(2, 20),
		Role:      domain.ProposerRoleHash,
		Account:   proposer,
	})
	d = load(t, f, models.EntityKindDelegate, proposer.Bytes(), &models.Delegate{})
	assert.False(t, d.HasRole(domain.RoleProposer, 50))
	assert.Equal(t, int64(0), d.ProposerRoleExpiresAt.Int64())
}

func TestIndexer_ScenarioE_CancelQueuedProposal(t *testing.T) {
	tests := []struct {
		name      string
		expiresAt int64
		want      bool
	}{
		{"canceler role held", 600, true},
		{"canceler role expired at cancel time", 500, false},
		{"no grant", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.apply(t, f.create(1, 5, 0, 99))
			f.apply(t, domain.RoleGranted{
				EventMeta: f.meta(1, 100),
				Role:      domain.CancelerRoleHash,
				Account:   canceler,
				ExpiresAt: big.NewInt(tt.expiresAt),
			})
			f.apply(t, domain.ProposalQueued{EventMeta: f.meta(2, 200), ProposalID: big.NewInt(1), ETA: big.NewInt(300)})
			require.Equal(t, models.ProposalStateQueued, f.proposal(t, 1).State)

			f.apply(t, domain.ProposalCanceled{EventMeta: f.meta(3, 500), ProposalID: big.NewInt(1), Canceler: canceler})

			p := f.proposal(t, 1)
			assert.Equal(t, models.ProposalStateCanceled, p.State)
			assert.Equal(t, tt.want, p.IsCancelerRole)
			require.NotNil(t, p.Canceler)
			assert.Equal(t, canceler, *p.Canceler)
		})
	}
}

func TestIndexer_ProposerRoleSnapshot(t *testing.T) {
	f := newFixture(t)
	f.apply(t, domain.RoleGranted{
		EventMeta: f.meta(1, 10),
		Role:      domain.ProposerRoleHash,
		Account:   proposer,
		ExpiresAt: big.NewInt(1000),
	})
	f.apply(t, f.create(1, 5000, 2, 999))
	assert.True(t, f.proposal(t, 1).IsProposerRole)

	f.apply(t, f.create(2, 5000, 3, 1000))
	assert.False(t, f.proposal(t, 2).IsProposerRole)
}

func TestIndexer_VoteUniquenessAndTallyConservation(t *testing.T) {
	f := newFixture(t)
	f.apply(t, f.create(1, 5, 1, 99))

	f.apply(t, f.vote(1, alice, models.SupportFor, 10))
	f.apply(t, f.vote(1, bob, models.SupportAbstain, 4))
	f.apply(t, f.vote(1, alice, models.SupportAgainst, 7))
	f.apply(t, f.vote(1, alice, models.SupportAgainst, 7))
	f.apply(t, f.vote(1, bob, 9, 50))

	p := f.proposal(t, 1)
	assert.Equal(t, int64(0), p.ForVotes.Int64())
	assert.Equal(t, int64(7), p.AgainstVotes.Int64())
	assert.Equal(t, int64(0), p.AbstainVotes.Int64())
	assert.Equal(t, 1, f.metrics.warnings[usecase.WarnUnknownSupport])

	var votes []*models.ProposalVote
	require.NoError(t, f.store.Scan(f.ctx, models.EntityKindProposalVote, func(_, data []byte) error {
		var v models.ProposalVote
		require.NoError(t, json.Unmarshal(data, &v))
		votes = append(votes, &v)
		return nil
	}))
	require.Len(t, votes, 2)

	sum := new(big.Int)
	for _, v := range votes {
		if models.IsKnownSupport(v.Support) {
			sum.Add(sum, v.Weight)
		}
	}
	assert.Equal(t, 0, sum.Cmp(p.TotalVotes()))
}

func TestIndexer_VoteWithParamsStoresPayload(t *testing.T) {
	f := newFixture(t)
	f.apply(t, f.create(1, 5, 1, 99))

	f.apply(t, domain.VoteCastWithParams{
		EventMeta:  f.meta(2, 100),
		Voter:      alice,
		ProposalID: big.NewInt(1),
		Support:    models.SupportFor,
		Weight:     big.NewInt(0),
		Reason:     "looks good",
		Params:     []byte{0xca, 0xfe},
	})

	v := load(t, f, models.EntityKindProposalVote, models.ProposalVoteID(domain.EncodeID(big.NewInt(1)), alice), &models.ProposalVote{})
	assert.Equal(t, "looks good", v.Reason)
	assert.Equal(t, []byte{0xca, 0xfe}, []byte(v.Params))
	assert.True(t, v.IsForProposal)
	assert.True(t, f.exists(models.EntityKindDelegate, alice.Bytes()))
}

func TestIndexer_ShellForUnknownProposal(t *testing.T) {
	f := newFixture(t)

	f.apply(t, domain.ProposalExecuted{EventMeta: f.meta(5, 500), ProposalID: big.NewInt(77)})

	p := f.proposal(t, 77)
	assert.Equal(t, models.ProposalStateExecuted, p.State)
	assert.Empty(t, p.Title)
	assert.False(t, f.exists(models.EntityKindGovernanceData, models.GovernanceDataID))
}

func TestIndexer_DeadlineExtensionKeepsOriginalVoteEnd(t *testing.T) {
	f := newFixture(t)
	f.apply(t, f.create(1, 5000, 1, 99))

	for _, deadline := range []int64{5200, 5300} {
		f.apply(t, domain.ProposalDeadlineExtended{
			EventMeta:        f.meta(2, 200),
			ProposalID:       big.NewInt(1),
			ExtendedDeadline: big.NewInt(deadline),
		})
	}

	p := f.proposal(t, 1)
	assert.Equal(t, int64(5300), p.VoteEnd.Int64())
	assert.Equal(t, int64(5100), p.OriginalVoteEnd.Int64())
	assert.Equal(t, models.ProposalStatePending, p.State)
}

func TestIndexer_ParameterUpdates(t *testing.T) {
	f := newFixture(t)

	f.apply(t, domain.ParameterUpdated{
		EventMeta: f.meta(1, 10),
		Name:      domain.EventTypePercentMajorityUpdate,
		Param:     domain.ParamPercentMajority,
		Old:       big.NewInt(50),
		New:       big.NewInt(60),
	})
	assert.Empty(t, f.metrics.warnings)

	f.apply(t, domain.ParameterUpdated{
		EventMeta: f.meta(2, 20),
		Name:      domain.EventTypeQuorumBPSUpdate,
		Param:     domain.ParamQuorumBps,
		Old:       big.NewInt(123),
		New:       big.NewInt(400),
	})
	assert.Equal(t, 1, f.metrics.warnings[usecase.WarnStaleParameter])

	f.apply(t, domain.ParameterUpdated{
		EventMeta: f.meta(2, 25),
		Name:      domain.EventTypeMaxSupplyChange,
		Param:     domain.ParamMaxSupply,
		Old:       big.NewInt(0),
		New:       big.NewInt(1_000_000),
	})

	guard := common.HexToAddress("0x6a")
	f.apply(t, domain.AddressParameterUpdated{
		EventMeta: f.meta(3, 30),
		Name:      domain.EventTypeChangedGuard,
		Param:     domain.ParamGuard,
		New:       guard,
	})

	g := f.governance(t)
	assert.Equal(t, int64(60), g.PercentMajority.Int64())
	assert.Equal(t, int64(400), g.QuorumBps.Int64())
	assert.Equal(t, int64(1_000_000), g.MaxSupply.Int64())
	assert.Equal(t, guard, g.Guard)
	assert.Equal(t, 1, f.metrics.warnings[usecase.WarnStaleParameter])
}

func TestIndexer_GovernorInitialization(t *testing.T) {
	f := newFixture(t)
	executor := common.HexToAddress("0xe0")
	token := common.HexToAddress("0x70")

	f.apply(t, domain.GovernorBaseInitialized{
		EventMeta:              f.meta(1, 10),
		Executor:               executor,
		Token:                  token,
		GovernanceCanBeginAt:   big.NewInt(5000),
		GovernanceThresholdBps: big.NewInt(2000),
	})
	f.apply(t, domain.GovernorFounded{EventMeta: f.meta(2, 20), ProposalID: big.NewInt(1)})

	g := f.governance(t)
	require.NotNil(t, g.Executor)
	assert.Equal(t, executor, *g.Executor)
	assert.Equal(t, int64(5000), g.GovernanceCanBeginAt.Int64())
	assert.Equal(t, int64(models.DefaultPercentMajority), g.PercentMajority.Int64())
	assert.True(t, g.IsFounded)
}

func TestIndexer_Delegation(t *testing.T) {
	f := newFixture(t)

	f.apply(t, domain.DelegateChanged{EventMeta: f.meta(1, 10), Delegator: alice, ToDelegate: bob})
	m := load(t, f, models.EntityKindMember, alice.Bytes(), &models.Member{})
	require.NotNil(t, m.Delegate)
	assert.Equal(t, bob, *m.Delegate)

	f.apply(t, domain.DelegateChanged{EventMeta: f.meta(2, 20), Delegator: alice, FromDelegate: bob})
	m = load(t, f, models.EntityKindMember, alice.Bytes(), &models.Member{})
	assert.Nil(t, m.Delegate)
	assert.Empty(t, f.metrics.warnings)

	f.apply(t, domain.DelegateVotesChanged{
		EventMeta:     f.meta(3, 30),
		Delegate:      bob,
		PreviousVotes: big.NewInt(0),
		NewVotes:      big.NewInt(250),
	})
	f.apply(t, domain.DelegateVotesChanged{
		EventMeta:     f.meta(4, 40),
		Delegate:      bob,
		PreviousVotes: big.NewInt(1),
		NewVotes:      big.NewInt(200),
	})

	d := load(t, f, models.EntityKindDelegate, bob.Bytes(), &models.Delegate{})
	assert.Equal(t, int64(200), d.DelegatedVotesBalance.Int64())
	assert.Equal(t, 1, f.metrics.warnings[usecase.WarnStaleVotes])
}

func TestIndexer_ExecutorEvents(t *testing.T) {
	f := newFixture(t)
	module := common.HexToAddress("0x0d")

	f.apply(t, domain.EnabledModule{EventMeta: f.meta(1, 10), Module: module})
	assert.True(t, f.exists(models.EntityKindExecutorModule, module.Bytes()))

	f.apply(t, domain.DisabledModule{EventMeta: f.meta(2, 20), Module: module})
	assert.False(t, f.exists(models.EntityKindExecutorModule, module.Bytes()))

	f.apply(t, domain.OperationScheduled{
		EventMeta: f.meta(3, 30),
		OpNonce:   big.NewInt(4),
		Module:    module,
		To:        alice,
		Value:     big.NewInt(1),
		Data:      []byte{0x01},
		Delay:     big.NewInt(60),
	})
	f.apply(t, domain.OperationExecuted{EventMeta: f.meta(4, 100), OpNonce: big.NewInt(4), Module: module})
	f.apply(t, domain.OperationCanceled{EventMeta: f.meta(5, 110), OpNonce: big.NewInt(9), Module: module})

	op := load(t, f, models.EntityKindExecutorOperation, domain.EncodeID(big.NewInt(4)).Bytes(), &models.ExecutorOperation{})
	assert.True(t, op.IsExecuted)
	assert.False(t, op.IsCanceled)
	assert.Equal(t, uint64(100), op.ExecutedAtTimestamp)

	shell := load(t, f, models.EntityKindExecutorOperation, domain.EncodeID(big.NewInt(9)).Bytes(), &models.ExecutorOperation{})
	assert.True(t, shell.IsCanceled)

	call := domain.CallExecuted{EventMeta: f.meta(6, 120), Target: bob, Value: big.NewInt(5)}
	f.apply(t, call)
	assert.True(t, f.exists(models.EntityKindExecutorCall, domain.LogID(call.TxHash, call.LogIndex)))

	withdrawal := domain.WithdrawalProcessed{
		EventMeta:    f.meta(7, 130),
		Account:      alice,
		Receiver:     alice,
		SharesBurned: big.NewInt(1),
		Assets:       []common.Address{common.HexToAddress("0xee")},
	}
	f.apply(t, withdrawal)
	assert.True(t, f.exists(models.EntityKindWithdrawal, domain.LogID(withdrawal.TxHash, withdrawal.LogIndex)))
	assert.Equal(t, 1, f.metrics.warnings[usecase.WarnWithdrawalArrays])
}

func TestIndexer_CheckpointAdvances(t *testing.T) {
	f := newFixture(t)

	cp, err := f.indexer.Checkpoint(f.ctx)
	require.NoError(t, err)
	assert.Nil(t, cp)

	ev := f.create(1, 5, 42, 99)
	f.apply(t, ev)
	f.apply(t, f.vote(1, alice, models.SupportFor, 1))

	cp, err = f.indexer.Checkpoint(f.ctx)
	require.NoError(t, err)
	require.NotNil(t, cp)
	assert.Equal(t, uint64(2), cp.EventsProcessed)
	assert.Equal(t, f.logIdx, cp.LogIndex)
	assert.Equal(t, 2, f.metrics.applied)
}
