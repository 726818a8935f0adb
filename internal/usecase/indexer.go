package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/govindex/internal/domain"
	"github.com/trebuchet-org/govindex/internal/domain/models"
)

// Consistency warning kinds
const (
	WarnStaleParameter   = "stale_parameter"
	WarnStaleVotes       = "stale_delegated_votes"
	WarnStaleDelegate    = "stale_delegate"
	WarnUnknownSupport   = "unknown_support"
	WarnActionArrays     = "action_array_length"
	WarnWithdrawalArrays = "withdrawal_array_length"
	WarnNegativeBalance  = "negative_balance"
	WarnNegativeSupply   = "negative_supply"
)

// Indexer applies decoded events to the entity store, one unit of work per event
type Indexer struct {
	store   EntityStore
	metrics IngestMetrics
	log     *slog.Logger
	now     func() time.Time
}

// NewIndexer creates a new Indexer
func NewIndexer(store EntityStore, metrics IngestMetrics, log *slog.Logger) *Indexer {
	return &Indexer{
		store:   store,
		metrics: metrics,
		log:     log.With("component", "indexer"),
		now:     time.Now,
	}
}

// Apply handles a single event and advances the checkpoint in the same batch.
func (ix *Indexer) Apply(ctx context.Context, ev domain.Event) error {
	start := ix.now()
	s := NewSession(ix.store)

	if err := ix.handle(ctx, s, ev); err != nil {
		return fmt.Errorf("failed to handle %s: %w", domain.Describe(ev), err)
	}

	cp, _, err := Load(ctx, s, models.EntityKindCheckpoint, models.CheckpointID, func() *models.Checkpoint {
		return &models.Checkpoint{}
	})
	if err != nil {
		return err
	}
	cp.Advance(ev.Position(), ix.now())
	s.Save(cp)

	if err := s.Flush(ctx); err != nil {
		return fmt.Errorf("failed to persist %s: %w", domain.Describe(ev), err)
	}

	ix.metrics.EventApplied(ev.ContractEventName(), ix.now().Sub(start))
	ix.metrics.CheckpointAdvanced(ev.Position())
	return nil
}

// Checkpoint returns the last applied position, or nil before the first event.
func (ix *Indexer) Checkpoint(ctx context.Context) (*models.Checkpoint, error) {
	cp, err := readEntity(ctx, ix.store, models.EntityKindCheckpoint, models.CheckpointID, func() *models.Checkpoint {
		return &models.Checkpoint{}
	})
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil
	}
	return cp, err
}

func (ix *Indexer) handle(ctx context.Context, s *Session, ev domain.Event) error {
	switch e := ev.(type) {
	// Governor
	case domain.ProposalCreated:
		return ix.onProposalCreated(ctx, s, e)
	case domain.ProposalDeadlineExtended:
		return ix.onProposalDeadlineExtended(ctx, s, e)
	case domain.ProposalQueued:
		return ix.onProposalQueued(ctx, s, e)
	case domain.ProposalExecuted:
		return ix.onProposalExecuted(ctx, s, e)
	case domain.ProposalCanceled:
		return ix.onProposalCanceled(ctx, s, e)
	case domain.VoteCast:
		return ix.onVote(ctx, s, e.WithParams())
	case domain.VoteCastWithParams:
		return ix.onVote(ctx, s, e)
	case domain.RoleGranted:
		return ix.onRoleGranted(ctx, s, e)
	case domain.RoleRevoked:
		return ix.onRoleRevoked(ctx, s, e)
	case domain.GovernorBaseInitialized:
		return ix.onGovernorBaseInitialized(ctx, s, e)
	case domain.GovernorFounded:
		return ix.onGovernorFounded(ctx, s, e)
	case domain.ParameterUpdated:
		return ix.onParameterUpdated(ctx, s, e)
	case domain.AddressParameterUpdated:
		return ix.onAddressParameterUpdated(ctx, s, e)

	// Token
	case domain.Transfer:
		return ix.onTransfer(ctx, s, e)
	case domain.DelegateChanged:
		return ix.onDelegateChanged(ctx, s, e)
	case domain.DelegateVotesChanged:
		return ix.onDelegateVotesChanged(ctx, s, e)

	// Executor
	case domain.EnabledModule:
		s.Save(models.NewExecutorModule(e))
		return nil
	case domain.DisabledModule:
		s.Delete(models.EntityKindExecutorModule, e.Module.Bytes())
		return nil
	case domain.CallExecuted:
		s.Save(models.NewExecutorCall(e))
		return nil
	case domain.OperationScheduled:
		return ix.onOperationScheduled(ctx, s, e)
	case domain.OperationCanceled:
		return ix.onOperationCanceled(ctx, s, e)
	case domain.OperationExecuted:
		return ix.onOperationExecuted(ctx, s, e)
	case domain.DepositRegistered:
		s.Save(models.NewDeposit(e))
		return nil
	case domain.WithdrawalProcessed:
		return ix.onWithdrawalProcessed(ctx, s, e)

	default:
		return fmt.Errorf("%w: %T", domain.ErrUnknownEvent, ev)
	}
}

// warn reports a consistency problem that does not stop processing.
func (ix *Indexer) warn(kind string, ev domain.Event, msg string, args ...any) {
	m := ev.Metadata()
	args = append(args,
		"kind", kind,
		"event", ev.ContractEventName(),
		"block", m.BlockNumber,
		"logIndex", m.LogIndex,
	)
	ix.log.Warn(msg, args...)
	ix.metrics.ConsistencyWarning(kind)
}

func loadProposal(ctx context.Context, s *Session, id common.Hash) (*models.Proposal, error) {
	p, _, err := Load(ctx, s, models.EntityKindProposal, id.Bytes(), func() *models.Proposal {
		return models.NewProposal(id)
	})
	return p, err
}

func loadGovernance(ctx context.Context, s *Session) (*models.GovernanceData, error) {
	g, _, err := Load(ctx, s, models.EntityKindGovernanceData, models.GovernanceDataID, models.NewGovernanceData)
	return g, err
}

func loadMember(ctx context.Context, s *Session, account common.Address) (*models.Member, error) {
	m, _, err := Load(ctx, s, models.EntityKindMember, account.Bytes(), func() *models.Member {
		return models.NewMember(account)
	})
	return m, err
}

func loadOperation(ctx context.Context, s *Session, id common.Hash) (*models.ExecutorOperation, error) {
	op, _, err := Load(ctx, s, models.EntityKindExecutorOperation, id.Bytes(), func() *models.ExecutorOperation {
		return models.NewExecutorOperation(id)
	})
	return op, err
}
