package usecase

import (
	"context"

	"github.com/trebuchet-org/govindex/internal/domain"
	"github.com/trebuchet-org/govindex/internal/domain/models"
)

func (ix *Indexer) onOperationScheduled(ctx context.Context, s *Session, e domain.OperationScheduled) error {
	op, err := loadOperation(ctx, s, domain.EncodeID(e.OpNonce))
	if err != nil {
		return err
	}
	op.ApplyScheduled(e)
	s.Save(op)
	return nil
}

func (ix *Indexer) onOperationCanceled(ctx context.Context, s *Session, e domain.OperationCanceled) error {
	op, err := loadOperation(ctx, s, domain.EncodeID(e.OpNonce))
	if err != nil {
		return err
	}
	op.ApplyCanceled(e)
	s.Save(op)
	return nil
}

func (ix *Indexer) onOperationExecuted(ctx context.Context, s *Session, e domain.OperationExecuted) error {
	op, err := loadOperation(ctx, s, domain.EncodeID(e.OpNonce))
	if err != nil {
		return err
	}
	op.ApplyExecuted(e)
	s.Save(op)
	return nil
}

func (ix *Indexer) onWithdrawalProcessed(ctx context.Context, s *Session, e domain.WithdrawalProcessed) error {
	if len(e.Assets) != len(e.Payouts) {
		ix.warn(WarnWithdrawalArrays, e, "withdrawal assets and payouts differ in length",
			"assets", len(e.Assets),
			"payouts", len(e.Payouts),
		)
	}
	s.Save(models.NewWithdrawal(e))
	return nil
}
