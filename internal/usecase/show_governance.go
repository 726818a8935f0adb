package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/trebuchet-org/govindex/internal/domain"
	"github.com/trebuchet-org/govindex/internal/domain/models"
)

// GovernanceOverview is the governance singleton plus store statistics
type GovernanceOverview struct {
	Data       *models.GovernanceData
	Checkpoint *models.Checkpoint
	Counts     map[models.EntityKind]int
}

// ShowGovernance is the use case for showing protocol-wide state
type ShowGovernance struct {
	store EntityStore
}

// NewShowGovernance creates a new ShowGovernance use case
func NewShowGovernance(store EntityStore) *ShowGovernance {
	return &ShowGovernance{store: store}
}

// Run executes the show governance use case
func (uc *ShowGovernance) Run(ctx context.Context) (*GovernanceOverview, error) {
	data, err := readEntity(ctx, uc.store, models.EntityKindGovernanceData, models.GovernanceDataID, models.NewGovernanceData)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	checkpoint, err := readEntity(ctx, uc.store, models.EntityKindCheckpoint, models.CheckpointID, func() *models.Checkpoint {
		return &models.Checkpoint{}
	})
	if errors.Is(err, domain.ErrNotFound) {
		checkpoint = nil
	} else if err != nil {
		return nil, err
	}

	counts, err := countEntities(ctx, uc.store)
	if err != nil {
		return nil, err
	}

	return &GovernanceOverview{
		Data:       data,
		Checkpoint: checkpoint,
		Counts:     counts,
	}, nil
}

func countEntities(ctx context.Context, store EntityStore) (map[models.EntityKind]int, error) {
	counts := make(map[models.EntityKind]int, len(models.AllEntityKinds))
	for _, kind := range models.AllEntityKinds {
		err := store.Scan(ctx, kind, func(_, _ []byte) error {
			counts[kind]++
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to count %s: %w", kind, err)
		}
	}
	return counts, nil
}
