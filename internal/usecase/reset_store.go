package usecase

import (
	"context"
	"fmt"

	"github.com/trebuchet-org/govindex/internal/domain/models"
)

// ResetStoreParams contains parameters for resetting the store
type ResetStoreParams struct {
	DryRun bool // If true, only count entities without deleting them
}

// ResetStoreResult contains the result of resetting the store
type ResetStoreResult struct {
	Counts map[models.EntityKind]int
	Total  int
}

// ResetStore is a use case for deleting every indexed entity and the checkpoint
type ResetStore struct {
	store EntityStore
}

// NewResetStore creates a new ResetStore use case
func NewResetStore(store EntityStore) *ResetStore {
	return &ResetStore{store: store}
}

// Run executes the reset store use case
func (uc *ResetStore) Run(ctx context.Context, params ResetStoreParams) (*ResetStoreResult, error) {
	counts, err := countEntities(ctx, uc.store)
	if err != nil {
		return nil, err
	}

	result := &ResetStoreResult{Counts: counts}
	for _, n := range counts {
		result.Total += n
	}

	if result.Total == 0 || params.DryRun {
		return result, nil
	}

	if err := uc.store.Clear(ctx); err != nil {
		return nil, fmt.Errorf("failed to reset store: %w", err)
	}
	return result, nil
}
