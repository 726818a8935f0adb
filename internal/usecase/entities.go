package usecase

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/trebuchet-org/govindex/internal/domain/models"
)

// readEntity loads and decodes a single document outside of a session.
func readEntity[T models.Entity](ctx context.Context, store EntityStore, kind models.EntityKind, id []byte, create func() T) (T, error) {
	entity := create()
	data, err := store.Get(ctx, kind, id)
	if err != nil {
		return entity, err
	}
	if err := json.Unmarshal(data, entity); err != nil {
		return entity, fmt.Errorf("failed to decode %s %x: %w", kind, id, err)
	}
	return entity, nil
}

// scanEntities decodes every document of a kind that passes keep. A nil
// keep accepts all ids.
func scanEntities[T models.Entity](ctx context.Context, store EntityStore, kind models.EntityKind, keep func(id []byte) bool, create func() T) ([]T, error) {
	var out []T
	err := store.Scan(ctx, kind, func(id, data []byte) error {
		if keep != nil && !keep(id) {
			return nil
		}
		entity := create()
		if err := json.Unmarshal(data, entity); err != nil {
			return fmt.Errorf("failed to decode %s %x: %w", kind, id, err)
		}
		out = append(out, entity)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
