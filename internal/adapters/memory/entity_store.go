package memory

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/trebuchet-org/govindex/internal/domain"
	"github.com/trebuchet-org/govindex/internal/domain/models"
	"github.com/trebuchet-org/govindex/internal/usecase"
)

// EntityStore keeps documents in process memory. Batches are applied under
// a single lock.
type EntityStore struct {
	mu   sync.RWMutex
	data map[models.EntityKind]map[string][]byte
}

// NewEntityStore creates an empty in-memory store
func NewEntityStore() *EntityStore {
	return &EntityStore{data: make(map[models.EntityKind]map[string][]byte)}
}

func (s *EntityStore) Get(ctx context.Context, kind models.EntityKind, id []byte) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, ok := s.data[kind][string(id)]
	if !ok {
		return nil, fmt.Errorf("%s %x: %w", kind, id, domain.ErrNotFound)
	}
	return bytes.Clone(data), nil
}

// Scan visits documents in ascending id order.
func (s *EntityStore) Scan(ctx context.Context, kind models.EntityKind, fn func(id, data []byte) error) error {
	s.mu.RLock()
	table := s.data[kind]
	ids := make([]string, 0, len(table))
	for id := range table {
		ids = append(ids, id)
	}
	snapshot := make(map[string][]byte, len(table))
	for id, data := range table {
		snapshot[id] = data
	}
	s.mu.RUnlock()

	sort.Strings(ids)
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := fn([]byte(id), bytes.Clone(snapshot[id])); err != nil {
			return err
		}
	}
	return nil
}

func (s *EntityStore) Apply(ctx context.Context, batch []usecase.Mutation) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, m := range batch {
		table, ok := s.data[m.Kind]
		if !ok {
			table = make(map[string][]byte)
			s.data[m.Kind] = table
		}
		if m.Delete {
			delete(table, string(m.ID))
			continue
		}
		table[string(m.ID)] = bytes.Clone(m.Data)
	}
	return nil
}

func (s *EntityStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = make(map[models.EntityKind]map[string][]byte)
	return nil
}
