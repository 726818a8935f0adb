package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/trebuchet-org/govindex/internal/domain"
	"github.com/trebuchet-org/govindex/internal/domain/models"
)

type entityKey struct {
	kind models.EntityKind
	id   string
}

type cachedEntity struct {
	entity  models.Entity
	existed bool
}

// Session is the unit of work for a single event. Entities are loaded at
// most once, and every write is flushed to the store as one batch.
type Session struct {
	store   EntityStore
	loaded  map[entityKey]cachedEntity
	writes  map[entityKey]*Mutation
	order   []entityKey
	flushed bool
}

// NewSession opens a unit of work on store.
func NewSession(store EntityStore) *Session {
	return &Session{
		store:  store,
		loaded: make(map[entityKey]cachedEntity),
		writes: make(map[entityKey]*Mutation),
	}
}

// Load fetches an entity into a fresh value produced by create. It reports
// whether the entity already existed; when it did not, the fresh value is
// returned as-is so callers can treat it as a lazily created record.
func Load[T models.Entity](ctx context.Context, s *Session, kind models.EntityKind, id []byte, create func() T) (T, bool, error) {
	key := entityKey{kind: kind, id: string(id)}
	if c, ok := s.loaded[key]; ok {
		if t, ok := c.entity.(T); ok {
			return t, c.existed, nil
		}
	}
	if m, ok := s.writes[key]; ok && m.Delete {
		entity := create()
		s.loaded[key] = cachedEntity{entity: entity}
		return entity, false, nil
	}

	entity := create()
	data, err := s.store.Get(ctx, kind, id)
	if errors.Is(err, domain.ErrNotFound) {
		s.loaded[key] = cachedEntity{entity: entity}
		return entity, false, nil
	}
	if err != nil {
		return entity, false, fmt.Errorf("failed to load %s %x: %w", kind, id, err)
	}
	if err := json.Unmarshal(data, entity); err != nil {
		return entity, false, fmt.Errorf("failed to decode %s %x: %w", kind, id, err)
	}
	s.loaded[key] = cachedEntity{entity: entity, existed: true}
	return entity, true, nil
}

// Save stages an entity for writing.
func (s *Session) Save(e models.Entity) {
	key := entityKey{kind: e.EntityKind(), id: string(e.EntityID())}
	c := s.loaded[key]
	s.loaded[key] = cachedEntity{entity: e, existed: c.existed}
	s.stage(key, &Mutation{Kind: e.EntityKind(), ID: e.EntityID()})
}

// Delete stages the removal of an entity.
func (s *Session) Delete(kind models.EntityKind, id []byte) {
	key := entityKey{kind: kind, id: string(id)}
	delete(s.loaded, key)
	s.stage(key, &Mutation{Kind: kind, ID: id, Delete: true})
}

func (s *Session) stage(key entityKey, m *Mutation) {
	if _, ok := s.writes[key]; !ok {
		s.order = append(s.order, key)
	}
	s.writes[key] = m
}

// Pending returns the number of staged writes
func (s *Session) Pending() int {
	return len(s.order)
}

// Flush encodes staged entities and applies them in a single batch.
func (s *Session) Flush(ctx context.Context) error {
	if s.flushed {
		return fmt.Errorf("session already flushed")
	}
	batch := make([]Mutation, 0, len(s.order))
	for _, key := range s.order {
		m := *s.writes[key]
		if !m.Delete {
			data, err := json.Marshal(s.loaded[key].entity)
			if err != nil {
				return fmt.Errorf("failed to encode %s %x: %w", m.Kind, m.ID, err)
			}
			m.Data = data
		}
		batch = append(batch, m)
	}
	if err := s.store.Apply(ctx, batch); err != nil {
		return fmt.Errorf("failed to apply batch of %d writes: %w", len(batch), err)
	}
	s.flushed = true
	return nil
}
