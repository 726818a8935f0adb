package fs

import (
	"context"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/trebuchet-org/govindex/internal/domain"
	"github.com/trebuchet-org/govindex/internal/domain/models"
	"github.com/trebuchet-org/govindex/internal/usecase"
)

const entityExt = ".json"

// EntityStore keeps one JSON document per entity under
// <root>/<kind>/<hex id>.json. Batches are written file by file, so a crash
// mid-batch can leave a partial event behind; the checkpoint is written last.
type EntityStore struct {
	root string
}

// NewEntityStore creates a file-backed store rooted at dir
func NewEntityStore(dir string) (*EntityStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create store directory: %w", err)
	}
	return &EntityStore{root: dir}, nil
}

func (s *EntityStore) path(kind models.EntityKind, id []byte) string {
	return filepath.Join(s.root, string(kind), hex.EncodeToString(id)+entityExt)
}

func (s *EntityStore) Get(_ context.Context, kind models.EntityKind, id []byte) ([]byte, error) {
	data, err := os.ReadFile(s.path(kind, id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%s %x: %w", kind, id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to read %s %x: %w", kind, id, err)
	}
	return data, nil
}

// Scan visits documents in ascending id order. Lowercase hex file names sort
// the same way as the ids they encode.
func (s *EntityStore) Scan(ctx context.Context, kind models.EntityKind, fn func(id, data []byte) error) error {
	entries, err := os.ReadDir(filepath.Join(s.root, string(kind)))
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to list %s: %w", kind, err)
	}

	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return err
		}
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, entityExt) {
			continue
		}
		id, err := hex.DecodeString(strings.TrimSuffix(name, entityExt))
		if err != nil {
			continue
		}
		data, err := s.Get(ctx, kind, id)
		if err != nil {
			return err
		}
		if err := fn(id, data); err != nil {
			return err
		}
	}
	return nil
}

func (s *EntityStore) Apply(ctx context.Context, batch []usecase.Mutation) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	// Checkpoint goes last so an interrupted batch is replayed on resume
	var checkpoint []usecase.Mutation
	for _, m := range batch {
		if m.Kind == models.EntityKindCheckpoint {
			checkpoint = append(checkpoint, m)
			continue
		}
		if err := s.apply(m); err != nil {
			return err
		}
	}
	for _, m := range checkpoint {
		if err := s.apply(m); err != nil {
			return err
		}
	}
	return nil
}

func (s *EntityStore) apply(m usecase.Mutation) error {
	path := s.path(m.Kind, m.ID)
	if m.Delete {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to delete %s %x: %w", m.Kind, m.ID, err)
		}
		return nil
	}
	return writeFileAtomic(path, m.Data)
}

// Clear removes every stored document.
func (s *EntityStore) Clear(_ context.Context) error {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		return fmt.Errorf("failed to read store directory: %w", err)
	}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		if err := os.RemoveAll(filepath.Join(s.root, entry.Name())); err != nil {
			return fmt.Errorf("failed to clear %s: %w", entry.Name(), err)
		}
	}
	return nil
}

// Ensure EntityStore implements usecase.EntityStore
var _ usecase.EntityStore = (*EntityStore)(nil)
