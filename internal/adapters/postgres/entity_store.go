package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/trebuchet-org/govindex/internal/domain"
	"github.com/trebuchet-org/govindex/internal/domain/models"
	"github.com/trebuchet-org/govindex/internal/usecase"
)

const schema = `
	CREATE TABLE IF NOT EXISTS govindex_entities (
		kind TEXT NOT NULL,
		id BYTEA NOT NULL,
		data JSONB NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		PRIMARY KEY (kind, id)
	)
`

// EntityStore keeps entities as JSONB documents in one table keyed by
// (kind, id). Each batch runs in a single transaction.
type EntityStore struct {
	pool *pgxpool.Pool
}

// NewEntityStore connects to Postgres and creates the table if needed.
func NewEntityStore(ctx context.Context, connStr string) (*EntityStore, error) {
	cfg, err := pgxpool.ParseConfig(connStr)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("create table: %w", err)
	}
	return &EntityStore{pool: pool}, nil
}

// Close releases the connection pool
func (s *EntityStore) Close() {
	s.pool.Close()
}

func (s *EntityStore) Get(ctx context.Context, kind models.EntityKind, id []byte) ([]byte, error) {
	var data []byte
	err := s.pool.QueryRow(ctx,
		`SELECT data FROM govindex_entities WHERE kind = $1 AND id = $2`,
		string(kind), id,
	).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%s %x: %w", kind, id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get %s %x: %w", kind, id, err)
	}
	return data, nil
}

// Scan visits documents in ascending id order (bytea compares bytewise).
func (s *EntityStore) Scan(ctx context.Context, kind models.EntityKind, fn func(id, data []byte) error) error {
	rows, err := s.pool.Query(ctx,
		`SELECT id, data FROM govindex_entities WHERE kind = $1 ORDER BY id`,
		string(kind),
	)
	if err != nil {
		return fmt.Errorf("scan %s: %w", kind, err)
	}
	defer rows.Close()

	for rows.Next() {
		var id, data []byte
		if err := rows.Scan(&id, &data); err != nil {
			return fmt.Errorf("scan %s: %w", kind, err)
		}
		if err := fn(id, data); err != nil {
			return err
		}
	}
	return rows.Err()
}

func (s *EntityStore) Apply(ctx context.Context, batch []usecase.Mutation) error {
	if len(batch) == 0 {
		return nil
	}
	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		b := &pgx.Batch{}
		for _, m := range batch {
			if m.Delete {
				b.Queue(`DELETE FROM govindex_entities WHERE kind = $1 AND id = $2`, string(m.Kind), m.ID)
				continue
			}
			b.Queue(`
				INSERT INTO govindex_entities (kind, id, data) VALUES ($1, $2, $3)
				ON CONFLICT (kind, id) DO UPDATE SET data = EXCLUDED.data, updated_at = NOW()`,
				string(m.Kind), m.ID, string(m.Data),
			)
		}
		if err := tx.SendBatch(ctx, b).Close(); err != nil {
			return fmt.Errorf("apply batch: %w", err)
		}
		return nil
	})
}

func (s *EntityStore) Clear(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, `TRUNCATE govindex_entities`); err != nil {
		return fmt.Errorf("clear entities: %w", err)
	}
	return nil
}

// Ensure EntityStore implements usecase.EntityStore
var _ usecase.EntityStore = (*EntityStore)(nil)
