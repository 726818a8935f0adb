package redis

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/trebuchet-org/govindex/internal/domain"
	"github.com/trebuchet-org/govindex/internal/domain/models"
	"github.com/trebuchet-org/govindex/internal/usecase"
)

const DefaultPrefix = "govindex:"

// EntityStore keeps one Redis hash per entity kind, with hex ids as fields.
// Batches run in MULTI/EXEC.
type EntityStore struct {
	client *redis.Client
	prefix string
}

// NewEntityStore connects to the Redis server at redisURL
func NewEntityStore(redisURL, prefix string) (*EntityStore, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	return NewEntityStoreWithClient(client, prefix), nil
}

// NewEntityStoreWithClient creates a store from an existing Redis client
func NewEntityStoreWithClient(client *redis.Client, prefix string) *EntityStore {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &EntityStore{client: client, prefix: prefix}
}

// Close closes the Redis client
func (s *EntityStore) Close() error {
	return s.client.Close()
}

func (s *EntityStore) key(kind models.EntityKind) string {
	return s.prefix + string(kind)
}

func (s *EntityStore) Get(ctx context.Context, kind models.EntityKind, id []byte) ([]byte, error) {
	data, err := s.client.HGet(ctx, s.key(kind), hex.EncodeToString(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("%s %x: %w", kind, id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get %s %x: %w", kind, id, err)
	}
	return data, nil
}

// Scan visits documents in ascending id order.
func (s *EntityStore) Scan(ctx context.Context, kind models.EntityKind, fn func(id, data []byte) error) error {
	all, err := s.client.HGetAll(ctx, s.key(kind)).Result()
	if err != nil {
		return fmt.Errorf("scan %s: %w", kind, err)
	}

	fields := make([]string, 0, len(all))
	for field := range all {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	for _, field := range fields {
		id, err := hex.DecodeString(field)
		if err != nil {
			return fmt.Errorf("scan %s: bad id %q: %w", kind, field, err)
		}
		if err := fn(id, []byte(all[field])); err != nil {
			return err
		}
	}
	return nil
}

func (s *EntityStore) Apply(ctx context.Context, batch []usecase.Mutation) error {
	if len(batch) == 0 {
		return nil
	}
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, m := range batch {
			field := hex.EncodeToString(m.ID)
			if m.Delete {
				pipe.HDel(ctx, s.key(m.Kind), field)
				continue
			}
			pipe.HSet(ctx, s.key(m.Kind), field, m.Data)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("apply batch: %w", err)
	}
	return nil
}

func (s *EntityStore) Clear(ctx context.Context) error {
	keys := make([]string, 0, len(models.AllEntityKinds))
	for _, kind := range models.AllEntityKinds {
		keys = append(keys, s.key(kind))
	}
	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("clear entities: %w", err)
	}
	return nil
}

// Ensure EntityStore implements usecase.EntityStore
var _ usecase.EntityStore = (*EntityStore)(nil)
