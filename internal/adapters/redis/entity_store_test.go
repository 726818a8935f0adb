package redis

import (
	"context"
	"encoding/hex"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/govindex/internal/adapters/storetest"
	"github.com/trebuchet-org/govindex/internal/domain/models"
	"github.com/trebuchet-org/govindex/internal/usecase"
)

func setupTestRedis(t *testing.T) (*EntityStore, *miniredis.Miniredis) {
	t.Helper()
	s := miniredis.RunT(t)
	store, err := NewEntityStore("redis://"+s.Addr(), "")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store, s
}

func TestEntityStore(t *testing.T) {
	store, _ := setupTestRedis(t)
	storetest.Run(t, store)
}

func TestEntityStore_HashLayout(t *testing.T) {
	store, s := setupTestRedis(t)
	ctx := context.Background()

	id := []byte("GOVERNANCE_DATA")
	require.NoError(t, store.Apply(ctx, []usecase.Mutation{
		{Kind: models.EntityKindGovernanceData, ID: id, Data: []byte(`{"proposalCount":"1"}`)},
	}))

	assert.Equal(t, `{"proposalCount":"1"}`, s.HGet("govindex:GovernanceData", hex.EncodeToString(id)))
}

func TestNewEntityStore_BadURL(t *testing.T) {
	_, err := NewEntityStore("not a url", "")
	assert.Error(t, err)
}
