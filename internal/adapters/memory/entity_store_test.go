package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/govindex/internal/adapters/storetest"
	"github.com/trebuchet-org/govindex/internal/domain/models"
	"github.com/trebuchet-org/govindex/internal/usecase"
)

func TestEntityStore(t *testing.T) {
	storetest.Run(t, NewEntityStore())
}

func TestEntityStore_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	store := NewEntityStore()

	data := []byte(`{"a":1}`)
	require.NoError(t, store.Apply(ctx, []usecase.Mutation{{Kind: models.EntityKindMember, ID: []byte{1}, Data: data}}))
	data[2] = 'b'

	got, err := store.Get(ctx, models.EntityKindMember, []byte{1})
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, string(got))

	got[2] = 'c'
	again, err := store.Get(ctx, models.EntityKindMember, []byte{1})
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, string(again))
}

func TestEntityStore_ApplyHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	store := NewEntityStore()
	err := store.Apply(ctx, []usecase.Mutation{{Kind: models.EntityKindMember, ID: []byte{1}, Data: []byte(`{}`)}})
	assert.ErrorIs(t, err, context.Canceled)
}
