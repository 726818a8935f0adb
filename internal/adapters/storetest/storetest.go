// Package storetest holds the behaviour every EntityStore backend must share.
package storetest

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/govindex/internal/domain"
	"github.com/trebuchet-org/govindex/internal/domain/models"
	"github.com/trebuchet-org/govindex/internal/usecase"
)

// Run exercises store against the EntityStore contract. The store must
// start empty.
func Run(t *testing.T, store usecase.EntityStore) {
	t.Helper()
	ctx := context.Background()

	idA := []byte{0x00, 0x01}
	idB := []byte{0x00, 0x02}
	idC := []byte{0xff}

	t.Run("missing entity is ErrNotFound", func(t *testing.T) {
		_, err := store.Get(ctx, models.EntityKindProposal, idA)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("apply writes and deletes", func(t *testing.T) {
		require.NoError(t, store.Apply(ctx, []usecase.Mutation{
			{Kind: models.EntityKindProposal, ID: idB, Data: []byte(`{"n":2}`)},
			{Kind: models.EntityKindProposal, ID: idA, Data: []byte(`{"n":1}`)},
			{Kind: models.EntityKindProposal, ID: idC, Data: []byte(`{"n":3}`)},
			{Kind: models.EntityKindDelegate, ID: idA, Data: []byte(`{"d":1}`)},
		}))

		data, err := store.Get(ctx, models.EntityKindProposal, idA)
		require.NoError(t, err)
		assert.JSONEq(t, `{"n":1}`, string(data))

		// Same id under another kind is a separate entity
		data, err = store.Get(ctx, models.EntityKindDelegate, idA)
		require.NoError(t, err)
		assert.JSONEq(t, `{"d":1}`, string(data))

		require.NoError(t, store.Apply(ctx, []usecase.Mutation{
			{Kind: models.EntityKindProposal, ID: idA, Data: []byte(`{"n":10}`)},
			{Kind: models.EntityKindProposal, ID: idC, Delete: true},
			{Kind: models.EntityKindMember, ID: idA, Delete: true},
		}))

		data, err = store.Get(ctx, models.EntityKindProposal, idA)
		require.NoError(t, err)
		assert.JSONEq(t, `{"n":10}`, string(data))

		_, err = store.Get(ctx, models.EntityKindProposal, idC)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("scan visits ids in byte order", func(t *testing.T) {
		var ids [][]byte
		require.NoError(t, store.Scan(ctx, models.EntityKindProposal, func(id, data []byte) error {
			ids = append(ids, id)
			assert.NotEmpty(t, data)
			return nil
		}))
		assert.Equal(t, [][]byte{idA, idB}, ids)
	})

	t.Run("scan stops on callback error", func(t *testing.T) {
		stop := errors.New("stop")
		calls := 0
		err := store.Scan(ctx, models.EntityKindProposal, func(id, data []byte) error {
			calls++
			return stop
		})
		assert.ErrorIs(t, err, stop)
		assert.Equal(t, 1, calls)
	})

	t.Run("scan of an empty kind", func(t *testing.T) {
		called := false
		require.NoError(t, store.Scan(ctx, models.EntityKindWithdrawal, func(id, data []byte) error {
			called = true
			return nil
		}))
		assert.False(t, called)
	})

	t.Run("clear removes every kind", func(t *testing.T) {
		require.NoError(t, store.Clear(ctx))
		for _, kind := range []models.EntityKind{models.EntityKindProposal, models.EntityKindDelegate} {
			_, err := store.Get(ctx, kind, idA)
			assert.ErrorIs(t, err, domain.ErrNotFound)
		}
	})
}
