package ports

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/cascade/pkg/domain"
)

// RunSnapshotStoreContract runs a suite of tests to verify that a
// SnapshotStore implementation adheres to the interface contract.
func RunSnapshotStoreContract(t *testing.T, store SnapshotStore) {
	ctx := context.Background()
	key := "contract-test-" + time.Now().Format("20060102150405")

	snap := &domain.EngineSnapshot{
		SavedAt:  time.Now().UTC(),
		Contexts: ContextFixture(),
	}

	t.Run("Save and Load", func(t *testing.T) {
		err := store.Save(ctx, key, snap)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, key)
		require.NoError(t, err, "Load should not return error")
		require.Len(t, loaded.Contexts, 1)
		assert.True(t, loaded.Contexts[0].Global)
		got, ok := loaded.Contexts[0].States["mode"]
		require.True(t, ok, "snapshot should keep the mode state")
		assert.True(t, got.Current.Present)
		assert.Equal(t, "playing", got.Current.Value)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+key)
		assert.ErrorIs(t, err, domain.ErrSnapshotNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, key, snap))

		err := store.Delete(ctx, key)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, key)
		assert.ErrorIs(t, err, domain.ErrSnapshotNotFound, "Load after Delete should return ErrSnapshotNotFound")
	})

	t.Run("List", func(t *testing.T) {
		id1 := key + "-1"
		id2 := key + "-2"
		_ = store.Save(ctx, id1, snap)
		_ = store.Save(ctx, id2, snap)
		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		keys, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, keys, id1)
		assert.Contains(t, keys, id2)
	})
}

// ContextFixture returns a small global-context snapshot used by the
// contract suite.
func ContextFixture() []domain.ContextSnapshot {
	return []domain.ContextSnapshot{
		{
			Global: true,
			States: map[string]domain.StateSnapshot{
				"mode": {
					Current:  domain.Some("playing"),
					Previous: domain.Some("menu"),
				},
			},
		},
	}
}
