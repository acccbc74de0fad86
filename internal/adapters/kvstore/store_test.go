package kvstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comitanigiacomo/lectio-sync-engine/internal/core/domain"
)

// runStoreContract exercises the behaviour every backend must share.
func runStoreContract(t *testing.T, store domain.KeyValueStore) {
	ctx := context.Background()

	t.Run("Get on absent key returns ErrKeyNotFound", func(t *testing.T) {
		_, err := store.Get(ctx, "missing")
		assert.ErrorIs(t, err, domain.ErrKeyNotFound)
	})

	t.Run("Set then Get round-trips and overwrites", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, "lectio_v1_stats", `{"a":1}`))
		require.NoError(t, store.Set(ctx, "lectio_v1_stats", `{"a":2}`))

		val, err := store.Get(ctx, "lectio_v1_stats")
		require.NoError(t, err)
		assert.Equal(t, `{"a":2}`, val)
	})

	t.Run("Unicode keys are preserved", func(t *testing.T) {
		key := "bible_cache_v1_NVI_Gênesis_1"
		require.NoError(t, store.Set(ctx, key, "[]"))

		val, err := store.Get(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, "[]", val)
	})

	t.Run("Keys filters by prefix literally", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, "bible_cache_v1_NVI_João_3", "x"))
		require.NoError(t, store.Set(ctx, "bibleXcacheXv1_decoy", "x"))
		require.NoError(t, store.Set(ctx, "BIBLE_CACHE_V1_upper", "x"))

		keys, err := store.Keys(ctx, "bible_cache_v1_")
		require.NoError(t, err)

		assert.ElementsMatch(t, []string{"bible_cache_v1_NVI_Gênesis_1", "bible_cache_v1_NVI_João_3"}, keys)
	})

	t.Run("Remove deletes and tolerates absent keys", func(t *testing.T) {
		require.NoError(t, store.Remove(ctx, "bible_cache_v1_NVI_João_3"))
		require.NoError(t, store.Remove(ctx, "never-existed"))

		_, err := store.Get(ctx, "bible_cache_v1_NVI_João_3")
		assert.ErrorIs(t, err, domain.ErrKeyNotFound)
	})

	t.Run("Ping succeeds", func(t *testing.T) {
		assert.NoError(t, store.Ping(ctx))
	})
}
