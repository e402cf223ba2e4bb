package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nutrino-ai/nutrino/internal/ports/outbound"
)

func TestCacheRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("SetThenGet_ShouldReturnValue", func(t *testing.T) {
		cache := NewCacheRepository(0)

		require.NoError(t, cache.Set(ctx, "k", []byte("v"), time.Minute))
		data, err := cache.Get(ctx, "k")

		require.NoError(t, err)
		assert.Equal(t, []byte("v"), data)
	})

	t.Run("MissingKey_ShouldBeCacheMiss", func(t *testing.T) {
		cache := NewCacheRepository(0)

		_, err := cache.Get(ctx, "missing")

		assert.ErrorIs(t, err, outbound.ErrCacheMiss)
	})

	t.Run("ExpiredKey_ShouldBeCacheMiss", func(t *testing.T) {
		cache := NewCacheRepository(0)
		require.NoError(t, cache.Set(ctx, "k", []byte("v"), time.Millisecond))

		time.Sleep(5 * time.Millisecond)

		_, err := cache.Get(ctx, "k")
		assert.ErrorIs(t, err, outbound.ErrCacheMiss)
		exists, err := cache.Exists(ctx, "k")
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("Cleanup_ShouldEvictExpiredKeys", func(t *testing.T) {
		cache := NewCacheRepository(time.Millisecond)
		defer cache.Close()
		require.NoError(t, cache.Set(ctx, "k", []byte("v"), time.Millisecond))

		assert.Eventually(t, func() bool {
			cache.mutex.RLock()
			defer cache.mutex.RUnlock()
			return len(cache.data) == 0
		}, time.Second, 5*time.Millisecond)
	})

	t.Run("Delete_ShouldRemoveKey", func(t *testing.T) {
		cache := NewCacheRepository(0)
		require.NoError(t, cache.Set(ctx, "k", []byte("v"), 0))

		require.NoError(t, cache.Delete(ctx, "k"))

		exists, err := cache.Exists(ctx, "k")
		require.NoError(t, err)
		assert.False(t, exists)
	})
}
