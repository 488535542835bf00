package graph_test

import (
	"context"
	"testing"
	"time"

	"github.com/graphops-io/tenantctl/pkg/graph"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheFactory_MemoryCache(t *testing.T) {
	config := &graph.CacheConfig{
		Type: graph.CacheTypeMemory,
		Memory: &graph.MemoryCacheConfig{
			MaxSize:         100,
			CleanupInterval: "1m",
		},
	}

	cache, err := graph.NewCacheFromConfig(config)
	require.NoError(t, err)
	require.NotNil(t, cache)

	ctx := context.Background()
	entry := &graph.CacheEntry{
		Data:      []byte(`{"value":[]}`),
		ExpiresAt: time.Now().Add(1 * time.Hour),
		ETag:      `W/"etag"`,
	}

	err = cache.Set(ctx, "contoso:GET:/v1.0/users", entry)
	assert.NoError(t, err)

	retrieved, err := cache.Get(ctx, "contoso:GET:/v1.0/users")
	require.NoError(t, err)
	assert.Equal(t, entry.Data, retrieved.Data)
	assert.Equal(t, entry.ETag, retrieved.ETag)

	assert.True(t, cache.Has(ctx, "contoso:GET:/v1.0/users"))

	err = cache.Delete(ctx, "contoso:GET:/v1.0/users")
	assert.NoError(t, err)
	assert.False(t, cache.Has(ctx, "contoso:GET:/v1.0/users"))
}

func TestCacheFactory_NoOpCache(t *testing.T) {
	config := &graph.CacheConfig{
		Type: graph.CacheTypeNone,
	}

	cache, err := graph.NewCacheFromConfig(config)
	require.NoError(t, err)
	require.NotNil(t, cache)

	ctx := context.Background()
	entry := &graph.CacheEntry{
		Data:      []byte("data"),
		ExpiresAt: time.Now().Add(1 * time.Hour),
	}

	// Set should succeed but do nothing
	err = cache.Set(ctx, "key", entry)
	assert.NoError(t, err)

	// Get should always fail
	_, err = cache.Get(ctx, "key")
	assert.Error(t, err)

	// Has should always return false
	assert.False(t, cache.Has(ctx, "key"))

	// Delete and Clear should succeed but do nothing
	assert.NoError(t, cache.Delete(ctx, "key"))
	assert.NoError(t, cache.Clear(ctx))
}

func TestCacheFactory_NATSRequiresConfig(t *testing.T) {
	cache, err := graph.NewCacheFromConfig(&graph.CacheConfig{
		Type: graph.CacheTypeNATS,
	})

	require.Error(t, err)
	assert.Nil(t, cache)
	assert.ErrorIs(t, err, graph.ErrNATSConfigRequired)
}

func TestCacheFactory_RedisRequiresConfig(t *testing.T) {
	cache, err := graph.NewCacheFromConfig(&graph.CacheConfig{
		Type: graph.CacheTypeRedis,
	})

	require.Error(t, err)
	assert.Nil(t, cache)
	assert.ErrorIs(t, err, graph.ErrRedisConfigRequired)
}

func TestCacheBuilder(t *testing.T) {
	builder := graph.NewCacheBuilder()
	cache, err := builder.
		WithType(graph.CacheTypeMemory).
		WithMemoryConfig(50, "30s").
		WithOptions(&graph.CacheOptions{
			TTL:         10 * time.Minute,
			MaxSize:     50,
			EnableETags: true,
		}).
		Build()

	require.NoError(t, err)
	require.NotNil(t, cache)

	ctx := context.Background()
	entry := &graph.CacheEntry{
		Data:      []byte("builder test"),
		ExpiresAt: time.Now().Add(1 * time.Hour),
	}

	err = cache.Set(ctx, "builder-key", entry)
	assert.NoError(t, err)

	retrieved, err := cache.Get(ctx, "builder-key")
	require.NoError(t, err)
	assert.Equal(t, entry.Data, retrieved.Data)
}

func TestCacheChain(t *testing.T) {
	l1Cache := graph.NewMemoryCache(10)
	l2Cache := graph.NewMemoryCache(100)

	chain := graph.NewCacheChain(l1Cache, l2Cache)

	ctx := context.Background()
	entry := &graph.CacheEntry{
		Data:      []byte("chain test"),
		ExpiresAt: time.Now().Add(1 * time.Hour),
	}

	// Set should store in both caches
	err := chain.Set(ctx, "chain-key", entry)
	assert.NoError(t, err)

	assert.True(t, l1Cache.Has(ctx, "chain-key"))
	assert.True(t, l2Cache.Has(ctx, "chain-key"))

	// Delete from L1 only
	err = l1Cache.Delete(ctx, "chain-key")
	assert.NoError(t, err)

	// Get should still work (from L2) and repopulate L1
	retrieved, err := chain.Get(ctx, "chain-key")
	require.NoError(t, err)
	assert.Equal(t, entry.Data, retrieved.Data)

	assert.True(t, l1Cache.Has(ctx, "chain-key"))

	// Delete from chain should delete from both
	err = chain.Delete(ctx, "chain-key")
	assert.NoError(t, err)
	assert.False(t, l1Cache.Has(ctx, "chain-key"))
	assert.False(t, l2Cache.Has(ctx, "chain-key"))
}

func TestDefaultCacheConfig(t *testing.T) {
	config := graph.DefaultCacheConfig()
	assert.Equal(t, graph.CacheTypeMemory, config.Type)
	assert.NotNil(t, config.Memory)
	assert.Equal(t, 1000, config.Memory.MaxSize)
	assert.Equal(t, "1m", config.Memory.CleanupInterval)
	assert.NotNil(t, config.Options)
}

func TestCacheFactory_InvalidType(t *testing.T) {
	config := &graph.CacheConfig{
		Type: graph.CacheType("invalid"),
	}

	cache, err := graph.NewCacheFromConfig(config)
	assert.Error(t, err)
	assert.Nil(t, cache)
	assert.Contains(t, err.Error(), "unknown cache type")
}

func TestCacheFactory_NilConfig(t *testing.T) {
	cache, err := graph.NewCacheFromConfig(nil)
	require.NoError(t, err)
	require.NotNil(t, cache)

	// Should use default config (memory cache)
	ctx := context.Background()
	entry := &graph.CacheEntry{
		Data:      []byte("default test"),
		ExpiresAt: time.Now().Add(1 * time.Hour),
	}

	err = cache.Set(ctx, "default-key", entry)
	assert.NoError(t, err)

	retrieved, err := cache.Get(ctx, "default-key")
	require.NoError(t, err)
	assert.Equal(t, entry.Data, retrieved.Data)
}
