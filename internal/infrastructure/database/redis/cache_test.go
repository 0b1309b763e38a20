package redis

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roofsight/RoofSight-Engine/internal/config"
	"github.com/roofsight/RoofSight-Engine/internal/infrastructure/monitoring/logging"
)

type cachedReport struct {
	RequestID string  `json:"request_id"`
	TopScore  float64 `json:"top_score"`
}

func newTestCache(t *testing.T) (Cache, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client, err := NewClient(config.RedisConfig{Addr: mr.Addr()}, logging.NewNopLogger())
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	return NewCache(client, logging.NewNopLogger(), WithPrefix("test:")), mr
}

func TestCache_SetGet(t *testing.T) {
	cache, _ := newTestCache(t)
	ctx := context.Background()

	want := cachedReport{RequestID: "req-1", TopScore: 87.5}
	require.NoError(t, cache.Set(ctx, "sweep:report:req-1", want, time.Hour))

	var got cachedReport
	require.NoError(t, cache.Get(ctx, "sweep:report:req-1", &got))
	assert.Equal(t, want, got)
}

func TestCache_GetMiss(t *testing.T) {
	cache, _ := newTestCache(t)

	var got cachedReport
	err := cache.Get(context.Background(), "absent", &got)
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestCache_Delete(t *testing.T) {
	cache, _ := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "k", cachedReport{}, time.Hour))
	require.NoError(t, cache.Delete(ctx, "k"))

	exists, err := cache.Exists(ctx, "k")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestCache_GetOrSet(t *testing.T) {
	cache, _ := newTestCache(t)
	ctx := context.Background()

	calls := 0
	loader := func(_ context.Context) (interface{}, error) {
		calls++
		return cachedReport{RequestID: "req-2", TopScore: 42}, nil
	}

	var got cachedReport
	require.NoError(t, cache.GetOrSet(ctx, "k", &got, time.Hour, loader))
	assert.Equal(t, 42.0, got.TopScore)
	assert.Equal(t, 1, calls)

	// Second call is served from cache.
	var again cachedReport
	require.NoError(t, cache.GetOrSet(ctx, "k", &again, time.Hour, loader))
	assert.Equal(t, got, again)
	assert.Equal(t, 1, calls)
}

func TestCache_GetOrSet_LoaderError(t *testing.T) {
	cache, _ := newTestCache(t)

	var got cachedReport
	err := cache.GetOrSet(context.Background(), "k", &got, time.Hour, func(_ context.Context) (interface{}, error) {
		return nil, fmt.Errorf("store down")
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "store down")
}

func TestCache_GetOrSet_NullResult(t *testing.T) {
	cache, _ := newTestCache(t)
	ctx := context.Background()

	calls := 0
	loader := func(_ context.Context) (interface{}, error) {
		calls++
		return nil, nil
	}

	var got cachedReport
	assert.ErrorIs(t, cache.GetOrSet(ctx, "k", &got, time.Hour, loader), ErrCacheMiss)
	assert.Equal(t, 1, calls)

	// The null sentinel absorbs the second miss without another load.
	assert.ErrorIs(t, cache.GetOrSet(ctx, "k", &got, time.Hour, loader), ErrCacheMiss)
	assert.Equal(t, 1, calls)
}

func TestCache_DeleteByPrefix(t *testing.T) {
	cache, _ := newTestCache(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, cache.Set(ctx, fmt.Sprintf("sweep:report:req-%d", i), cachedReport{}, time.Hour))
	}
	require.NoError(t, cache.Set(ctx, "seasonal:client-1:north", cachedReport{}, time.Hour))

	deleted, err := cache.DeleteByPrefix(ctx, "sweep:report:")
	require.NoError(t, err)
	assert.Equal(t, int64(3), deleted)

	exists, err := cache.Exists(ctx, "seasonal:client-1:north")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestCache_TTLJitter(t *testing.T) {
	cache, mr := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "k", cachedReport{}, time.Hour))

	// Jitter keeps the actual TTL within +/-10% of the requested hour.
	ttl := mr.TTL("test:k")
	assert.Greater(t, ttl, 54*time.Minute)
	assert.Less(t, ttl, 66*time.Minute)
}
