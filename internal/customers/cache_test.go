package customers

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) *SummaryCache {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewSummaryCache(client, time.Minute)
}

func TestSummaryCacheFetchAndHit(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()

	key, err := cache.Key(ctx, "customers", "ranked", "")
	require.NoError(t, err)

	loads := 0
	loader := func(ctx context.Context) (any, error) {
		loads++
		return map[string]int{"total": 42}, nil
	}

	var got map[string]int
	require.NoError(t, cache.FetchJSON(ctx, key, &got, loader))
	require.Equal(t, 42, got["total"])
	require.Equal(t, 1, loads)

	got = nil
	require.NoError(t, cache.FetchJSON(ctx, key, &got, loader))
	require.Equal(t, 42, got["total"])
	require.Equal(t, 1, loads, "second fetch must be a cache hit")
}

func TestSummaryCacheBumpInvalidates(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()

	before, err := cache.Key(ctx, "customers", "ranked", "")
	require.NoError(t, err)

	require.NoError(t, cache.Bump(ctx))

	after, err := cache.Key(ctx, "customers", "ranked", "")
	require.NoError(t, err)
	require.NotEqual(t, before, after, "bump must rotate versioned keys")
}

func TestSummaryCacheNilClientPassThrough(t *testing.T) {
	var cache *SummaryCache
	ctx := context.Background()

	key, err := cache.Key(ctx, "a", "b")
	require.NoError(t, err)
	require.Equal(t, "a:b", key)

	var got []int
	err = cache.FetchJSON(ctx, key, &got, func(ctx context.Context) (any, error) {
		return []int{1, 2, 3}, nil
	})
	require.NoError(t, err)
	require.Equal(t, []int{1, 2, 3}, got)

	require.NoError(t, cache.Bump(ctx))
}
