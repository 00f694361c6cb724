package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Jessmatth/Salary-Negotiation-Coach/internal/config"
)

func newMiniRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return mr, rdb
}

func TestRedis_GetSet(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	mr, rdb := newMiniRedis(t)
	r := NewRedisClient(rdb, time.Minute, "test:")

	var got stats
	ok, err := r.Get(ctx, "stats", &got)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, r.Set(ctx, "stats", stats{Total: 7, Label: "all"}))
	assert.True(t, mr.Exists("test:stats"))
	assert.Equal(t, time.Minute, mr.TTL("test:stats"))

	ok, err = r.Get(ctx, "stats", &got)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, stats{Total: 7, Label: "all"}, got)

	mr.FastForward(2 * time.Minute)
	ok, err = r.Get(ctx, "stats", &got)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedis_GetUndecodable(t *testing.T) {
	t.Parallel()
	mr, rdb := newMiniRedis(t)
	require.NoError(t, mr.Set("test:stats", "not json"))

	var got stats
	_, err := NewRedisClient(rdb, time.Minute, "test:").Get(context.Background(), "stats", &got)
	assert.Error(t, err)
}

func TestRedis_InvalidateScopedToPrefix(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	mr, rdb := newMiniRedis(t)
	r := NewRedisClient(rdb, time.Minute, "test:")

	for i := range 250 {
		require.NoError(t, r.Set(ctx, Key("role", string(rune('a'+i%26)), time.Duration(i).String()), i))
	}
	require.NoError(t, mr.Set("other:keep", "1"))
	require.NoError(t, mr.Set("unprefixed", "1"))

	require.NoError(t, r.Invalidate(ctx))

	assert.Equal(t, []string{"other:keep", "unprefixed"}, mr.Keys())
}

func TestRedis_EmptyPrefixFallsBack(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	mr, rdb := newMiniRedis(t)
	require.NoError(t, mr.Set("session:42", "shared"))

	r := NewRedisClient(rdb, time.Minute, "")
	require.NoError(t, r.Set(ctx, "stats", 1))
	assert.True(t, mr.Exists(DefaultPrefix+"stats"))

	require.NoError(t, r.Invalidate(ctx))
	assert.True(t, mr.Exists("session:42"), "keys outside the namespace survive")
	assert.False(t, mr.Exists(DefaultPrefix+"stats"))
}

func TestOpen_Redis(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	mr := miniredis.RunT(t)

	c, err := Open(ctx, config.CacheConfig{RedisURL: "redis://" + mr.Addr() + "/0", TTLSecs: 30, Prefix: "coach:"})
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	_, isRedis := c.(*Redis)
	assert.True(t, isRedis)

	require.NoError(t, c.Set(ctx, "k", "v"))
	assert.True(t, mr.Exists("coach:k"))

	_, err = Open(ctx, config.CacheConfig{RedisURL: "::not a url"})
	assert.Error(t, err)
}
