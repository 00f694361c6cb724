package cache

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Jessmatth/Salary-Negotiation-Coach/internal/config"
)

type stats struct {
	Total int    `json:"total"`
	Label string `json:"label"`
}

func TestMemory_GetSet(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	m := NewMemory(time.Minute)

	var got stats
	ok, err := m.Get(ctx, "stats", &got)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, m.Set(ctx, "stats", stats{Total: 5, Label: "all"}))
	ok, err = m.Get(ctx, "stats", &got)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, stats{Total: 5, Label: "all"}, got)
}

func TestMemory_Expiry(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	m := NewMemory(time.Minute)
	m.now = func() time.Time { return now }

	require.NoError(t, m.Set(ctx, "k", 1))
	now = now.Add(2 * time.Minute)

	var v int
	ok, err := m.Get(ctx, "k", &v)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemory_Invalidate(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	m := NewMemory(0)
	require.NoError(t, m.Set(ctx, "a", 1))
	require.NoError(t, m.Set(ctx, "b", 2))
	require.NoError(t, m.Invalidate(ctx))

	var v int
	ok, _ := m.Get(ctx, "a", &v)
	assert.False(t, ok)
}

func TestMemory_EncodeError(t *testing.T) {
	t.Parallel()

	err := NewMemory(0).Set(context.Background(), "bad", make(chan int))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cache: encode bad")
}

func TestFetch(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	m := NewMemory(time.Minute)
	calls := 0
	load := func(context.Context) (stats, error) {
		calls++
		return stats{Total: calls}, nil
	}

	v, err := Fetch(ctx, m, "s", load)
	require.NoError(t, err)
	assert.Equal(t, 1, v.Total)

	v, err = Fetch(ctx, m, "s", load)
	require.NoError(t, err)
	assert.Equal(t, 1, v.Total, "second read is served from cache")
	assert.Equal(t, 1, calls)
}

func TestFetch_LoadError(t *testing.T) {
	t.Parallel()

	_, err := Fetch(context.Background(), Noop{}, "s", func(context.Context) (int, error) {
		return 0, errors.New("db down")
	})
	assert.EqualError(t, err, "db down")
}

func TestFetch_Noop(t *testing.T) {
	t.Parallel()

	calls := 0
	for range 3 {
		_, err := Fetch(context.Background(), Noop{}, "s", func(context.Context) (int, error) {
			calls++
			return calls, nil
		})
		require.NoError(t, err)
	}
	assert.Equal(t, 3, calls)
}

func TestKey(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "analytics:recent:10", Key("analytics", "recent", "10"))
}

func TestOpen_MemoryWithoutURL(t *testing.T) {
	t.Parallel()

	c, err := Open(context.Background(), config.CacheConfig{TTLSecs: 60})
	require.NoError(t, err)
	_, ok := c.(*Memory)
	assert.True(t, ok)
}

func TestNewRedis_BadURL(t *testing.T) {
	t.Parallel()

	_, err := NewRedis(context.Background(), "http://localhost:6379", time.Minute, "coach:")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse redis url")
}

func TestRedis_Integration(t *testing.T) {
	url := os.Getenv("COACH_TEST_REDIS_URL")
	if url == "" {
		t.Skip("COACH_TEST_REDIS_URL not set")
	}

	ctx := context.Background()
	r, err := NewRedis(ctx, url, time.Minute, "coach-test:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = r.Close() })

	require.NoError(t, r.Set(ctx, "stats", stats{Total: 3}))
	var got stats
	ok, err := r.Get(ctx, "stats", &got)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 3, got.Total)

	require.NoError(t, r.Invalidate(ctx))
	ok, err = r.Get(ctx, "stats", &got)
	require.NoError(t, err)
	assert.False(t, ok)
}
