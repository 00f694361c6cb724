package cache

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/Jessmatth/Salary-Negotiation-Coach/internal/config"
	"github.com/Jessmatth/Salary-Negotiation-Coach/internal/resilience"
)

// Redis is a Cache backed by a Redis server. Every key is namespaced with
// the configured prefix so Invalidate only touches this service's entries.
type Redis struct {
	rdb    *redis.Client
	ttl    time.Duration
	prefix string
}

// NewRedis parses redisURL, connects and verifies the connection with PING.
func NewRedis(ctx context.Context, redisURL string, ttl time.Duration, prefix string) (*Redis, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, eris.Wrap(err, "cache: parse redis url")
	}

	rdb := redis.NewClient(opts)
	err = resilience.Do(ctx, resilience.ConnectPolicy("redis connect"), func(ctx context.Context) error {
		return rdb.Ping(ctx).Err()
	})
	if err != nil {
		_ = rdb.Close()
		return nil, eris.Wrap(err, "cache: redis ping")
	}

	zap.L().Info("cache: connected to redis", zap.String("addr", opts.Addr), zap.Duration("ttl", ttl))
	return NewRedisClient(rdb, ttl, prefix), nil
}

// DefaultPrefix namespaces keys when no prefix is configured.
const DefaultPrefix = "coach:"

// NewRedisClient wraps an existing client. An empty prefix falls back to
// DefaultPrefix so Invalidate never scans the whole database.
func NewRedisClient(rdb *redis.Client, ttl time.Duration, prefix string) *Redis {
	if strings.TrimSpace(prefix) == "" {
		prefix = DefaultPrefix
	}
	return &Redis{rdb: rdb, ttl: ttl, prefix: prefix}
}

func (r *Redis) Get(ctx context.Context, key string, dst any) (bool, error) {
	data, err := r.rdb.Get(ctx, r.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, eris.Wrapf(err, "cache: get %s", key)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return false, eris.Wrapf(err, "cache: decode %s", key)
	}
	return true, nil
}

func (r *Redis) Set(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return eris.Wrapf(err, "cache: encode %s", key)
	}
	if err := r.rdb.Set(ctx, r.prefix+key, data, r.ttl).Err(); err != nil {
		return eris.Wrapf(err, "cache: set %s", key)
	}
	return nil
}

// Invalidate deletes every key under the prefix using SCAN so large
// keyspaces are not blocked.
func (r *Redis) Invalidate(ctx context.Context) error {
	var deleted int
	iter := r.rdb.Scan(ctx, 0, r.prefix+"*", 100).Iterator()
	var batch []string
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == 100 {
			if err := r.rdb.Del(ctx, batch...).Err(); err != nil {
				return eris.Wrap(err, "cache: invalidate")
			}
			deleted += len(batch)
			batch = batch[:0]
		}
	}
	if err := iter.Err(); err != nil {
		return eris.Wrap(err, "cache: scan")
	}
	if len(batch) > 0 {
		if err := r.rdb.Del(ctx, batch...).Err(); err != nil {
			return eris.Wrap(err, "cache: invalidate")
		}
		deleted += len(batch)
	}

	zap.L().Info("cache: invalidated", zap.String("prefix", r.prefix), zap.Int("keys", deleted))
	return nil
}

func (r *Redis) Close() error {
	return r.rdb.Close()
}

// Open returns a Redis cache when cfg names a server, and an in-memory cache
// otherwise.
func Open(ctx context.Context, cfg config.CacheConfig) (Cache, error) {
	ttl := time.Duration(cfg.TTLSecs) * time.Second
	if cfg.RedisURL == "" {
		return NewMemory(ttl), nil
	}
	r, err := NewRedis(ctx, cfg.RedisURL, ttl, cfg.Prefix)
	if err != nil {
		return nil, err
	}
	return r, nil
}
