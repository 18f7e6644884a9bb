// Package cache keeps serialized results of read-only catalog actions in
// Redis.  Keys carry a catalog generation number; writers bump the
// generation instead of deleting keys, and stale entries age out by TTL.
package cache

import (
    "context"
    "crypto/sha1"
    "errors"
    "fmt"
    "sort"
    "strings"

    "github.com/redis/go-redis/v9"
    "go.uber.org/zap"

    "github.com/iliyamo/mbs-backend/internal/config"
    "github.com/iliyamo/mbs-backend/internal/metrics"
)

// RedisCache implements the action result cache on top of go-redis.
type RedisCache struct {
    rdb *redis.Client
    cfg config.CacheConfig
    log *zap.Logger
}

// New returns a cache using rdb.  Callers only install it when caching is
// enabled and a client is available.
func New(cfg config.CacheConfig, rdb *redis.Client, log *zap.Logger) *RedisCache {
    if log == nil {
        log = zap.NewNop()
    }
    return &RedisCache{rdb: rdb, cfg: cfg, log: log}
}

func (c *RedisCache) generationKey() string {
    return c.cfg.Prefix + ":gen"
}

// generation reads the current catalog generation.  A missing counter is
// generation 0.
func (c *RedisCache) generation(ctx context.Context) (string, error) {
    g, err := c.rdb.Get(ctx, c.generationKey()).Result()
    if errors.Is(err, redis.Nil) {
        return "0", nil
    }
    return g, err
}

// Key builds a stable key from the action, its inputs in sorted order and
// the current generation.  It returns "" when the generation cannot be
// read, which disables Get and Set for that call.
func (c *RedisCache) Key(ctx context.Context, action string, in map[string]string) string {
    gen, err := c.generation(ctx)
    if err != nil {
        c.log.Warn("cache: read generation failed", zap.Error(err))
        return ""
    }

    keys := make([]string, 0, len(in))
    for k := range in {
        keys = append(keys, k)
    }
    sort.Strings(keys)
    var b strings.Builder
    b.WriteString(action)
    for _, k := range keys {
        b.WriteByte('&')
        b.WriteString(k)
        b.WriteByte('=')
        b.WriteString(in[k])
    }
    sum := sha1.Sum([]byte(b.String()))
    return fmt.Sprintf("%s:%s:%s:%x", c.cfg.Prefix, gen, action, sum[:])
}

// Get returns the cached bytes for key.
func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool) {
    if key == "" {
        return nil, false
    }
    bs, err := c.rdb.Get(ctx, key).Bytes()
    if err != nil {
        if !errors.Is(err, redis.Nil) {
            c.log.Warn("cache: get failed", zap.String("key", key), zap.Error(err))
        }
        metrics.CacheLookup(false)
        return nil, false
    }
    metrics.CacheLookup(true)
    return bs, true
}

// Set stores val under key for the configured TTL.
func (c *RedisCache) Set(ctx context.Context, key string, val []byte) {
    if key == "" {
        return
    }
    if err := c.rdb.SetEx(ctx, key, val, c.cfg.TTL).Err(); err != nil {
        c.log.Warn("cache: set failed", zap.String("key", key), zap.Error(err))
    }
}

// Bump moves to a new catalog generation.
func (c *RedisCache) Bump(ctx context.Context) {
    if err := c.rdb.Incr(ctx, c.generationKey()).Err(); err != nil {
        c.log.Warn("cache: bump generation failed", zap.Error(err))
    }
}
