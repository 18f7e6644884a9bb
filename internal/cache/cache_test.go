package cache

import (
    "context"
    "testing"
    "time"

    "github.com/alicebob/miniredis/v2"
    "github.com/redis/go-redis/v9"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/iliyamo/mbs-backend/internal/config"
)

func newTestCache(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
    t.Helper()
    mr := miniredis.RunT(t)
    rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
    t.Cleanup(func() { _ = rdb.Close() })
    cfg := config.CacheConfig{Enabled: true, TTL: time.Minute, Prefix: "test:cache"}
    return New(cfg, rdb, nil), mr
}

func TestKeyIgnoresInputOrder(t *testing.T) {
    c, _ := newTestCache(t)
    ctx := context.Background()

    a := c.Key(ctx, "list_movies", map[string]string{"action": "list_movies", "movie_name": "Al", "showtime": "20:00"})
    b := c.Key(ctx, "list_movies", map[string]string{"showtime": "20:00", "movie_name": "Al", "action": "list_movies"})
    other := c.Key(ctx, "list_movies", map[string]string{"action": "list_movies", "movie_name": "Be"})

    assert.Equal(t, a, b)
    assert.NotEqual(t, a, other)
    assert.Contains(t, a, "test:cache:0:list_movies:")
}

func TestSetGetAndTTL(t *testing.T) {
    c, mr := newTestCache(t)
    ctx := context.Background()
    key := c.Key(ctx, "get_movie", map[string]string{"movie_id": "1"})

    _, ok := c.Get(ctx, key)
    assert.False(t, ok)

    c.Set(ctx, key, []byte(`{"request":"0"}`))
    got, ok := c.Get(ctx, key)
    require.True(t, ok)
    assert.JSONEq(t, `{"request":"0"}`, string(got))

    mr.FastForward(2 * time.Minute)
    _, ok = c.Get(ctx, key)
    assert.False(t, ok)
}

func TestBumpChangesKeys(t *testing.T) {
    c, _ := newTestCache(t)
    ctx := context.Background()
    in := map[string]string{"movie_id": "1"}

    before := c.Key(ctx, "get_movie", in)
    c.Set(ctx, before, []byte("x"))
    c.Bump(ctx)
    after := c.Key(ctx, "get_movie", in)

    assert.NotEqual(t, before, after)
    _, ok := c.Get(ctx, after)
    assert.False(t, ok)
}

func TestUnavailableRedisDisablesCache(t *testing.T) {
    c, mr := newTestCache(t)
    ctx := context.Background()
    mr.Close()

    key := c.Key(ctx, "get_movie", map[string]string{"movie_id": "1"})
    assert.Empty(t, key)
    c.Set(ctx, key, []byte("x"))
    _, ok := c.Get(ctx, key)
    assert.False(t, ok)
}
