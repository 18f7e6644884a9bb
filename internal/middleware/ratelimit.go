package middleware

import (
    "fmt"
    "math"
    "net/http"
    "strconv"
    "strings"
    "sync"
    "time"

    "github.com/labstack/echo/v4"
    "github.com/redis/go-redis/v9"
    "go.uber.org/zap"
    "golang.org/x/time/rate"

    "github.com/iliyamo/mbs-backend/internal/action"
    "github.com/iliyamo/mbs-backend/internal/config"
    "github.com/iliyamo/mbs-backend/internal/metrics"
)

// MsgRateLimited is the failure message sent to a throttled client.  Like
// every action outcome it travels with a 200.
const MsgRateLimited = "rate limit exceeded"

// bucketScript keeps a fractional token level per key.  The level grows by
// one every ARGV[3] ms up to ARGV[2]; a request spends one whole token.
// It returns {allowed, whole tokens left, ms until the next token}.
var bucketScript = redis.NewScript(`
local now = tonumber(ARGV[1])
local burst = tonumber(ARGV[2])
local every = tonumber(ARGV[3])

local saved = redis.call('HMGET', KEYS[1], 'level', 'at')
local level = tonumber(saved[1]) or burst
local at = tonumber(saved[2]) or now
if now > at then
  level = math.min(burst, level + (now - at) / every)
  at = now
end

local allowed, wait = 0, 0
if level >= 1 then
  allowed = 1
  level = level - 1
else
  wait = math.ceil((1 - level) * every)
end

redis.call('HSET', KEYS[1], 'level', tostring(level), 'at', at)
redis.call('PEXPIRE', KEYS[1], ARGV[4])
return {allowed, math.floor(level), wait}
`)

// decision is the outcome of one bucket check.
type decision struct {
    allowed   bool
    remaining int64
    retry     time.Duration
}

// NewTokenBucket limits requests per key (see RateLimitConfig.KeyBy).
// With a Redis client the bucket is shared by every instance through a
// Lua script; without one each process keeps its own buckets in memory.
// A Redis error lets the request through.
func NewTokenBucket(cfg config.RateLimitConfig, rdb *redis.Client, log *zap.Logger) echo.MiddlewareFunc {
    if !cfg.Enabled {
        return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
    }
    if log == nil {
        log = zap.NewNop()
    }

    var check func(c echo.Context, key string) (decision, error)
    if rdb != nil {
        check = redisCheck(cfg, rdb)
    } else {
        check = newLocalBuckets(cfg).check
    }

    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            key := buildRateKey(cfg, c)
            d, err := check(c, key)
            if err != nil {
                if cfg.Debug {
                    log.Warn("ratelimit: check failed", zap.String("key", key), zap.Error(err))
                }
                return next(c)
            }

            c.Response().Header().Set("X-RateLimit-Limit", strconv.Itoa(cfg.Burst))
            c.Response().Header().Set("X-RateLimit-Remaining", strconv.FormatInt(d.remaining, 10))

            if !d.allowed {
                secs := int(math.Ceil(d.retry.Seconds()))
                if secs < 0 { secs = 0 }
                c.Response().Header().Set("Retry-After", strconv.Itoa(secs))
                if cfg.Debug {
                    log.Info("ratelimit: block", zap.String("key", key), zap.Duration("retry", d.retry))
                }
                metrics.RateLimited()
                return c.JSON(http.StatusOK, action.Fail(MsgRateLimited))
            }

            if cfg.Debug {
                c.Response().Header().Set("X-RateLimit-Key", key)
            }
            return next(c)
        }
    }
}

func redisCheck(cfg config.RateLimitConfig, rdb *redis.Client) func(echo.Context, string) (decision, error) {
    return func(c echo.Context, key string) (decision, error) {
        args := []interface{}{
            time.Now().UnixMilli(),
            cfg.Burst,
            cfg.Every.Milliseconds(),
            cfg.Idle.Milliseconds(),
        }
        vals, err := bucketScript.Run(c.Request().Context(), rdb, []string{key}, args...).Result()
        if err != nil {
            return decision{}, err
        }
        arr, ok := vals.([]interface{})
        if !ok || len(arr) != 3 {
            return decision{}, fmt.Errorf("unexpected script result %#v", vals)
        }
        return decision{
            allowed:   asInt64(arr[0]) == 1,
            remaining: asInt64(arr[1]),
            retry:     time.Duration(asInt64(arr[2])) * time.Millisecond,
        }, nil
    }
}

// localBuckets is the in-process fallback: one x/time/rate limiter per
// key, forgotten after Idle without traffic.
type localBuckets struct {
    mu        sync.Mutex
    every     rate.Limit
    burst     int
    ttl       time.Duration
    buckets   map[string]*localBucket
    lastSweep time.Time
}

type localBucket struct {
    lim      *rate.Limiter
    lastSeen time.Time
}

func newLocalBuckets(cfg config.RateLimitConfig) *localBuckets {
    return &localBuckets{
        every:     rate.Every(cfg.Every),
        burst:     cfg.Burst,
        ttl:       cfg.Idle,
        buckets:   make(map[string]*localBucket),
        lastSweep: time.Now(),
    }
}

func (l *localBuckets) check(_ echo.Context, key string) (decision, error) {
    now := time.Now()
    l.mu.Lock()
    defer l.mu.Unlock()

    if now.Sub(l.lastSweep) > l.ttl {
        for k, b := range l.buckets {
            if now.Sub(b.lastSeen) > l.ttl {
                delete(l.buckets, k)
            }
        }
        l.lastSweep = now
    }

    b, ok := l.buckets[key]
    if !ok {
        b = &localBucket{lim: rate.NewLimiter(l.every, l.burst)}
        l.buckets[key] = b
    }
    b.lastSeen = now

    r := b.lim.ReserveN(now, 1)
    if delay := r.DelayFrom(now); delay > 0 {
        r.CancelAt(now)
        return decision{allowed: false, retry: delay}, nil
    }
    return decision{allowed: true, remaining: int64(b.lim.TokensAt(now))}, nil
}

func asInt64(v interface{}) int64 {
    switch t := v.(type) {
    case int64: return t
    case int32: return int64(t)
    case int: return int64(t)
    case float64: return int64(t)
    case float32: return int64(t)
    case string:
        if n, err := strconv.ParseInt(t, 10, 64); err == nil { return n }
    }
    return 0
}

func buildRateKey(cfg config.RateLimitConfig, c echo.Context) string {
    parts := []string{cfg.Prefix}
    ip := c.RealIP()
    if ip == "" { ip = "unknown" }

    switch cfg.KeyBy {
    case config.RateKeyIP:
        parts = append(parts, "ip", ip)
    case config.RateKeyAction:
        parts = append(parts, "action", requestAction(c))
    default:
        parts = append(parts, "ip", ip, "action", requestAction(c))
    }
    return strings.Join(parts, ":")
}
