package config

import (
    "fmt"
    "strings"
    "time"
)

// RateKey selects what a request's bucket is keyed on.
type RateKey string

const (
    RateKeyIP       RateKey = "ip"        // one bucket per client address
    RateKeyAction   RateKey = "action"    // one bucket per action name, shared by all clients
    RateKeyIPAction RateKey = "ip_action" // one bucket per client and action
)

// ParseRateKey accepts the three strategy names, ignoring case and
// surrounding space.  An empty value selects RateKeyIPAction.
func ParseRateKey(s string) (RateKey, error) {
    switch k := RateKey(strings.ToLower(strings.TrimSpace(s))); k {
    case "":
        return RateKeyIPAction, nil
    case RateKeyIP, RateKeyAction, RateKeyIPAction:
        return k, nil
    default:
        return "", fmt.Errorf("unknown rate limit key %q (want ip, action or ip_action)", s)
    }
}

// RateLimitConfig configures the token bucket in front of the action
// endpoint.  A bucket holds at most Burst requests and earns one back
// every Every; buckets untouched for Idle are dropped.
type RateLimitConfig struct {
    Enabled bool
    Burst   int
    Every   time.Duration
    Idle    time.Duration
    KeyBy   RateKey
    Prefix  string
    Debug   bool
}

// LoadRateLimitConfig reads:
//   RATE_LIMIT_ENABLED – default true
//   RATE_LIMIT_BURST – bucket size (default 60, at least 1)
//   RATE_LIMIT_EVERY – time to earn one request back (default 1s)
//   RATE_LIMIT_IDLE – bucket lifetime without traffic (default 10m, at least 5 refills)
//   RATE_LIMIT_KEY – ip, action or ip_action (default ip_action)
//   RATE_LIMIT_PREFIX – Redis key prefix (default mbs:rl)
//   RATE_LIMIT_DEBUG – log blocked requests and expose the bucket key
// An unknown key strategy is an error.
func LoadRateLimitConfig() (RateLimitConfig, error) {
    key, err := ParseRateKey(envStr("RATE_LIMIT_KEY", ""))
    if err != nil {
        return RateLimitConfig{}, err
    }
    cfg := RateLimitConfig{
        Enabled: envBool("RATE_LIMIT_ENABLED", true),
        Burst:   max(envInt("RATE_LIMIT_BURST", 60), 1),
        Every:   envDur("RATE_LIMIT_EVERY", time.Second),
        Idle:    envDur("RATE_LIMIT_IDLE", 10*time.Minute),
        KeyBy:   key,
        Prefix:  envStr("RATE_LIMIT_PREFIX", "mbs:rl"),
        Debug:   envBool("RATE_LIMIT_DEBUG", false),
    }
    if cfg.Every <= 0 {
        cfg.Every = time.Second
    }
    cfg.Idle = max(cfg.Idle, 5*cfg.Every)
    return cfg, nil
}
