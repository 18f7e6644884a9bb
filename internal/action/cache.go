package action

import (
	"context"
	"encoding/json"
)

// ResultCache stores serialized results of read-only catalog actions.
// Keys embed a catalog generation; Bump moves to a fresh generation so
// every entry written before it becomes unreachable.
type ResultCache interface {
	Key(ctx context.Context, action string, in map[string]string) string
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, val []byte)
	Bump(ctx context.Context)
}

// Actions whose successful results may be served from the cache.
var cacheable = map[Action]bool{
	ListMovies:  true,
	GetMovie:    true,
	ListReviews: true,
	GetTheater:  true,
}

// Actions that change what a cacheable action would return.
var catalogWrites = map[Action]bool{
	AddMovie:      true,
	DeleteMovie:   true,
	AddReview:     true,
	AddTheater:    true,
	DeleteTheater: true,
}

// cached serves a hit when one exists and stores successful results.
func cached(c ResultCache, a Action, next Handler) Handler {
	return HandlerFunc(func(ctx context.Context, in Inputs) Result {
		key := c.Key(ctx, string(a), in)
		if b, ok := c.Get(ctx, key); ok {
			var r Result
			if err := json.Unmarshal(b, &r); err == nil {
				return r
			}
		}
		res := next.Handle(ctx, in)
		if !res.Failed() {
			if b, err := json.Marshal(res); err == nil {
				c.Set(ctx, key, b)
			}
		}
		return res
	})
}

// invalidating bumps the catalog generation after a successful write.
func invalidating(c ResultCache, next Handler) Handler {
	return HandlerFunc(func(ctx context.Context, in Inputs) Result {
		res := next.Handle(ctx, in)
		if !res.Failed() {
			c.Bump(ctx)
		}
		return res
	})
}

// WithCache wraps the catalog handlers of a handler table.  A nil cache
// leaves the table untouched.
func WithCache(c ResultCache, handlers map[Action]Handler) map[Action]Handler {
	if c == nil {
		return handlers
	}
	out := make(map[Action]Handler, len(handlers))
	for a, h := range handlers {
		switch {
		case cacheable[a]:
			out[a] = cached(c, a, h)
		case catalogWrites[a]:
			out[a] = invalidating(c, h)
		default:
			out[a] = h
		}
	}
	return out
}
