package ratelimit

import (
	"context"
	"time"
)

// CounterStore abstracts "increment a counter for a key within a fixed window"
// over the in-process and Redis backends. Implementations must be safe for
// concurrent use; two increments on the same key never lose an update.
type CounterStore interface {
	// Incr bumps the counter for key, starting a fresh window when none is
	// live, and returns the post-increment count and the window's reset time.
	Incr(ctx context.Context, key string, window time.Duration) (count int64, resetAt time.Time, err error)
}

type entry struct {
	count   int64
	resetAt time.Time
}
