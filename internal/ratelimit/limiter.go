package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/drugsdealer/projectX-sub003/internal/pkg/clock"
)

type Decision struct {
	OK         bool
	Remaining  int64
	ResetAt    time.Time
	RetryAfter time.Duration
}

// Limiter applies one (max, window) policy over a counter store. Keys are
// caller-built composites of an action scope and an identity, e.g.
// "promo:save:ip:203.0.113.4", so different actions never share quota.
type Limiter struct {
	store  CounterStore
	max    int64
	window time.Duration
	clock  clock.Clock
}

func (l *Limiter) Allow(ctx context.Context, key string) (Decision, error) {
	count, resetAt, err := l.store.Incr(ctx, key, l.window)
	if err != nil {
		return Decision{}, err
	}

	remaining := l.max - count
	if remaining < 0 {
		remaining = 0
	}

	d := Decision{
		OK:        count <= l.max,
		Remaining: remaining,
		ResetAt:   resetAt,
	}
	if !d.OK {
		retryAfter := resetAt.Sub(l.clock.Now())
		// Round up to whole seconds, at least one.
		if rem := retryAfter % time.Second; rem != 0 {
			retryAfter += time.Second - rem
		}
		if retryAfter < time.Second {
			retryAfter = time.Second
		}
		d.RetryAfter = retryAfter
	}
	return d, nil
}

func (l *Limiter) Max() int64            { return l.max }
func (l *Limiter) Window() time.Duration { return l.window }

// Registry hands out limiter instances cached per (max, window) pair so the
// setup cost on the distributed path is paid once per policy, not per call.
type Registry struct {
	store CounterStore
	clock clock.Clock

	mu       sync.Mutex
	limiters map[string]*Limiter
}

func NewRegistry(store CounterStore, clk clock.Clock) *Registry {
	return &Registry{
		store:    store,
		clock:    clk,
		limiters: make(map[string]*Limiter),
	}
}

func (r *Registry) Limiter(max int64, window time.Duration) *Limiter {
	cacheKey := fmt.Sprintf("%d:%d", max, window.Milliseconds())

	r.mu.Lock()
	defer r.mu.Unlock()

	if l, ok := r.limiters[cacheKey]; ok {
		return l
	}
	l := &Limiter{store: r.store, max: max, window: window, clock: r.clock}
	r.limiters[cacheKey] = l
	return l
}
