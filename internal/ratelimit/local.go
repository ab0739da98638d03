package ratelimit

import (
	"context"
	"sync"
	"time"

	"github.com/drugsdealer/projectX-sub003/internal/pkg/clock"
)

// maxEntries bounds the in-process table; expired entries are swept lazily
// once the table grows past it.
const maxEntries = 10_000

// LocalStore is the single-instance fallback counter store. Counters live in
// one process only, so effective limits multiply by replica count; deployments
// with more than one instance need the Redis store.
type LocalStore struct {
	mu      sync.Mutex
	entries map[string]*entry
	clock   clock.Clock
}

func NewLocalStore(clk clock.Clock) *LocalStore {
	return &LocalStore{
		entries: make(map[string]*entry),
		clock:   clk,
	}
}

func (s *LocalStore) Incr(_ context.Context, key string, window time.Duration) (int64, time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	s.sweep(now)

	e, ok := s.entries[key]
	if !ok || !e.resetAt.After(now) {
		resetAt := now.Add(window)
		s.entries[key] = &entry{count: 1, resetAt: resetAt}
		return 1, resetAt, nil
	}

	e.count++
	return e.count, e.resetAt, nil
}

// sweep drops expired entries; live entries are never removed. Caller holds mu.
func (s *LocalStore) sweep(now time.Time) {
	if len(s.entries) < maxEntries {
		return
	}
	for k, e := range s.entries {
		if !e.resetAt.After(now) {
			delete(s.entries, k)
		}
	}
}

// Reset clears all counters. Test hook.
func (s *LocalStore) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = make(map[string]*entry)
}

// Len reports the number of live and expired entries currently held.
func (s *LocalStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}
