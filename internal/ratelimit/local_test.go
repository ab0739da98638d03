//go:build unit

package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/drugsdealer/projectX-sub003/internal/pkg/clock"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStoreIncr(t *testing.T) {
	base := time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC)
	window := time.Minute

	t.Run("counts within one window", func(t *testing.T) {
		clk := clock.NewMockClock(base)
		store := NewLocalStore(clk)

		count, resetAt, err := store.Incr(context.Background(), "k", window)
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
		assert.Equal(t, base.Add(window), resetAt)

		count, resetAt, err = store.Incr(context.Background(), "k", window)
		require.NoError(t, err)
		assert.Equal(t, int64(2), count)
		assert.Equal(t, base.Add(window), resetAt, "reset time is fixed at window start")
	})

	t.Run("fresh window after expiry", func(t *testing.T) {
		clk := clock.NewMockClock(base)
		store := NewLocalStore(clk)

		for i := 0; i < 3; i++ {
			_, _, err := store.Incr(context.Background(), "k", window)
			require.NoError(t, err)
		}

		clk.Add(window)
		count, resetAt, err := store.Incr(context.Background(), "k", window)
		require.NoError(t, err)
		assert.Equal(t, int64(1), count, "expired window starts over")
		assert.Equal(t, base.Add(2*window), resetAt)
	})

	t.Run("keys are independent", func(t *testing.T) {
		clk := clock.NewMockClock(base)
		store := NewLocalStore(clk)

		_, _, err := store.Incr(context.Background(), "a", window)
		require.NoError(t, err)
		count, _, err := store.Incr(context.Background(), "b", window)
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})
}

// Run with -race. Every increment must land: concurrent callers hammering
// one key may not lose updates, or limits silently loosen under load.
func TestLocalStoreConcurrentIncr(t *testing.T) {
	const goroutines = 100

	clk := clock.NewMockClock(time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC))
	store := NewLocalStore(clk)

	var wg sync.WaitGroup
	wg.Add(goroutines)
	for i := 0; i < goroutines; i++ {
		go func() {
			defer wg.Done()
			_, _, err := store.Incr(context.Background(), "k", time.Minute)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	count, _, err := store.Incr(context.Background(), "k", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(goroutines+1), count, "no increment may be lost")
}

func TestLocalStoreSweep(t *testing.T) {
	base := time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC)
	window := time.Minute

	clk := clock.NewMockClock(base)
	store := NewLocalStore(clk)

	for i := 0; i < maxEntries; i++ {
		_, _, err := store.Incr(context.Background(), fmt.Sprintf("old:%d", i), window)
		require.NoError(t, err)
	}
	require.Equal(t, maxEntries, store.Len())

	// All existing entries expire; the next insert triggers the sweep.
	clk.Add(window)
	_, _, err := store.Incr(context.Background(), "fresh", window)
	require.NoError(t, err)
	assert.Equal(t, 1, store.Len(), "expired entries are dropped once the table is full")

	// Live entries survive a sweep.
	store.Reset()
	for i := 0; i < maxEntries; i++ {
		_, _, err := store.Incr(context.Background(), fmt.Sprintf("live:%d", i), 10*window)
		require.NoError(t, err)
	}
	clk.Add(window)
	_, _, err = store.Incr(context.Background(), "extra", 10*window)
	require.NoError(t, err)
	assert.Equal(t, maxEntries+1, store.Len(), "live entries are never swept")
}
