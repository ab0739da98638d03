//go:build unit

package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/drugsdealer/projectX-sub003/internal/pkg/clock"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLimiterAllow(t *testing.T) {
	base := time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC)

	t.Run("allows up to max then blocks", func(t *testing.T) {
		clk := clock.NewMockClock(base)
		registry := NewRegistry(NewLocalStore(clk), clk)
		limiter := registry.Limiter(3, time.Minute)

		for i := 0; i < 3; i++ {
			d, err := limiter.Allow(context.Background(), "k")
			require.NoError(t, err)
			assert.True(t, d.OK)
			assert.Equal(t, int64(2-i), d.Remaining)
		}

		d, err := limiter.Allow(context.Background(), "k")
		require.NoError(t, err)
		assert.False(t, d.OK)
		assert.Equal(t, int64(0), d.Remaining)
		assert.GreaterOrEqual(t, d.RetryAfter, time.Second)
		assert.LessOrEqual(t, d.RetryAfter, time.Minute)
	})

	t.Run("retry-after shrinks as the window ages", func(t *testing.T) {
		clk := clock.NewMockClock(base)
		registry := NewRegistry(NewLocalStore(clk), clk)
		limiter := registry.Limiter(1, time.Minute)

		_, err := limiter.Allow(context.Background(), "k")
		require.NoError(t, err)

		clk.Add(45 * time.Second)
		d, err := limiter.Allow(context.Background(), "k")
		require.NoError(t, err)
		assert.False(t, d.OK)
		assert.Equal(t, 15*time.Second, d.RetryAfter)
	})

	t.Run("retry-after is at least one second", func(t *testing.T) {
		clk := clock.NewMockClock(base)
		registry := NewRegistry(NewLocalStore(clk), clk)
		limiter := registry.Limiter(1, time.Minute)

		_, err := limiter.Allow(context.Background(), "k")
		require.NoError(t, err)

		clk.Add(time.Minute - 100*time.Millisecond)
		d, err := limiter.Allow(context.Background(), "k")
		require.NoError(t, err)
		assert.False(t, d.OK)
		assert.Equal(t, time.Second, d.RetryAfter)
	})

	t.Run("window expiry restores quota", func(t *testing.T) {
		clk := clock.NewMockClock(base)
		registry := NewRegistry(NewLocalStore(clk), clk)
		limiter := registry.Limiter(1, time.Minute)

		_, err := limiter.Allow(context.Background(), "k")
		require.NoError(t, err)
		d, err := limiter.Allow(context.Background(), "k")
		require.NoError(t, err)
		require.False(t, d.OK)

		clk.Add(time.Minute)
		d, err = limiter.Allow(context.Background(), "k")
		require.NoError(t, err)
		assert.True(t, d.OK)
	})
}

func TestRegistryCachesPerPolicy(t *testing.T) {
	clk := clock.NewMockClock(time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC))
	registry := NewRegistry(NewLocalStore(clk), clk)

	a := registry.Limiter(30, time.Minute)
	b := registry.Limiter(30, time.Minute)
	c := registry.Limiter(10, time.Minute)

	assert.Same(t, a, b, "identical policies share one limiter")
	assert.NotSame(t, a, c)
	assert.Equal(t, int64(10), c.Max())
}
