//go:build unit

package middleware_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/drugsdealer/projectX-sub003/internal/handler/middleware"
	"github.com/drugsdealer/projectX-sub003/internal/pkg/clock"
	"github.com/drugsdealer/projectX-sub003/internal/ratelimit"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLimitedRouter(clk clock.Clock, max int64) *gin.Engine {
	gin.SetMode(gin.TestMode)
	registry := ratelimit.NewRegistry(ratelimit.NewLocalStore(clk), clk)

	router := gin.New()
	router.POST("/act",
		middleware.RateLimitByIP(registry, "test:act", max, time.Minute),
		func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": true}) },
	)
	return router
}

func post(router *gin.Engine) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/act", nil)
	req.RemoteAddr = "203.0.113.4:1234"
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRateLimitByIP(t *testing.T) {
	base := time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC)

	t.Run("allows up to the limit then returns 429", func(t *testing.T) {
		clk := clock.NewMockClock(base)
		router := newLimitedRouter(clk, 2)

		w := post(router)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "1", w.Header().Get("X-RateLimit-Remaining"))

		w = post(router)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))

		w = post(router)
		require.Equal(t, http.StatusTooManyRequests, w.Code)
		assert.Contains(t, w.Body.String(), "rate_limited")

		retryAfter := w.Header().Get("Retry-After")
		require.NotEmpty(t, retryAfter)
		assert.Equal(t, "60", retryAfter)
	})

	t.Run("quota restores after the window", func(t *testing.T) {
		clk := clock.NewMockClock(base)
		router := newLimitedRouter(clk, 1)

		require.Equal(t, http.StatusOK, post(router).Code)
		require.Equal(t, http.StatusTooManyRequests, post(router).Code)

		clk.Add(time.Minute)
		assert.Equal(t, http.StatusOK, post(router).Code)
	})

	t.Run("a failing store fails open", func(t *testing.T) {
		clk := clock.NewMockClock(base)
		registry := ratelimit.NewRegistry(failingStore{}, clk)

		gin.SetMode(gin.TestMode)
		router := gin.New()
		router.POST("/act",
			middleware.RateLimitByIP(registry, "test:act", 1, time.Minute),
			func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": true}) },
		)

		for i := 0; i < 5; i++ {
			assert.Equal(t, http.StatusOK, post(router).Code)
		}
	})
}

type failingStore struct{}

func (failingStore) Incr(_ context.Context, _ string, _ time.Duration) (int64, time.Time, error) {
	return 0, time.Time{}, errors.New("backend unavailable")
}
