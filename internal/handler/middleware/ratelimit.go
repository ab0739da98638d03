package middleware

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/drugsdealer/projectX-sub003/internal/handler/httperr"
	"github.com/drugsdealer/projectX-sub003/internal/pkg/errs"
	"github.com/drugsdealer/projectX-sub003/internal/ratelimit"

	"github.com/gin-gonic/gin"
)

var errRateLimited = errs.New("rate limit exceeded")

// RateLimitByIP limits one action scope per client IP. Keys take the form
// "<scope>:ip:<addr>" so different actions and identities never share quota.
// A counter-store failure after a healthy probe fails open: the request is
// allowed and the error is logged.
func RateLimitByIP(registry *ratelimit.Registry, scope string, max int64, window time.Duration) gin.HandlerFunc {
	limiter := registry.Limiter(max, window)

	return func(c *gin.Context) {
		key := scope + ":ip:" + clientIP(c)

		decision, err := limiter.Allow(c.Request.Context(), key)
		if err != nil {
			slog.Warn("rate limit check failed, allowing request",
				"scope", scope, "error", err)
			c.Next()
			return
		}

		c.Header("X-RateLimit-Remaining", strconv.FormatInt(decision.Remaining, 10))
		if !decision.OK {
			c.Header("Retry-After", strconv.FormatInt(int64(decision.RetryAfter/time.Second), 10))
			httperr.AbortWithReason(c, http.StatusTooManyRequests, errRateLimited,
				"rate_limited", "Too many requests, slow down")
			return
		}
		c.Next()
	}
}

func clientIP(c *gin.Context) string {
	if ip := c.ClientIP(); ip != "" {
		return ip
	}
	return "unknown"
}
