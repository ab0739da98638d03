//go:build unit

package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/drugsdealer/projectX-sub003/internal/handler/middleware"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func newGuardedRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(middleware.SameOriginGuard())
	ok := func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": true}) }
	router.POST("/mutate", ok)
	router.GET("/read", ok)
	return router
}

func TestSameOriginGuard(t *testing.T) {
	cases := []struct {
		name       string
		method     string
		path       string
		headers    map[string]string
		expectCode int
	}{
		{
			name:       "GET passes without any headers",
			method:     http.MethodGet,
			path:       "/read",
			expectCode: http.StatusOK,
		},
		{
			name:       "POST with Sec-Fetch-Site same-origin",
			method:     http.MethodPost,
			path:       "/mutate",
			headers:    map[string]string{"Sec-Fetch-Site": "same-origin"},
			expectCode: http.StatusOK,
		},
		{
			name:       "POST with Sec-Fetch-Site same-site",
			method:     http.MethodPost,
			path:       "/mutate",
			headers:    map[string]string{"Sec-Fetch-Site": "same-site"},
			expectCode: http.StatusOK,
		},
		{
			name:       "POST with Sec-Fetch-Site cross-site is blocked",
			method:     http.MethodPost,
			path:       "/mutate",
			headers:    map[string]string{"Sec-Fetch-Site": "cross-site"},
			expectCode: http.StatusForbidden,
		},
		{
			name:       "POST with matching Origin host",
			method:     http.MethodPost,
			path:       "/mutate",
			headers:    map[string]string{"Origin": "http://example.com"},
			expectCode: http.StatusOK,
		},
		{
			name:       "POST with mismatched Origin host is blocked",
			method:     http.MethodPost,
			path:       "/mutate",
			headers:    map[string]string{"Origin": "http://evil.test"},
			expectCode: http.StatusForbidden,
		},
		{
			name:       "POST with matching Referer host",
			method:     http.MethodPost,
			path:       "/mutate",
			headers:    map[string]string{"Referer": "http://example.com/cart"},
			expectCode: http.StatusOK,
		},
		{
			name:       "POST with mismatched Referer host is blocked",
			method:     http.MethodPost,
			path:       "/mutate",
			headers:    map[string]string{"Referer": "http://evil.test/cart"},
			expectCode: http.StatusForbidden,
		},
		{
			name:       "POST with no origin signal at all is blocked",
			method:     http.MethodPost,
			path:       "/mutate",
			expectCode: http.StatusForbidden,
		},
		{
			name:   "matching Origin passes despite cross-site fetch metadata",
			method: http.MethodPost,
			path:   "/mutate",
			headers: map[string]string{
				"Sec-Fetch-Site": "cross-site",
				"Origin":         "http://example.com",
			},
			// Origin still matches the request host, so the request passes.
			expectCode: http.StatusOK,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			router := newGuardedRouter()

			req := httptest.NewRequest(tc.method, tc.path, strings.NewReader("{}"))
			req.Host = "example.com"
			for k, v := range tc.headers {
				req.Header.Set(k, v)
			}

			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tc.expectCode, w.Code)
			if tc.expectCode == http.StatusForbidden {
				assert.Contains(t, w.Body.String(), "csrf_blocked")
			}
		})
	}
}
