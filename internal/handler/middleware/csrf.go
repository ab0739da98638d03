package middleware

import (
	"net/http"
	"net/url"

	"github.com/drugsdealer/projectX-sub003/internal/handler/httperr"
	"github.com/drugsdealer/projectX-sub003/internal/pkg/errs"

	"github.com/gin-gonic/gin"
)

var errCSRFBlocked = errs.New("cross-origin request blocked")

// SameOriginGuard gates every mutating request before rate limiting and
// business logic run. It is a pure predicate over request headers: safe
// methods always pass; mutating methods need a same-origin/same-site
// signal, or an Origin/Referer host matching the request Host.
func SameOriginGuard() gin.HandlerFunc {
	return func(c *gin.Context) {
		if isSameOrigin(c.Request) {
			c.Next()
			return
		}
		httperr.AbortWithReason(c, http.StatusForbidden, errCSRFBlocked, "csrf_blocked", "CSRF blocked")
	}
}

func isSameOrigin(r *http.Request) bool {
	switch r.Method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	}

	fetchSite := r.Header.Get("Sec-Fetch-Site")
	if fetchSite == "same-origin" || fetchSite == "same-site" {
		return true
	}

	host := r.Host
	if host == "" {
		return false
	}
	if hostMatches(r.Header.Get("Origin"), host) {
		return true
	}
	return hostMatches(r.Header.Get("Referer"), host)
}

func hostMatches(rawURL, host string) bool {
	if rawURL == "" {
		return false
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	return u.Host == host
}
