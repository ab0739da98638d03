package middleware

import (
	"log/slog"
	"net/http"

	"github.com/drugsdealer/projectX-sub003/internal/handler/httperr"
	"github.com/drugsdealer/projectX-sub003/internal/pkg/errs"

	"github.com/gin-gonic/gin"
)

func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		logServerErrors(c)

		if c.Writer.Written() {
			return
		}
		// Search backward through the error stack
		for i := len(c.Errors) - 1; i >= 0; i-- {
			err := c.Errors[i]

			if err.IsType(gin.ErrorTypePublic) {
				// Public: Meta ⇒ Return as is
				if resp, ok := err.Meta.(httperr.Response); ok {
					c.JSON(resp.Status, resp)
					return
				}
			}
		}
		if status := c.Writer.Status(); status != http.StatusOK {
			c.Status(status)
			c.Writer.WriteHeaderNow()
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": gin.H{"reason": "server_error", "message": "Internal server error"}})
	}
}

// logServerErrors emits the wrapped cause chains of 5xx responses with a
// truncated stack so the client-facing body stays opaque.
func logServerErrors(c *gin.Context) {
	if c.Writer.Status() < http.StatusInternalServerError {
		return
	}
	for _, err := range c.Errors {
		if err.Err == nil {
			continue
		}
		slog.Error("request failed",
			"path", c.Request.URL.Path,
			"error", err.Err.Error(),
			"stack", errs.ExtractStackLines(err.Err, 10))
	}
}

func CustomRecovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				slog.Error("recovered from panic", "error", err, "path", c.Request.URL.Path)

				resp := httperr.Response{Status: http.StatusInternalServerError}
				resp.Error.Reason = "server_error"
				resp.Error.Message = "Internal server error"

				c.JSON(http.StatusInternalServerError, resp)
				c.Abort()
			}
		}()
		c.Next()
	}
}
