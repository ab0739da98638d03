package httperr

import (
	"github.com/gin-gonic/gin"
)

type Response struct {
	Status int  `json:"-"`
	OK     bool `json:"ok"`
	Error  struct {
		Reason  string `json:"reason"`
		Message string `json:"message"`
	} `json:"error"`
	Detail any `json:"detail,omitempty"`
}

// preserves original error for future monitoring
func AbortWithReason(c *gin.Context, status int, err error, reason, msg string) {
	resp := Response{Status: status}
	resp.Error.Reason = reason
	resp.Error.Message = msg

	if err != nil {
		_ = c.Error(gin.Error{
			Err:  err,
			Type: gin.ErrorTypePublic,
			Meta: resp,
		})
	}
	c.AbortWithStatusJSON(status, resp)
}
