package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/medpal/medpal-api/pkg/httputil"
	"github.com/medpal/medpal-api/pkg/logger"
)

// Recovery turns panics into 500 responses instead of dropped connections.
func Recovery(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.ZL.Error().
					Interface("panic", r).
					Str("path", c.Request.URL.Path).
					Str("request_id", c.GetString(ContextRequestID)).
					Msg("panic recovered")
				c.AbortWithStatusJSON(http.StatusInternalServerError, httputil.Response{
					Success: false,
					Error:   &httputil.Error{Code: http.StatusInternalServerError, Message: "internal server error"},
				})
			}
		}()
		c.Next()
	}
}
