package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/medpal/medpal-api/pkg/logger"
)

// RequestLogger logs one line per request with latency, status and request id.
func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		event := log.ZL.Info()
		if c.Writer.Status() >= 500 {
			event = log.ZL.Error()
		}
		event.
			Str("method", c.Request.Method).
			Str("path", path).
			Int("status", c.Writer.Status()).
			Dur("latency", time.Since(start)).
			Str("request_id", c.GetString(ContextRequestID)).
			Str("client_ip", c.ClientIP()).
			Msg("request")
	}
}
