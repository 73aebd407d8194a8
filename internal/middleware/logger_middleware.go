package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/deniz/campuslink/internal/pkg/logger"
)

// RequestLogger logs one structured line per request after completion
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		event := logger.Info()
		if c.Writer.Status() >= 500 {
			event = logger.Error()
		} else if c.Writer.Status() >= 400 {
			event = logger.Warn()
		}

		event.
			Str("method", c.Request.Method).
			Str("path", path).
			Int("status", c.Writer.Status()).
			Str("clientIP", c.ClientIP()).
			Dur("latency", time.Since(start)).
			Msg("HTTP request")
	}
}
