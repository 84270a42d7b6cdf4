package logger

import (
	"time"

	"github.com/gin-gonic/gin"
)

// RequestLogger returns a gin middleware that logs every request through
// the global logger. Health checks are skipped to keep the log readable.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.URL.Path == "/healthz" {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		L().Info("http request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
		)
	}
}
