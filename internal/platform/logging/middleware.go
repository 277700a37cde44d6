package logging

import (
	"crypto/rand"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
)

const CtxRequestIDKey = "request_id"

// RequestLogger replaces gin.Logger: one structured line per request, with a
// ULID request id echoed in the X-Request-Id header.
func RequestLogger(log *zap.Logger) gin.HandlerFunc {
	entropy := ulid.Monotonic(rand.Reader, 0)
	return func(c *gin.Context) {
		start := time.Now()
		id, err := ulid.New(ulid.Timestamp(start.UTC()), entropy)
		reqID := ""
		if err == nil {
			reqID = id.String()
			c.Set(CtxRequestIDKey, reqID)
			c.Header("X-Request-Id", reqID)
		}

		c.Next()

		log.Info("http request",
			zap.String("request_id", reqID),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}
