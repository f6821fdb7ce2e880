package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/nandoesporte/gut59/backend/internal/logging"
)

// RequestIDHeader carries the request id in and out
const RequestIDHeader = "X-Request-ID"

// RequestLogger tags each request with an id, stores a request-scoped entry
// in its context and logs one line when the request completes
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Header(RequestIDHeader, requestID)

		entry := logging.Base().WithFields(logrus.Fields{
			"request_id": requestID,
			"method":     c.Request.Method,
			"path":       c.FullPath(),
		})
		c.Request = c.Request.WithContext(logging.WithLogger(c.Request.Context(), entry))

		c.Next()

		fields := logrus.Fields{
			"status":     c.Writer.Status(),
			"latency_ms": time.Since(start).Milliseconds(),
		}
		if userID, ok := UserID(c); ok {
			fields["user_id"] = userID
		}
		done := entry.WithFields(fields)
		switch {
		case c.Writer.Status() >= 500:
			done.Error("request completed")
		case c.Writer.Status() >= 400:
			done.Warn("request completed")
		default:
			done.Info("request completed")
		}
	}
}
