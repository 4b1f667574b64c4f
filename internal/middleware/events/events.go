// Package events provides request logging middleware
package events

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/gravadigital/tally-api/internal/logger"
)

// RequestIDHeader carries the request id back to the client
const RequestIDHeader = "X-Request-ID"

const requestIDPrefix = "req_"

// sanitizeRequestID keeps a client supplied id only when it is a canonical UUID,
// optionally prefixed with req_. Anything else is replaced.
func sanitizeRequestID(header string) string {
	raw := strings.TrimPrefix(header, requestIDPrefix)
	if len(raw) == 36 {
		if _, err := uuid.Parse(raw); err == nil {
			return header
		}
	}
	return requestIDPrefix + uuid.NewString()
}

// CreateEvent returns a middleware function that logs request details
func CreateEvent() gin.HandlerFunc {
	log := logger.HTTP()

	return func(c *gin.Context) {
		startTime := time.Now()

		requestID := sanitizeRequestID(c.GetHeader(RequestIDHeader))
		c.Set("request_id", requestID)
		c.Header(RequestIDHeader, requestID)

		log.Debug("Request started",
			"request_id", requestID,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"remote_addr", c.ClientIP(),
			"user_agent", c.Request.UserAgent(),
		)

		c.Next()

		latency := time.Since(startTime)
		status := c.Writer.Status()

		logLevel := log.Info
		if status >= 500 {
			logLevel = log.Error
		} else if status >= 400 {
			logLevel = log.Warn
		}

		fields := []interface{}{
			"request_id", requestID,
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", status,
			"latency", latency,
			"size", c.Writer.Size(),
		}
		if voterID, ok := c.Get("voter_id"); ok {
			fields = append(fields, "voter_id", voterID)
		}
		if len(c.Errors) > 0 {
			fields = append(fields, "error", c.Errors.Last().Error())
		}

		logLevel("Request completed", fields...)
	}
}
