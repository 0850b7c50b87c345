package middleware

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"patrimon/internal/config"
)

// ContextKeyRequestID is the Gin context key carrying the request id.
const ContextKeyRequestID = "request_id"

// RequestID propagates the caller's X-Request-ID header, minting one when
// absent, so a reconciliation can be traced from upload to artifact.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Set(ContextKeyRequestID, requestID)
		c.Header("X-Request-ID", requestID)
		c.Next()
	}
}

// Logger returns request-logging middleware. Reconciliation scans can take
// seconds on large scopes, so latency is always part of the line; health
// probes are only logged at debug level to keep deploy logs readable.
func Logger(cfg config.LogConfig) gin.HandlerFunc {
	debug := cfg.Level == "debug"
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.Request.URL.Path
		if !debug && (path == "/healthz" || path == "/readyz") {
			return
		}
		log.Printf("[%s] %s %s %d %s",
			c.GetString(ContextKeyRequestID),
			c.Request.Method,
			path,
			c.Writer.Status(),
			time.Since(start),
		)
	}
}

// Recovery turns handler panics into 500 responses; a malformed spreadsheet
// must never take the server down.
func Recovery() gin.HandlerFunc {
	return gin.Recovery()
}
