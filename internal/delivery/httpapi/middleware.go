package httpapi

import (
	"crypto/subtle"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	requestIDKey    = "requestID"
	requestIDHeader = "X-Request-ID"
	apiKeyHeader    = "X-API-Key"
)

// RequestID reuses an incoming X-Request-ID or generates a new one.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader(requestIDHeader)
		if rid == "" {
			rid = uuid.NewString()
		}
		c.Set(requestIDKey, rid)
		c.Writer.Header().Set(requestIDHeader, rid)
		c.Next()
	}
}

func requestIDFrom(c *gin.Context) string {
	v, _ := c.Get(requestIDKey)
	s, _ := v.(string)
	return s
}

// AccessLog writes one structured line per request. The level follows the status.
func AccessLog(base *zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		status := c.Writer.Status()

		l := base.With().
			Str("request_id", requestIDFrom(c)).
			Str("method", c.Request.Method).
			Str("path", path).
			Str("remote_ip", c.ClientIP()).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Int("bytes_out", c.Writer.Size()).
			Logger()

		switch {
		case len(c.Errors) > 0:
			l.Error().Str("errors", c.Errors.String()).Msg("request")
		case status >= 500:
			l.Error().Msg("request")
		case status >= 400:
			l.Warn().Msg("request")
		default:
			l.Info().Msg("request")
		}
	}
}

// Recovery turns a panic into a 500 envelope.
func Recovery(base *zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				base.Error().
					Interface("panic", rec).
					Bytes("stack", debug.Stack()).
					Str("request_id", requestIDFrom(c)).
					Msg("panic recovered")

				if c.Writer.Written() {
					c.AbortWithStatus(http.StatusInternalServerError)
					return
				}
				fail(c, http.StatusInternalServerError, ErrCodeInternal, "internal server error")
			}
		}()
		c.Next()
	}
}

// APIKey rejects requests whose X-API-Key does not match key. It runs before
// any handler reads the body. An empty key rejects everything.
func APIKey(key string) gin.HandlerFunc {
	want := []byte(key)
	return func(c *gin.Context) {
		got := []byte(c.GetHeader(apiKeyHeader))
		if len(want) == 0 || subtle.ConstantTimeCompare(got, want) != 1 {
			fail(c, http.StatusUnauthorized, ErrCodeUnauthorized, "invalid api key")
			return
		}
		c.Next()
	}
}

func limitBody(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if maxBytes > 0 {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		}
		c.Next()
	}
}
