package logger

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/smallbiznis/homestead/internal/auditcontext"
	obscontext "github.com/smallbiznis/homestead/internal/observability/context"
	"github.com/smallbiznis/homestead/pkg/telemetry/correlation"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const requestIDHeader = "X-Request-Id"

// MiddlewareConfig controls request logging behavior.
type MiddlewareConfig struct {
	Debug           bool
	ErrorClassifier func(err error) (string, string)
	// QuietRoutes are logged at debug level regardless of outcome.
	QuietRoutes []string
}

// GinMiddleware seeds the request context with request, correlation and
// audit identifiers, then emits one "http_request" line per request.
func GinMiddleware(cfg MiddlewareConfig) gin.HandlerFunc {
	quiet := make(map[string]bool, len(cfg.QuietRoutes))
	for _, route := range cfg.QuietRoutes {
		quiet[strings.ToLower(strings.TrimSpace(route))] = true
	}

	return func(c *gin.Context) {
		start := time.Now()
		seedContext(c)

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unknown"
		}
		status := c.Writer.Status()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.String("route", route),
			zap.Int("status", status),
			zap.Int64("duration_ms", time.Since(start).Milliseconds()),
			zap.Int64("bytes_in", max(c.Request.ContentLength, 0)),
			zap.Int("bytes_out", max(c.Writer.Size(), 0)),
		}
		if last := c.Errors.Last(); last != nil {
			fields = append(fields, cfg.errorFields(last.Err, status)...)
		}

		level := levelFor(status)
		if quiet[strings.ToLower(route)] {
			level = zapcore.DebugLevel
		}
		if ce := FromContext(c.Request.Context()).Check(level, "http_request"); ce != nil {
			ce.Write(fields...)
		}
	}
}

func seedContext(c *gin.Context) {
	requestID := strings.TrimSpace(c.GetHeader(requestIDHeader))
	if requestID == "" {
		requestID = uuid.NewString()
	}
	c.Set("request_id", requestID)
	c.Header(requestIDHeader, requestID)

	ctx := obscontext.WithRequestID(c.Request.Context(), requestID)
	ctx = correlation.ContextWithCorrelationID(ctx, correlation.FromHeader(c.GetHeader(correlation.HeaderName)))
	ctx, cid := correlation.EnsureCorrelationID(ctx)
	c.Header(correlation.HeaderName, cid)

	ctx = auditcontext.WithRequestID(ctx, requestID)
	ctx = auditcontext.WithIPAddress(ctx, c.ClientIP())
	ctx = auditcontext.WithUserAgent(ctx, c.Request.UserAgent())
	c.Request = c.Request.WithContext(ctx)
}

func (cfg MiddlewareConfig) errorFields(err error, status int) []zap.Field {
	var errType, errCode string
	if cfg.ErrorClassifier != nil {
		errType, errCode = cfg.ErrorClassifier(err)
	}
	fields := []zap.Field{
		zap.String("error_type", errType),
		zap.String("error_code", errCode),
	}
	if status >= http.StatusInternalServerError {
		fields = append(fields, zap.Error(err))
	}
	if cfg.Debug {
		fields = append(fields, zap.Stack("stack"))
	}
	return fields
}

func levelFor(status int) zapcore.Level {
	switch {
	case status >= http.StatusInternalServerError:
		return zapcore.ErrorLevel
	case status == http.StatusTooManyRequests:
		return zapcore.WarnLevel
	default:
		return zapcore.InfoLevel
	}
}
