package logger

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/homestead/internal/auditcontext"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func observeGlobal(t *testing.T) *observer.ObservedLogs {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	restore := zap.ReplaceGlobals(zap.New(core))
	t.Cleanup(restore)
	return logs
}

func TestGinMiddleware_RequestIDAndLevels(t *testing.T) {
	gin.SetMode(gin.TestMode)
	logs := observeGlobal(t)

	var seenRequestID string
	r := gin.New()
	r.Use(GinMiddleware(MiddlewareConfig{
		QuietRoutes: []string{"/health"},
		ErrorClassifier: func(error) (string, string) {
			return "internal_error", "boom"
		},
	}))
	r.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/api/plans", func(c *gin.Context) {
		seenRequestID = auditcontext.RequestIDFromContext(c.Request.Context())
		c.Status(http.StatusOK)
	})
	r.GET("/api/fail", func(c *gin.Context) {
		_ = c.Error(errors.New("boom"))
		c.Status(http.StatusInternalServerError)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/plans", nil)
	req.Header.Set("X-Request-Id", "req-42")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "req-42", w.Header().Get("X-Request-Id"))
	assert.Equal(t, "req-42", seenRequestID)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/fail", nil))
	assert.NotEmpty(t, w.Header().Get("X-Request-Id"))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	entries := logs.FilterMessage("http_request").All()
	require.Len(t, entries, 3)
	assert.Equal(t, zapcore.InfoLevel, entries[0].Level)
	assert.Equal(t, zapcore.ErrorLevel, entries[1].Level)
	assert.Equal(t, "boom", entries[1].ContextMap()["error_code"])
	assert.Equal(t, zapcore.DebugLevel, entries[2].Level)
}

func TestLevelFor(t *testing.T) {
	assert.Equal(t, zapcore.InfoLevel, levelFor(http.StatusNotFound))
	assert.Equal(t, zapcore.WarnLevel, levelFor(http.StatusTooManyRequests))
	assert.Equal(t, zapcore.ErrorLevel, levelFor(http.StatusBadGateway))
}
