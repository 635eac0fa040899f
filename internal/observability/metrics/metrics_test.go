package metrics

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric/noop"
)

func TestFilterAttributesDropsForbiddenLabels(t *testing.T) {
	attrs := FilterAttributes(
		attribute.String("interest", "plan"),
		attribute.String("customer_email", "jane@example.com"),
		attribute.String("document", "flyer"),
	)
	require.Len(t, attrs, 2)
	assert.Equal(t, attribute.Key("interest"), attrs[0].Key)
	assert.Equal(t, attribute.Key("document"), attrs[1].Key)
}

func TestNilMetricsAreSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.RecordLeadSubmitted(context.Background(), "general")
		m.RecordUpload(context.Background(), "image", 10)
		m.RecordRateLimitDenied(context.Background(), "/api/contact", "limited")
	})
}

func TestHTTPMetricsMiddlewareCountsByRoute(t *testing.T) {
	gin.SetMode(gin.TestMode)
	reg := prometheus.NewRegistry()
	m, err := NewHTTPMetricsWithRegistry(reg)
	require.NoError(t, err)

	r := gin.New()
	r.Use(GinMiddleware(m))
	r.GET("/api/plans/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

	for _, path := range []string{"/api/plans/1", "/api/plans/2", "/missing"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(m.requests.WithLabelValues(http.MethodGet, "/api/plans/:id", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues(http.MethodGet, "unmatched", "404")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.inflight))
}

func TestNewRegistersInstruments(t *testing.T) {
	m, err := New(Config{}, noop.NewMeterProvider())
	require.NoError(t, err)
	assert.NotPanics(t, func() {
		m.RecordDocumentRendered(context.Background(), "flyer", time.Second, nil)
		m.RecordRateLimitAllowed(context.Background(), "/api/contact")
	})
}
