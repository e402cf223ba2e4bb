package monitoring

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

func TestMetricsCollector_ShouldRecordDomainMetrics(t *testing.T) {
	// Arrange
	m := NewMetricsCollector(zap.NewNop())

	// Act
	m.GenerationRequest("recipe", "static", "success", 150*time.Millisecond)
	m.PlaceholderSections("recipe", []string{"Nutritional Information"})
	m.ObserveRead("recipes", 3, false)
	m.ObserveRead("recipes", 1, true)
	m.CacheOperation("get", "generation", "hit")

	// Assert
	assert.Equal(t, 1.0, testutil.ToFloat64(m.generationRequestsTotal.WithLabelValues("recipe", "static", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.placeholderSections.WithLabelValues("recipe", "Nutritional Information")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.readRetryExhausted.WithLabelValues("recipes")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.cacheOperations.WithLabelValues("get", "generation", "hit")))
}

func TestMetricsCollector_IndependentInstances_ShouldNotConflict(t *testing.T) {
	assert.NotPanics(t, func() {
		NewMetricsCollector(zap.NewNop())
		NewMetricsCollector(zap.NewNop())
	})
}

func TestHTTPMiddleware_ShouldCountRequestsAndExposeThem(t *testing.T) {
	// Arrange
	gin.SetMode(gin.TestMode)
	m := NewMetricsCollector(zap.NewNop())
	router := gin.New()
	router.Use(m.HTTPMiddleware())
	router.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	router.GET("/metrics", gin.WrapH(m.Handler()))

	// Act
	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/ping", nil))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	// Assert
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpRequestsTotal.WithLabelValues("GET", "/ping", "200")))
	assert.True(t, strings.Contains(rec.Body.String(), "http_requests_total"))
}

func TestTracingProvider_Disabled_ShouldHandOutNoopSpans(t *testing.T) {
	tp, err := NewTracingProvider(TracingConfig{ServiceName: "nutrino", Enabled: false}, zap.NewNop())
	require.NoError(t, err)

	ctx, span := tp.Tracer().Start(context.Background(), "GET /")
	span.End()

	assert.False(t, trace.SpanContextFromContext(ctx).IsValid())
	assert.NoError(t, tp.Shutdown(context.Background()))
}
