package monitoring

import (
	"context"
	"database/sql"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// MetricsCollector handles Prometheus metrics collection
type MetricsCollector struct {
	logger   *zap.Logger
	registry *prometheus.Registry

	// HTTP metrics
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Generation metrics
	generationRequestsTotal *prometheus.CounterVec
	generationDuration      *prometheus.HistogramVec
	placeholderSections     *prometheus.CounterVec

	// Consistency metrics
	readRetryAttempts  *prometheus.HistogramVec
	readRetryExhausted *prometheus.CounterVec

	// System metrics
	dbConnectionsActive prometheus.Gauge
	dbConnectionsIdle   prometheus.Gauge
	cacheOperations     *prometheus.CounterVec
	uptimeSeconds       prometheus.Counter
}

// NewMetricsCollector creates a collector with its own registry, which also
// carries the Go runtime and process collectors.
func NewMetricsCollector(logger *zap.Logger) *MetricsCollector {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(registry)

	return &MetricsCollector{
		logger:   logger,
		registry: registry,

		httpRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status_code"},
		),
		httpRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path", "status_code"},
		),

		generationRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "nutrino_generation_requests_total",
				Help: "Total number of generation requests sent to the text generator",
			},
			[]string{"variant", "provider", "status"},
		),
		generationDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "nutrino_generation_duration_seconds",
				Help:    "Text generation duration in seconds",
				Buckets: []float64{0.1, 0.5, 1.0, 2.0, 5.0, 10.0, 30.0},
			},
			[]string{"variant", "provider"},
		),
		placeholderSections: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "nutrino_placeholder_sections_total",
				Help: "Sections that were absent from a generated document",
			},
			[]string{"view", "label"},
		),

		readRetryAttempts: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "nutrino_read_retry_attempts",
				Help:    "Attempts needed to read back a record",
				Buckets: []float64{1, 2, 3, 5, 8},
			},
			[]string{"collection"},
		),
		readRetryExhausted: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "nutrino_read_retry_exhausted_total",
				Help: "Reads that gave up before the record became visible",
			},
			[]string{"collection"},
		),

		dbConnectionsActive: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "db_connections_active",
				Help: "Number of active database connections",
			},
		),
		dbConnectionsIdle: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "db_connections_idle",
				Help: "Number of idle database connections",
			},
		),
		cacheOperations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cache_operations_total",
				Help: "Total number of cache operations",
			},
			[]string{"operation", "cache_type", "status"},
		),
		uptimeSeconds: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "uptime_seconds_total",
				Help: "Total uptime in seconds",
			},
		),
	}
}

// HTTPMiddleware creates a Gin middleware for HTTP metrics collection
func (m *MetricsCollector) HTTPMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		statusCode := strconv.Itoa(c.Writer.Status())

		m.httpRequestsTotal.WithLabelValues(c.Request.Method, path, statusCode).Inc()
		m.httpRequestDuration.WithLabelValues(c.Request.Method, path, statusCode).
			Observe(time.Since(start).Seconds())
	}
}

// GenerationRequest records one call to the text generator.
func (m *MetricsCollector) GenerationRequest(variant, provider, status string, duration time.Duration) {
	m.generationRequestsTotal.WithLabelValues(variant, provider, status).Inc()
	m.generationDuration.WithLabelValues(variant, provider).Observe(duration.Seconds())
}

// PlaceholderSections counts labels that fell back to the placeholder.
func (m *MetricsCollector) PlaceholderSections(view string, labels []string) {
	for _, label := range labels {
		m.placeholderSections.WithLabelValues(view, label).Inc()
	}
}

// ObserveRead records the outcome of a retried read.
func (m *MetricsCollector) ObserveRead(collection string, attempts int, found bool) {
	m.readRetryAttempts.WithLabelValues(collection).Observe(float64(attempts))
	if !found {
		m.readRetryExhausted.WithLabelValues(collection).Inc()
	}
}

// CacheOperation counts cache hits, misses and errors.
func (m *MetricsCollector) CacheOperation(operation, cacheType, status string) {
	m.cacheOperations.WithLabelValues(operation, cacheType, status).Inc()
}

// UpdateDBConnections publishes connection pool usage
func (m *MetricsCollector) UpdateDBConnections(stats sql.DBStats) {
	m.dbConnectionsActive.Set(float64(stats.InUse))
	m.dbConnectionsIdle.Set(float64(stats.Idle))
}

// StartDBStatsReporter samples pool statistics until ctx is done.
func (m *MetricsCollector) StartDBStatsReporter(ctx context.Context, db *sql.DB, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.UpdateDBConnections(db.Stats())
		}
	}
}

// StartUptimeCounter starts the uptime counter
func (m *MetricsCollector) StartUptimeCounter(ctx context.Context) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.uptimeSeconds.Inc()
		}
	}
}

// Registry exposes the underlying registry
func (m *MetricsCollector) Registry() *prometheus.Registry {
	return m.registry
}

// Handler returns the Prometheus metrics HTTP handler
func (m *MetricsCollector) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
