package monitoring

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics. It implements convert.Observer.
type Metrics struct {
	// HTTP metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	RequestSize     *prometheus.HistogramVec

	// Engine metrics
	Conversions        *prometheus.CounterVec
	ConversionDuration *prometheus.HistogramVec
	LossyConversions   *prometheus.CounterVec
	Jacobians          prometheus.Counter
	ConversionErrors   *prometheus.CounterVec

	startTime time.Time

	// Snapshot for the health endpoint
	snapshot Snapshot
	mu       sync.RWMutex
}

// Snapshot holds running totals for the JSON API.
type Snapshot struct {
	TotalRequests    int64   `json:"total_requests"`
	TotalErrors      int64   `json:"total_errors"`
	TotalConversions int64   `json:"total_conversions"`
	TotalJacobians   int64   `json:"total_jacobians"`
	UptimeSeconds    float64 `json:"uptime_seconds"`
}

// NewMetrics registers the collectors with reg. A nil reg uses the default
// Prometheus registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	m := &Metrics{
		startTime: time.Now(),

		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "vector_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "vector_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),
		RequestSize: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "vector_http_request_size_bytes",
				Help:    "HTTP request size in bytes",
				Buckets: []float64{100, 1000, 10000, 100000, 1000000, 10000000},
			},
			[]string{"method", "path"},
		),

		Conversions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "vector_conversions_total",
				Help: "Conversions by vector kind and resolution tier",
			},
			[]string{"kind", "tier"},
		),
		ConversionDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "vector_conversion_duration_seconds",
				Help:    "Conversion duration in seconds",
				Buckets: prometheus.ExponentialBuckets(1e-6, 4, 12),
			},
			[]string{"kind"},
		),
		LossyConversions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "vector_lossy_conversions_total",
				Help: "Dimension-reducing conversions reported as warnings",
			},
			[]string{"from", "to"},
		),
		Jacobians: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "vector_jacobian_evaluations_total",
				Help: "Per-element Jacobian evaluations",
			},
		),
		ConversionErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "vector_conversion_errors_total",
				Help: "Failed conversions by error category",
			},
			[]string{"category"},
		),
	}

	factory.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "vector_uptime_seconds",
			Help: "Process uptime in seconds",
		},
		func() float64 { return time.Since(m.startTime).Seconds() },
	)

	return m
}

// RecordHTTPRequest records an HTTP request.
func (m *Metrics) RecordHTTPRequest(method, path, status string, duration time.Duration, reqSize int64) {
	m.RequestsTotal.WithLabelValues(method, path, status).Inc()
	m.RequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
	m.RequestSize.WithLabelValues(method, path).Observe(float64(reqSize))

	m.mu.Lock()
	m.snapshot.TotalRequests++
	if status != "" && (status[0] == '4' || status[0] == '5') {
		m.snapshot.TotalErrors++
	}
	m.mu.Unlock()
}

// ObserveConversion records a completed conversion.
func (m *Metrics) ObserveConversion(kind, tier string, d time.Duration) {
	m.Conversions.WithLabelValues(kind, tier).Inc()
	m.ConversionDuration.WithLabelValues(kind).Observe(d.Seconds())

	m.mu.Lock()
	m.snapshot.TotalConversions++
	m.mu.Unlock()
}

// ObserveLossy records a lossy conversion warning.
func (m *Metrics) ObserveLossy(from, to string) {
	m.LossyConversions.WithLabelValues(from, to).Inc()
}

// ObserveJacobians records n Jacobian evaluations.
func (m *Metrics) ObserveJacobians(n int) {
	m.Jacobians.Add(float64(n))

	m.mu.Lock()
	m.snapshot.TotalJacobians += int64(n)
	m.mu.Unlock()
}

// RecordError records a failed conversion under its error category.
func (m *Metrics) RecordError(category string) {
	m.ConversionErrors.WithLabelValues(category).Inc()
}

// Snapshot returns the running totals.
func (m *Metrics) Snapshot() Snapshot {
	m.mu.RLock()
	s := m.snapshot
	m.mu.RUnlock()
	s.UptimeSeconds = time.Since(m.startTime).Seconds()
	return s
}
