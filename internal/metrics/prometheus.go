package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/ashrotd/singcoach/internal/coaching"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Manager owns the service's Prometheus collectors. It implements
// coaching.Observer.
type Manager struct {
	namespace         string
	subsystem         string
	histogramBuckets  []float64
	runtimeCollectors bool
	registry          *prometheus.Registry

	// Coaching
	feedbackTotal       *prometheus.CounterVec
	normalizeDegraded   prometheus.Counter
	providerCalls       *prometheus.CounterVec
	providerCallLatency prometheus.Histogram

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

var _ coaching.Observer = (*Manager)(nil)

// NewManager creates a metrics manager. Without WithPrometheusRegistry a
// fresh registry is used, so managers never collide in tests.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "singcoach",
		subsystem:        "",
		histogramBuckets: prometheus.DefBuckets,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.registry == nil {
		m.registry = prometheus.NewRegistry()
	}
	if m.runtimeCollectors {
		m.registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.feedbackTotal = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "feedback_total",
		Help:      "Coaching feedback requests by outcome (provider, fallback, unconfigured)",
	}, []string{"outcome"})

	m.normalizeDegraded = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "normalization_degraded_total",
		Help:      "Provider replies that could not be parsed into structured feedback",
	})

	m.providerCalls = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "provider_calls_total",
		Help:      "Provider calls by result (ok, error)",
	}, []string{"result"})

	m.providerCallLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "provider_latency_seconds",
		Help:      "Latency of provider calls in seconds",
		Buckets:   []float64{0.25, 0.5, 1, 2, 5, 10, 20, 30, 60},
	})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests by route, method and status code",
	}, []string{"route", "method", "status_code"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request duration in seconds",
		Buckets:   m.histogramBuckets,
	}, []string{"route", "method", "status_code"})
}

// ObserveFeedback counts a finished feedback request.
func (m *Manager) ObserveFeedback(outcome coaching.Outcome) {
	m.feedbackTotal.WithLabelValues(string(outcome)).Inc()
}

// ObserveDegraded counts a provider reply that fell back to the degraded
// shape.
func (m *Manager) ObserveDegraded() {
	m.normalizeDegraded.Inc()
}

// ObserveProviderCall records one provider call.
func (m *Manager) ObserveProviderCall(d time.Duration, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.providerCalls.WithLabelValues(result).Inc()
	m.providerCallLatency.Observe(d.Seconds())
}

// RecordHTTPRequest records a served HTTP request.
func (m *Manager) RecordHTTPRequest(route, method string, status int, d time.Duration) {
	code := strconv.Itoa(status)
	m.httpRequests.WithLabelValues(route, method, code).Inc()
	m.httpRequestDuration.WithLabelValues(route, method, code).Observe(d.Seconds())
}

// Registry returns the registry the manager's collectors live in.
func (m *Manager) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Manager) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
