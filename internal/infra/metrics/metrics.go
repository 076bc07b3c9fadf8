package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics is safe to use as a nil pointer; every recorder becomes a no-op.
type Metrics struct {
	registry        *prometheus.Registry
	backendRequests *prometheus.CounterVec
	backendDuration *prometheus.HistogramVec
	httpRequests    *prometheus.CounterVec
	superseded      *prometheus.CounterVec
}

func New() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,
		backendRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "lms_backend_requests_total",
			Help: "Calls to the assistant/grading backend by endpoint and outcome.",
		}, []string{"endpoint", "outcome"}),
		backendDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "lms_backend_request_duration_seconds",
			Help:    "Latency of calls to the assistant/grading backend.",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),
		httpRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "lms_http_requests_total",
			Help: "Requests served by the connector.",
		}, []string{"method", "status"}),
		superseded: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "lms_superseded_requests_total",
			Help: "Backend calls that were overtaken by a newer call in the same slot.",
		}, []string{"slot"}),
	}
}

func (m *Metrics) ObserveBackend(endpoint, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.backendRequests.WithLabelValues(endpoint, outcome).Inc()
	m.backendDuration.WithLabelValues(endpoint).Observe(elapsed.Seconds())
}

func (m *Metrics) ObserveHTTP(method string, status int) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, strconv.Itoa(status)).Inc()
}

func (m *Metrics) Superseded(slot string) {
	if m == nil {
		return
	}
	m.superseded.WithLabelValues(slot).Inc()
}

func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}
