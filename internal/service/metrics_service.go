package service

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsService encapsulates Prometheus instrumentation for the HTTP
// surface and the scheduling workers.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	importsInFlight prometheus.Gauge
	importDuration  *prometheus.HistogramVec
	eventsCreated   prometheus.Counter
	importWarnings  prometheus.Counter
}

// NewMetricsService registers core Prometheus collectors.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	importsInFlight := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "agenda_imports_in_flight",
		Help: "Number of agenda imports currently running",
	})

	importDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "agenda_import_duration_seconds",
		Help:    "Duration of agenda import runs in seconds",
		Buckets: []float64{0.1, 0.5, 1, 5, 15, 60, 300},
	}, []string{"status"})

	eventsCreated := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "agenda_events_created_total",
		Help: "Total events created by schedulers",
	})

	importWarnings := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "agenda_import_warnings_total",
		Help: "Total non-fatal warnings emitted by agenda imports",
	})

	registry.MustRegister(requestDuration, requestTotal, importsInFlight, importDuration, eventsCreated, importWarnings)

	return &MetricsService{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		importsInFlight: importsInFlight,
		importDuration:  importDuration,
		eventsCreated:   eventsCreated,
		importWarnings:  importWarnings,
	}
}

// Handler returns the Prometheus scrape handler.
func (m *MetricsService) Handler() http.Handler {
	return m.handler
}

// ObserveHTTPRequest records one served HTTP request.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	labels := []string{method, path, strconv.Itoa(status)}
	m.requestDuration.WithLabelValues(labels...).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(labels...).Inc()
}

// ImportStarted marks an import run as in flight.
func (m *MetricsService) ImportStarted() {
	m.importsInFlight.Inc()
}

// ImportFinished records the outcome of an import run.
func (m *MetricsService) ImportFinished(status string, events, warnings int, duration time.Duration) {
	m.importsInFlight.Dec()
	m.importDuration.WithLabelValues(status).Observe(duration.Seconds())
	m.eventsCreated.Add(float64(events))
	m.importWarnings.Add(float64(warnings))
}

// EventsCreated records events produced outside the import worker (the
// curriculum scheduler).
func (m *MetricsService) EventsCreated(n int) {
	m.eventsCreated.Add(float64(n))
}
