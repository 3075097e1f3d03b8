package metrics

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the collectors of one server instance, registered on their
// own registry.
type Metrics struct {
	Registry *prometheus.Registry

	APIRequestsTotal   *prometheus.CounterVec
	APIRequestDuration *prometheus.HistogramVec
	APIActiveRequests  prometheus.Gauge

	ProgressUpserts *prometheus.CounterVec
}

// New creates the collectors together with Go runtime and process
// collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,

		APIRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bookclub_api_requests_total",
				Help: "Total number of API requests",
			},
			[]string{"method", "route", "status"},
		),
		APIRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "bookclub_api_request_duration_seconds",
				Help:    "API request duration in seconds",
				Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
			},
			[]string{"method", "route"},
		),
		APIActiveRequests: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "bookclub_api_active_requests",
				Help: "Current number of in-flight API requests",
			},
		),

		ProgressUpserts: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bookclub_progress_upserts_total",
				Help: "Reading-progress upserts by outcome (created, updated, conflict, error)",
			},
			[]string{"outcome"},
		),
	}
}

// RecordAPIRequest records one finished request. route is the matched route
// pattern, not the raw path.
func (m *Metrics) RecordAPIRequest(method, route, status string, duration time.Duration) {
	m.APIRequestsTotal.WithLabelValues(method, route, status).Inc()
	m.APIRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// TrackActiveRequest adjusts the in-flight gauge.
func (m *Metrics) TrackActiveRequest(start bool) {
	if start {
		m.APIActiveRequests.Inc()
	} else {
		m.APIActiveRequests.Dec()
	}
}

// ObserveProgressUpsert counts one upsert outcome.
func (m *Metrics) ObserveProgressUpsert(outcome string) {
	m.ProgressUpserts.WithLabelValues(outcome).Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{}))
}
