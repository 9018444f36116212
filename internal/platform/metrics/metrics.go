// Package metrics registers the Prometheus collectors exposed by the HTTP
// server.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors for the query API.
type Metrics struct {
	Requests        *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	ReportsBuilt    prometheus.Counter
	EmptySelections prometheus.Counter
}

// New creates and registers all collectors on reg. Pass a fresh registry in
// tests to avoid duplicate registration.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Requests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "censopueblos_requests_total",
			Help: "API requests by route and status code",
		}, []string{"route", "status"}),
		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "censopueblos_request_duration_seconds",
			Help:    "API request latency by route",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
		ReportsBuilt: factory.NewCounter(prometheus.CounterOpts{
			Name: "censopueblos_reports_built_total",
			Help: "Excel reports assembled for download",
		}),
		EmptySelections: factory.NewCounter(prometheus.CounterOpts{
			Name: "censopueblos_empty_selections_total",
			Help: "Requests whose filter combination matched no rows",
		}),
	}
}

// ObserveRequest records one served request.
func (m *Metrics) ObserveRequest(route, status string, elapsed time.Duration) {
	m.Requests.WithLabelValues(route, status).Inc()
	m.RequestDuration.WithLabelValues(route).Observe(elapsed.Seconds())
}
