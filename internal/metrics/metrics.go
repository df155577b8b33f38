package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry holds the Prometheus metrics exported at /metrics. It owns its
// own prometheus registry so more than one instance can exist in tests.
type Registry struct {
	prom *prometheus.Registry

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	LocationPingsTotal prometheus.Counter
	ActiveLiveTreks    prometheus.Gauge
	BookingsTotal      prometheus.Counter
}

func NewRegistry() *Registry {
	prom := prometheus.NewRegistry()
	factory := promauto.With(prom)

	return &Registry{
		prom: prom,
		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "treks_http_requests_total",
				Help: "Total HTTP requests processed by endpoint, method, and status code",
			},
			[]string{"endpoint", "method", "status_code"},
		),
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "treks_http_request_duration_seconds",
				Help:    "HTTP request latency distribution in seconds",
				Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
			},
			[]string{"endpoint", "method"},
		),
		LocationPingsTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "treks_gps_location_pings_total",
				Help: "Total GPS location submissions accepted",
			},
		),
		ActiveLiveTreks: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "treks_gps_active_live_treks",
				Help: "Treks currently broadcasting a live location",
			},
		),
		BookingsTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "treks_bookings_created_total",
				Help: "Total bookings created",
			},
		),
	}
}

// Handler serves the metrics endpoint.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.prom, promhttp.HandlerOpts{})
}
