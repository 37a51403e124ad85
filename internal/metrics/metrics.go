// Package metrics holds the prometheus collectors of the service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"shipment-tracker/internal/domain"
)

// NewRateLimitExceededTotal returns a Prometheus counter for the number of rejected HTTP requests due to rate limiting
func NewRateLimitExceededTotal() prometheus.Counter {
	return prometheus.NewCounter(prometheus.CounterOpts{
		Name: "rate_limit_exceeded_total",
		Help: "Total number of rejected HTTP requests due to rate limiting",
	})
}

// NewPublishRetriesTotal returns a Prometheus counter for the number of retried event publishes
func NewPublishRetriesTotal() prometheus.Counter {
	return prometheus.NewCounter(prometheus.CounterOpts{
		Name: "shipment_event_publish_retries_total",
		Help: "Total number of retry attempts performed by the event publisher",
	})
}

// HTTP holds request collectors labeled by method, route pattern and status.
type HTTP struct {
	Requests *prometheus.CounterVec
	Duration *prometheus.HistogramVec
}

// NewHTTP creates the HTTP request collectors.
func NewHTTP() *HTTP {
	return &HTTP{
		Requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		Duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Duration of HTTP requests.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path", "status"},
		),
	}
}

// Collectors returns every collector of h for registration.
func (h *HTTP) Collectors() []prometheus.Collector {
	return []prometheus.Collector{h.Requests, h.Duration}
}

// Shipments counts committed lifecycle changes.
type Shipments struct {
	created     prometheus.Counter
	transitions *prometheus.CounterVec
	locations   prometheus.Counter
}

// NewShipments creates the lifecycle collectors.
func NewShipments() *Shipments {
	return &Shipments{
		created: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "shipments_created_total",
			Help: "Total number of created shipments",
		}),
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "shipment_transitions_total",
			Help: "Total number of committed status transitions by target status",
		}, []string{"to"}),
		locations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "shipment_location_reports_total",
			Help: "Total number of recorded carrier location reports",
		}),
	}
}

// ShipmentCreated counts one created shipment.
func (m *Shipments) ShipmentCreated() { m.created.Inc() }

// StatusChanged counts one transition into to.
func (m *Shipments) StatusChanged(to domain.ShipmentStatus) {
	m.transitions.WithLabelValues(string(to)).Inc()
}

// LocationReported counts one recorded location report.
func (m *Shipments) LocationReported() { m.locations.Inc() }

// Collectors returns every collector of m for registration.
func (m *Shipments) Collectors() []prometheus.Collector {
	return []prometheus.Collector{m.created, m.transitions, m.locations}
}
