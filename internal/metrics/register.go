package metrics

import (
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// Register registers c with reg. When an equal collector is already
// registered, the existing one is returned so both processes and tests that
// build the container twice keep counting into the same series.
func Register[T prometheus.Collector](reg prometheus.Registerer, name string, c T) (T, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(T); ok {
				return existing, nil
			}
		}
		return c, fmt.Errorf("register %s: %w", name, err)
	}
	return c, nil
}

// Register registers the request collectors with reg.
func (h *HTTP) Register(reg prometheus.Registerer) error {
	var err error
	if h.Requests, err = Register(reg, "http_requests_total", h.Requests); err != nil {
		return err
	}
	h.Duration, err = Register(reg, "http_request_duration_seconds", h.Duration)
	return err
}

// Register registers the lifecycle collectors with reg.
func (m *Shipments) Register(reg prometheus.Registerer) error {
	var err error
	if m.created, err = Register(reg, "shipments_created_total", m.created); err != nil {
		return err
	}
	if m.transitions, err = Register(reg, "shipment_transitions_total", m.transitions); err != nil {
		return err
	}
	m.locations, err = Register(reg, "shipment_location_reports_total", m.locations)
	return err
}
