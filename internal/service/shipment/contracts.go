//go:generate mockgen -source=contracts.go -destination=shipment_mocks_test.go -package=shipment_test

package shipment

import (
	"context"

	"shipment-tracker/internal/domain"
	"shipment-tracker/internal/ports/shipmenttx"
)

// TxRunner opens the unit of work every lifecycle operation runs in.
type TxRunner interface {
	WithTx(ctx context.Context, fn func(tx shipmenttx.Repository) error) error
}

// EventPublisher ships committed lifecycle events to downstream consumers.
type EventPublisher interface {
	Publish(ctx context.Context, ev domain.ShipmentEvent) error
}

// Recorder counts lifecycle outcomes.
type Recorder interface {
	ShipmentCreated()
	StatusChanged(to domain.ShipmentStatus)
	LocationReported()
}
