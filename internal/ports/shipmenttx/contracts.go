package shipmenttx

import (
	"context"
	"time"

	"shipment-tracker/internal/domain"
)

// Repository is the shipment store as seen from inside one unit of work.
// Getters return (nil, nil) when the record does not exist.
type Repository interface {
	GetShipment(ctx context.Context, id int64) (*domain.Shipment, error)
	// GetShipmentForUpdate reads the shipment and holds it until the unit of work ends.
	GetShipmentForUpdate(ctx context.Context, id int64) (*domain.Shipment, error)
	GetWarehouse(ctx context.Context, id int64) (*domain.Warehouse, error)
	GetUser(ctx context.Context, id int64) (*domain.User, error)
	// CreateShipment inserts the shipment and its first location, filling in the ids.
	CreateShipment(ctx context.Context, s *domain.Shipment, initial *domain.ShipmentLocation) error
	// UpdateShipmentStatus moves the shipment to next only if it is still in expected,
	// stamping the matching *_by_id/*_at pair. It returns false when the status did not match.
	UpdateShipmentStatus(ctx context.Context, id int64, expected, next domain.ShipmentStatus, actorID int64, now time.Time) (bool, error)
	AppendLocation(ctx context.Context, loc *domain.ShipmentLocation) error
	ListShipments(ctx context.Context, scope domain.Scope, filter domain.ShipmentFilter) ([]domain.Shipment, error)
	// ListLocations returns the history ordered by noted_at ascending.
	ListLocations(ctx context.Context, shipmentID int64) ([]domain.ShipmentLocation, error)
}

// Runner is a transaction runner: fn's writes are committed together or not at all.
type Runner interface {
	WithTx(ctx context.Context, fn func(tx Repository) error) error
}
