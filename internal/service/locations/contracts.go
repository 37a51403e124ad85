//go:generate mockgen -source=contracts.go -destination=locations_mocks_test.go -package=locations_test

package locations

import (
	"context"

	"shipment-tracker/internal/domain"
)

// ShipmentUpdater is the subset of the lifecycle service used to record a location.
type ShipmentUpdater interface {
	Update(ctx context.Context, actor domain.Actor, upd domain.ShipmentUpdate) (domain.ShipmentView, error)
}

// UserLookup resolves the carrier that sent a report.
type UserLookup interface {
	Get(ctx context.Context, id int64) (*domain.User, error)
}
