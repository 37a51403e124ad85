package directory

import (
	"context"

	"shipment-tracker/internal/domain"
)

// Users looks up accounts. Getters return (nil, nil) when nothing matches.
type Users interface {
	Get(ctx context.Context, id int64) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
}

// Warehouses lists warehouse reference data.
type Warehouses interface {
	List(ctx context.Context) ([]domain.Warehouse, error)
}
