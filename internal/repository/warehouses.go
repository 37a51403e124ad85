package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"shipment-tracker/internal/domain"
)

// WarehouseRepo represents warehouse repository.
type WarehouseRepo struct{ db *pgxpool.Pool }

// NewWarehouseRepo creates a new WarehouseRepo.
func NewWarehouseRepo(db *pgxpool.Pool) *WarehouseRepo { return &WarehouseRepo{db: db} }

// List returns warehouses ordered by id.
func (r *WarehouseRepo) List(ctx context.Context) ([]domain.Warehouse, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name, postal_code FROM warehouses ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list warehouses: %w", err)
	}
	defer rows.Close()

	out := make([]domain.Warehouse, 0)
	for rows.Next() {
		var w domain.Warehouse
		if err := rows.Scan(&w.ID, &w.Name, &w.PostalCode); err != nil {
			return nil, fmt.Errorf("scan warehouse: %w", err)
		}
		out = append(out, w)
	}
	return out, rows.Err()
}

// Create - creates a new warehouse and returns its ID.
func (r *WarehouseRepo) Create(ctx context.Context, w *domain.Warehouse) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx,
		`INSERT INTO warehouses(name, postal_code) VALUES($1, $2) RETURNING id`,
		w.Name, w.PostalCode).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("create warehouse: %w", err)
	}
	return id, nil
}
