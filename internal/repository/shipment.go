package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"shipment-tracker/internal/apperr"
	"shipment-tracker/internal/domain"
	"shipment-tracker/internal/ports/shipmenttx"
)

const shipmentColumns = `
    id, origin_warehouse_id, destination_warehouse_id, assigned_carrier_id, status,
    created_by_id, created_at, in_transit_by_id, in_transit_at, delivered_by_id, delivered_at`

// ShipmentRepo represents the shipment store.
type ShipmentRepo struct {
	db *pgxpool.Pool
}

// NewShipmentRepo creates a new ShipmentRepo.
func NewShipmentRepo(db *pgxpool.Pool) *ShipmentRepo {
	return &ShipmentRepo{db: db}
}

// WithTx opens a transaction and executes fn within it.
func (r *ShipmentRepo) WithTx(ctx context.Context, fn func(tx shipmenttx.Repository) error) (err error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				panic(rbErr)
			}
			panic(p)
		}
	}()

	if err := fn(&TxRepo{tx: tx}); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			return fmt.Errorf("rollback tx: %w (original error: %s)", rbErr, err.Error())
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}

	return nil
}

// TxRepo represents the shipment store inside one transaction.
type TxRepo struct {
	tx pgx.Tx
}

var _ shipmenttx.Repository = (*TxRepo)(nil)

func scanShipment(row pgx.Row) (*domain.Shipment, error) {
	var s domain.Shipment
	err := row.Scan(
		&s.ID, &s.OriginWarehouseID, &s.DestinationWarehouseID, &s.AssignedCarrierID, &s.Status,
		&s.CreatedByID, &s.CreatedAt, &s.InTransitByID, &s.InTransitAt, &s.DeliveredByID, &s.DeliveredAt,
	)
	if err != nil {
		return nil, err
	}
	s.CreatedAt = s.CreatedAt.UTC()
	s.InTransitAt = utcPtr(s.InTransitAt)
	s.DeliveredAt = utcPtr(s.DeliveredAt)
	return &s, nil
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}

// GetShipment - get shipment by ID.
func (r *TxRepo) GetShipment(ctx context.Context, id int64) (*domain.Shipment, error) {
	s, err := scanShipment(r.tx.QueryRow(ctx, `SELECT `+shipmentColumns+` FROM shipments WHERE id = $1`, id))
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get shipment %d: %w", id, err)
	}
	return s, nil
}

// GetShipmentForUpdate - get shipment by ID and lock the row until the transaction ends.
func (r *TxRepo) GetShipmentForUpdate(ctx context.Context, id int64) (*domain.Shipment, error) {
	s, err := scanShipment(r.tx.QueryRow(ctx, `SELECT `+shipmentColumns+` FROM shipments WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get shipment %d for update: %w", id, err)
	}
	return s, nil
}

// GetWarehouse - get warehouse by ID.
func (r *TxRepo) GetWarehouse(ctx context.Context, id int64) (*domain.Warehouse, error) {
	var w domain.Warehouse
	err := r.tx.QueryRow(ctx,
		`SELECT id, name, postal_code FROM warehouses WHERE id = $1`, id,
	).Scan(&w.ID, &w.Name, &w.PostalCode)
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get warehouse %d: %w", id, err)
	}
	return &w, nil
}

// GetUser - get user by ID.
func (r *TxRepo) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	u, err := scanUser(r.tx.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user %d: %w", id, err)
	}
	return u, nil
}

// CreateShipment - insert a shipment together with its first location.
func (r *TxRepo) CreateShipment(ctx context.Context, s *domain.Shipment, initial *domain.ShipmentLocation) error {
	err := r.tx.QueryRow(ctx, `
        INSERT INTO shipments (origin_warehouse_id, destination_warehouse_id, assigned_carrier_id, status, created_by_id, created_at)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id
    `, s.OriginWarehouseID, s.DestinationWarehouseID, s.AssignedCarrierID, string(s.Status), s.CreatedByID, s.CreatedAt).Scan(&s.ID)
	if err != nil {
		if IsForeignKeyViolation(err) {
			return apperr.New(apperr.ErrNotFound, apperr.ReasonInvalidReference)
		}
		return fmt.Errorf("insert shipment: %w", err)
	}

	initial.ShipmentID = s.ID
	return r.AppendLocation(ctx, initial)
}

// UpdateShipmentStatus - compare-and-set the status and stamp who moved it and when.
func (r *TxRepo) UpdateShipmentStatus(
	ctx context.Context,
	id int64,
	expected, next domain.ShipmentStatus,
	actorID int64,
	now time.Time,
) (bool, error) {
	var q string
	switch next {
	case domain.StatusInTransit:
		q = `UPDATE shipments SET status = $3, in_transit_by_id = $4, in_transit_at = $5 WHERE id = $1 AND status = $2`
	case domain.StatusDelivered:
		q = `UPDATE shipments SET status = $3, delivered_by_id = $4, delivered_at = $5 WHERE id = $1 AND status = $2`
	default:
		return false, fmt.Errorf("update shipment %d: no stamp for status %q", id, next)
	}

	ct, err := r.tx.Exec(ctx, q, id, string(expected), string(next), actorID, now)
	if err != nil {
		return false, fmt.Errorf("update shipment %d status: %w", id, err)
	}
	return ct.RowsAffected() == 1, nil
}

// AppendLocation - append one entry to the location history.
func (r *TxRepo) AppendLocation(ctx context.Context, loc *domain.ShipmentLocation) error {
	err := r.tx.QueryRow(ctx, `
        INSERT INTO shipment_locations (shipment_id, postal_code, noted_at)
        VALUES ($1, $2, $3)
        RETURNING id
    `, loc.ShipmentID, loc.PostalCode, loc.NotedAt).Scan(&loc.ID)
	if err != nil {
		return fmt.Errorf("insert location for shipment %d: %w", loc.ShipmentID, err)
	}
	return nil
}

// ListShipments returns shipments inside the scope that pass the filter, ordered by id.
func (r *TxRepo) ListShipments(ctx context.Context, scope domain.Scope, f domain.ShipmentFilter) ([]domain.Shipment, error) {
	where, args := shipmentWhere(scope, f)
	rows, err := r.tx.Query(ctx, `SELECT `+shipmentColumns+` FROM shipments`+where+` ORDER BY id`, args...)
	if err != nil {
		return nil, fmt.Errorf("list shipments: %w", err)
	}
	defer rows.Close()

	out := make([]domain.Shipment, 0)
	for rows.Next() {
		s, err := scanShipment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan shipment: %w", err)
		}
		out = append(out, *s)
	}
	return out, rows.Err()
}

// ListLocations returns the location history of a shipment, oldest first.
func (r *TxRepo) ListLocations(ctx context.Context, shipmentID int64) ([]domain.ShipmentLocation, error) {
	rows, err := r.tx.Query(ctx, `
        SELECT id, shipment_id, postal_code, noted_at
        FROM shipment_locations
        WHERE shipment_id = $1
        ORDER BY noted_at, id
    `, shipmentID)
	if err != nil {
		return nil, fmt.Errorf("list locations of shipment %d: %w", shipmentID, err)
	}
	defer rows.Close()

	out := make([]domain.ShipmentLocation, 0)
	for rows.Next() {
		var l domain.ShipmentLocation
		if err := rows.Scan(&l.ID, &l.ShipmentID, &l.PostalCode, &l.NotedAt); err != nil {
			return nil, fmt.Errorf("scan location: %w", err)
		}
		l.NotedAt = l.NotedAt.UTC()
		out = append(out, l)
	}
	return out, rows.Err()
}
