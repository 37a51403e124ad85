// Package memstore keeps shipments, users and warehouses in process memory.
// Units of work run one at a time against a staged copy that replaces the
// committed state only when fn succeeds.
package memstore

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"shipment-tracker/internal/domain"
	"shipment-tracker/internal/ports/shipmenttx"
)

// Store is an in-memory shipment store.
type Store struct {
	mu    sync.Mutex
	state *state
}

// New returns an empty Store.
func New() *Store {
	return &Store{state: newState()}
}

type state struct {
	warehouses map[int64]domain.Warehouse
	users      map[int64]domain.User
	shipments  map[int64]domain.Shipment
	locations  map[int64][]domain.ShipmentLocation

	lastWarehouseID int64
	lastUserID      int64
	lastShipmentID  int64
	lastLocationID  int64
}

func newState() *state {
	return &state{
		warehouses: make(map[int64]domain.Warehouse),
		users:      make(map[int64]domain.User),
		shipments:  make(map[int64]domain.Shipment),
		locations:  make(map[int64][]domain.ShipmentLocation),
	}
}

// clone copies everything a unit of work may write. Warehouses and users are
// read-only inside a unit of work and are shared.
func (st *state) clone() *state {
	cp := *st
	cp.shipments = make(map[int64]domain.Shipment, len(st.shipments))
	for id, s := range st.shipments {
		cp.shipments[id] = s
	}
	cp.locations = make(map[int64][]domain.ShipmentLocation, len(st.locations))
	for id, l := range st.locations {
		cp.locations[id] = append([]domain.ShipmentLocation(nil), l...)
	}
	return &cp
}

// WithTx runs fn against a staged copy and commits it if fn returns nil.
func (s *Store) WithTx(ctx context.Context, fn func(tx shipmenttx.Repository) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	staged := s.state.clone()
	if err := fn(&txRepo{st: staged}); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}

	s.state = staged
	return nil
}

// AddWarehouse stores w, assigning an id when w.ID is zero, and returns the id.
func (s *Store) AddWarehouse(w domain.Warehouse) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	if w.ID == 0 {
		w.ID = s.state.lastWarehouseID + 1
	}
	if w.ID > s.state.lastWarehouseID {
		s.state.lastWarehouseID = w.ID
	}
	s.state.warehouses[w.ID] = w
	return w.ID
}

// AddUser stores u, assigning an id when u.ID is zero, and returns the id.
func (s *Store) AddUser(u domain.User) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	if u.ID == 0 {
		u.ID = s.state.lastUserID + 1
	}
	if u.ID > s.state.lastUserID {
		s.state.lastUserID = u.ID
	}
	s.state.users[u.ID] = u
	return u.ID
}

// Get returns the user with the given id.
func (s *Store) Get(_ context.Context, id int64) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.state.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

// GetByUsername returns the user with the given login name, case-insensitively.
func (s *Store) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.state.users {
		if strings.EqualFold(u.Username, username) {
			return &u, nil
		}
	}
	return nil, nil
}

// List returns warehouses ordered by id.
func (s *Store) List(_ context.Context) ([]domain.Warehouse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.Warehouse, 0, len(s.state.warehouses))
	for _, w := range s.state.warehouses {
		out = append(out, w)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type txRepo struct {
	st *state
}

var _ shipmenttx.Repository = (*txRepo)(nil)

func (r *txRepo) GetShipment(_ context.Context, id int64) (*domain.Shipment, error) {
	s, ok := r.st.shipments[id]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

// GetShipmentForUpdate needs no extra locking: the whole unit of work holds the store.
func (r *txRepo) GetShipmentForUpdate(ctx context.Context, id int64) (*domain.Shipment, error) {
	return r.GetShipment(ctx, id)
}

func (r *txRepo) GetWarehouse(_ context.Context, id int64) (*domain.Warehouse, error) {
	w, ok := r.st.warehouses[id]
	if !ok {
		return nil, nil
	}
	return &w, nil
}

func (r *txRepo) GetUser(_ context.Context, id int64) (*domain.User, error) {
	u, ok := r.st.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (r *txRepo) CreateShipment(ctx context.Context, s *domain.Shipment, initial *domain.ShipmentLocation) error {
	if _, ok := r.st.warehouses[s.OriginWarehouseID]; !ok {
		return fmt.Errorf("insert shipment: unknown origin warehouse %d", s.OriginWarehouseID)
	}
	if _, ok := r.st.warehouses[s.DestinationWarehouseID]; !ok {
		return fmt.Errorf("insert shipment: unknown destination warehouse %d", s.DestinationWarehouseID)
	}

	r.st.lastShipmentID++
	s.ID = r.st.lastShipmentID
	r.st.shipments[s.ID] = *s

	initial.ShipmentID = s.ID
	return r.AppendLocation(ctx, initial)
}

func (r *txRepo) UpdateShipmentStatus(
	_ context.Context,
	id int64,
	expected, next domain.ShipmentStatus,
	actorID int64,
	now time.Time,
) (bool, error) {
	s, ok := r.st.shipments[id]
	if !ok || s.Status != expected {
		return false, nil
	}

	by, at := actorID, now
	switch next {
	case domain.StatusInTransit:
		s.InTransitByID, s.InTransitAt = &by, &at
	case domain.StatusDelivered:
		s.DeliveredByID, s.DeliveredAt = &by, &at
	default:
		return false, fmt.Errorf("update shipment %d: no stamp for status %q", id, next)
	}
	s.Status = next
	r.st.shipments[id] = s
	return true, nil
}

func (r *txRepo) AppendLocation(_ context.Context, loc *domain.ShipmentLocation) error {
	if _, ok := r.st.shipments[loc.ShipmentID]; !ok {
		return fmt.Errorf("insert location: unknown shipment %d", loc.ShipmentID)
	}
	r.st.lastLocationID++
	loc.ID = r.st.lastLocationID
	r.st.locations[loc.ShipmentID] = append(r.st.locations[loc.ShipmentID], *loc)
	return nil
}

func (r *txRepo) ListShipments(_ context.Context, scope domain.Scope, f domain.ShipmentFilter) ([]domain.Shipment, error) {
	out := make([]domain.Shipment, 0)
	for _, s := range r.st.shipments {
		if scope.Matches(s) && f.Matches(s) {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *txRepo) ListLocations(_ context.Context, shipmentID int64) ([]domain.ShipmentLocation, error) {
	out := append([]domain.ShipmentLocation(nil), r.st.locations[shipmentID]...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].NotedAt.Equal(out[j].NotedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].NotedAt.Before(out[j].NotedAt)
	})
	if out == nil {
		out = []domain.ShipmentLocation{}
	}
	return out, nil
}
