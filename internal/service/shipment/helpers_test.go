package shipment_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"

	"shipment-tracker/internal/apperr"
	"shipment-tracker/internal/domain"
	"shipment-tracker/internal/logx"
	"shipment-tracker/internal/ports/shipmenttx"
	"shipment-tracker/internal/service/shipment"
)

var fixedNow = time.Date(2025, 3, 4, 10, 0, 0, 0, time.UTC)

func newCtrl(t *testing.T) *gomock.Controller {
	t.Helper()
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)
	return ctrl
}

func ptr[T any](v T) *T { return &v }

type stubTx struct {
	getFn       func(context.Context, int64) (*domain.Shipment, error)
	getLockFn   func(context.Context, int64) (*domain.Shipment, error)
	warehouseFn func(context.Context, int64) (*domain.Warehouse, error)
	userFn      func(context.Context, int64) (*domain.User, error)
	createFn    func(context.Context, *domain.Shipment, *domain.ShipmentLocation) error
	statusFn    func(context.Context, int64, domain.ShipmentStatus, domain.ShipmentStatus, int64, time.Time) (bool, error)
	appendFn    func(context.Context, *domain.ShipmentLocation) error
	listFn      func(context.Context, domain.Scope, domain.ShipmentFilter) ([]domain.Shipment, error)
	locationsFn func(context.Context, int64) ([]domain.ShipmentLocation, error)
}

func (s *stubTx) GetShipment(ctx context.Context, id int64) (*domain.Shipment, error) {
	if s.getFn == nil {
		return nil, nil
	}
	return s.getFn(ctx, id)
}

func (s *stubTx) GetShipmentForUpdate(ctx context.Context, id int64) (*domain.Shipment, error) {
	if s.getLockFn == nil {
		return s.GetShipment(ctx, id)
	}
	return s.getLockFn(ctx, id)
}

func (s *stubTx) GetWarehouse(ctx context.Context, id int64) (*domain.Warehouse, error) {
	if s.warehouseFn == nil {
		return nil, nil
	}
	return s.warehouseFn(ctx, id)
}

func (s *stubTx) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	if s.userFn == nil {
		return nil, nil
	}
	return s.userFn(ctx, id)
}

func (s *stubTx) CreateShipment(ctx context.Context, sh *domain.Shipment, loc *domain.ShipmentLocation) error {
	if s.createFn == nil {
		return nil
	}
	return s.createFn(ctx, sh, loc)
}

func (s *stubTx) UpdateShipmentStatus(ctx context.Context, id int64, expected, next domain.ShipmentStatus, actorID int64, now time.Time) (bool, error) {
	if s.statusFn == nil {
		return true, nil
	}
	return s.statusFn(ctx, id, expected, next, actorID, now)
}

func (s *stubTx) AppendLocation(ctx context.Context, loc *domain.ShipmentLocation) error {
	if s.appendFn == nil {
		return nil
	}
	return s.appendFn(ctx, loc)
}

func (s *stubTx) ListShipments(ctx context.Context, scope domain.Scope, f domain.ShipmentFilter) ([]domain.Shipment, error) {
	if s.listFn == nil {
		return nil, nil
	}
	return s.listFn(ctx, scope, f)
}

func (s *stubTx) ListLocations(ctx context.Context, id int64) ([]domain.ShipmentLocation, error) {
	if s.locationsFn == nil {
		return nil, nil
	}
	return s.locationsFn(ctx, id)
}

var _ shipmenttx.Repository = (*stubTx)(nil)

// fixture holds the mocks of one test.
type fixture struct {
	runner    *MockTxRunner
	publisher *MockEventPublisher
	metrics   *MockRecorder
	svc       *shipment.Service
}

func newFixture(t *testing.T, logger logx.Logger) *fixture {
	t.Helper()
	ctrl := newCtrl(t)
	f := &fixture{
		runner:    NewMockTxRunner(ctrl),
		publisher: NewMockEventPublisher(ctrl),
		metrics:   NewMockRecorder(ctrl),
	}
	if logger == nil {
		logger = logx.Nop()
	}
	f.svc = shipment.NewService(f.runner, f.publisher, f.metrics, time.Second, logger)
	f.svc.SetNow(func() time.Time { return fixedNow })
	return f
}

// expectTx makes the next WithTx run fn against tx and return whatever fn returns.
func (f *fixture) expectTx(tx shipmenttx.Repository) {
	f.runner.EXPECT().
		WithTx(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, fn func(shipmenttx.Repository) error) error {
			_, ok := ctx.Deadline()
			if !ok {
				return errors.New("unit of work without deadline")
			}
			return fn(tx)
		})
}

func requireReason(t *testing.T, err error, kind error, reason apperr.Reason) {
	t.Helper()
	require.Error(t, err)
	require.ErrorIs(t, err, kind)
	got, ok := apperr.ReasonOf(err)
	require.True(t, ok, "error %v carries no reason", err)
	require.Equal(t, reason, got)
}

func staffAt(id, warehouse int64) domain.Actor {
	return domain.Actor{ID: id, Role: domain.RoleWarehouseStaff, WarehouseID: ptr(warehouse)}
}

func managerAt(id, warehouse int64) domain.Actor {
	return domain.Actor{ID: id, Role: domain.RoleStoreManager, WarehouseID: ptr(warehouse)}
}

func carrier(id int64) domain.Actor {
	return domain.Actor{ID: id, Role: domain.RoleCarrier, CarrierID: ptr(id)}
}

func global(id int64) domain.Actor {
	return domain.Actor{ID: id, Role: domain.RoleGlobalManager}
}

var warehouses = map[int64]domain.Warehouse{
	1: {ID: 1, Name: "North", PostalCode: "10001"},
	2: {ID: 2, Name: "South", PostalCode: "90210"},
	3: {ID: 3, Name: "East", PostalCode: "02134"},
}

func warehouseLookup(_ context.Context, id int64) (*domain.Warehouse, error) {
	w, ok := warehouses[id]
	if !ok {
		return nil, nil
	}
	return &w, nil
}

func shipmentIn(status domain.ShipmentStatus) *domain.Shipment {
	return &domain.Shipment{
		ID:                     42,
		OriginWarehouseID:      1,
		DestinationWarehouseID: 2,
		AssignedCarrierID:      7,
		Status:                 status,
		CreatedByID:            5,
		CreatedAt:              fixedNow.Add(-time.Hour),
	}
}
