package authz_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"shipment-tracker/internal/apperr"
	"shipment-tracker/internal/authz"
	"shipment-tracker/internal/domain"
)

var (
	allRoles = []domain.Role{
		domain.RoleGlobalManager,
		domain.RoleStoreManager,
		domain.RoleWarehouseStaff,
		domain.RoleCarrier,
		domain.Role("auditor"),
	}
	allStatuses = []domain.ShipmentStatus{
		domain.StatusCreated,
		domain.StatusInTransit,
		domain.StatusDelivered,
	}
)

func ptr[T any](v T) *T { return &v }

func TestAllowedStatusTransition_Exhaustive(t *testing.T) {
	t.Parallel()

	legal := map[[2]domain.ShipmentStatus]bool{
		{domain.StatusCreated, domain.StatusInTransit}:   true,
		{domain.StatusInTransit, domain.StatusDelivered}: true,
	}

	for _, role := range allRoles {
		for _, from := range allStatuses {
			for _, to := range allStatuses {
				v := authz.AllowedStatusTransition(role, from, to)
				want := role == domain.RoleWarehouseStaff && legal[[2]domain.ShipmentStatus{from, to}]
				require.Equalf(t, want, v.Allowed, "%s: %s -> %s", role, from, to)

				switch {
				case want:
					require.Empty(t, v.Reason)
				case role != domain.RoleWarehouseStaff:
					require.Equal(t, apperr.ReasonWrongRole, v.Reason)
				default:
					require.Equal(t, apperr.ReasonInvalidTransition, v.Reason)
				}
			}
		}
	}
}

func TestAllowedStatusTransition_SameStatusIsRejected(t *testing.T) {
	t.Parallel()

	for _, s := range allStatuses {
		v := authz.AllowedStatusTransition(domain.RoleWarehouseStaff, s, s)
		require.False(t, v.Allowed, s)
		require.Equal(t, apperr.ReasonInvalidTransition, v.Reason)
	}
}

func TestCanView(t *testing.T) {
	t.Parallel()

	s := domain.Shipment{ID: 1, OriginWarehouseID: 1, DestinationWarehouseID: 2, AssignedCarrierID: 50}

	tests := []struct {
		name   string
		actor  domain.Actor
		want   bool
		reason apperr.Reason
	}{
		{"global manager", domain.Actor{Role: domain.RoleGlobalManager}, true, ""},
		{"store manager at origin", domain.Actor{Role: domain.RoleStoreManager, WarehouseID: ptr(int64(1))}, true, ""},
		{"staff at destination", domain.Actor{Role: domain.RoleWarehouseStaff, WarehouseID: ptr(int64(2))}, true, ""},
		{"staff elsewhere", domain.Actor{Role: domain.RoleWarehouseStaff, WarehouseID: ptr(int64(3))}, false, apperr.ReasonNotAssignedWarehouse},
		{"store manager without warehouse", domain.Actor{Role: domain.RoleStoreManager}, false, apperr.ReasonNotAssignedWarehouse},
		{"assigned carrier", domain.Actor{Role: domain.RoleCarrier, CarrierID: ptr(int64(50))}, true, ""},
		{"other carrier", domain.Actor{Role: domain.RoleCarrier, CarrierID: ptr(int64(51))}, false, apperr.ReasonNotAssignedCarrier},
		{"carrier without id", domain.Actor{Role: domain.RoleCarrier}, false, apperr.ReasonNotAssignedCarrier},
		{"carrier holding a warehouse id", domain.Actor{Role: domain.RoleCarrier, WarehouseID: ptr(int64(1))}, false, apperr.ReasonNotAssignedCarrier},
		{"unknown role", domain.Actor{Role: "auditor", WarehouseID: ptr(int64(1))}, false, apperr.ReasonWrongRole},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			v := authz.CanView(tt.actor, s)
			require.Equal(t, tt.want, v.Allowed)
			require.Equal(t, tt.reason, v.Reason)
		})
	}
}

func TestCanCreate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		actor  domain.Actor
		origin int64
		want   bool
		reason apperr.Reason
	}{
		{"staff from own warehouse", domain.Actor{Role: domain.RoleWarehouseStaff, WarehouseID: ptr(int64(1))}, 1, true, ""},
		{"store manager from own warehouse", domain.Actor{Role: domain.RoleStoreManager, WarehouseID: ptr(int64(2))}, 2, true, ""},
		{"staff from other warehouse", domain.Actor{Role: domain.RoleWarehouseStaff, WarehouseID: ptr(int64(1))}, 2, false, apperr.ReasonNotAssignedWarehouse},
		{"staff without warehouse", domain.Actor{Role: domain.RoleWarehouseStaff}, 1, false, apperr.ReasonNotAssignedWarehouse},
		{"global manager", domain.Actor{Role: domain.RoleGlobalManager}, 1, false, apperr.ReasonWrongRole},
		{"carrier", domain.Actor{Role: domain.RoleCarrier, CarrierID: ptr(int64(1))}, 1, false, apperr.ReasonWrongRole},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			v := authz.CanCreate(tt.actor, tt.origin)
			require.Equal(t, tt.want, v.Allowed)
			require.Equal(t, tt.reason, v.Reason)
		})
	}
}

func TestCanUpdateLocation(t *testing.T) {
	t.Parallel()

	carrier := domain.Actor{ID: 50, Role: domain.RoleCarrier, CarrierID: ptr(int64(50))}

	for _, st := range allStatuses {
		s := domain.Shipment{AssignedCarrierID: 50, Status: st}
		v := authz.CanUpdateLocation(carrier, s)
		if st == domain.StatusInTransit {
			require.True(t, v.Allowed)
			continue
		}
		require.False(t, v.Allowed, st)
		require.Equal(t, apperr.ReasonNotInTransit, v.Reason)
	}

	inTransit := domain.Shipment{AssignedCarrierID: 50, Status: domain.StatusInTransit}

	other := domain.Actor{Role: domain.RoleCarrier, CarrierID: ptr(int64(51))}
	require.Equal(t, apperr.ReasonNotAssignedCarrier, authz.CanUpdateLocation(other, inTransit).Reason)

	staff := domain.Actor{Role: domain.RoleWarehouseStaff, WarehouseID: ptr(int64(1))}
	require.Equal(t, apperr.ReasonWrongRole, authz.CanUpdateLocation(staff, inTransit).Reason)
}

func TestListScope(t *testing.T) {
	t.Parallel()

	sc, v := authz.ListScope(domain.Actor{Role: domain.RoleGlobalManager})
	require.True(t, v.Allowed)
	require.True(t, sc.All)

	sc, v = authz.ListScope(domain.Actor{Role: domain.RoleStoreManager, WarehouseID: ptr(int64(4))})
	require.True(t, v.Allowed)
	require.False(t, sc.All)
	require.Equal(t, int64(4), *sc.WarehouseID)

	sc, v = authz.ListScope(domain.Actor{Role: domain.RoleCarrier, CarrierID: ptr(int64(50))})
	require.True(t, v.Allowed)
	require.Equal(t, int64(50), *sc.CarrierID)

	_, v = authz.ListScope(domain.Actor{Role: domain.RoleWarehouseStaff})
	require.False(t, v.Allowed)
	require.Equal(t, apperr.ReasonNotAssignedWarehouse, v.Reason)

	_, v = authz.ListScope(domain.Actor{Role: "auditor"})
	require.False(t, v.Allowed)
	require.Equal(t, apperr.ReasonWrongRole, v.Reason)
}

func TestListScope_AgreesWithCanView(t *testing.T) {
	t.Parallel()

	shipments := []domain.Shipment{
		{ID: 1, OriginWarehouseID: 1, DestinationWarehouseID: 2, AssignedCarrierID: 50},
		{ID: 2, OriginWarehouseID: 2, DestinationWarehouseID: 3, AssignedCarrierID: 51},
		{ID: 3, OriginWarehouseID: 3, DestinationWarehouseID: 1, AssignedCarrierID: 50},
	}
	actors := []domain.Actor{
		{Role: domain.RoleGlobalManager},
		{Role: domain.RoleStoreManager, WarehouseID: ptr(int64(1))},
		{Role: domain.RoleWarehouseStaff, WarehouseID: ptr(int64(3))},
		{Role: domain.RoleCarrier, CarrierID: ptr(int64(50))},
	}

	for _, a := range actors {
		sc, v := authz.ListScope(a)
		require.True(t, v.Allowed)
		for _, s := range shipments {
			require.Equalf(t, authz.CanView(a, s).Allowed, sc.Matches(s), "%s shipment %d", a.Role, s.ID)
		}
	}
}
