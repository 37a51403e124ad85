package domain

import "time"

// Shipment is a parcel moving from an origin warehouse to a destination warehouse.
// The in_transit and delivered stamps are set exactly once, together with the
// matching status change.
type Shipment struct {
	ID                     int64
	OriginWarehouseID      int64
	DestinationWarehouseID int64
	AssignedCarrierID      int64
	Status                 ShipmentStatus
	CreatedByID            int64
	CreatedAt              time.Time
	InTransitByID          *int64
	InTransitAt            *time.Time
	DeliveredByID          *int64
	DeliveredAt            *time.Time
}

// ShipmentLocation is one append-only entry of the location history.
type ShipmentLocation struct {
	ID         int64
	ShipmentID int64
	PostalCode string
	NotedAt    time.Time
}

// ShipmentView is a shipment together with its ordered location history.
type ShipmentView struct {
	Shipment
	Locations []ShipmentLocation
}

// ShipmentList is the result of a list call. Count always equals len(Results).
type ShipmentList struct {
	Count   int
	Results []ShipmentView
}

// NewShipment carries the caller input of a create call.
type NewShipment struct {
	DestinationWarehouseID int64
	CarrierID              int64
}

// ShipmentUpdate carries the caller input of an update call.
// Exactly one of Status and Location must be set.
type ShipmentUpdate struct {
	ShipmentID int64
	Status     *ShipmentStatus
	Location   *string
}

// ShipmentFilter holds optional list filters; nil means "do not filter".
// From and To are matched against CreatedAt, both inclusive.
type ShipmentFilter struct {
	Status    *ShipmentStatus
	ID        *int64
	CarrierID *int64
	From      *time.Time
	To        *time.Time
}

// Scope restricts the visible set before explicit filters are applied.
// A zero Scope with All unset matches nothing.
type Scope struct {
	All         bool
	WarehouseID *int64
	CarrierID   *int64
}

// Matches reports whether the shipment falls inside the scope.
func (sc Scope) Matches(s Shipment) bool {
	switch {
	case sc.All:
		return true
	case sc.WarehouseID != nil:
		return s.OriginWarehouseID == *sc.WarehouseID || s.DestinationWarehouseID == *sc.WarehouseID
	case sc.CarrierID != nil:
		return s.AssignedCarrierID == *sc.CarrierID
	default:
		return false
	}
}

// Matches reports whether the shipment passes every set filter.
func (f ShipmentFilter) Matches(s Shipment) bool {
	if f.Status != nil && s.Status != *f.Status {
		return false
	}
	if f.ID != nil && s.ID != *f.ID {
		return false
	}
	if f.CarrierID != nil && s.AssignedCarrierID != *f.CarrierID {
		return false
	}
	if f.From != nil && s.CreatedAt.Before(*f.From) {
		return false
	}
	if f.To != nil && s.CreatedAt.After(*f.To) {
		return false
	}
	return true
}
