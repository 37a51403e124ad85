package domain

import "time"

// EventType names a committed lifecycle change.
type EventType string

// List of lifecycle event types
const (
	EventShipmentCreated  EventType = "shipment_created"
	EventStatusChanged    EventType = "status_changed"
	EventLocationReported EventType = "location_reported"
)

// ShipmentEvent is published after a lifecycle change has been committed.
type ShipmentEvent struct {
	Type       EventType
	ShipmentID int64
	ActorID    int64
	Status     ShipmentStatus
	PostalCode string
	OccurredAt time.Time
}

// LocationReport is a location ping sent by a carrier device. The location
// entry it produces is stamped with server time when it is recorded.
type LocationReport struct {
	ShipmentID int64
	CarrierID  int64
	PostalCode string
}
