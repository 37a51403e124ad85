package domain

// ShipmentStatus is the lifecycle state of a shipment.
type ShipmentStatus string

// List of shipment statuses, in lifecycle order
const (
	StatusCreated   ShipmentStatus = "created"
	StatusInTransit ShipmentStatus = "in_transit"
	StatusDelivered ShipmentStatus = "delivered"
)

var statusOrder = [...]ShipmentStatus{
	StatusCreated, StatusInTransit, StatusDelivered,
}

// Valid checks if the ShipmentStatus is valid
func (s ShipmentStatus) Valid() bool {
	return s.Rank() >= 0
}

// Rank returns the position of the status in the lifecycle, or -1 if unknown.
func (s ShipmentStatus) Rank() int {
	for i, v := range statusOrder {
		if s == v {
			return i
		}
	}
	return -1
}
