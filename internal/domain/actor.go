package domain

// Actor is the resolved caller of a lifecycle operation.
// WarehouseID is set for warehouse-scoped roles, CarrierID for carriers.
type Actor struct {
	ID          int64
	Role        Role
	WarehouseID *int64
	CarrierID   *int64
}

// User is a stored account that can authenticate and act on shipments.
type User struct {
	ID           int64
	Username     string
	PasswordHash string
	Role         Role
	WarehouseID  *int64
}

// Actor builds the Actor for the user. A carrier acts under its own user id.
func (u User) Actor() Actor {
	a := Actor{ID: u.ID, Role: u.Role}
	if u.WarehouseID != nil {
		id := *u.WarehouseID
		a.WarehouseID = &id
	}
	if u.Role == RoleCarrier {
		id := u.ID
		a.CarrierID = &id
	}
	return a
}
