package domain

// Role is the caller's role, assigned at authentication time.
type Role string

// List of known roles
const (
	RoleGlobalManager  Role = "global_manager"
	RoleStoreManager   Role = "store_manager"
	RoleWarehouseStaff Role = "warehouse_staff"
	RoleCarrier        Role = "carrier"
)

var allowedRoles = [...]Role{
	RoleGlobalManager, RoleStoreManager, RoleWarehouseStaff, RoleCarrier,
}

// Valid checks if the Role is one of the known roles
func (r Role) Valid() bool {
	for _, v := range allowedRoles {
		if r == v {
			return true
		}
	}
	return false
}

// WarehouseScoped reports whether the role is bound to a single warehouse.
func (r Role) WarehouseScoped() bool {
	return r == RoleStoreManager || r == RoleWarehouseStaff
}
