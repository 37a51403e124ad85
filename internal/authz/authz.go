// Package authz decides who may see and change a shipment.
// Every function is pure: it takes facts and returns a Verdict, never an error.
package authz

import (
	"shipment-tracker/internal/apperr"
	"shipment-tracker/internal/domain"
)

// Verdict is an allow/deny decision. Reason is empty when Allowed.
type Verdict struct {
	Allowed bool
	Reason  apperr.Reason
}

func allow() Verdict { return Verdict{Allowed: true} }

func deny(r apperr.Reason) Verdict { return Verdict{Reason: r} }

type viewRule func(domain.Actor, domain.Shipment) Verdict

var viewRules = map[domain.Role]viewRule{
	domain.RoleGlobalManager:  func(domain.Actor, domain.Shipment) Verdict { return allow() },
	domain.RoleStoreManager:   viewByWarehouse,
	domain.RoleWarehouseStaff: viewByWarehouse,
	domain.RoleCarrier:        viewByCarrier,
}

func viewByWarehouse(a domain.Actor, s domain.Shipment) Verdict {
	if a.WarehouseID == nil {
		return deny(apperr.ReasonNotAssignedWarehouse)
	}
	if s.OriginWarehouseID != *a.WarehouseID && s.DestinationWarehouseID != *a.WarehouseID {
		return deny(apperr.ReasonNotAssignedWarehouse)
	}
	return allow()
}

func viewByCarrier(a domain.Actor, s domain.Shipment) Verdict {
	if a.CarrierID == nil || s.AssignedCarrierID != *a.CarrierID {
		return deny(apperr.ReasonNotAssignedCarrier)
	}
	return allow()
}

// CanView reports whether the actor may see the shipment.
func CanView(a domain.Actor, s domain.Shipment) Verdict {
	rule, ok := viewRules[a.Role]
	if !ok {
		return deny(apperr.ReasonWrongRole)
	}
	return rule(a, s)
}

// CanCreate reports whether the actor may originate a shipment at originWarehouseID.
// Only warehouse-scoped roles create, and only from their own warehouse.
func CanCreate(a domain.Actor, originWarehouseID int64) Verdict {
	if !a.Role.WarehouseScoped() {
		return deny(apperr.ReasonWrongRole)
	}
	if a.WarehouseID == nil || *a.WarehouseID != originWarehouseID {
		return deny(apperr.ReasonNotAssignedWarehouse)
	}
	return allow()
}

type transition struct {
	from, to domain.ShipmentStatus
}

// legalTransitions lists every allowed status change. Staying in the same
// status is not a transition.
var legalTransitions = map[transition]struct{}{
	{domain.StatusCreated, domain.StatusInTransit}:   {},
	{domain.StatusInTransit, domain.StatusDelivered}: {},
}

// statusChangers lists the roles that may move a shipment along its lifecycle.
var statusChangers = map[domain.Role]struct{}{
	domain.RoleWarehouseStaff: {},
}

// AllowedStatusTransition reports whether role may move a shipment from current to requested.
func AllowedStatusTransition(role domain.Role, current, requested domain.ShipmentStatus) Verdict {
	if _, ok := statusChangers[role]; !ok {
		return deny(apperr.ReasonWrongRole)
	}
	if _, ok := legalTransitions[transition{current, requested}]; !ok {
		return deny(apperr.ReasonInvalidTransition)
	}
	return allow()
}

// CanUpdateLocation reports whether the actor may report a new location for the shipment.
// Only the assigned carrier may, and only while the shipment is in transit.
func CanUpdateLocation(a domain.Actor, s domain.Shipment) Verdict {
	if a.Role != domain.RoleCarrier {
		return deny(apperr.ReasonWrongRole)
	}
	if a.CarrierID == nil || *a.CarrierID != s.AssignedCarrierID {
		return deny(apperr.ReasonNotAssignedCarrier)
	}
	if s.Status != domain.StatusInTransit {
		return deny(apperr.ReasonNotInTransit)
	}
	return allow()
}

// ListScope returns the role scoping applied to a list call before any explicit filter.
func ListScope(a domain.Actor) (domain.Scope, Verdict) {
	switch a.Role {
	case domain.RoleGlobalManager:
		return domain.Scope{All: true}, allow()
	case domain.RoleStoreManager, domain.RoleWarehouseStaff:
		if a.WarehouseID == nil {
			return domain.Scope{}, deny(apperr.ReasonNotAssignedWarehouse)
		}
		id := *a.WarehouseID
		return domain.Scope{WarehouseID: &id}, allow()
	case domain.RoleCarrier:
		if a.CarrierID == nil {
			return domain.Scope{}, deny(apperr.ReasonNotAssignedCarrier)
		}
		id := *a.CarrierID
		return domain.Scope{CarrierID: &id}, allow()
	default:
		return domain.Scope{}, deny(apperr.ReasonWrongRole)
	}
}
