package shipment

import (
	"strings"

	"shipment-tracker/internal/apperr"
	"shipment-tracker/internal/domain"
)

func validateCreate(actor domain.Actor, in domain.NewShipment) error {
	if actor.WarehouseID != nil && in.DestinationWarehouseID == *actor.WarehouseID {
		return apperr.New(apperr.ErrInvalid, apperr.ReasonSameOriginDestination)
	}
	if in.DestinationWarehouseID <= 0 || in.CarrierID <= 0 {
		return apperr.New(apperr.ErrInvalid, apperr.ReasonBadRequest)
	}
	return nil
}

// validateUpdate checks the request shape and returns it normalized.
// A call carries either a status or a location, and each role may touch only its own field.
func validateUpdate(actor domain.Actor, upd domain.ShipmentUpdate) (domain.ShipmentUpdate, error) {
	bad := apperr.New(apperr.ErrInvalid, apperr.ReasonBadRequest)

	if upd.ShipmentID <= 0 {
		return upd, bad
	}
	if (upd.Status == nil) == (upd.Location == nil) {
		return upd, bad
	}

	if upd.Status != nil {
		if !upd.Status.Valid() || actor.Role == domain.RoleCarrier {
			return upd, bad
		}
		return upd, nil
	}

	if actor.Role == domain.RoleWarehouseStaff {
		return upd, bad
	}
	loc := strings.TrimSpace(*upd.Location)
	if !domain.ValidatePostalCode(loc) {
		return upd, bad
	}
	upd.Location = &loc
	return upd, nil
}

func validateFilter(f domain.ShipmentFilter) error {
	bad := apperr.New(apperr.ErrInvalid, apperr.ReasonInvalidFilter)

	if f.Status != nil && !f.Status.Valid() {
		return bad
	}
	if f.ID != nil && *f.ID <= 0 {
		return bad
	}
	if f.CarrierID != nil && *f.CarrierID <= 0 {
		return bad
	}
	if f.From != nil && f.To != nil && f.From.After(*f.To) {
		return bad
	}
	return nil
}
