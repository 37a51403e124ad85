package shipment

import (
	"context"

	"shipment-tracker/internal/apperr"
	"shipment-tracker/internal/authz"
	"shipment-tracker/internal/domain"
	"shipment-tracker/internal/ports/shipmenttx"
)

// List returns every shipment visible to the actor that passes the filter,
// each with its ordered location history.
func (s *Service) List(ctx context.Context, actor domain.Actor, f domain.ShipmentFilter) (domain.ShipmentList, error) {
	scope, v := authz.ListScope(actor)
	if !v.Allowed {
		return domain.ShipmentList{}, denied(v)
	}
	if err := validateFilter(f); err != nil {
		return domain.ShipmentList{}, err
	}

	var out domain.ShipmentList
	err := s.inTx(ctx, func(ctx context.Context, tx shipmenttx.Repository) error {
		shipments, err := tx.ListShipments(ctx, scope, f)
		if err != nil {
			return err
		}

		results := make([]domain.ShipmentView, 0, len(shipments))
		for _, sh := range shipments {
			// the store narrows the set, visibility is still decided here
			if !scope.Matches(sh) || !f.Matches(sh) {
				continue
			}
			view, err := loadView(ctx, tx, sh)
			if err != nil {
				return err
			}
			results = append(results, view)
		}

		out = domain.ShipmentList{Count: len(results), Results: results}
		return nil
	})
	if err != nil {
		return domain.ShipmentList{}, err
	}
	return out, nil
}

// Get returns one shipment with its history. An unknown id is reported before
// a visibility denial, in the same order as Update.
func (s *Service) Get(ctx context.Context, actor domain.Actor, id int64) (domain.ShipmentView, error) {
	if id <= 0 {
		return domain.ShipmentView{}, apperr.New(apperr.ErrInvalid, apperr.ReasonBadRequest)
	}

	var view domain.ShipmentView
	err := s.inTx(ctx, func(ctx context.Context, tx shipmenttx.Repository) error {
		sh, err := tx.GetShipment(ctx, id)
		if err != nil {
			return err
		}
		if sh == nil {
			return apperr.New(apperr.ErrNotFound, apperr.ReasonNotFound)
		}
		if v := authz.CanView(actor, *sh); !v.Allowed {
			return denied(v)
		}
		view, err = loadView(ctx, tx, *sh)
		return err
	})
	if err != nil {
		return domain.ShipmentView{}, err
	}
	return view, nil
}
