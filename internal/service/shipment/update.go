package shipment

import (
	"context"
	"fmt"

	"shipment-tracker/internal/apperr"
	"shipment-tracker/internal/authz"
	"shipment-tracker/internal/domain"
	"shipment-tracker/internal/logx"
	"shipment-tracker/internal/ports/shipmenttx"
)

// Update applies either a status transition or a location report to the shipment.
// The shipment is looked up and checked for visibility before the specific rule runs.
func (s *Service) Update(ctx context.Context, actor domain.Actor, upd domain.ShipmentUpdate) (domain.ShipmentView, error) {
	upd, err := validateUpdate(actor, upd)
	if err != nil {
		return domain.ShipmentView{}, err
	}

	var (
		view domain.ShipmentView
		ev   domain.ShipmentEvent
	)
	err = s.inTx(ctx, func(ctx context.Context, tx shipmenttx.Repository) error {
		sh, err := tx.GetShipmentForUpdate(ctx, upd.ShipmentID)
		if err != nil {
			return err
		}
		if sh == nil {
			return apperr.New(apperr.ErrNotFound, apperr.ReasonNotFound)
		}
		if v := authz.CanView(actor, *sh); !v.Allowed {
			return denied(v)
		}

		if upd.Status != nil {
			ev, err = s.transition(ctx, tx, actor, sh, *upd.Status)
		} else {
			ev, err = s.reportLocation(ctx, tx, actor, sh, *upd.Location)
		}
		if err != nil {
			return err
		}

		fresh, err := tx.GetShipment(ctx, sh.ID)
		if err != nil {
			return err
		}
		if fresh == nil {
			return fmt.Errorf("shipment %d vanished during update", sh.ID)
		}
		view, err = loadView(ctx, tx, *fresh)
		return err
	})
	if err != nil {
		return domain.ShipmentView{}, err
	}

	switch ev.Type {
	case domain.EventStatusChanged:
		s.metrics.StatusChanged(ev.Status)
	case domain.EventLocationReported:
		s.metrics.LocationReported()
	}
	s.logger.Info("shipment updated",
		logx.String("event", string(ev.Type)),
		logx.Int64("shipment_id", ev.ShipmentID),
		logx.Int64("actor_id", actor.ID),
		logx.String("status", string(ev.Status)),
		logx.String("postal_code", ev.PostalCode),
	)
	s.publish(ctx, ev)

	return view, nil
}

// transition moves the shipment to next with a compare-and-set and records where it was
// at that moment: the origin when it leaves, the destination when it is delivered.
func (s *Service) transition(ctx context.Context, tx shipmenttx.Repository, actor domain.Actor, sh *domain.Shipment, next domain.ShipmentStatus) (domain.ShipmentEvent, error) {
	if v := authz.AllowedStatusTransition(actor.Role, sh.Status, next); !v.Allowed {
		// Already there: a repeated call, or the loser of a concurrent transition
		// that waited on the row lock.
		if v.Reason == apperr.ReasonInvalidTransition && sh.Status == next {
			return domain.ShipmentEvent{}, apperr.New(apperr.ErrConflict, v.Reason)
		}
		return domain.ShipmentEvent{}, denied(v)
	}

	now := s.now()
	ok, err := tx.UpdateShipmentStatus(ctx, sh.ID, sh.Status, next, actor.ID, now)
	if err != nil {
		return domain.ShipmentEvent{}, err
	}
	if !ok {
		return domain.ShipmentEvent{}, apperr.New(apperr.ErrConflict, apperr.ReasonInvalidTransition)
	}

	whID := sh.OriginWarehouseID
	if next == domain.StatusDelivered {
		whID = sh.DestinationWarehouseID
	}
	wh, err := tx.GetWarehouse(ctx, whID)
	if err != nil {
		return domain.ShipmentEvent{}, err
	}
	if wh == nil {
		return domain.ShipmentEvent{}, fmt.Errorf("warehouse %d of shipment %d not found", whID, sh.ID)
	}

	loc := domain.ShipmentLocation{ShipmentID: sh.ID, PostalCode: wh.PostalCode, NotedAt: now}
	if err := tx.AppendLocation(ctx, &loc); err != nil {
		return domain.ShipmentEvent{}, err
	}

	return domain.ShipmentEvent{
		Type:       domain.EventStatusChanged,
		ShipmentID: sh.ID,
		ActorID:    actor.ID,
		Status:     next,
		PostalCode: loc.PostalCode,
		OccurredAt: now,
	}, nil
}

func (s *Service) reportLocation(ctx context.Context, tx shipmenttx.Repository, actor domain.Actor, sh *domain.Shipment, postal string) (domain.ShipmentEvent, error) {
	if v := authz.CanUpdateLocation(actor, *sh); !v.Allowed {
		return domain.ShipmentEvent{}, denied(v)
	}

	now := s.now()
	loc := domain.ShipmentLocation{ShipmentID: sh.ID, PostalCode: postal, NotedAt: now}
	if err := tx.AppendLocation(ctx, &loc); err != nil {
		return domain.ShipmentEvent{}, err
	}

	return domain.ShipmentEvent{
		Type:       domain.EventLocationReported,
		ShipmentID: sh.ID,
		ActorID:    actor.ID,
		Status:     sh.Status,
		PostalCode: postal,
		OccurredAt: now,
	}, nil
}
