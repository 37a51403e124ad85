package shipment

import (
	"context"

	"shipment-tracker/internal/apperr"
	"shipment-tracker/internal/authz"
	"shipment-tracker/internal/domain"
	"shipment-tracker/internal/logx"
	"shipment-tracker/internal/ports/shipmenttx"
)

// Create originates a shipment at the actor's warehouse and records its first
// location at the origin postal code. Both writes commit together.
func (s *Service) Create(ctx context.Context, actor domain.Actor, in domain.NewShipment) (domain.ShipmentView, error) {
	if err := validateCreate(actor, in); err != nil {
		return domain.ShipmentView{}, err
	}

	var origin int64
	if actor.WarehouseID != nil {
		origin = *actor.WarehouseID
	}
	if v := authz.CanCreate(actor, origin); !v.Allowed {
		return domain.ShipmentView{}, denied(v)
	}

	var view domain.ShipmentView
	err := s.inTx(ctx, func(ctx context.Context, tx shipmenttx.Repository) error {
		src, err := tx.GetWarehouse(ctx, origin)
		if err != nil {
			return err
		}
		if src == nil {
			return apperr.New(apperr.ErrNotFound, apperr.ReasonInvalidReference)
		}
		if err := checkReferences(ctx, tx, in); err != nil {
			return err
		}

		now := s.now()
		sh := domain.Shipment{
			OriginWarehouseID:      origin,
			DestinationWarehouseID: in.DestinationWarehouseID,
			AssignedCarrierID:      in.CarrierID,
			Status:                 domain.StatusCreated,
			CreatedByID:            actor.ID,
			CreatedAt:              now,
		}
		loc := domain.ShipmentLocation{PostalCode: src.PostalCode, NotedAt: now}
		if err := tx.CreateShipment(ctx, &sh, &loc); err != nil {
			return err
		}

		view = domain.ShipmentView{Shipment: sh, Locations: []domain.ShipmentLocation{loc}}
		return nil
	})
	if err != nil {
		return domain.ShipmentView{}, err
	}

	s.metrics.ShipmentCreated()
	s.logger.Info("shipment created",
		logx.String("event", string(domain.EventShipmentCreated)),
		logx.Int64("shipment_id", view.ID),
		logx.Int64("actor_id", actor.ID),
		logx.Int64("origin_warehouse_id", view.OriginWarehouseID),
		logx.Int64("destination_warehouse_id", view.DestinationWarehouseID),
		logx.Int64("carrier_id", view.AssignedCarrierID),
	)
	s.publish(ctx, domain.ShipmentEvent{
		Type:       domain.EventShipmentCreated,
		ShipmentID: view.ID,
		ActorID:    actor.ID,
		Status:     view.Status,
		PostalCode: view.Locations[0].PostalCode,
		OccurredAt: view.CreatedAt,
	})

	return view, nil
}

// checkReferences verifies the destination warehouse exists and the carrier is a carrier.
func checkReferences(ctx context.Context, tx shipmenttx.Repository, in domain.NewShipment) error {
	dst, err := tx.GetWarehouse(ctx, in.DestinationWarehouseID)
	if err != nil {
		return err
	}
	if dst == nil {
		return apperr.New(apperr.ErrNotFound, apperr.ReasonInvalidReference)
	}

	carrier, err := tx.GetUser(ctx, in.CarrierID)
	if err != nil {
		return err
	}
	if carrier == nil {
		return apperr.New(apperr.ErrNotFound, apperr.ReasonInvalidReference)
	}
	if carrier.Role != domain.RoleCarrier {
		return apperr.New(apperr.ErrInvalid, apperr.ReasonInvalidReference)
	}
	return nil
}
