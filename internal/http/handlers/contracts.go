package handlers

import (
	"context"

	"shipment-tracker/internal/domain"
	"shipment-tracker/internal/identity"
	"shipment-tracker/internal/service/auth"
	"shipment-tracker/internal/service/shipment"
)

type shipmentUsecase interface {
	Create(ctx context.Context, actor domain.Actor, in domain.NewShipment) (domain.ShipmentView, error)
	List(ctx context.Context, actor domain.Actor, f domain.ShipmentFilter) (domain.ShipmentList, error)
	Get(ctx context.Context, actor domain.Actor, id int64) (domain.ShipmentView, error)
	Update(ctx context.Context, actor domain.Actor, upd domain.ShipmentUpdate) (domain.ShipmentView, error)
}

// NewShipmentUsecase wires the lifecycle Service into a shipmentUsecase.
func NewShipmentUsecase(svc *shipment.Service) shipmentUsecase {
	return svc
}

type authUsecase interface {
	Login(ctx context.Context, username, password string) (identity.Token, error)
	Logout(ctx context.Context, p identity.Principal) error
}

// NewAuthUsecase wires the auth Service into an authUsecase.
func NewAuthUsecase(svc *auth.Service) authUsecase {
	return svc
}
