package locations

import (
	"context"
	"strings"

	"shipment-tracker/internal/apperr"
	"shipment-tracker/internal/domain"
	"shipment-tracker/internal/logx"
)

// Processor records carrier location reports through the lifecycle service,
// so a report from a device obeys the same rules as one sent over HTTP.
type Processor struct {
	shipments ShipmentUpdater
	users     UserLookup
	logger    logx.Logger
}

// NewProcessor creates a new Processor.
func NewProcessor(shipments ShipmentUpdater, users UserLookup, logger logx.Logger) *Processor {
	if logger == nil {
		logger = logx.Nop()
	}
	return &Processor{shipments: shipments, users: users, logger: logger}
}

// Handle processes a single report. Rejections are typed apperr errors; any
// other error is a store failure worth retrying.
func (p *Processor) Handle(ctx context.Context, r domain.LocationReport) error {
	if r.ShipmentID <= 0 || r.CarrierID <= 0 {
		return apperr.New(apperr.ErrInvalid, apperr.ReasonBadRequest)
	}

	u, err := p.users.Get(ctx, r.CarrierID)
	if err != nil {
		return err
	}
	if u == nil {
		return apperr.New(apperr.ErrNotFound, apperr.ReasonInvalidReference)
	}
	if u.Role != domain.RoleCarrier {
		return apperr.New(apperr.ErrForbidden, apperr.ReasonWrongRole)
	}

	postal := strings.TrimSpace(r.PostalCode)
	_, err = p.shipments.Update(ctx, u.Actor(), domain.ShipmentUpdate{
		ShipmentID: r.ShipmentID,
		Location:   &postal,
	})
	if err != nil {
		reason, _ := apperr.ReasonOf(err)
		p.logger.Warn("location report rejected",
			logx.Int64("shipment_id", r.ShipmentID),
			logx.Int64("carrier_id", r.CarrierID),
			logx.String("reason", string(reason)),
			logx.Err(err),
		)
		return err
	}
	return nil
}
