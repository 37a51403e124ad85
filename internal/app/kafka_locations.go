package app

import (
	"context"

	"shipment-tracker/internal/apperr"
	"shipment-tracker/internal/domain"
	"shipment-tracker/internal/service/locations"
	"shipment-tracker/internal/transport/kafka"
)

// makeLocationsHandler adapts the processor to the consumer. A domain
// rejection will never succeed on redelivery, so it is marked permanent.
func makeLocationsHandler(p *locations.Processor) kafka.HandleFunc {
	return func(ctx context.Context, r domain.LocationReport) error {
		err := p.Handle(ctx, r)
		if err != nil && apperr.IsDomain(err) {
			return kafka.Permanent(err)
		}
		return err
	}
}
