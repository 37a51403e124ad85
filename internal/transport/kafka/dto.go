package kafka

import (
	"strings"
	"time"

	"shipment-tracker/internal/domain"
)

// LocationReportDTO is the wire form of a carrier location ping. Device
// timestamps are not trusted; noted_at is set by the service.
type LocationReportDTO struct {
	ShipmentID int64  `json:"shipment_id"`
	CarrierID  int64  `json:"carrier_id"`
	PostalCode string `json:"postal_code"`
}

// ToDomain converts LocationReportDTO to domain.LocationReport
func ToDomain(dto LocationReportDTO) domain.LocationReport {
	return domain.LocationReport{
		ShipmentID: dto.ShipmentID,
		CarrierID:  dto.CarrierID,
		PostalCode: strings.TrimSpace(dto.PostalCode),
	}
}

// ShipmentEventDTO is the wire form of a committed lifecycle change.
type ShipmentEventDTO struct {
	Type       string    `json:"type"`
	ShipmentID int64     `json:"shipment_id"`
	ActorID    int64     `json:"actor_id"`
	Status     string    `json:"status"`
	PostalCode string    `json:"postal_code,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// FromDomain converts domain.ShipmentEvent to ShipmentEventDTO
func FromDomain(ev domain.ShipmentEvent) ShipmentEventDTO {
	return ShipmentEventDTO{
		Type:       string(ev.Type),
		ShipmentID: ev.ShipmentID,
		ActorID:    ev.ActorID,
		Status:     string(ev.Status),
		PostalCode: ev.PostalCode,
		OccurredAt: ev.OccurredAt.UTC(),
	}
}
