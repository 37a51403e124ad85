package handlers

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	"shipment-tracker/internal/apperr"
	"shipment-tracker/internal/domain"
)

func (r createShipmentRequest) toModel() domain.NewShipment {
	return domain.NewShipment{
		DestinationWarehouseID: r.DestinationWarehouseID,
		CarrierID:              r.CarrierID,
	}
}

func (r updateShipmentRequest) toModel(id int64) domain.ShipmentUpdate {
	u := domain.ShipmentUpdate{ShipmentID: id, Location: r.Location}
	if r.Status != nil {
		st := domain.ShipmentStatus(strings.TrimSpace(*r.Status))
		u.Status = &st
	}
	return u
}

func viewToResponse(v domain.ShipmentView) shipmentDTO {
	locs := make([]locationDTO, 0, len(v.Locations))
	for _, l := range v.Locations {
		locs = append(locs, locationDTO{PostalCode: l.PostalCode, NotedAt: l.NotedAt.UTC()})
	}
	return shipmentDTO{
		ID:                     v.ID,
		OriginWarehouseID:      v.OriginWarehouseID,
		DestinationWarehouseID: v.DestinationWarehouseID,
		CarrierID:              v.AssignedCarrierID,
		Status:                 string(v.Status),
		CreatedBy:              v.CreatedByID,
		CreatedAt:              v.CreatedAt.UTC(),
		InTransitBy:            v.InTransitByID,
		InTransitAt:            utc(v.InTransitAt),
		DeliveredBy:            v.DeliveredByID,
		DeliveredAt:            utc(v.DeliveredAt),
		Locations:              locs,
	}
}

func listToResponse(l domain.ShipmentList) shipmentListResponse {
	out := make([]shipmentDTO, 0, len(l.Results))
	for _, v := range l.Results {
		out = append(out, viewToResponse(v))
	}
	return shipmentListResponse{ResultCount: len(out), Results: out}
}

func warehousesToResponse(list []domain.Warehouse) []warehouseDTO {
	out := make([]warehouseDTO, 0, len(list))
	for _, w := range list {
		out = append(out, warehouseDTO{ID: w.ID, Name: w.Name, PostalCode: w.PostalCode})
	}
	return out
}

func utc(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := t.UTC()
	return &v
}

const dateLayout = "2006-01-02"

// filterFromQuery parses the list query. A bare date in "to" covers the whole day.
func filterFromQuery(q url.Values) (domain.ShipmentFilter, error) {
	var f domain.ShipmentFilter
	bad := apperr.New(apperr.ErrInvalid, apperr.ReasonInvalidFilter)

	if s := strings.TrimSpace(q.Get("status")); s != "" {
		st := domain.ShipmentStatus(s)
		f.Status = &st
	}
	for key, dst := range map[string]**int64{"id": &f.ID, "carrier_id": &f.CarrierID} {
		s := strings.TrimSpace(q.Get(key))
		if s == "" {
			continue
		}
		v, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return domain.ShipmentFilter{}, bad
		}
		*dst = &v
	}
	if s := strings.TrimSpace(q.Get("from")); s != "" {
		t, _, err := parseTime(s)
		if err != nil {
			return domain.ShipmentFilter{}, bad
		}
		f.From = &t
	}
	if s := strings.TrimSpace(q.Get("to")); s != "" {
		t, dateOnly, err := parseTime(s)
		if err != nil {
			return domain.ShipmentFilter{}, bad
		}
		if dateOnly {
			t = t.Add(24*time.Hour - time.Nanosecond)
		}
		f.To = &t
	}
	return f, nil
}

func parseTime(s string) (time.Time, bool, error) {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, false, nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, false, err
	}
	return t, true, nil
}
