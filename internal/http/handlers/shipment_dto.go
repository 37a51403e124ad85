package handlers

import "time"

type createShipmentRequest struct {
	DestinationWarehouseID int64 `json:"destination_warehouse_id"`
	CarrierID              int64 `json:"carrier_id"`
}

type updateShipmentRequest struct {
	Status   *string `json:"status,omitempty"`
	Location *string `json:"location,omitempty"`
}

type locationDTO struct {
	PostalCode string    `json:"postal_code"`
	NotedAt    time.Time `json:"noted_at"`
}

type shipmentDTO struct {
	ID                     int64         `json:"id"`
	OriginWarehouseID      int64         `json:"origin_warehouse_id"`
	DestinationWarehouseID int64         `json:"destination_warehouse_id"`
	CarrierID              int64         `json:"carrier_id"`
	Status                 string        `json:"status"`
	CreatedBy              int64         `json:"created_by"`
	CreatedAt              time.Time     `json:"created_at"`
	InTransitBy            *int64        `json:"in_transit_by,omitempty"`
	InTransitAt            *time.Time    `json:"in_transit_at,omitempty"`
	DeliveredBy            *int64        `json:"delivered_by,omitempty"`
	DeliveredAt            *time.Time    `json:"delivered_at,omitempty"`
	Locations              []locationDTO `json:"locations"`
}

type shipmentListResponse struct {
	ResultCount int           `json:"result_count"`
	Results     []shipmentDTO `json:"results"`
}

type warehouseDTO struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	PostalCode string `json:"postal_code"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
}
