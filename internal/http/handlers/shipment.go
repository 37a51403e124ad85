package handlers

import (
	"net/http"
	"strconv"

	"shipment-tracker/internal/apperr"
	"shipment-tracker/internal/identity"
	"shipment-tracker/internal/logx"
)

// ShipmentHandler serves the shipment lifecycle endpoints. Every route
// expects the Authenticate middleware to have stored the caller.
type ShipmentHandler struct {
	usecase shipmentUsecase
	logger  logx.Logger
}

// NewShipmentHandler creates a new ShipmentHandler.
func NewShipmentHandler(logger logx.Logger, uc shipmentUsecase) *ShipmentHandler {
	return &ShipmentHandler{usecase: uc, logger: logger}
}

// Create handles POST /shipments.
// @Summary Create a shipment
// @Description Creates a shipment from the caller's warehouse with its first location
// @Tags shipments
// @Accept json
// @Produce json
// @Param request body createShipmentRequest true "Create shipment payload"
// @Success 201 {object} shipmentDTO
// @Failure 400 {object} ErrorResponse "same_origin_destination, bad_request"
// @Failure 403 {object} ErrorResponse "wrong_role"
// @Failure 404 {object} ErrorResponse "invalid_reference"
// @Router /shipments [post]
func (h *ShipmentHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := identity.ActorFrom(r.Context())
	if !ok {
		writeError(h.logger, w, r, http.StatusUnauthorized, string(apperr.ReasonUnauthenticated))
		return
	}
	var req createShipmentRequest
	if ok := decodeJSON(h.logger, w, r, &req); !ok {
		return
	}

	v, err := h.usecase.Create(r.Context(), actor, req.toModel())
	if err != nil {
		writeFailure(h.logger, w, r, err)
		return
	}
	w.Header().Set("Location", "/shipments/"+strconv.FormatInt(v.ID, 10))
	writeJSON(h.logger, w, r, http.StatusCreated, viewToResponse(v))
}

// List handles GET /shipments.
// @Summary List visible shipments
// @Tags shipments
// @Produce json
// @Param status query string false "created, in_transit or delivered"
// @Param id query int false "shipment id"
// @Param carrier_id query int false "assigned carrier"
// @Param from query string false "created at or after (RFC3339 or YYYY-MM-DD)"
// @Param to query string false "created at or before (RFC3339 or YYYY-MM-DD)"
// @Success 200 {object} shipmentListResponse
// @Failure 400 {object} ErrorResponse "invalid_filter"
// @Router /shipments [get]
func (h *ShipmentHandler) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := identity.ActorFrom(r.Context())
	if !ok {
		writeError(h.logger, w, r, http.StatusUnauthorized, string(apperr.ReasonUnauthenticated))
		return
	}
	f, err := filterFromQuery(r.URL.Query())
	if err != nil {
		writeFailure(h.logger, w, r, err)
		return
	}

	list, err := h.usecase.List(r.Context(), actor, f)
	if err != nil {
		writeFailure(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, listToResponse(list))
}

// Get handles GET /shipments/{id}.
func (h *ShipmentHandler) Get(w http.ResponseWriter, r *http.Request) {
	actor, ok := identity.ActorFrom(r.Context())
	if !ok {
		writeError(h.logger, w, r, http.StatusUnauthorized, string(apperr.ReasonUnauthenticated))
		return
	}
	id, err := idFromURL(r, "id")
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, string(apperr.ReasonBadRequest))
		return
	}

	v, err := h.usecase.Get(r.Context(), actor, id)
	if err != nil {
		writeFailure(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, viewToResponse(v))
}

// Update handles PATCH /shipments/{id}. The body carries either a status or a location.
// @Summary Move a shipment forward or report its location
// @Tags shipments
// @Accept json
// @Produce json
// @Param id path int true "shipment id"
// @Param request body updateShipmentRequest true "status or location"
// @Success 200 {object} shipmentDTO
// @Failure 400 {object} ErrorResponse "bad_request"
// @Failure 403 {object} ErrorResponse "not_assigned_warehouse, not_assigned_carrier, wrong_role, not_in_transit"
// @Failure 404 {object} ErrorResponse "not_found"
// @Failure 409 {object} ErrorResponse "invalid_transition"
// @Router /shipments/{id} [patch]
func (h *ShipmentHandler) Update(w http.ResponseWriter, r *http.Request) {
	actor, ok := identity.ActorFrom(r.Context())
	if !ok {
		writeError(h.logger, w, r, http.StatusUnauthorized, string(apperr.ReasonUnauthenticated))
		return
	}
	id, err := idFromURL(r, "id")
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, string(apperr.ReasonBadRequest))
		return
	}
	var req updateShipmentRequest
	if ok := decodeJSON(h.logger, w, r, &req); !ok {
		return
	}

	v, err := h.usecase.Update(r.Context(), actor, req.toModel(id))
	if err != nil {
		writeFailure(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, viewToResponse(v))
}
