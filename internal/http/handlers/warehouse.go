package handlers

import (
	"net/http"

	"shipment-tracker/internal/logx"
	"shipment-tracker/internal/ports/directory"
)

// WarehouseHandler serves warehouse reference data.
type WarehouseHandler struct {
	warehouses directory.Warehouses
	logger     logx.Logger
}

// NewWarehouseHandler creates a new WarehouseHandler.
func NewWarehouseHandler(logger logx.Logger, warehouses directory.Warehouses) *WarehouseHandler {
	return &WarehouseHandler{warehouses: warehouses, logger: logger}
}

// List handles GET /warehouses.
func (h *WarehouseHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.warehouses.List(r.Context())
	if err != nil {
		writeFailure(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, warehousesToResponse(list))
}
