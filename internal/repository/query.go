package repository

import (
	"fmt"
	"strings"

	"shipment-tracker/internal/domain"
)

// shipmentWhere renders the scope and filter as a WHERE clause with positional args.
func shipmentWhere(scope domain.Scope, f domain.ShipmentFilter) (string, []any) {
	conds := make([]string, 0, 6)
	args := make([]any, 0, 6)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	switch {
	case scope.All:
	case scope.WarehouseID != nil:
		p := arg(*scope.WarehouseID)
		conds = append(conds, "(origin_warehouse_id = "+p+" OR destination_warehouse_id = "+p+")")
	case scope.CarrierID != nil:
		conds = append(conds, "assigned_carrier_id = "+arg(*scope.CarrierID))
	default:
		conds = append(conds, "FALSE")
	}

	if f.Status != nil {
		conds = append(conds, "status = "+arg(string(*f.Status)))
	}
	if f.ID != nil {
		conds = append(conds, "id = "+arg(*f.ID))
	}
	if f.CarrierID != nil {
		conds = append(conds, "assigned_carrier_id = "+arg(*f.CarrierID))
	}
	if f.From != nil {
		conds = append(conds, "created_at >= "+arg(*f.From))
	}
	if f.To != nil {
		conds = append(conds, "created_at <= "+arg(*f.To))
	}

	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}
