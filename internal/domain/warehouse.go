package domain

import "regexp"

// Warehouse is reference data: shipments travel between warehouses.
type Warehouse struct {
	ID         int64
	Name       string
	PostalCode string
}

var rePostalCode = regexp.MustCompile(`^[0-9A-Za-z][0-9A-Za-z -]{1,9}$`)

// ValidatePostalCode validates the postal code format
func ValidatePostalCode(s string) bool {
	return rePostalCode.MatchString(s)
}
