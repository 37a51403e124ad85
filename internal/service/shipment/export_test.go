package shipment

import "time"

// SetNow replaces the service clock.
func (s *Service) SetNow(fn func() time.Time) { s.now = fn }
