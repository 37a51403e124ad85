package shipment

import (
	"context"
	"time"

	"shipment-tracker/internal/apperr"
	"shipment-tracker/internal/authz"
	"shipment-tracker/internal/domain"
	"shipment-tracker/internal/logx"
	"shipment-tracker/internal/ports/shipmenttx"
)

// Service orchestrates the shipment lifecycle: create, list, get and update.
// It is the only component that decides status changes and appends locations.
type Service struct {
	repo             TxRunner
	publisher        EventPublisher
	metrics          Recorder
	operationTimeout time.Duration
	logger           logx.Logger
	now              func() time.Time
}

// NewService creates a new lifecycle Service. A nil publisher or recorder disables that concern.
func NewService(r TxRunner, p EventPublisher, m Recorder, timeout time.Duration, logger logx.Logger) *Service {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	if p == nil {
		p = nopPublisher{}
	}
	if m == nil {
		m = nopRecorder{}
	}
	if logger == nil {
		logger = logx.Nop()
	}
	return &Service{
		repo:             r,
		publisher:        p,
		metrics:          m,
		operationTimeout: timeout,
		logger:           logger,
		now:              func() time.Time { return time.Now().UTC() },
	}
}

// inTx runs fn in one unit of work bounded by the operation timeout.
func (s *Service) inTx(ctx context.Context, fn func(ctx context.Context, tx shipmenttx.Repository) error) error {
	ctx, cancel := context.WithTimeout(ctx, s.operationTimeout)
	defer cancel()
	return s.repo.WithTx(ctx, func(tx shipmenttx.Repository) error {
		return fn(ctx, tx)
	})
}

// publish runs after commit; a failure is logged and never undoes the operation.
func (s *Service) publish(ctx context.Context, ev domain.ShipmentEvent) {
	if err := s.publisher.Publish(ctx, ev); err != nil {
		s.logger.Warn("shipment event not published",
			logx.String("event", string(ev.Type)),
			logx.Int64("shipment_id", ev.ShipmentID),
			logx.Err(err),
		)
	}
}

// denied turns a negative verdict into the typed error returned to callers.
func denied(v authz.Verdict) error {
	return apperr.New(apperr.ErrForbidden, v.Reason)
}

func loadView(ctx context.Context, tx shipmenttx.Repository, sh domain.Shipment) (domain.ShipmentView, error) {
	locs, err := tx.ListLocations(ctx, sh.ID)
	if err != nil {
		return domain.ShipmentView{}, err
	}
	return domain.ShipmentView{Shipment: sh, Locations: locs}, nil
}

type nopPublisher struct{}

func (nopPublisher) Publish(context.Context, domain.ShipmentEvent) error { return nil }

type nopRecorder struct{}

func (nopRecorder) ShipmentCreated()                    {}
func (nopRecorder) StatusChanged(domain.ShipmentStatus) {}
func (nopRecorder) LocationReported()                   {}
