package app

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/dig"

	"shipment-tracker/internal/apperr"
	"shipment-tracker/internal/domain"
	"shipment-tracker/internal/logx"
	"shipment-tracker/internal/repository/memstore"
	"shipment-tracker/internal/service/locations"
	"shipment-tracker/internal/transport/kafka"
)

func TestWorkerRun_NilConsumer(t *testing.T) {
	t.Parallel()

	err := workerRun(context.Background(), logx.Nop(), nil, workerResources{})
	require.EqualError(t, err, "kafka consumer is nil: worker container misconfigured")
}

func TestWorkerRunner_MustRun(t *testing.T) {
	t.Parallel()

	r := &WorkerRunner{runFn: func(*dig.Container) error { return context.Canceled }}
	require.NotPanics(t, func() { r.MustRun(dig.New()) })

	r = &WorkerRunner{runFn: func(*dig.Container) error { return nil }}
	require.NotPanics(t, func() { r.MustRun(dig.New()) })

	r = &WorkerRunner{runFn: func(*dig.Container) error { return errors.New("broker gone") }}
	require.PanicsWithError(t, "broker gone", func() { r.MustRun(dig.New()) })
}

type stubUpdater struct {
	err error
}

func (s stubUpdater) Update(context.Context, domain.Actor, domain.ShipmentUpdate) (domain.ShipmentView, error) {
	return domain.ShipmentView{}, s.err
}

func TestMakeLocationsHandler(t *testing.T) {
	t.Parallel()

	users := memstore.New()
	carrierID := users.AddUser(domain.User{Username: "carrier-1", Role: domain.RoleCarrier})
	report := domain.LocationReport{ShipmentID: 1, CarrierID: carrierID, PostalCode: "60601"}

	t.Run("success", func(t *testing.T) {
		h := makeLocationsHandler(locations.NewProcessor(stubUpdater{}, users, logx.Nop()))
		require.NoError(t, h(context.Background(), report))
	})

	t.Run("domain rejection is permanent", func(t *testing.T) {
		rejected := apperr.New(apperr.ErrForbidden, apperr.ReasonNotInTransit)
		h := makeLocationsHandler(locations.NewProcessor(stubUpdater{err: rejected}, users, logx.Nop()))

		err := h(context.Background(), report)
		var perm kafka.PermanentError
		require.ErrorAs(t, err, &perm)
		require.ErrorIs(t, err, apperr.ErrForbidden)
	})

	t.Run("store failure is retried", func(t *testing.T) {
		storeErr := errors.New("connection reset")
		h := makeLocationsHandler(locations.NewProcessor(stubUpdater{err: storeErr}, users, logx.Nop()))

		err := h(context.Background(), report)
		var perm kafka.PermanentError
		require.False(t, errors.As(err, &perm))
		require.ErrorIs(t, err, storeErr)
	})
}
