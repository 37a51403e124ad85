package app

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/dig"

	"shipment-tracker/internal/config"
	"shipment-tracker/internal/logx"
	"shipment-tracker/internal/ports/directory"
	"shipment-tracker/internal/service/locations"
	"shipment-tracker/internal/service/shipment"
	"shipment-tracker/internal/transport/kafka"
)

func registerWorker(container *dig.Container) error {
	return provideAll(container,
		func(svc *shipment.Service, users directory.Users, logger logx.Logger) *locations.Processor {
			return locations.NewProcessor(svc, users, logger)
		},
		func(cfg *config.Config, logger logx.Logger, p *locations.Processor) (*kafka.Consumer, error) {
			k := cfg.Kafka
			return kafka.NewConsumer(logger, k.Brokers, k.GroupID, k.LocationsTopic, makeLocationsHandler(p))
		},
	)
}

// WorkerRunner runs the carrier location consumer
type WorkerRunner struct {
	runFn func(*dig.Container) error
}

// NewWorkerRunner returns a new WorkerRunner
func NewWorkerRunner() *WorkerRunner {
	return &WorkerRunner{runFn: runWorker}
}

// MustRun consumes until the container context ends
func (r *WorkerRunner) MustRun(container *dig.Container) {
	err := r.runFn(container)
	if err == nil || errors.Is(err, context.Canceled) {
		return
	}
	panic(err)
}

func runWorker(container *dig.Container) error {
	return container.Invoke(workerRun)
}

type workerResources struct {
	dig.In

	Stores   *stores
	Producer *kafka.Producer
}

func workerRun(ctx context.Context, logger logx.Logger, consumer *kafka.Consumer, res workerResources) error {
	if consumer == nil {
		return fmt.Errorf("kafka consumer is nil: worker container misconfigured")
	}
	defer closeWorker(logger, consumer, res)

	logger.Info("location worker started")
	return consumer.Run(ctx)
}

func closeWorker(logger logx.Logger, consumer *kafka.Consumer, res workerResources) {
	if err := consumer.Close(); err != nil {
		logger.Error("kafka consumer close error", logx.Err(err))
	}
	if res.Producer != nil {
		if err := res.Producer.Close(); err != nil {
			logger.Error("kafka producer close error", logx.Err(err))
		}
	}
	res.Stores.Close()
}
