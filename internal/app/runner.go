package app

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/dig"
	"golang.org/x/sync/errgroup"

	"shipment-tracker/internal/logx"
	"shipment-tracker/internal/transport/kafka"
)

const shutdownTimeout = 15 * time.Second

// Runner runs the HTTP server held by a container.
type Runner struct {
	runFn func(*dig.Container) error
	exit  func(string, ...interface{})
}

// NewRunner returns a Runner for the API container.
func NewRunner() *Runner {
	return &Runner{runFn: run, exit: log.Fatalf}
}

// MustRun starts the HTTP server and blocks until the container context ends.
func (r *Runner) MustRun(container *dig.Container) {
	err := r.runFn(container)
	switch {
	case err == nil:
	case errors.Is(err, context.Canceled):
		log.Println("shutdown requested, exiting")
	case errors.Is(err, context.DeadlineExceeded):
		log.Println("startup aborted: startup timeout exceeded")
	default:
		r.exit("run error: %v", err)
	}
}

// resources are the connections closed once the server has stopped.
type resources struct {
	dig.In

	Stores   *stores
	Redis    *redis.Client
	Producer *kafka.Producer
}

func run(container *dig.Container) error {
	return container.Invoke(appRun)
}

func appRun(ctx context.Context, server *http.Server, logger logx.Logger, res resources) error {
	defer closeResources(logger, res)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("http server listening", logx.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down http server")
		gracefulShutdown(server, logger, shutdownTimeout)
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}

func gracefulShutdown(srv *http.Server, logger logx.Logger, timeout time.Duration) {
	shCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := srv.Shutdown(shCtx); err != nil {
		logger.Error("graceful shutdown error", logx.Err(err))
	}
}

func closeResources(logger logx.Logger, res resources) {
	if res.Producer != nil {
		if err := res.Producer.Close(); err != nil {
			logger.Error("kafka producer close error", logx.Err(err))
		}
	}
	if res.Redis != nil {
		if err := res.Redis.Close(); err != nil {
			logger.Error("redis close error", logx.Err(err))
		}
	}
	res.Stores.Close()
}
