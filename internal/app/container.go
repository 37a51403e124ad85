package app

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/dig"

	"shipment-tracker/internal/config"
	"shipment-tracker/internal/http/handlers"
	"shipment-tracker/internal/http/middleware"
	"shipment-tracker/internal/http/middleware/ratelimit"
	"shipment-tracker/internal/http/router"
	"shipment-tracker/internal/identity"
	"shipment-tracker/internal/logx"
	"shipment-tracker/internal/metrics"
	"shipment-tracker/internal/ports/directory"
	"shipment-tracker/internal/service/auth"
	"shipment-tracker/internal/service/shipment"
	"shipment-tracker/internal/transport/kafka"
)

// ContainerBuilder is a dig container builder.
type ContainerBuilder struct {
	dbConnect dbConnectFunc
	logFatalf func(string, ...interface{})
	cfg       *config.Config
}

// NewContainerBuilder returns a new dig container builder
func NewContainerBuilder() *ContainerBuilder {
	return &ContainerBuilder{
		dbConnect: connectDbWithRetry,
		logFatalf: log.Fatalf,
	}
}

// WithDBConnect sets the database connection function
func (b *ContainerBuilder) WithDBConnect(fn dbConnectFunc) *ContainerBuilder {
	if fn != nil {
		b.dbConnect = fn
	}
	return b
}

// WithLogFatalf sets the log.Fatalf function
func (b *ContainerBuilder) WithLogFatalf(fn func(string, ...interface{})) *ContainerBuilder {
	if fn != nil {
		b.logFatalf = fn
	}
	return b
}

// WithConfig uses cfg instead of loading the configuration.
func (b *ContainerBuilder) WithConfig(cfg *config.Config) *ContainerBuilder {
	b.cfg = cfg
	return b
}

// MustBuild builds the API container.
func (b *ContainerBuilder) MustBuild(ctx context.Context) *dig.Container {
	container, err := b.build(ctx)
	if err != nil {
		b.logFatalf("failed to build container: %v", err)
	}
	return container
}

// MustBuildWorker builds the location worker container.
func (b *ContainerBuilder) MustBuildWorker(ctx context.Context) *dig.Container {
	container, err := b.buildWorker(ctx)
	if err != nil {
		b.logFatalf("failed to build worker container: %v", err)
	}
	return container
}

func (b *ContainerBuilder) build(ctx context.Context) (*dig.Container, error) {
	container := dig.New()

	steps := []buildStep{
		{"core", func(c *dig.Container) error { return registerCore(c, ctx, b.cfg) }},
		{"metrics", registerMetrics},
		{"store", func(c *dig.Container) error { return registerStore(c, b.dbConnect) }},
		{"events", registerEvents},
		{"service", registerService},
		{"identity", registerIdentity},
		{"http", registerHTTP},
	}
	return applySteps(container, steps)
}

func (b *ContainerBuilder) buildWorker(ctx context.Context) (*dig.Container, error) {
	container := dig.New()

	steps := []buildStep{
		{"core", func(c *dig.Container) error { return registerCore(c, ctx, b.cfg) }},
		{"metrics", registerMetrics},
		{"store", func(c *dig.Container) error { return registerStore(c, b.dbConnect) }},
		{"events", registerEvents},
		{"service", registerService},
		{"worker", registerWorker},
	}
	return applySteps(container, steps)
}

type buildStep struct {
	name string
	fn   func(*dig.Container) error
}

func applySteps(container *dig.Container, steps []buildStep) (*dig.Container, error) {
	for _, s := range steps {
		if err := s.fn(container); err != nil {
			return nil, fmt.Errorf("%s: %w", s.name, err)
		}
	}
	return container, nil
}

// MustBuildContainer builds and returns the API container
func MustBuildContainer(ctx context.Context) *dig.Container {
	return NewContainerBuilder().MustBuild(ctx)
}

// MustBuildWorkerContainer builds and returns the location worker container
func MustBuildWorkerContainer(ctx context.Context) *dig.Container {
	return NewContainerBuilder().MustBuildWorker(ctx)
}

func provideAll(container *dig.Container, providers ...any) error {
	for _, provider := range providers {
		if err := container.Provide(provider); err != nil {
			return fmt.Errorf("provide %T: %w", provider, err)
		}
	}
	return nil
}

func registerCore(container *dig.Container, ctx context.Context, cfg *config.Config) error {
	loadConfig := config.Load
	if cfg != nil {
		loadConfig = func() (*config.Config, error) { return cfg, nil }
	}
	return provideAll(container,
		func() context.Context { return ctx },
		NewLogger,
		loadConfig,
	)
}

type metricsOut struct {
	dig.Out

	RateLimitExceededTotal prometheus.Counter `name:"rate_limit_exceeded_total"`
	PublishRetriesTotal    prometheus.Counter `name:"publish_retries_total"`
	HTTP                   *metrics.HTTP
	Shipments              *metrics.Shipments
}

func provideMetrics() (metricsOut, error) {
	reg := prometheus.DefaultRegisterer

	rl, err := metrics.Register(reg, "rate_limit_exceeded_total", metrics.NewRateLimitExceededTotal())
	if err != nil {
		return metricsOut{}, err
	}
	pr, err := metrics.Register(reg, "shipment_event_publish_retries_total", metrics.NewPublishRetriesTotal())
	if err != nil {
		return metricsOut{}, err
	}
	httpMetrics := metrics.NewHTTP()
	if err := httpMetrics.Register(reg); err != nil {
		return metricsOut{}, err
	}
	shipments := metrics.NewShipments()
	if err := shipments.Register(reg); err != nil {
		return metricsOut{}, err
	}

	return metricsOut{
		RateLimitExceededTotal: rl,
		PublishRetriesTotal:    pr,
		HTTP:                   httpMetrics,
		Shipments:              shipments,
	}, nil
}

func registerMetrics(container *dig.Container) error {
	return provideAll(container, provideMetrics)
}

func registerStore(container *dig.Container, connect dbConnectFunc) error {
	return provideAll(container,
		newStoresProvider(connect),
		func(s *stores) directory.Users { return s.Users },
		func(s *stores) directory.Warehouses { return s.Warehouses },
	)
}

type publisherIn struct {
	dig.In

	Config   *config.Config
	Logger   logx.Logger
	Producer *kafka.Producer
	Retries  prometheus.Counter `name:"publish_retries_total"`
}

// providePublisher returns nil when Kafka is off so the service skips publishing.
func providePublisher(in publisherIn) shipment.EventPublisher {
	if in.Producer == nil {
		return nil
	}
	p := in.Config.Kafka.Publish
	return kafka.NewRetryingPublisher(in.Producer, in.Logger, in.Retries, kafka.RetryConfig{
		MaxAttempts: p.MaxAttempts,
		BaseDelay:   p.BaseDelay,
		MaxDelay:    p.MaxDelay,
	})
}

func registerEvents(container *dig.Container) error {
	return provideAll(container,
		func(cfg *config.Config) (*kafka.Producer, error) {
			return kafka.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.EventsTopic)
		},
		providePublisher,
	)
}

func registerService(container *dig.Container) error {
	return provideAll(container,
		func(
			s *stores,
			publisher shipment.EventPublisher,
			m *metrics.Shipments,
			cfg *config.Config,
			logger logx.Logger,
		) *shipment.Service {
			return shipment.NewService(s.Tx, publisher, m, cfg.OperationTimeout, logger)
		},
	)
}

func provideRedis(cfg *config.Config) (*redis.Client, error) {
	if cfg.RedisURL == "" {
		return nil, nil
	}
	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("parse REDIS_URL: %w", err)
	}
	return redis.NewClient(opts), nil
}

// provideRevocations falls back to an in-process list when Redis is not configured.
func provideRevocations(client *redis.Client, logger logx.Logger) identity.RevocationList {
	if client == nil {
		logger.Warn("REDIS_URL not set, token revocation is process-local")
		return identity.NewMemoryRevocations()
	}
	return identity.NewRedisRevocations(client)
}

func registerIdentity(container *dig.Container) error {
	return provideAll(container,
		func(cfg *config.Config) *identity.TokenService {
			return identity.NewTokenService(cfg.Auth.Secret, cfg.Auth.Issuer, cfg.Auth.TTL)
		},
		provideRedis,
		provideRevocations,
		identity.NewResolver,
		func(
			users directory.Users,
			tokens *identity.TokenService,
			revocations identity.RevocationList,
			logger logx.Logger,
		) *auth.Service {
			return auth.NewService(users, tokens, revocations, logger)
		},
	)
}

type rateLimitIn struct {
	dig.In

	Config   *config.Config
	Logger   logx.Logger
	Exceeded prometheus.Counter `name:"rate_limit_exceeded_total"`
}

func provideRateLimit(in rateLimitIn) *ratelimit.Middleware {
	rl := in.Config.RateLimit
	if !rl.Enabled {
		return ratelimit.New(in.Logger, in.Exceeded, ratelimit.NopLimiter{})
	}
	limiter := ratelimit.NewTokenBucketLimiter(ratelimit.RealClock{}, ratelimit.Config{
		Rate:       rl.Rate,
		Burst:      rl.Burst,
		TTL:        rl.TTL,
		MaxBuckets: rl.MaxBuckets,
	})
	return ratelimit.New(in.Logger, in.Exceeded, limiter)
}

type routerIn struct {
	dig.In

	Logger     logx.Logger
	Base       *handlers.Handlers
	Shipments  *handlers.ShipmentHandler
	Auth       *handlers.AuthHandler
	Warehouses *handlers.WarehouseHandler
	Resolver   *identity.Resolver
	RateLimit  *ratelimit.Middleware
	Metrics    *metrics.HTTP
}

func newRouter(in routerIn) http.Handler {
	return router.New(router.Deps{
		Base:          in.Base,
		Shipments:     in.Shipments,
		Auth:          in.Auth,
		Warehouses:    in.Warehouses,
		Authenticate:  middleware.Authenticate(in.Logger, in.Resolver),
		RateLimit:     in.RateLimit.Handler(),
		Observability: middleware.Observability(in.Logger, in.Metrics),
		Metrics:       promhttp.Handler(),
	})
}

func registerHTTP(container *dig.Container) error {
	serverProvider := func(cfg *config.Config, mux http.Handler) *http.Server {
		return &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.Port),
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      15 * time.Second,
			IdleTimeout:       60 * time.Second,
		}
	}
	return provideAll(container,
		handlers.New,
		handlers.NewShipmentUsecase,
		handlers.NewShipmentHandler,
		handlers.NewAuthUsecase,
		handlers.NewAuthHandler,
		handlers.NewWarehouseHandler,
		provideRateLimit,
		newRouter,
		serverProvider,
	)
}
