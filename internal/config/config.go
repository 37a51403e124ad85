package config

import (
	"errors"
	"fmt"
	"log"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
)

// Config stores service and worker settings.
type Config struct {
	Port             int
	Store            string
	OperationTimeout time.Duration
	DB               DB
	Auth             Auth
	RedisURL         string
	Kafka            Kafka
	RateLimit        RateLimit
	// DemoPassword, when set with the memory store, seeds demo accounts with this password.
	DemoPassword string
}

// DB stores Postgres connection settings.
type DB struct {
	Host string
	Port string
	User string
	Pass string
	Name string
}

// DSN builds a postgres connection URL.
func (d DB) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s/%s?sslmode=disable",
		d.User, d.Pass, net.JoinHostPort(d.Host, d.Port), d.Name)
}

// Auth stores access token settings.
type Auth struct {
	Secret string
	Issuer string
	TTL    time.Duration
}

// Kafka stores broker settings. Empty Brokers disables Kafka.
type Kafka struct {
	Brokers        []string
	EventsTopic    string
	LocationsTopic string
	GroupID        string
	Publish        Retry
}

// Enabled reports whether any broker is configured.
func (k Kafka) Enabled() bool { return len(k.Brokers) > 0 }

// Retry stores event publish retry settings.
type Retry struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
}

// RateLimit stores per-client token bucket settings.
type RateLimit struct {
	Enabled    bool
	Rate       float64
	Burst      int
	TTL        time.Duration
	MaxBuckets int
}

// Load reads configuration in order: .env (if present) → environment → flags.
func Load() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("warning: .env not loaded: %v", err)
	}

	cfg := &Config{
		Port:             defaultPort,
		Store:            StorePostgres,
		OperationTimeout: defaultOperationTimeout,
		DB:               defaultDB,
		Auth:             defaultAuth,
		Kafka:            defaultKafka,
		RateLimit:        defaultRateLimit,
	}

	e := envReader{}
	cfg.Port = e.asInt("PORT", cfg.Port)
	cfg.Store = e.asString("STORE_DRIVER", cfg.Store)
	cfg.OperationTimeout = e.asDuration("SHIPMENT_OPERATION_TIMEOUT", cfg.OperationTimeout)

	cfg.DB.Host = e.asString("POSTGRES_HOST", cfg.DB.Host)
	cfg.DB.Port = e.asString("POSTGRES_PORT", cfg.DB.Port)
	cfg.DB.User = e.asString("POSTGRES_USER", cfg.DB.User)
	cfg.DB.Pass = e.asString("POSTGRES_PASSWORD", cfg.DB.Pass)
	cfg.DB.Name = e.asString("POSTGRES_DB", cfg.DB.Name)

	cfg.Auth.Secret = e.asString("JWT_SECRET", cfg.Auth.Secret)
	cfg.Auth.Issuer = e.asString("JWT_ISSUER", cfg.Auth.Issuer)
	cfg.Auth.TTL = e.asDuration("JWT_TTL", cfg.Auth.TTL)

	cfg.RedisURL = e.asString("REDIS_URL", "")
	cfg.DemoPassword = e.asString("DEMO_PASSWORD", "")

	cfg.Kafka.Brokers = splitList(e.asString("KAFKA_BROKERS", ""))
	cfg.Kafka.EventsTopic = e.asString("KAFKA_EVENTS_TOPIC", cfg.Kafka.EventsTopic)
	cfg.Kafka.LocationsTopic = e.asString("KAFKA_LOCATIONS_TOPIC", cfg.Kafka.LocationsTopic)
	cfg.Kafka.GroupID = e.asString("KAFKA_GROUP_ID", cfg.Kafka.GroupID)
	cfg.Kafka.Publish.MaxAttempts = e.asInt("KAFKA_PUBLISH_MAX_ATTEMPTS", cfg.Kafka.Publish.MaxAttempts)
	cfg.Kafka.Publish.BaseDelay = e.asDuration("KAFKA_PUBLISH_BASE_DELAY", cfg.Kafka.Publish.BaseDelay)
	cfg.Kafka.Publish.MaxDelay = e.asDuration("KAFKA_PUBLISH_MAX_DELAY", cfg.Kafka.Publish.MaxDelay)

	cfg.RateLimit.Enabled = e.asBool("RATE_LIMIT_ENABLED", cfg.RateLimit.Enabled)
	cfg.RateLimit.Rate = e.asFloat("RATE_LIMIT_RPS", cfg.RateLimit.Rate)
	cfg.RateLimit.Burst = e.asInt("RATE_LIMIT_BURST", cfg.RateLimit.Burst)
	cfg.RateLimit.TTL = e.asDuration("RATE_LIMIT_TTL", cfg.RateLimit.TTL)
	cfg.RateLimit.MaxBuckets = e.asInt("RATE_LIMIT_MAX_BUCKETS", cfg.RateLimit.MaxBuckets)

	if e.err != nil {
		return nil, e.err
	}

	pflag.IntVarP(&cfg.Port, "port", "p", cfg.Port, "port to listen on")
	pflag.StringVar(&cfg.Store, "store", cfg.Store, "store driver: postgres or memory")
	pflag.StringSliceVar(&cfg.Kafka.Brokers, "kafka-brokers", cfg.Kafka.Brokers, "comma separated Kafka brokers")
	pflag.CommandLine.ParseErrorsWhitelist.UnknownFlags = true
	if err := pflag.CommandLine.Parse(os.Args[1:]); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}
	if c.Store != StorePostgres && c.Store != StoreMemory {
		return fmt.Errorf("invalid store driver: %q", c.Store)
	}
	if p, err := strconv.Atoi(c.DB.Port); err != nil || p <= 0 || p > 65535 {
		return fmt.Errorf("invalid postgres port: %q", c.DB.Port)
	}
	if c.OperationTimeout <= 0 {
		return fmt.Errorf("invalid operation timeout: %s", c.OperationTimeout)
	}
	if strings.TrimSpace(c.Auth.Secret) == "" {
		return errors.New("JWT_SECRET must not be empty")
	}
	if c.Auth.TTL <= 0 {
		return fmt.Errorf("invalid token ttl: %s", c.Auth.TTL)
	}
	if c.Kafka.Publish.MaxAttempts <= 0 {
		return fmt.Errorf("invalid publish attempts: %d", c.Kafka.Publish.MaxAttempts)
	}
	if c.Kafka.Publish.BaseDelay < 0 || c.Kafka.Publish.MaxDelay < c.Kafka.Publish.BaseDelay {
		return fmt.Errorf("invalid publish delays: base %s, max %s", c.Kafka.Publish.BaseDelay, c.Kafka.Publish.MaxDelay)
	}
	if c.RateLimit.Enabled && (c.RateLimit.Rate <= 0 || c.RateLimit.Burst <= 0) {
		return fmt.Errorf("invalid rate limit: rate %v, burst %d", c.RateLimit.Rate, c.RateLimit.Burst)
	}
	return nil
}

// envReader reads typed environment values, keeping the first parse error.
type envReader struct {
	err error
}

func (e *envReader) lookup(key string) (string, bool) {
	v, ok := os.LookupEnv(key)
	v = strings.TrimSpace(v)
	return v, ok && v != ""
}

func (e *envReader) fail(key, v string, err error) {
	if e.err == nil {
		e.err = fmt.Errorf("invalid %s=%q: %w", key, v, err)
	}
}

func (e *envReader) asString(key, def string) string {
	if v, ok := e.lookup(key); ok {
		return v
	}
	return def
}

func (e *envReader) asInt(key string, def int) int {
	v, ok := e.lookup(key)
	if !ok {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		e.fail(key, v, err)
		return def
	}
	return n
}

func (e *envReader) asFloat(key string, def float64) float64 {
	v, ok := e.lookup(key)
	if !ok {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		e.fail(key, v, err)
		return def
	}
	return f
}

func (e *envReader) asBool(key string, def bool) bool {
	v, ok := e.lookup(key)
	if !ok {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		e.fail(key, v, err)
		return def
	}
	return b
}

func (e *envReader) asDuration(key string, def time.Duration) time.Duration {
	v, ok := e.lookup(key)
	if !ok {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		e.fail(key, v, err)
		return def
	}
	return d
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
