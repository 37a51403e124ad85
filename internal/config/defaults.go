package config

import "time"

const defaultPort = 8080

// Store drivers accepted by STORE_DRIVER.
const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
)

var defaultDB = DB{
	Host: "127.0.0.1",
	Port: "5432",
	User: "myuser",
	Pass: "mypassword",
	Name: "shipments",
}

var defaultAuth = Auth{
	Secret: "dev-secret-change-me",
	Issuer: "shipment-tracker",
	TTL:    time.Hour,
}

var defaultKafka = Kafka{
	EventsTopic:    "shipment-events",
	LocationsTopic: "carrier-locations",
	GroupID:        "shipment-tracker-worker",
	Publish: Retry{
		MaxAttempts: 4,
		BaseDelay:   150 * time.Millisecond,
		MaxDelay:    2 * time.Second,
	},
}

var defaultRateLimit = RateLimit{
	Enabled:    true,
	Rate:       20,
	Burst:      40,
	TTL:        5 * time.Minute,
	MaxBuckets: 10000,
}

const defaultOperationTimeout = 3 * time.Second

// DefaultPort returns the default port.
func DefaultPort() int {
	return defaultPort
}

// DefaultDB returns the default database settings.
func DefaultDB() DB {
	return defaultDB
}

// DefaultAuth returns the default token settings.
func DefaultAuth() Auth {
	return defaultAuth
}

// DefaultKafka returns the default Kafka settings.
func DefaultKafka() Kafka {
	return defaultKafka
}

// DefaultRateLimit returns the default rate limit settings.
func DefaultRateLimit() RateLimit {
	return defaultRateLimit
}
