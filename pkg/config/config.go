package config

import (
	"time"

	"github.com/joho/godotenv"
)

// Config holds the core runtime configuration for the gateway instance.
// It supports environment-based initialization, with sensible defaults.
type Config struct {
	ServiceName string // e.g. "trading-gateway"
	Env         string // e.g. "dev", "uat", "prod"
	LogLevel    string // "debug", "info", etc.
	Port        int    // HTTP API port
	MetricsPort int    // Prometheus scrape port

	DatabaseURL string // optional Postgres archive
	RedisAddr   string // e.g. localhost:6379
	RedisDB     int
	RedisPass   string
	NATSURL     string // e.g. nats://localhost:4222
	AWSRegion   string // for AWS SDK client

	ConfirmPollInterval time.Duration // receipt poll cadence
	ConfirmTimeout      time.Duration // give up on a pending payment after this

	TokenSymbol string  // settlement token ticker
	TokenPrice  float64 // USD per settlement token

	CacheTTL    time.Duration // TTL for secret cache
	CleanupFreq time.Duration // frequency for cache cleanup goroutine

	OutboundSubject string // NATS subject prefix for payment events
	EventStream     string // JetStream stream the outbound subjects belong to
}

// Load loads configuration from environment variables and .env file if present.
func Load() *Config {
	// load .env silently (no error if missing)
	_ = godotenv.Load()

	return &Config{
		ServiceName: GetEnv("SERVICE_NAME", "trading-gateway"),
		Env:         GetEnv("ENV", "dev"),
		LogLevel:    GetEnv("LOG_LEVEL", "info"),
		Port:        GetEnvInt("GATEWAY_PORT", 9040),
		MetricsPort: GetEnvInt("METRICS_PORT", 9041),

		DatabaseURL: GetEnv("DATABASE_URL", ""),
		RedisAddr:   GetEnv("REDIS_ADDR", "localhost:6379"),
		RedisDB:     GetEnvInt("REDIS_DB", 0),
		RedisPass:   GetEnv("REDIS_PASS", ""),
		NATSURL:     GetEnv("NATS_URL", "nats://localhost:4222"),
		AWSRegion:   GetEnv("AWS_REGION", "us-east-2"),

		ConfirmPollInterval: GetEnvDuration("CONFIRM_POLL_INTERVAL", 5*time.Second),
		ConfirmTimeout:      GetEnvDuration("CONFIRM_TIMEOUT", 2*time.Minute),

		TokenSymbol: GetEnv("TOKEN_SYMBOL", "SOL"),
		TokenPrice:  GetEnvFloat("TOKEN_PRICE", 142.50),

		CacheTTL:    GetEnvDuration("SECRET_CACHE_TTL", 10*time.Minute),
		CleanupFreq: GetEnvDuration("SECRET_CACHE_CLEANUP", 15*time.Minute),

		OutboundSubject: GetEnv("OUTBOUND_SUBJECT", "evt.payment"),
		EventStream:     GetEnv("EVENT_STREAM", "PAYMENTS"),
	}
}
