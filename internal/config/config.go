// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"time"
)

// StructuredConfig is the top-level configuration container for the
// go-task-keeper server. It aggregates all sub-configurations and is
// populated by merging values from a .env file, environment variables,
// command-line flags, and an optional JSON file.
//
// Struct tags:
//   - envPrefix — prefix applied to all nested env tag lookups (caarlos0/env).
//   - env       — direct environment variable name for scalar fields.
type StructuredConfig struct {
	// App holds application-level settings such as signing keys,
	// token lifetimes, and the application version.
	App App `envPrefix:"APP_"`

	// Storage holds configuration for the persistence backend.
	Storage Storage `envPrefix:"STORAGE_"`

	// Server holds network address and timeout settings for the HTTP and
	// gRPC servers.
	Server Server `envPrefix:"SERVER_"`

	// Notifier selects and configures the outbound email delivery driver.
	Notifier Notifier `envPrefix:"NOTIFIER_"`

	// Cache holds the optional Redis connection used for session revocation.
	Cache Cache `envPrefix:"CACHE_"`

	// Workers holds configuration for background worker processes.
	Workers Workers `envPrefix:"WORKERS_"`

	// JSONFilePath is the optional path to a JSON configuration file.
	// Populated via the CONFIG environment variable or the -c / -config flag.
	JSONFilePath string `env:"CONFIG"`
}

// Storage groups the configuration for the storage backend.
type Storage struct {
	// DB holds the relational database connection settings.
	DB DB `envPrefix:"DB_"`
}

// App holds application-level configuration values that control security,
// token lifecycle, and versioning.
type App struct {
	// TokenSignKey is the secret key used to sign and verify session tokens.
	// Env: APP_TOKEN_SIGN_KEY
	TokenSignKey string `env:"TOKEN_SIGN_KEY"`

	// TokenIssuer is the "iss" claim embedded in every issued session token.
	// Env: APP_TOKEN_ISSUER
	TokenIssuer string `env:"TOKEN_ISSUER"`

	// TokenDuration specifies how long a session token remains valid after
	// issuance. Shorter values shrink the window in which a token carries a
	// stale role.
	// Env: APP_TOKEN_DURATION
	TokenDuration time.Duration `env:"TOKEN_DURATION"`

	// ActionTokenHashKey is the HMAC key used to digest action token values
	// before they are stored.
	// Env: APP_ACTION_TOKEN_HASH_KEY
	ActionTokenHashKey string `env:"ACTION_TOKEN_HASH_KEY"`

	// VerifyTokenTTL is the lifetime of an email verification token.
	// Env: APP_VERIFY_TOKEN_TTL
	VerifyTokenTTL time.Duration `env:"VERIFY_TOKEN_TTL"`

	// ResetTokenTTL is the lifetime of a password reset token.
	// Env: APP_RESET_TOKEN_TTL
	ResetTokenTTL time.Duration `env:"RESET_TOKEN_TTL"`

	// BcryptCost is the bcrypt work factor used for password hashing.
	// Env: APP_BCRYPT_COST
	BcryptCost int `env:"BCRYPT_COST"`

	// FrontendURL is the base URL used to build links in outgoing emails.
	// Env: APP_FRONTEND_URL
	FrontendURL string `env:"FRONTEND_URL"`

	// LogLevel is the minimum zerolog level (e.g. "debug", "info").
	// Env: APP_LOG_LEVEL
	LogLevel string `env:"LOG_LEVEL"`

	// Version is the semantic version string of the running application.
	// Env: APP_VERSION
	Version string `env:"VERSION"`
}

// Server holds network and timeout settings for the inbound transport layer.
type Server struct {
	// HTTPAddress is the TCP address on which the HTTP server listens,
	// in "host:port" format (e.g. "0.0.0.0:8080").
	// Env: SERVER_ADDRESS
	HTTPAddress string `env:"ADDRESS"`

	// GRPCAddress is the TCP address on which the gRPC health server listens.
	// Empty disables the gRPC server.
	// Env: SERVER_GRPC_ADDRESS
	GRPCAddress string `env:"GRPC_ADDRESS"`

	// RequestTimeout is the maximum duration allowed for a single inbound
	// request before the server cancels it (e.g. "30s", "1m").
	// Env: SERVER_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`
}

// DB holds connection settings for the relational database backend.
type DB struct {
	// DSN is the PostgreSQL Data Source Name. Empty selects the in-memory store.
	// Env: STORAGE_DB_DATABASE_URI
	DSN string `env:"DATABASE_URI"`
}

// Notifier drivers.
const (
	NotifierLog  = "log"
	NotifierHTTP = "http"
	NotifierAMQP = "amqp"
)

// Notifier configures outbound email delivery.
type Notifier struct {
	// Driver is one of "log", "http" or "amqp".
	// Env: NOTIFIER_DRIVER
	Driver string `env:"DRIVER"`

	// Endpoint is the mail relay URL used by the http driver.
	// Env: NOTIFIER_ENDPOINT
	Endpoint string `env:"ENDPOINT"`

	// APIKey is sent as a bearer token to the mail relay.
	// Env: NOTIFIER_API_KEY
	APIKey string `env:"API_KEY"`

	// Sender is the From address of outgoing emails.
	// Env: NOTIFIER_SENDER
	Sender string `env:"SENDER"`

	// Timeout bounds a single delivery attempt.
	// Env: NOTIFIER_TIMEOUT
	Timeout time.Duration `env:"TIMEOUT"`

	// AMQPURL is the broker URL used by the amqp driver.
	// Env: NOTIFIER_AMQP_URL
	AMQPURL string `env:"AMQP_URL"`

	// AMQPQueue is the queue email jobs are published to.
	// Env: NOTIFIER_AMQP_QUEUE
	AMQPQueue string `env:"AMQP_QUEUE"`

	// QueueSize is the capacity of the in-process delivery queue.
	// Env: NOTIFIER_QUEUE_SIZE
	QueueSize int `env:"QUEUE_SIZE"`

	// Workers is the number of delivery goroutines.
	// Env: NOTIFIER_WORKERS
	Workers int `env:"WORKERS"`
}

// Cache holds Redis settings. An empty address keeps the revocation set
// in process memory.
type Cache struct {
	// Env: CACHE_REDIS_ADDR
	RedisAddr string `env:"REDIS_ADDR"`
	// Env: CACHE_REDIS_PASSWORD
	RedisPassword string `env:"REDIS_PASSWORD"`
	// Env: CACHE_REDIS_DB
	RedisDB int `env:"REDIS_DB"`
}

// Workers holds configuration for background worker processes.
type Workers struct {
	// PurgeInterval is how often expired and consumed action tokens are deleted.
	// Env: WORKERS_PURGE_INTERVAL
	PurgeInterval time.Duration `env:"PURGE_INTERVAL"`
}

// GetStructuredConfig loads, merges, and validates the application
// configuration from all available sources in the following priority order
// (later sources override earlier non-zero fields):
//  1. .env file (loaded into the process environment)
//  2. Environment variables
//  3. Command-line flags
//  4. JSON file (path resolved from sources 2 and 3)
//
// Defaults are applied to fields left empty by every source.
func GetStructuredConfig() (*StructuredConfig, error) {
	return newConfigBuilder().
		withDotEnv().
		withEnv().
		withFlags().
		withJSON().
		build()
}
