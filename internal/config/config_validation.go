// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"fmt"
	"time"
)

// Default values applied to fields left empty by every configuration source.
const (
	DefaultTokenIssuer    = "go-task-keeper"
	DefaultTokenDuration  = 24 * time.Hour
	DefaultVerifyTokenTTL = 24 * time.Hour
	DefaultResetTokenTTL  = time.Hour
	DefaultBcryptCost     = 10
	DefaultHTTPAddress    = "localhost:8080"
	DefaultRequestTimeout = 30 * time.Second

	DefaultNotifierTimeout   = 5 * time.Second
	DefaultNotifierQueueSize = 100
	DefaultNotifierWorkers   = 2
	DefaultAMQPQueue         = "task-keeper.emails"

	DefaultPurgeInterval = time.Hour
)

func (cfg *StructuredConfig) applyDefaults() {
	setDefault(&cfg.App.TokenIssuer, DefaultTokenIssuer)
	setDefault(&cfg.App.TokenDuration, DefaultTokenDuration)
	setDefault(&cfg.App.VerifyTokenTTL, DefaultVerifyTokenTTL)
	setDefault(&cfg.App.ResetTokenTTL, DefaultResetTokenTTL)
	setDefault(&cfg.App.BcryptCost, DefaultBcryptCost)

	if cfg.Server.GRPCAddress == "" {
		setDefault(&cfg.Server.HTTPAddress, DefaultHTTPAddress)
	}
	setDefault(&cfg.Server.RequestTimeout, DefaultRequestTimeout)

	setDefault(&cfg.Notifier.Driver, NotifierLog)
	setDefault(&cfg.Notifier.Timeout, DefaultNotifierTimeout)
	setDefault(&cfg.Notifier.QueueSize, DefaultNotifierQueueSize)
	setDefault(&cfg.Notifier.Workers, DefaultNotifierWorkers)
	setDefault(&cfg.Notifier.AMQPQueue, DefaultAMQPQueue)

	setDefault(&cfg.Workers.PurgeInterval, DefaultPurgeInterval)
}

func setDefault[T comparable](field *T, value T) {
	var zero T
	if *field == zero {
		*field = value
	}
}

// validate checks that the final merged [StructuredConfig] satisfies all
// application invariants before it is used at startup.
func (cfg *StructuredConfig) validate() error {
	if cfg.App.TokenSignKey == "" {
		return fmt.Errorf("%w: token sign key is required", ErrInvalidAppConfigs)
	}
	if cfg.App.ActionTokenHashKey == "" {
		return fmt.Errorf("%w: action token hash key is required", ErrInvalidAppConfigs)
	}
	if cfg.App.TokenDuration <= 0 || cfg.App.VerifyTokenTTL <= 0 || cfg.App.ResetTokenTTL <= 0 {
		return fmt.Errorf("%w: token lifetimes must be positive", ErrInvalidAppConfigs)
	}

	if cfg.Server.HTTPAddress == "" && cfg.Server.GRPCAddress == "" {
		return ErrInvalidServerConfigs
	}

	switch cfg.Notifier.Driver {
	case NotifierLog:
	case NotifierHTTP:
		if cfg.Notifier.Endpoint == "" {
			return fmt.Errorf("%w: http driver requires an endpoint", ErrInvalidNotifierConfigs)
		}
	case NotifierAMQP:
		if cfg.Notifier.AMQPURL == "" {
			return fmt.Errorf("%w: amqp driver requires a broker url", ErrInvalidNotifierConfigs)
		}
	default:
		return fmt.Errorf("%w: unknown driver %q", ErrInvalidNotifierConfigs, cfg.Notifier.Driver)
	}
	if cfg.Notifier.QueueSize < 1 || cfg.Notifier.Workers < 1 {
		return fmt.Errorf("%w: queue size and workers must be positive", ErrInvalidNotifierConfigs)
	}

	if cfg.Workers.PurgeInterval <= 0 {
		return ErrInvalidWorkerConfigs
	}

	return nil
}
