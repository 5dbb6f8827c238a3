// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"fmt"
	"time"

	"github.com/MKhiriev/go-task-keeper/internal/config"
	"github.com/MKhiriev/go-task-keeper/internal/logger"
	"github.com/redis/go-redis/v9"
)

const revokedKeyPrefix = "task-keeper:revoked:"

// redisClient is the subset of [redis.Client] used for revocation.
type redisClient interface {
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	Exists(ctx context.Context, keys ...string) *redis.IntCmd
	Close() error
}

// RedisRevocationStore is the Redis-backed [RevocationStore]. It stores each revoked jti as a key that expires
// together with the token, so the set never outgrows the live tokens.
type RedisRevocationStore struct {
	client redisClient
	now    func() time.Time
}

// NewRedisRevocationStore connects to Redis and pings it.
func NewRedisRevocationStore(ctx context.Context, cfg config.Cache, log *logger.Logger) (*RedisRevocationStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		log.Err(err).Str("func", "NewRedisRevocationStore").Msg("error connecting redis (ping)")
		_ = client.Close()
		return nil, fmt.Errorf("error connecting redis: %w", err)
	}
	log.Info().Str("func", "NewRedisRevocationStore").Msg("connected to redis successfully")

	return &RedisRevocationStore{client: client, now: time.Now}, nil
}

func (r *RedisRevocationStore) Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error {
	ttl := expiresAt.Sub(r.now())
	if ttl <= 0 {
		return nil
	}

	if err := r.client.Set(ctx, revokedKeyPrefix+tokenID, 1, ttl).Err(); err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "RedisRevocationStore.Revoke").Msg("error revoking token")
		return fmt.Errorf("error revoking token: %w", err)
	}
	return nil
}

func (r *RedisRevocationStore) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := r.client.Exists(ctx, revokedKeyPrefix+tokenID).Result()
	if err != nil {
		return false, fmt.Errorf("error checking token revocation: %w", err)
	}
	return n > 0, nil
}

// Close releases the Redis connection pool.
func (r *RedisRevocationStore) Close() error {
	return r.client.Close()
}
