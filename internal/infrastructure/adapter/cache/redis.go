package cache

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/ama3it/image-workers-backend/internal/domain/entity"
	coreport "github.com/ama3it/image-workers-backend/internal/domain/port/core"
)

const (
	jobStatusKeyPrefix     = "job:status:"
	walletBalanceKeyPrefix = "wallet:balance:"

	jobStatusTTL     = 24 * time.Hour
	walletBalanceTTL = 5 * time.Minute
)

// Config holds the Redis connection settings
type Config struct {
	Addr     string
	Password string
	DB       int
}

// RedisCache implements the read-through cache on Redis. Every operation is
// best effort: failures are logged and swallowed because callers always have
// the database as the source of truth.
type RedisCache struct {
	client *redis.Client
	logger coreport.Logger
}

// NewRedisCache creates a new Redis-backed cache
func NewRedisCache(config Config, logger coreport.Logger) *RedisCache {
	client := redis.NewClient(&redis.Options{
		Addr:     config.Addr,
		Password: config.Password,
		DB:       config.DB,
	})
	return &RedisCache{
		client: client,
		logger: logger,
	}
}

// Ping verifies the Redis connection
func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close releases the underlying client
func (c *RedisCache) Close() error {
	return c.client.Close()
}

// JobStatus returns the cached status for a job, if any
func (c *RedisCache) JobStatus(ctx context.Context, jobID uuid.UUID) (entity.JobStatus, bool) {
	value, err := c.client.Get(ctx, jobStatusKeyPrefix+jobID.String()).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("Cache read failed", map[string]any{
				"key":   jobStatusKeyPrefix + jobID.String(),
				"error": err.Error(),
			})
		}
		return "", false
	}
	return entity.JobStatus(value), true
}

// StoreJobStatus caches a job's status
func (c *RedisCache) StoreJobStatus(ctx context.Context, jobID uuid.UUID, status entity.JobStatus) {
	err := c.client.Set(ctx, jobStatusKeyPrefix+jobID.String(), string(status), jobStatusTTL).Err()
	if err != nil {
		c.logger.Warn("Cache write failed", map[string]any{
			"key":   jobStatusKeyPrefix + jobID.String(),
			"error": err.Error(),
		})
	}
}

// WalletBalance returns the cached formatted balance for a user, if any
func (c *RedisCache) WalletBalance(ctx context.Context, userID uuid.UUID) (string, bool) {
	value, err := c.client.Get(ctx, walletBalanceKeyPrefix+userID.String()).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("Cache read failed", map[string]any{
				"key":   walletBalanceKeyPrefix + userID.String(),
				"error": err.Error(),
			})
		}
		return "", false
	}
	return value, true
}

// StoreWalletBalance caches a user's formatted balance
func (c *RedisCache) StoreWalletBalance(ctx context.Context, userID uuid.UUID, balance string) {
	err := c.client.Set(ctx, walletBalanceKeyPrefix+userID.String(), balance, walletBalanceTTL).Err()
	if err != nil {
		c.logger.Warn("Cache write failed", map[string]any{
			"key":   walletBalanceKeyPrefix + userID.String(),
			"error": err.Error(),
		})
	}
}

// DropWalletBalance invalidates a user's cached balance after a mutation
func (c *RedisCache) DropWalletBalance(ctx context.Context, userID uuid.UUID) {
	err := c.client.Del(ctx, walletBalanceKeyPrefix+userID.String()).Err()
	if err != nil {
		c.logger.Warn("Cache invalidation failed", map[string]any{
			"key":   walletBalanceKeyPrefix + userID.String(),
			"error": err.Error(),
		})
	}
}
