package repository

import (
	"context"
	"fmt"
	"time"

	"hotelops/internal/config"

	"github.com/redis/go-redis/v9"
)

// RedisHitCounter counts request hits per (caller key, window bucket)
// with INCR + EXPIRE. The first hit in a window creates the key and arms
// its expiry; subsequent hits only increment.
type RedisHitCounter struct {
	client *redis.Client
}

// NewRedisClient creates a client from config.
func NewRedisClient(cfg config.RedisConfig) *redis.Client {
	options := &redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	}
	return redis.NewClient(options)
}

func NewRedisHitCounter(client *redis.Client) *RedisHitCounter {
	return &RedisHitCounter{client: client}
}

func (r *RedisHitCounter) CheckRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	if r.client == nil {
		return false, fmt.Errorf("redis client is nil")
	}

	redisKey := fmt.Sprintf("rate_limit:%s", key)
	count, err := r.client.Incr(ctx, redisKey).Result()
	if err != nil {
		return false, fmt.Errorf("failed to increment rate limit: %w", err)
	}

	if count == 1 {
		r.client.Expire(ctx, redisKey, window)
	}

	return count <= int64(limit), nil
}

// Ping checks the Redis connection.
func Ping(ctx context.Context, client *redis.Client) error {
	_, err := client.Ping(ctx).Result()
	if err != nil {
		return fmt.Errorf("failed to ping Redis: %w", err)
	}
	return nil
}

// Close closes the Redis connection.
func Close(client *redis.Client) error {
	if client != nil {
		return client.Close()
	}
	return nil
}
