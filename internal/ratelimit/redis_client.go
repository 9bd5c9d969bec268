package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis health as reported on the health endpoints
const (
	RedisDisabled = "disabled"
	RedisUp       = "up"
	RedisDown     = "down"
)

// ErrRedisDisabled is returned by HealthCheck when no store is configured
var ErrRedisDisabled = errors.New("redis is disabled")

// pingTimeout bounds the startup ping and each health check
const pingTimeout = 2 * time.Second

// RedisClient holds the shared limiter store. The zero value and nil are
// valid disabled clients.
type RedisClient struct {
	client *redis.Client
	addr   string
}

// redisOptions sizes the pool for short limiter scripts. Retries are left
// to the caller; the limiter falls back to memory on the first error.
func redisOptions(addr, password string, db int) *redis.Options {
	return &redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		MaxRetries:   -1,
		DialTimeout:  pingTimeout,
		ReadTimeout:  500 * time.Millisecond,
		WriteTimeout: 500 * time.Millisecond,
		PoolSize:     16,
		MinIdleConns: 1,
	}
}

// NewRedisClient connects to addr. An empty addr returns a disabled
// client and no error. A failed ping returns a disabled client together
// with the error.
func NewRedisClient(ctx context.Context, addr, password string, db int) (*RedisClient, error) {
	if addr == "" {
		slog.Info("REDIS_ADDR not set, rate limiting is per process")
		return &RedisClient{}, nil
	}

	client := redis.NewClient(redisOptions(addr, password, db))

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return &RedisClient{addr: addr}, fmt.Errorf("redis ping %s: %w", addr, err)
	}

	slog.Info("Connected to Redis rate limit store", "addr", addr, "db", db)
	return &RedisClient{client: client, addr: addr}, nil
}

// GetClient returns the underlying client, nil when disabled
func (r *RedisClient) GetClient() *redis.Client {
	if r == nil {
		return nil
	}
	return r.client
}

// IsEnabled reports whether a store was connected at startup
func (r *RedisClient) IsEnabled() bool {
	return r != nil && r.client != nil
}

// HealthCheck pings the store
func (r *RedisClient) HealthCheck(ctx context.Context) error {
	if !r.IsEnabled() {
		return ErrRedisDisabled
	}
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	return r.client.Ping(ctx).Err()
}

// Status summarises HealthCheck as RedisDisabled, RedisUp or RedisDown
func (r *RedisClient) Status(ctx context.Context) string {
	err := r.HealthCheck(ctx)
	switch {
	case errors.Is(err, ErrRedisDisabled):
		return RedisDisabled
	case err != nil:
		slog.Warn("Redis health check failed", "addr", r.addr, "error", err)
		return RedisDown
	default:
		return RedisUp
	}
}

// Close releases the connection pool
func (r *RedisClient) Close() error {
	if !r.IsEnabled() {
		return nil
	}
	return r.client.Close()
}

// GetPoolStats returns connection pool counters
func (r *RedisClient) GetPoolStats() map[string]interface{} {
	if !r.IsEnabled() {
		return map[string]interface{}{"enabled": false}
	}

	ps := r.client.PoolStats()
	return map[string]interface{}{
		"enabled":     true,
		"addr":        r.addr,
		"hits":        ps.Hits,
		"misses":      ps.Misses,
		"timeouts":    ps.Timeouts,
		"total_conns": ps.TotalConns,
		"idle_conns":  ps.IdleConns,
	}
}
