package flags

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis is a Store backed by a Redis hash, for deployments where quest
// progress is shared or hosted outside the game process.
type Redis struct {
	client  *redis.Client
	key     string
	timeout time.Duration
	logger  *slog.Logger
}

// RedisOption configures a Redis store.
type RedisOption func(*Redis)

// WithKey sets the hash key flags are stored under.
func WithKey(key string) RedisOption {
	return func(r *Redis) { r.key = key }
}

// WithTimeout bounds each Redis round trip.
func WithTimeout(d time.Duration) RedisOption {
	return func(r *Redis) { r.timeout = d }
}

// NewRedis creates a Redis-backed store from an existing client.
func NewRedis(client *redis.Client, logger *slog.Logger, opts ...RedisOption) *Redis {
	r := &Redis{
		client:  client,
		key:     "questscript:flags",
		timeout: 5 * time.Second,
		logger:  logger,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}
	return r
}

// Ping verifies connectivity.
func (r *Redis) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

func (r *Redis) Get(name string) (any, bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	raw, err := r.client.HGet(ctx, r.key, name).Result()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		r.logger.Error("flag read failed", "flag", name, "error", err)
		return nil, false, fmt.Errorf("redis hget failed: %w", err)
	}

	var value any
	if err := json.Unmarshal([]byte(raw), &value); err != nil {
		return nil, false, fmt.Errorf("decoding flag %q: %w", name, err)
	}
	return value, true, nil
}

func (r *Redis) Set(name string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encoding flag %q: %w", name, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	if err := r.client.HSet(ctx, r.key, name, string(data)).Err(); err != nil {
		r.logger.Error("flag write failed", "flag", name, "error", err)
		return fmt.Errorf("redis hset failed: %w", err)
	}
	r.logger.Debug("flag written", "flag", name)
	return nil
}
