package database

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/nandoesporte/gut59/backend/config"
)

const redisPingTimeout = 5 * time.Second

// RedisOptions builds client options from the config, preferring REDIS_URL when set
func RedisOptions(cfg *config.Config) (*redis.Options, error) {
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
		}
		return opts, nil
	}
	return &redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.RedisHost, cfg.RedisPort),
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	}, nil
}

// NewRedisClient connects to redis and fails when it does not answer a ping
func NewRedisClient(ctx context.Context, cfg *config.Config) (*redis.Client, error) {
	opts, err := RedisOptions(cfg)
	if err != nil {
		return nil, err
	}
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(ctx, redisPingTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", opts.Addr, err)
	}

	logrus.WithField("addr", opts.Addr).Info("successfully connected to redis")
	return client, nil
}

// OpenOptionalRedis returns nil when redis is unreachable. Callers treat a nil
// client as running without rate limiting and live notification streams.
func OpenOptionalRedis(ctx context.Context, cfg *config.Config) *redis.Client {
	client, err := NewRedisClient(ctx, cfg)
	if err != nil {
		logrus.WithError(err).Warn("redis unavailable, continuing without rate limiting and notification streams")
		return nil
	}
	return client
}
