// Package kvcache provides the key-value store behind the HTTP response cache.
//
// Two backends are available: Redis for multi-process deployments and an
// in-process sharded cache used when no Redis URL is configured. Both treat
// TTL as the only expiry mechanism.
package kvcache

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/21haoxingxiu/core/internal/config"
)

// ErrCacheMiss indicates the requested key was not found or has expired.
var ErrCacheMiss = errors.New("cache miss")

// Store is a byte-oriented key-value store with per-key TTL.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// New picks the backend from configuration. A Redis server that does not
// answer the startup ping is still used: requests fail open until it is back.
func New(cfg *config.Config, logger *zap.Logger) (Store, error) {
	if cfg.RedisURL == "" {
		logger.Info("kvcache using in-process store", zap.Int("capacity", cfg.MemoryCacheCapacity))
		return NewMemoryStore(MemoryConfig{
			Capacity: cfg.MemoryCacheCapacity,
			MaxTTL:   cfg.MemoryCacheMaxTTL,
		}), nil
	}

	opts, err := redisOptions(cfg.RedisURL)
	if err != nil {
		logger.Error("redis url invalid", zap.Error(err))
		return nil, err
	}
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("redis ping failed, cache will fail open", zap.String("addr", opts.Addr), zap.Error(err))
	} else {
		logger.Info("kvcache connected to redis", zap.String("addr", opts.Addr))
	}
	return NewRedisStore(client), nil
}

func redisOptions(raw string) (*redis.Options, error) {
	if strings.HasPrefix(raw, "redis://") || strings.HasPrefix(raw, "rediss://") {
		return redis.ParseURL(raw)
	}
	return &redis.Options{Addr: raw}, nil
}
