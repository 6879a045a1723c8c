package cache

import (
	"context"

	"github.com/nphies/claims-service/internal/config"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// NewRedisClient connects to redis when an address is configured; otherwise
// it returns nil and redis-backed features degrade gracefully.
func NewRedisClient(lc fx.Lifecycle, cfg config.Config, log *zap.Logger) *redis.Client {
	if cfg.RedisAddr == "" {
		log.Warn("no redis address configured, caching and rate limiting disabled")
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			_ = ctx
			return client.Close()
		},
	})
	return client
}

// Module wires the shared redis client.
var Module = fx.Module("cache",
	fx.Provide(NewRedisClient),
)
