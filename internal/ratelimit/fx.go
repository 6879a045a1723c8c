package ratelimit

import (
	"github.com/nphies/claims-service/internal/config"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

func provideSubmitLimiter(cfg config.Config, client *redis.Client, log *zap.Logger) *SubmitLimiter {
	return NewSubmitLimiter(NewTokenBucket(client), cfg.SubmitRateLimit, cfg.SubmitRateBurst, log)
}

// Module wires the per-provider submission limiter.
var Module = fx.Module("ratelimit",
	fx.Provide(provideSubmitLimiter),
)
