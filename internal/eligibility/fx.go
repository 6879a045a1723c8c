package eligibility

import (
	"github.com/nphies/claims-service/internal/cache"
	"github.com/nphies/claims-service/internal/config"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

func provideChecker(cfg config.Config, client *redis.Client, log *zap.Logger) Checker {
	decisions := cache.NewManager(client, cfg.EligibilityCacheTTL)
	return NewClient(cfg.EligibilityBaseURL, cfg.EligibilityTimeout, decisions, log)
}

// Module wires the eligibility gate.
var Module = fx.Module("eligibility",
	fx.Provide(provideChecker),
)
