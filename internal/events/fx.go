package events

import (
	"context"

	"github.com/nphies/claims-service/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

func providePublisher(lc fx.Lifecycle, cfg config.Config, log *zap.Logger) Publisher {
	if len(cfg.KafkaBrokers) == 0 {
		log.Warn("no kafka brokers configured, claim events disabled")
		return NoopPublisher{}
	}

	publisher := NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic, log)
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			_ = ctx
			return publisher.Close()
		},
	})
	return publisher
}

// Module wires the claim event publisher.
var Module = fx.Module("events",
	fx.Provide(providePublisher),
)
