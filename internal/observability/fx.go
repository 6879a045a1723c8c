package observability

import (
	"github.com/nphies/claims-service/internal/observability/metrics"
	"go.uber.org/fx"
)

// Module wires prometheus instrumentation.
var Module = fx.Module("observability",
	fx.Provide(metrics.New),
)
