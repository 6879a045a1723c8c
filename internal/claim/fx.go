package claim

import (
	"github.com/nphies/claims-service/internal/claim/repository"
	"github.com/nphies/claims-service/internal/claim/service"
	"go.uber.org/fx"
)

var Module = fx.Module("claim",
	fx.Provide(
		repository.Provide,
		service.NewService,
	),
)
