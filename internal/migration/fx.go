package migration

import (
	"github.com/nphies/claims-service/internal/claim/domain"
	"github.com/nphies/claims-service/internal/config"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config) error {
		if cfg.DBType != "postgres" {
			// Embedded sqlite deployments get the schema straight from the
			// models.
			return conn.AutoMigrate(&domain.Claim{}, &domain.ClaimLine{}, &domain.DiagnosisCode{})
		}

		sqlDB, err := conn.DB()
		if err != nil {
			return err
		}
		return RunMigrations(sqlDB)
	}),
)
