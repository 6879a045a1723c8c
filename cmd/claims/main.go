package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/nphies/claims-service/internal/clock"
	"github.com/nphies/claims-service/internal/config"
	"github.com/nphies/claims-service/internal/logger"
	"github.com/nphies/claims-service/internal/migration"
	"github.com/nphies/claims-service/internal/observability"
	"github.com/nphies/claims-service/internal/server"
	"github.com/nphies/claims-service/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.Module,
		logger.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
		migration.Module,
		server.Module,
	)
	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
