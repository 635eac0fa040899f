package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/homestead/internal/clock"
	"github.com/smallbiznis/homestead/internal/config"
	"github.com/smallbiznis/homestead/internal/migration"
	"github.com/smallbiznis/homestead/internal/observability"
	"github.com/smallbiznis/homestead/internal/server"
	"github.com/smallbiznis/homestead/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		// Core infrastructure
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
		migration.Module,

		// Public site, admin API and SPA
		server.Module,
	)
	app.Run()
}

func RegisterSnowflake(cfg config.Config) (*snowflake.Node, error) {
	return snowflake.NewNode(cfg.NodeID)
}
