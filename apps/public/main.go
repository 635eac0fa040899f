package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/homestead/internal/clock"
	"github.com/smallbiznis/homestead/internal/config"
	"github.com/smallbiznis/homestead/internal/observability"
	"github.com/smallbiznis/homestead/internal/server"
	"github.com/smallbiznis/homestead/pkg/db"
	"go.uber.org/fx"
)

// Runs only the anonymous site API. Schema migration is left to the main
// binary.
func main() {
	app := fx.New(
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,

		server.PublicModule,
	)
	app.Run()
}

func RegisterSnowflake(cfg config.Config) (*snowflake.Node, error) {
	return snowflake.NewNode(cfg.NodeID)
}
