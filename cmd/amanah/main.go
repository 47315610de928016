package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/halaltools/amanah/internal/clock"
	"github.com/halaltools/amanah/internal/config"
	"github.com/halaltools/amanah/internal/migration"
	"github.com/halaltools/amanah/internal/observability"
	"github.com/halaltools/amanah/internal/scheduler"
	"github.com/halaltools/amanah/internal/seed"
	"github.com/halaltools/amanah/internal/server"
	"github.com/halaltools/amanah/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,

		migration.Module,
		seed.Module,
		server.Module,
		scheduler.Module,
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
