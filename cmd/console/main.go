package main

import (
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"

	"github.com/innovatun/console/internal/clock"
	"github.com/innovatun/console/internal/config"
	"github.com/innovatun/console/internal/migration"
	"github.com/innovatun/console/internal/observability"
	"github.com/innovatun/console/internal/server"
	"github.com/innovatun/console/pkg/db"
)

func main() {
	app := fx.New(
		config.Module,
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
