package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/openjustice/contribution-engine/internal/config"
	"github.com/openjustice/contribution-engine/internal/contribution"
	"github.com/openjustice/contribution-engine/internal/contributionrule"
	"github.com/openjustice/contribution-engine/internal/correspondence"
	"github.com/openjustice/contribution-engine/internal/maatclient"
	"github.com/openjustice/contribution-engine/internal/migration"
	obsmetrics "github.com/openjustice/contribution-engine/internal/observability/metrics"
	"github.com/openjustice/contribution-engine/internal/seed"
	"github.com/openjustice/contribution-engine/internal/server"
	"github.com/openjustice/contribution-engine/pkg/db"
	"github.com/openjustice/contribution-engine/pkg/log"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		// Core infrastructure
		config.Module,
		log.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		obsmetrics.Module,
		migration.Module,
		seed.Module,

		// Functional domains
		maatclient.Module,
		correspondence.Module,
		contributionrule.Module,
		contribution.Module,
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
