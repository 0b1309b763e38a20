// The roofsight binary is the operator CLI. It talks straight to the
// platform store; see internal/interfaces/cli for the command tree.
package main

import (
	"os"

	"github.com/roofsight/RoofSight-Engine/internal/application/planner"
	"github.com/roofsight/RoofSight-Engine/internal/domain/grouping"
	"github.com/roofsight/RoofSight-Engine/internal/domain/risk"
	"github.com/roofsight/RoofSight-Engine/internal/domain/routing"
	"github.com/roofsight/RoofSight-Engine/internal/infrastructure/database/postgres"
	"github.com/roofsight/RoofSight-Engine/internal/interfaces/cli"
)

func main() {
	if err := cli.Execute(buildService); err != nil {
		os.Exit(1)
	}
}

// buildService wires the planner service over a fresh store connection for
// one command invocation.
func buildService(cliCtx *cli.CLIContext) (*planner.Service, func(), error) {
	cfg := cliCtx.Config
	log := cliCtx.Logger

	conn, err := postgres.NewConnection(cfg.Database, log)
	if err != nil {
		return nil, nil, err
	}
	store := postgres.NewStore(conn, log)

	svc, err := planner.NewService(planner.Dependencies{
		Store: store,
		Analyzer: risk.NewAnalyzer(store, log,
			risk.WithConcurrency(cfg.Worker.Concurrency)),
		Grouper: grouping.NewGrouper(),
		Advisor: grouping.NewSeasonalAdvisor(store, log),
		Optimizer: routing.NewOptimizer(
			routing.WithTravelSpeed(cfg.Engine.TravelSpeedMPH),
			routing.WithMinutesPerStop(float64(cfg.Engine.MinutesPerStop)),
		),
		Log: log,
	})
	if err != nil {
		conn.Close()
		return nil, nil, err
	}

	return svc, func() { conn.Close() }, nil
}
