// The apiserver binary serves the RoofSight REST API: per-property risk
// analysis, portfolio sweeps, inspection grouping, seasonal advice, and
// route optimization.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/roofsight/RoofSight-Engine/internal/application/planner"
	"github.com/roofsight/RoofSight-Engine/internal/config"
	"github.com/roofsight/RoofSight-Engine/internal/domain/grouping"
	"github.com/roofsight/RoofSight-Engine/internal/domain/risk"
	"github.com/roofsight/RoofSight-Engine/internal/domain/routing"
	"github.com/roofsight/RoofSight-Engine/internal/infrastructure/database/postgres"
	"github.com/roofsight/RoofSight-Engine/internal/infrastructure/database/redis"
	"github.com/roofsight/RoofSight-Engine/internal/infrastructure/monitoring/logging"
	"github.com/roofsight/RoofSight-Engine/internal/infrastructure/monitoring/prometheus"
	httpserver "github.com/roofsight/RoofSight-Engine/internal/interfaces/http"
	"github.com/roofsight/RoofSight-Engine/internal/interfaces/http/handlers"
)

func main() {
	configPath := flag.String("config", "", "path to configuration file (default: environment only)")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "apiserver: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	var cfg *config.Config
	var err error
	if configPath != "" {
		cfg, err = config.Load(configPath)
	} else {
		cfg, err = config.LoadFromEnv()
	}
	if err != nil {
		return err
	}

	log, err := logging.NewLogger(logging.LogConfig{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})
	if err != nil {
		return err
	}
	logging.SetDefault(log)

	// Platform store.
	conn, err := postgres.NewConnection(cfg.Database, log)
	if err != nil {
		return err
	}
	defer conn.Close()
	store := postgres.NewStore(conn, log)

	// Cache. The API still serves without Redis; caching is just disabled.
	var cache redis.Cache
	redisClient, err := redis.NewClient(cfg.Redis, log)
	if err != nil {
		log.Warn("redis unavailable; seasonal caching disabled", logging.Err(err))
	} else {
		defer redisClient.Close()
		cache = redis.NewCache(redisClient, log, redis.WithDefaultTTL(cfg.Redis.DefaultTTL))
	}

	// Metrics.
	collector, err := prometheus.NewMetricsCollector(prometheus.CollectorConfig{
		Namespace:            "roofsight",
		EnableProcessMetrics: true,
		EnableGoMetrics:      true,
	}, log)
	if err != nil {
		return err
	}
	metrics := prometheus.NewAppMetrics(collector)

	// Domain services and the planner facade.
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
		Cache:   cache,
		Metrics: metrics,
		Log:     log,
	})
	if err != nil {
		return err
	}

	checkers := map[string]handlers.HealthChecker{
		"postgres": conn.HealthCheck,
	}
	if redisClient != nil {
		checkers["redis"] = redisClient.Ping
	}

	router := httpserver.NewRouter(httpserver.RouterConfig{
		RiskHandler:      handlers.NewRiskHandler(svc),
		GroupHandler:     handlers.NewGroupHandler(svc),
		SeasonalHandler:  handlers.NewSeasonalHandler(svc),
		RouteHandler:     handlers.NewRouteHandler(svc),
		HealthHandler:    handlers.NewHealthHandler(checkers),
		Logger:           log,
		Metrics:          metrics,
		MetricsCollector: collector,
		Mode:             cfg.Server.Mode,
	})

	server := httpserver.NewServer(cfg.Server, router, log)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		log.Info("shutting down", logging.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	return server.Shutdown(ctx)
}
