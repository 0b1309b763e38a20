// The worker binary consumes portfolio sweep requests from Kafka, runs the
// sweep against the platform store, caches the report in Redis, and
// publishes a completion event.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/roofsight/RoofSight-Engine/internal/application/planner"
	"github.com/roofsight/RoofSight-Engine/internal/config"
	"github.com/roofsight/RoofSight-Engine/internal/domain/grouping"
	"github.com/roofsight/RoofSight-Engine/internal/domain/risk"
	"github.com/roofsight/RoofSight-Engine/internal/domain/routing"
	"github.com/roofsight/RoofSight-Engine/internal/infrastructure/database/postgres"
	"github.com/roofsight/RoofSight-Engine/internal/infrastructure/database/redis"
	"github.com/roofsight/RoofSight-Engine/internal/infrastructure/messaging/kafka"
	"github.com/roofsight/RoofSight-Engine/internal/infrastructure/monitoring/logging"
	"github.com/roofsight/RoofSight-Engine/internal/infrastructure/monitoring/prometheus"
)

const (
	healthAddr     = ":8081"
	sweepLockName  = "portfolio-sweep"
	sweepReportTTL = time.Hour
)

func main() {
	configPath := flag.String("config", "", "path to configuration file (default: environment only)")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "worker: %v\n", err)
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
	log = log.Named("worker")

	conn, err := postgres.NewConnection(cfg.Database, log)
	if err != nil {
		return err
	}
	defer conn.Close()
	store := postgres.NewStore(conn, log)

	redisClient, err := redis.NewClient(cfg.Redis, log)
	if err != nil {
		return err
	}
	defer redisClient.Close()
	cache := redis.NewCache(redisClient, log)

	producer, err := kafka.NewProducer(cfg.Kafka, log)
	if err != nil {
		return err
	}
	defer producer.Close()

	consumer, err := kafka.NewConsumer(cfg.Kafka, cfg.Worker, []string{kafka.TopicSweepRequested}, log)
	if err != nil {
		return err
	}
	defer consumer.Close()

	collector, err := prometheus.NewMetricsCollector(prometheus.CollectorConfig{
		Namespace:            "roofsight",
		Subsystem:            "worker",
		EnableProcessMetrics: true,
		EnableGoMetrics:      true,
	}, log)
	if err != nil {
		return err
	}
	metrics := prometheus.NewAppMetrics(collector)

	svc, err := planner.NewService(planner.Dependencies{
		Store: store,
		Analyzer: risk.NewAnalyzer(store, log,
			risk.WithConcurrency(cfg.Worker.Concurrency)),
		Grouper:   grouping.NewGrouper(),
		Advisor:   grouping.NewSeasonalAdvisor(store, log),
		Optimizer: routing.NewOptimizer(),
		Cache:     cache,
		Metrics:   metrics,
		Log:       log,
	})
	if err != nil {
		return err
	}

	handler := &sweepHandler{
		svc:      svc,
		cache:    cache,
		producer: producer,
		redis:    redisClient,
		metrics:  metrics,
		log:      log,
	}
	consumer.Subscribe(kafka.TopicSweepRequested, handler.handle)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := consumer.Start(ctx); err != nil {
		return err
	}

	healthSrv := startHealthServer(collector, log)

	log.Info("sweep worker started",
		logging.String("topic", kafka.TopicSweepRequested),
		logging.Int("concurrency", cfg.Worker.Concurrency),
	)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Info("shutting down", logging.String("signal", sig.String()))

	cancel()
	if err := consumer.Close(); err != nil {
		log.Warn("consumer close failed", logging.Err(err))
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	return healthSrv.Shutdown(shutdownCtx)
}

// sweepHandler runs one portfolio sweep per request message.
type sweepHandler struct {
	svc      *planner.Service
	cache    redis.Cache
	producer *kafka.Producer
	redis    *redis.Client
	metrics  *prometheus.AppMetrics
	log      logging.Logger
}

// handle processes one sweep request. A cluster-wide lock keeps concurrent
// requests from sweeping the same portfolio twice; losing the lock is not an
// error, the request is simply dropped.
func (h *sweepHandler) handle(ctx context.Context, msg *kafka.Message) error {
	envelope, err := kafka.DecodeEnvelope(msg)
	if err != nil {
		h.log.Warn("dropping malformed sweep request", logging.Err(err))
		return nil
	}
	var payload kafka.SweepRequestedPayload
	if err := envelope.DecodePayload(&payload); err != nil {
		h.log.Warn("dropping sweep request with malformed payload", logging.Err(err))
		return nil
	}

	mutex := redis.NewMutex(h.redis, sweepLockName, redis.WithLockTTL(10*time.Minute))
	acquired, err := mutex.TryLock(ctx)
	if err != nil {
		return err
	}
	if !acquired {
		h.log.Info("sweep already in progress; skipping request",
			logging.String("request_id", payload.RequestID))
		return nil
	}
	defer func() {
		if err := mutex.Unlock(context.WithoutCancel(ctx)); err != nil {
			h.log.Warn("failed to release sweep lock", logging.Err(err))
		}
	}()

	start := time.Now()
	report, err := h.svc.AnalyzePortfolio(ctx)
	if err != nil {
		prometheus.RecordSweep(h.metrics, "kafka", "error", 0, time.Since(start))
		return err
	}
	report.RequestID = payload.RequestID
	prometheus.RecordSweep(h.metrics, "kafka", "ok", report.PropertiesScored, time.Since(start))

	if err := h.cache.Set(ctx, "sweep:report:"+payload.RequestID, report, sweepReportTTL); err != nil {
		h.log.Warn("failed to cache sweep report", logging.Err(err))
	}

	completed := kafka.SweepCompletedPayload{
		RequestID:        payload.RequestID,
		PropertiesTotal:  report.PropertiesTotal,
		PropertiesScored: report.PropertiesScored,
		TopRiskScore:     report.TopRiskScore,
		Duration:         report.Duration,
		CompletedAt:      time.Now().UTC(),
	}
	if err := h.producer.PublishEvent(ctx, kafka.TopicSweepCompleted, completed); err != nil {
		return err
	}

	h.log.Info("sweep completed",
		logging.String("request_id", payload.RequestID),
		logging.Int("scored", report.PropertiesScored),
		logging.Duration("took", report.Duration),
	)
	return nil
}

// startHealthServer exposes liveness and metrics for the worker process.
func startHealthServer(collector prometheus.MetricsCollector, log logging.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.Handle("/metrics", collector.Handler())

	srv := &http.Server{Addr: healthAddr, Handler: mux}
	go func() {
		log.Info("health server listening", logging.String("addr", healthAddr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("health server error", logging.Err(err))
		}
	}()
	return srv
}
