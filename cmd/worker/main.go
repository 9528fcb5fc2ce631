// Background worker for ConsultTrack.  It consumes deadline and client change
// events from Kafka and regenerates the cached weekly summary, so the API
// server serves a fresh summary without waiting on the agent.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/ConsultTrack-Intelligence/internal/application/tracker"
	"github.com/turtacn/ConsultTrack-Intelligence/internal/config"
	"github.com/turtacn/ConsultTrack-Intelligence/internal/infrastructure/agent"
	"github.com/turtacn/ConsultTrack-Intelligence/internal/infrastructure/database/postgres"
	"github.com/turtacn/ConsultTrack-Intelligence/internal/infrastructure/database/postgres/repositories"
	"github.com/turtacn/ConsultTrack-Intelligence/internal/infrastructure/database/redis"
	"github.com/turtacn/ConsultTrack-Intelligence/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/ConsultTrack-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/ConsultTrack-Intelligence/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/ConsultTrack-Intelligence/internal/intelligence/assistant"
	"github.com/turtacn/ConsultTrack-Intelligence/internal/interfaces/http/handlers"
	"github.com/turtacn/ConsultTrack-Intelligence/pkg/types/common"
)

const (
	serviceName           = "worker"
	defaultHealthPort     = 8081
	defaultHandlerTimeout = 5 * time.Minute
	summaryLockName       = "summary:refresh"
)

var version = "dev"

func main() {
	configPath := flag.String("config", "", "path to configuration file (default: CONSULTTRACK_* environment only)")
	healthPort := flag.Int("health-port", defaultHealthPort, "port of the /healthz, /readyz and /metrics listener")
	replication := flag.Int("replication", 1, "replication factor of topics created at startup")
	flag.Parse()

	if err := run(*configPath, *healthPort, *replication); err != nil {
		fmt.Fprintf(os.Stderr, "worker: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string, healthPort, replication int) error {
	cfg, err := config.LoadOrEnv(configPath)
	if err != nil {
		return err
	}
	if err := checkWorkerConfig(cfg); err != nil {
		return err
	}
	if cfg.Kafka.DeadLetterTopic == "" {
		cfg.Kafka.DeadLetterTopic = kafka.TopicDeadLetter
	}

	logger, err := logging.NewLogger(logging.LogConfig{
		Level:            cfg.Log.Level,
		Format:           cfg.Log.Format,
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
	})
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	logger = logger.Named(serviceName)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("starting ConsultTrack worker", logging.String("version", version), logging.String("group", cfg.Kafka.GroupID))

	var (
		metrics        *prometheus.AppMetrics
		metricsHandler http.Handler
	)
	if cfg.Metrics.Enabled {
		collector, err := prometheus.NewMetricsCollector(prometheus.CollectorConfigFrom(cfg.Metrics, serviceName), logger)
		if err != nil {
			return fmt.Errorf("metrics: %w", err)
		}
		metrics = prometheus.NewAppMetrics(collector)
		metricsHandler = collector.Handler()
	}

	// Store
	pool, err := postgres.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return err
	}
	defer pool.Close()
	store := repositories.NewStore(pool, logger)

	// Redis: shared summary cache and the refresh lock
	rc, err := redis.NewClient(cfg.Redis, logger)
	if err != nil {
		return fmt.Errorf("redis: %w", err)
	}
	defer rc.Close()
	cache := redis.NewRedisCache(rc, logger, redis.WithDefaultTTL(cfg.Engine.SummaryTTL))
	lock := redis.NewLockFactory(rc, logger).NewMutex(summaryLockName, redis.WithLockTTL(defaultHandlerTimeout))

	// Summary generation
	caller, err := agent.NewHTTPCaller(cfg.Agent, logger)
	if err != nil {
		return fmt.Errorf("agent: %w", err)
	}
	clock := common.SystemClock{Location: cfg.Engine.Location()}
	tlog := tracker.NewLoggerAdapter(logger)
	source := tracker.NewSnapshotSource(store.Clients, store.Deadlines, tracker.SnapshotLimits{
		MaxClients:            cfg.Engine.MaxClients,
		MaxDeadlinesPerClient: cfg.Engine.MaxDeadlinesPerClient,
	})
	opts := []assistant.Option{
		assistant.WithClock(clock),
		assistant.WithLogger(tlog),
		assistant.WithSerializer(assistant.Serializer{Format: assistant.ContextFormat(cfg.Engine.ContextFormat)}),
	}
	if metrics != nil {
		opts = append(opts, assistant.WithObserver(metrics))
	}
	generator := assistant.NewSummaryGenerator(caller, source, cfg.Agent.AgentID, opts...)
	dashboard := tracker.NewDashboardService(store.Clients, store.Deadlines, generator, cache, clock, tlog,
		tracker.DashboardServiceConfig{SummaryTTL: cfg.Engine.SummaryTTL})
	refresher := tracker.NewSummaryRefresher(dashboard, lock, cache, tlog)

	// Kafka
	if err := ensureTopics(ctx, cfg.Kafka.Brokers, replication, logger); err != nil {
		return err
	}
	dlq, err := kafka.NewProducer(cfg.Kafka, logger)
	if err != nil {
		return fmt.Errorf("kafka producer: %w", err)
	}
	defer dlq.Close()

	topics := []string{kafka.TopicDeadlineEvents, kafka.TopicClientEvents}
	consumer, err := kafka.NewConsumer(cfg.Kafka, topics, dlq, logger)
	if err != nil {
		return fmt.Errorf("kafka consumer: %w", err)
	}
	handle := newRefreshHandler(refresher, metrics, defaultHandlerTimeout, logger)
	for _, t := range topics {
		consumer.Subscribe(t, handle)
	}

	// Probes
	health := handlers.NewHealthHandler(version, nil,
		handlers.CheckFunc{ComponentName: "postgres", Fn: func(ctx context.Context) error { return postgres.HealthCheck(ctx, pool) }},
		handlers.CheckFunc{ComponentName: "redis", Fn: rc.Ping},
	)
	probe := &http.Server{
		Addr:              fmt.Sprintf(":%d", healthPort),
		Handler:           probeRouter(health, metricsHandler),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := probe.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("probe server error", logging.Err(err))
		}
	}()

	if err := consumer.Start(ctx); err != nil {
		return err
	}
	logger.Info("worker started", logging.Strings("topics", topics))

	<-ctx.Done()
	logger.Info("received shutdown signal; waiting for in-flight refresh")

	if err := consumer.Close(); err != nil {
		logger.Error("consumer close error", logging.Err(err))
	}
	stats := consumer.Stats()
	logger.Info("consumer stopped",
		logging.Int64("consumed", stats.Consumed),
		logging.Int64("processed", stats.Processed),
		logging.Int64("dead_lettered", stats.DeadLettered),
	)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := probe.Shutdown(shutdownCtx); err != nil {
		logger.Error("probe server shutdown error", logging.Err(err))
	}
	logger.Info("ConsultTrack worker stopped")
	return nil
}

// checkWorkerConfig rejects configurations the worker cannot serve: the
// summary it produces is only visible to the API server through a shared
// store and cache.
func checkWorkerConfig(cfg *config.Config) error {
	if cfg.Store.Driver != "postgres" {
		return fmt.Errorf("store.driver must be postgres, got %q", cfg.Store.Driver)
	}
	if !cfg.Redis.Enabled {
		return fmt.Errorf("redis must be enabled")
	}
	if !cfg.Kafka.Enabled {
		return fmt.Errorf("kafka must be enabled")
	}
	return nil
}

func ensureTopics(ctx context.Context, brokers []string, replication int, logger logging.Logger) error {
	tm, err := kafka.NewTopicManager(ctx, brokers, logger)
	if err != nil {
		return fmt.Errorf("kafka topics: %w", err)
	}
	defer tm.Close()
	return tm.EnsureTopics(ctx, kafka.DefaultTopics(replication))
}

func probeRouter(health *handlers.HealthHandler, metrics http.Handler) http.Handler {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.GET("/healthz", health.Liveness)
	r.GET("/readyz", health.Readiness)
	if metrics != nil {
		r.GET("/metrics", gin.WrapH(metrics))
	}
	return r
}

//Personal.AI order the ending
