// API server entry point for ConsultTrack.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/text/language"

	"github.com/turtacn/ConsultTrack-Intelligence/internal/application/tracker"
	"github.com/turtacn/ConsultTrack-Intelligence/internal/config"
	"github.com/turtacn/ConsultTrack-Intelligence/internal/domain/deadline"
	"github.com/turtacn/ConsultTrack-Intelligence/internal/infrastructure/agent"
	"github.com/turtacn/ConsultTrack-Intelligence/internal/infrastructure/database/redis"
	"github.com/turtacn/ConsultTrack-Intelligence/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/ConsultTrack-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/ConsultTrack-Intelligence/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/ConsultTrack-Intelligence/internal/infrastructure/storage/minio"
	"github.com/turtacn/ConsultTrack-Intelligence/internal/intelligence/assistant"
	httpserver "github.com/turtacn/ConsultTrack-Intelligence/internal/interfaces/http"
	"github.com/turtacn/ConsultTrack-Intelligence/internal/interfaces/http/handlers"
	"github.com/turtacn/ConsultTrack-Intelligence/pkg/types/common"
)

const serviceName = "apiserver"

var version = "dev"

func main() {
	configPath := flag.String("config", "", "path to configuration file (default: CONSULTTRACK_* environment only)")
	port := flag.Int("port", 0, "HTTP port (overrides config)")
	flag.Parse()

	if err := run(*configPath, *port); err != nil {
		fmt.Fprintf(os.Stderr, "apiserver: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string, port int) error {
	cfg, err := config.LoadOrEnv(configPath)
	if err != nil {
		return err
	}
	if port > 0 {
		cfg.Server.Port = port
	}

	logger, err := logging.NewLogger(logConfig(cfg.Log))
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}

	if configPath != "" {
		err := config.Watch(configPath,
			func(c *config.Config) {
				if logging.SetLevel(logger, c.Log.Level) {
					logger.Info("log level changed", logging.String("level", c.Log.Level))
				}
			},
			func(err error) { logger.Warn("ignoring invalid config change", logging.Err(err)) },
		)
		if err != nil {
			logger.Warn("config watch disabled", logging.Err(err))
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("starting ConsultTrack API server",
		logging.String("version", version),
		logging.String("store", cfg.Store.Driver),
		logging.String("addr", cfg.Server.Addr()),
	)

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

	clock := common.SystemClock{Location: cfg.Engine.Location()}
	tlog := tracker.NewLoggerAdapter(logger)

	infra, err := initInfrastructure(ctx, cfg, clock, metrics, logger)
	if err != nil {
		return err
	}
	defer infra.Close()

	caller, err := agent.NewHTTPCaller(cfg.Agent, logger)
	if err != nil {
		return fmt.Errorf("agent: %w", err)
	}
	source := tracker.NewSnapshotSource(infra.clients, infra.deadlines, tracker.SnapshotLimits{
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
	conv := assistant.NewConversation(caller, source, cfg.Agent.AgentID, opts...)
	generator := assistant.NewSummaryGenerator(caller, source, cfg.Agent.AgentID, opts...)

	deadlineSvc := tracker.NewDeadlineService(infra.deadlines, infra.clients, infra.publisher, clock, tlog,
		tracker.DeadlineServiceConfig{CollationLocale: language.Make(cfg.Engine.CollationLocale)})
	clientSvc := tracker.NewClientService(infra.clients, infra.publisher, clock, tlog)
	dashboardSvc := tracker.NewDashboardService(infra.clients, infra.deadlines, generator, infra.cache, clock, tlog,
		tracker.DashboardServiceConfig{SummaryTTL: cfg.Engine.SummaryTTL})
	chatSvc := tracker.NewChatService(conv, infra.archive, infra.publisher, clock, tlog)

	var (
		onCounts func(deadline.Counts)
		onHealth handlers.CheckObserver
	)
	if metrics != nil {
		onCounts = func(c deadline.Counts) { prometheus.RecordBuckets(metrics, c) }
		onHealth = func(component string, healthy bool) { prometheus.RecordHealth(metrics, component, healthy) }
	}

	router := httpserver.NewRouter(httpserver.RouterConfig{
		HealthHandler:    handlers.NewHealthHandler(version, onHealth, infra.checkers...),
		DashboardHandler: handlers.NewDashboardHandler(dashboardSvc, logger, onCounts),
		DeadlineHandler:  handlers.NewDeadlineHandler(deadlineSvc, logger),
		ClientHandler:    handlers.NewClientHandler(clientSvc, logger),
		ChatHandler:      handlers.NewChatHandler(chatSvc, logger),
		Server:           cfg.Server,
		Logger:           logger,
		Metrics:          metrics,
		MetricsHandler:   metricsHandler,
	})
	srv := httpserver.NewServer(cfg.Server, router, logger)

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
		logger.Info("received shutdown signal")
	}

	if err := srv.Stop(context.Background()); err != nil {
		logger.Error("HTTP server shutdown error", logging.Err(err))
	}
	logger.Info("ConsultTrack API server stopped")
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Infrastructure
// ─────────────────────────────────────────────────────────────────────────────

// initInfrastructure opens the store and the optional Redis, Kafka and
// MinIO backends.  Disabled backends are replaced by no-ops.
func initInfrastructure(ctx context.Context, cfg *config.Config, clock common.Clock, metrics *prometheus.AppMetrics, logger logging.Logger) (*infrastructure, error) {
	infra, err := openStore(ctx, cfg, clock, logger)
	if err != nil {
		return nil, err
	}
	infra.cache = tracker.NoopCache()
	infra.publisher = tracker.NoopPublisher()

	if cfg.Redis.Enabled {
		rc, err := redis.NewClient(cfg.Redis, logger)
		if err != nil {
			infra.Close()
			return nil, fmt.Errorf("redis: %w", err)
		}
		infra.closers = append(infra.closers, rc.Close)
		infra.cache = &meteredCache{
			cache:   redis.NewRedisCache(rc, logger, redis.WithDefaultTTL(cfg.Engine.SummaryTTL)),
			metrics: metrics,
		}
		infra.checkers = append(infra.checkers, handlers.CheckFunc{ComponentName: "redis", Fn: rc.Ping})
	}

	if cfg.Kafka.Enabled {
		producer, err := kafka.NewProducer(cfg.Kafka, logger)
		if err != nil {
			infra.Close()
			return nil, fmt.Errorf("kafka: %w", err)
		}
		infra.closers = append(infra.closers, producer.Close)
		infra.publisher = &eventPublisher{
			events:  kafka.NewEventPublisher(producer, serviceName),
			metrics: metrics,
		}
	}

	if cfg.MinIO.Enabled {
		mc, err := minio.NewMinIOClient(cfg.MinIO, logger)
		if err != nil {
			infra.Close()
			return nil, fmt.Errorf("minio: %w", err)
		}
		infra.closers = append(infra.closers, mc.Close)
		if err := mc.EnsureBucket(ctx); err != nil {
			infra.Close()
			return nil, fmt.Errorf("minio: %w", err)
		}
		infra.archive = minio.NewTranscriptArchive(mc, logger)
		infra.checkers = append(infra.checkers, handlers.CheckFunc{ComponentName: "minio", Fn: mc.HealthCheck})
	}
	return infra, nil
}

//Personal.AI order the ending
