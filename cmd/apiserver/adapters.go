package main

import (
	"context"
	"time"

	"github.com/turtacn/ConsultTrack-Intelligence/internal/application/tracker"
	"github.com/turtacn/ConsultTrack-Intelligence/internal/config"
	"github.com/turtacn/ConsultTrack-Intelligence/internal/domain/client"
	"github.com/turtacn/ConsultTrack-Intelligence/internal/domain/deadline"
	"github.com/turtacn/ConsultTrack-Intelligence/internal/infrastructure/database/memory"
	"github.com/turtacn/ConsultTrack-Intelligence/internal/infrastructure/database/postgres"
	"github.com/turtacn/ConsultTrack-Intelligence/internal/infrastructure/database/postgres/repositories"
	"github.com/turtacn/ConsultTrack-Intelligence/internal/infrastructure/database/seed"
	"github.com/turtacn/ConsultTrack-Intelligence/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/ConsultTrack-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/ConsultTrack-Intelligence/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/ConsultTrack-Intelligence/internal/interfaces/http/handlers"
	"github.com/turtacn/ConsultTrack-Intelligence/pkg/types/common"
)

// infrastructure holds the backends wired into the services.
type infrastructure struct {
	clients   client.Repository
	deadlines deadline.Repository
	cache     tracker.CachePort
	publisher tracker.EventPublisher
	archive   tracker.TranscriptArchive
	checkers  []handlers.HealthChecker
	closers   []func() error
}

// Close releases backends in reverse order of opening.
func (i *infrastructure) Close() {
	for j := len(i.closers) - 1; j >= 0; j-- {
		_ = i.closers[j]()
	}
}

// openStore selects the repository driver, migrating and seeding as
// configured.
func openStore(ctx context.Context, cfg *config.Config, clock common.Clock, logger logging.Logger) (*infrastructure, error) {
	infra := &infrastructure{}

	switch cfg.Store.Driver {
	case "postgres":
		if cfg.Database.AutoMigrate {
			if err := postgres.RunMigrations(cfg.Database.DSN()); err != nil {
				return nil, err
			}
		}
		pool, err := postgres.NewPool(ctx, cfg.Database, logger)
		if err != nil {
			return nil, err
		}
		infra.closers = append(infra.closers, func() error { pool.Close(); return nil })
		store := repositories.NewStore(pool, logger)
		infra.clients, infra.deadlines = store.Clients, store.Deadlines
		infra.checkers = append(infra.checkers, handlers.CheckFunc{
			ComponentName: "postgres",
			Fn:            func(ctx context.Context) error { return postgres.HealthCheck(ctx, pool) },
		})
	default:
		store := memory.NewStore()
		infra.clients, infra.deadlines = store.Clients(), store.Deadlines()
		infra.checkers = append(infra.checkers, handlers.CheckFunc{ComponentName: "store", Fn: store.Ping})
	}

	if cfg.Store.Seed {
		wrote, err := seed.Load(ctx, infra.clients, infra.deadlines, clock.Now())
		if err != nil {
			infra.Close()
			return nil, err
		}
		logger.Info("store seeded", logging.Bool("written", wrote))
	}
	return infra, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Adapters
// ─────────────────────────────────────────────────────────────────────────────

// eventPublisher routes tracker change events to their Kafka topic, keyed by
// client so one client's events stay ordered.
type eventPublisher struct {
	events  *kafka.EventPublisher
	metrics *prometheus.AppMetrics
}

func (p *eventPublisher) Publish(ctx context.Context, ev *tracker.ChangeEvent) error {
	err := p.events.PublishEvent(ctx, string(ev.Type), ev.ClientID, ev.OccurredAt, ev)
	if p.metrics != nil {
		prometheus.RecordEventPublished(p.metrics, string(ev.Type), err)
	}
	return err
}

// meteredCache counts hits and misses of the summary cache.
type meteredCache struct {
	cache   tracker.CachePort
	metrics *prometheus.AppMetrics
}

func (c *meteredCache) Get(ctx context.Context, key string, dest interface{}) error {
	err := c.cache.Get(ctx, key, dest)
	if c.metrics != nil {
		prometheus.RecordCacheAccess(c.metrics, "summary", err == nil)
	}
	return err
}

func (c *meteredCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return c.cache.Set(ctx, key, value, ttl)
}

func (c *meteredCache) Delete(ctx context.Context, keys ...string) error {
	return c.cache.Delete(ctx, keys...)
}

func logConfig(c config.LogConfig) logging.LogConfig {
	out := c.Output
	if out == "" {
		out = "stdout"
	}
	return logging.LogConfig{
		Level:            c.Level,
		Format:           c.Format,
		OutputPaths:      []string{out},
		ErrorOutputPaths: []string{"stderr"},
	}
}

//Personal.AI order the ending
