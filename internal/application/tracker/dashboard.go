package tracker

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/turtacn/ConsultTrack-Intelligence/internal/domain/client"
	"github.com/turtacn/ConsultTrack-Intelligence/internal/domain/deadline"
	"github.com/turtacn/ConsultTrack-Intelligence/internal/intelligence/assistant"
	"github.com/turtacn/ConsultTrack-Intelligence/pkg/errors"
	"github.com/turtacn/ConsultTrack-Intelligence/pkg/types/common"
)

// ---------------------------------------------------------------------------
// Dashboard DTOs
// ---------------------------------------------------------------------------

// AgendaItem is a deadline decorated for display.
type AgendaItem struct {
	deadline.Deadline
	ClientName  string `json:"client_name"`
	StatusLabel string `json:"status_label"`
	DaysUntil   int    `json:"days_until"`
}

// Overview is the dashboard landing view.  Agenda lists overdue then
// upcoming deadlines, each ordered by due date.
type Overview struct {
	Today         common.Date     `json:"today"`
	ActiveClients int             `json:"active_clients"`
	Counts        deadline.Counts `json:"counts"`
	Agenda        []AgendaItem    `json:"agenda"`
	ThisWeek      []AgendaItem    `json:"this_week"`
}

// WeeklySummary is the cached AI summary.  Available is false until a
// generation has succeeded.
type WeeklySummary struct {
	Available   bool                        `json:"available"`
	Result      *assistant.NormalizedResult `json:"result,omitempty"`
	GeneratedAt time.Time                   `json:"generated_at"`
	Cached      bool                        `json:"cached"`
}

// SummaryGenerator produces the weekly summary; ok=false on any failure.
type SummaryGenerator interface {
	Generate(ctx context.Context) (assistant.NormalizedResult, bool)
}

// WeeklySummaryKey is the cache key of the weekly summary.
const WeeklySummaryKey = "summary:weekly"

// ---------------------------------------------------------------------------
// Service interface
// ---------------------------------------------------------------------------

// DashboardService builds the dashboard.
type DashboardService interface {
	Overview(ctx context.Context) (*Overview, error)
	// WeeklySummary returns the cached summary, generating it on a miss or
	// when refresh is set.  A failed generation is not an error: the last
	// good summary is returned instead.
	WeeklySummary(ctx context.Context, refresh bool) (*WeeklySummary, error)
	// InvalidateSummary drops the cached summary.
	InvalidateSummary(ctx context.Context) error
}

// DashboardServiceConfig holds tunables.
type DashboardServiceConfig struct {
	SummaryTTL time.Duration
}

type dashboardServiceImpl struct {
	clients   client.Repository
	deadlines deadline.Repository
	generator SummaryGenerator
	cache     CachePort
	clock     common.Clock
	logger    Logger
	cfg       DashboardServiceConfig

	group    singleflight.Group
	mu       sync.RWMutex
	lastGood *WeeklySummary
}

// NewDashboardService constructs a DashboardService.
func NewDashboardService(
	clients client.Repository,
	deadlines deadline.Repository,
	generator SummaryGenerator,
	cache CachePort,
	clock common.Clock,
	logger Logger,
	cfg DashboardServiceConfig,
) DashboardService {
	if cache == nil {
		cache = NoopCache()
	}
	if clock == nil {
		clock = common.SystemClock{}
	}
	if logger == nil {
		logger = noopLogger{}
	}
	if cfg.SummaryTTL <= 0 {
		cfg.SummaryTTL = 6 * time.Hour
	}
	return &dashboardServiceImpl{
		clients:   clients,
		deadlines: deadlines,
		generator: generator,
		cache:     cache,
		clock:     clock,
		logger:    logger,
		cfg:       cfg,
	}
}

// Overview classifies the store contents against a single clock reading.
func (s *dashboardServiceImpl) Overview(ctx context.Context) (*Overview, error) {
	cs, err := s.clients.List(ctx)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeUnknown, "failed to list clients")
	}
	ds, err := s.deadlines.List(ctx)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeUnknown, "failed to list deadlines")
	}

	buckets := deadline.Classify(ds, s.clock.Now())
	dir := client.NewDirectory(cs)

	decorate := func(list []deadline.Deadline) []AgendaItem {
		out := make([]AgendaItem, 0, len(list))
		for i := range list {
			out = append(out, AgendaItem{
				Deadline:    list[i],
				ClientName:  dir.NameOf(list[i].ClientID),
				StatusLabel: list[i].Status.Label(),
				DaysUntil:   buckets.Today.DaysUntil(list[i].DueDate),
			})
		}
		return out
	}

	agenda := make([]deadline.Deadline, 0, len(buckets.Overdue)+len(buckets.Upcoming))
	agenda = append(agenda, buckets.Overdue...)
	agenda = append(agenda, buckets.Upcoming...)

	return &Overview{
		Today:         buckets.Today,
		ActiveClients: len(client.Active(cs)),
		Counts:        buckets.Counts(),
		Agenda:        decorate(agenda),
		ThisWeek:      decorate(buckets.ThisWeek),
	}, nil
}

// WeeklySummary returns the weekly summary.
func (s *dashboardServiceImpl) WeeklySummary(ctx context.Context, refresh bool) (*WeeklySummary, error) {
	if !refresh {
		var cached WeeklySummary
		if err := s.cache.Get(ctx, WeeklySummaryKey, &cached); err == nil && cached.Available {
			cached.Cached = true
			return &cached, nil
		}
	}

	v, err, _ := s.group.Do(WeeklySummaryKey, func() (interface{}, error) {
		return s.generate(ctx), nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*WeeklySummary), nil
}

func (s *dashboardServiceImpl) generate(ctx context.Context) *WeeklySummary {
	if s.generator == nil {
		return s.fallback()
	}
	res, ok := s.generator.Generate(ctx)
	if !ok {
		s.logger.Warn("weekly summary unavailable, keeping previous")
		return s.fallback()
	}

	summary := &WeeklySummary{Available: true, Result: &res, GeneratedAt: s.clock.Now().UTC()}
	s.mu.Lock()
	s.lastGood = summary
	s.mu.Unlock()

	if err := s.cache.Set(ctx, WeeklySummaryKey, summary, s.cfg.SummaryTTL); err != nil {
		s.logger.Warn("failed to cache weekly summary", "error", err)
	}
	return summary
}

func (s *dashboardServiceImpl) fallback() *WeeklySummary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.lastGood == nil {
		return &WeeklySummary{Available: false}
	}
	kept := *s.lastGood
	return &kept
}

// InvalidateSummary drops the cache entry.  The in-process last good value
// is kept so a later failed generation still has something to show.
func (s *dashboardServiceImpl) InvalidateSummary(ctx context.Context) error {
	if err := s.cache.Delete(ctx, WeeklySummaryKey); err != nil {
		return errors.Wrap(err, errors.ErrCodeCacheError, "failed to invalidate weekly summary")
	}
	return nil
}

//Personal.AI order the ending
