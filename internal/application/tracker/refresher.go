package tracker

import (
	"context"
	"time"
)

// Mutex is a cross-process lock.
type Mutex interface {
	TryLock(ctx context.Context) (bool, error)
	Unlock(ctx context.Context) error
}

const (
	// SummaryDirtyKey marks that an event arrived while another worker held
	// the refresh lock.
	SummaryDirtyKey = "summary:dirty"

	summaryDirtyTTL  = time.Hour
	maxRefreshPasses = 3
)

// SummaryRefresher regenerates the weekly summary when the data behind it
// changes.  Only one worker regenerates at a time.  A worker that loses the
// lock marks the summary dirty, and the holder runs another pass after
// releasing the lock if the mark is set.
type SummaryRefresher struct {
	dashboard DashboardService
	lock      Mutex
	marker    CachePort
	logger    Logger
}

// NewSummaryRefresher constructs a SummaryRefresher.  A nil lock runs
// unguarded; a nil marker drops events that lose the lock.
func NewSummaryRefresher(dashboard DashboardService, lock Mutex, marker CachePort, logger Logger) *SummaryRefresher {
	if logger == nil {
		logger = noopLogger{}
	}
	return &SummaryRefresher{dashboard: dashboard, lock: lock, marker: marker, logger: logger}
}

// HandleEvent reacts to one change event.  It returns whether a
// regeneration ran.
func (r *SummaryRefresher) HandleEvent(ctx context.Context, ev *ChangeEvent) (bool, error) {
	if ev == nil || !ev.Type.InvalidatesSummary() {
		return false, nil
	}
	if r.lock == nil {
		return true, r.regenerate(ctx, ev)
	}

	// The mark goes down before the lock attempt so a holder that is about
	// to release always sees it.
	r.markDirty(ctx)

	ran := false
	for pass := 0; pass < maxRefreshPasses; pass++ {
		acquired, err := r.lock.TryLock(ctx)
		if err != nil {
			return ran, err
		}
		if !acquired {
			r.logger.Debug("summary refresh already running elsewhere", "event_id", ev.ID)
			return ran, nil
		}

		r.clearDirty(ctx)
		err = r.regenerate(ctx, ev)
		if uerr := r.lock.Unlock(ctx); uerr != nil {
			r.logger.Warn("failed to release summary lock", "error", uerr)
		}
		if err != nil {
			return ran, err
		}
		ran = true

		if !r.isDirty(ctx) {
			return ran, nil
		}
		r.logger.Debug("summary changed during refresh, running again", "pass", pass+1)
	}
	r.logger.Warn("summary still dirty after refresh passes", "passes", maxRefreshPasses)
	return ran, nil
}

func (r *SummaryRefresher) regenerate(ctx context.Context, ev *ChangeEvent) error {
	if err := r.dashboard.InvalidateSummary(ctx); err != nil {
		return err
	}
	summary, err := r.dashboard.WeeklySummary(ctx, true)
	if err != nil {
		return err
	}
	r.logger.Info("weekly summary refreshed", "event_type", string(ev.Type), "available", summary.Available)
	return nil
}

func (r *SummaryRefresher) markDirty(ctx context.Context) {
	if r.marker == nil {
		return
	}
	if err := r.marker.Set(ctx, SummaryDirtyKey, true, summaryDirtyTTL); err != nil {
		r.logger.Warn("failed to mark summary dirty", "error", err)
	}
}

func (r *SummaryRefresher) clearDirty(ctx context.Context) {
	if r.marker == nil {
		return
	}
	if err := r.marker.Delete(ctx, SummaryDirtyKey); err != nil {
		r.logger.Warn("failed to clear summary dirty mark", "error", err)
	}
}

func (r *SummaryRefresher) isDirty(ctx context.Context) bool {
	if r.marker == nil {
		return false
	}
	var dirty bool
	return r.marker.Get(ctx, SummaryDirtyKey, &dirty) == nil && dirty
}

//Personal.AI order the ending
