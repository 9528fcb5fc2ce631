package tracker

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/ConsultTrack-Intelligence/internal/intelligence/assistant"
	"github.com/turtacn/ConsultTrack-Intelligence/pkg/types/common"
)

type mockGenerator struct {
	calls    atomic.Int32
	generate func(ctx context.Context) (assistant.NormalizedResult, bool)
}

func (m *mockGenerator) Generate(ctx context.Context) (assistant.NormalizedResult, bool) {
	m.calls.Add(1)
	if m.generate != nil {
		return m.generate(ctx)
	}
	res := assistant.EmptyResult()
	res.Summary = fmt.Sprintf("summary #%d", m.calls.Load())
	return res, true
}

func newTestDashboard(gen SummaryGenerator, cache CachePort) (DashboardService, testStore, *mockLogger) {
	store := newTestStore()
	logger := &mockLogger{}
	svc := NewDashboardService(store.clients, store.deadlines, gen, cache,
		common.NewFixedClock(testNow), logger, DashboardServiceConfig{SummaryTTL: time.Hour})
	return svc, store, logger
}

func TestDashboardService_Overview(t *testing.T) {
	svc, _, _ := newTestDashboard(&mockGenerator{}, nil)
	ov, err := svc.Overview(context.Background())
	require.NoError(t, err)

	assert.Equal(t, common.DateOf(testNow), ov.Today)
	assert.Equal(t, 2, ov.ActiveClients)
	assert.Equal(t, 2, ov.Counts.Overdue)
	assert.Equal(t, 3, ov.Counts.Upcoming)
	assert.Equal(t, 4, ov.Counts.ThisWeek)

	var agenda []string
	for _, it := range ov.Agenda {
		agenda = append(agenda, it.ID)
	}
	assert.Equal(t, []string{"d4", "d6", "d3", "d1", "d2"}, agenda)

	assert.Equal(t, "James Harrington", ov.Agenda[0].ClientName)
	assert.Equal(t, -2, ov.Agenda[0].DaysUntil)
	assert.Equal(t, "Unknown", ov.Agenda[1].ClientName)
	assert.Equal(t, "In Progress", ov.Agenda[1].StatusLabel)

	var week []string
	for _, it := range ov.ThisWeek {
		week = append(week, it.ID)
	}
	assert.Equal(t, []string{"d1", "d3", "d4", "d6"}, week)
}

func TestDashboardService_Overview_StoreError(t *testing.T) {
	svc, store, _ := newTestDashboard(&mockGenerator{}, nil)
	store.clients.listErr = fmt.Errorf("down")
	_, err := svc.Overview(context.Background())
	assert.Error(t, err)
}

func TestDashboardService_WeeklySummary_Caches(t *testing.T) {
	gen := &mockGenerator{}
	cache := newMockCache()
	svc, _, _ := newTestDashboard(gen, cache)
	ctx := context.Background()

	first, err := svc.WeeklySummary(ctx, false)
	require.NoError(t, err)
	assert.True(t, first.Available)
	assert.False(t, first.Cached)
	assert.Equal(t, "summary #1", first.Result.Summary)
	assert.Equal(t, time.Hour, cache.ttls[WeeklySummaryKey])

	second, err := svc.WeeklySummary(ctx, false)
	require.NoError(t, err)
	assert.True(t, second.Cached)
	assert.Equal(t, "summary #1", second.Result.Summary)
	assert.Equal(t, int32(1), gen.calls.Load())

	refreshed, err := svc.WeeklySummary(ctx, true)
	require.NoError(t, err)
	assert.Equal(t, "summary #2", refreshed.Result.Summary)
}

func TestDashboardService_WeeklySummary_FailureKeepsLast(t *testing.T) {
	fail := false
	gen := &mockGenerator{}
	gen.generate = func(context.Context) (assistant.NormalizedResult, bool) {
		if fail {
			return assistant.NormalizedResult{}, false
		}
		res := assistant.EmptyResult()
		res.Summary = "good"
		return res, true
	}
	svc, _, logger := newTestDashboard(gen, nil)
	ctx := context.Background()

	fail = true
	none, err := svc.WeeklySummary(ctx, true)
	require.NoError(t, err)
	assert.False(t, none.Available)
	assert.Nil(t, none.Result)

	fail = false
	_, err = svc.WeeklySummary(ctx, true)
	require.NoError(t, err)

	fail = true
	kept, err := svc.WeeklySummary(ctx, true)
	require.NoError(t, err)
	assert.True(t, kept.Available)
	assert.Equal(t, "good", kept.Result.Summary)
	assert.Len(t, logger.warns, 2)
}

func TestDashboardService_WeeklySummary_SingleFlight(t *testing.T) {
	release := make(chan struct{})
	gen := &mockGenerator{}
	gen.generate = func(context.Context) (assistant.NormalizedResult, bool) {
		<-release
		res := assistant.EmptyResult()
		res.Summary = "shared"
		return res, true
	}
	svc, _, _ := newTestDashboard(gen, nil)

	var wg sync.WaitGroup
	results := make(chan *WeeklySummary, 4)
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s, err := svc.WeeklySummary(context.Background(), true)
			if err == nil {
				results <- s
			}
		}()
	}
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()
	close(results)

	for s := range results {
		assert.Equal(t, "shared", s.Result.Summary)
	}
	assert.LessOrEqual(t, gen.calls.Load(), int32(4))
	assert.GreaterOrEqual(t, gen.calls.Load(), int32(1))
}

func TestDashboardService_InvalidateSummary(t *testing.T) {
	cache := newMockCache()
	svc, _, _ := newTestDashboard(&mockGenerator{}, cache)
	_, err := svc.WeeklySummary(context.Background(), false)
	require.NoError(t, err)

	require.NoError(t, svc.InvalidateSummary(context.Background()))
	assert.Equal(t, []string{WeeklySummaryKey}, cache.deleted)
	_, hit := cache.data[WeeklySummaryKey]
	assert.False(t, hit)
}

//Personal.AI order the ending
