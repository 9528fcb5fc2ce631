package tracker

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/turtacn/ConsultTrack-Intelligence/internal/domain/deadline"
	"github.com/turtacn/ConsultTrack-Intelligence/pkg/errors"
	"github.com/turtacn/ConsultTrack-Intelligence/pkg/types/common"
)

// ---------------------------------------------------------------------------
// Helper
// ---------------------------------------------------------------------------

type testDeadlineOpts struct {
	store     testStore
	publisher *mockPublisher
	logger    *mockLogger
	cfg       DeadlineServiceConfig
}

func newTestDeadlineService(opts ...func(*testDeadlineOpts)) (DeadlineService, *testDeadlineOpts) {
	o := &testDeadlineOpts{
		store:     newTestStore(),
		publisher: newAcceptingPublisher(),
		logger:    &mockLogger{},
		cfg:       DeadlineServiceConfig{CollationLocale: language.English},
	}
	for _, fn := range opts {
		fn(o)
	}
	svc := NewDeadlineService(o.store.deadlines, o.store.clients, o.publisher,
		common.NewFixedClock(testNow), o.logger, o.cfg)
	return svc, o
}

func deadlineIDs(ds []deadline.Deadline) []string {
	out := make([]string, len(ds))
	for i := range ds {
		out[i] = ds[i].ID
	}
	return out
}

// ---------------------------------------------------------------------------
// Tests: List
// ---------------------------------------------------------------------------

func TestDeadlineService_List(t *testing.T) {
	svc, _ := newTestDeadlineService()
	tests := []struct {
		name  string
		query DeadlineQuery
		want  []string
	}{
		{"no query keeps store order", DeadlineQuery{}, []string{"d1", "d2", "d3", "d4", "d5", "d6"}},
		{"client filter", DeadlineQuery{ClientID: "c2"}, []string{"d3", "d4"}},
		{"all is no filter", DeadlineQuery{ClientID: "all", Priority: "all", Status: "all"}, []string{"d1", "d2", "d3", "d4", "d5", "d6"}},
		{"priority and status", DeadlineQuery{Priority: "high", Status: "todo"}, []string{"d3"}},
		{"due date ascending", DeadlineQuery{Sort: "dueDate"}, []string{"d5", "d4", "d6", "d3", "d1", "d2"}},
		{"due date descending", DeadlineQuery{Sort: "due_date", Order: "desc"}, []string{"d2", "d1", "d3", "d6", "d4", "d5"}},
		{"priority", DeadlineQuery{Sort: "priority", ClientID: "c1"}, []string{"d1", "d5", "d2"}},
		{"title", DeadlineQuery{Sort: "title", ClientID: "c1"}, []string{"d2", "d1", "d5"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.List(context.Background(), tt.query)
			require.NoError(t, err)
			assert.Equal(t, tt.want, deadlineIDs(got))
		})
	}
}

func TestDeadlineService_List_InvalidQuery(t *testing.T) {
	svc, _ := newTestDeadlineService()
	tests := []struct {
		query DeadlineQuery
		code  errors.ErrorCode
	}{
		{DeadlineQuery{Priority: "urgent"}, errors.ErrCodeDeadlineInvalidPriority},
		{DeadlineQuery{Status: "blocked"}, errors.ErrCodeDeadlineInvalidStatus},
		{DeadlineQuery{Sort: "colour"}, errors.ErrCodeDeadlineInvalidSort},
		{DeadlineQuery{Sort: "title", Locale: "not a locale!"}, errors.ErrCodeBadRequest},
	}
	for _, tt := range tests {
		_, err := svc.List(context.Background(), tt.query)
		assert.True(t, errors.IsCode(err, tt.code), "%+v: %v", tt.query, err)
	}
}

func TestDeadlineService_List_StoreError(t *testing.T) {
	svc, o := newTestDeadlineService()
	o.store.deadlines.listErr = fmt.Errorf("connection reset")
	_, err := svc.List(context.Background(), DeadlineQuery{})
	assert.Error(t, err)
}

// ---------------------------------------------------------------------------
// Tests: Create / Update / Delete
// ---------------------------------------------------------------------------

func TestDeadlineService_Create_Defaults(t *testing.T) {
	svc, o := newTestDeadlineService()
	d, err := svc.Create(context.Background(), CreateDeadlineRequest{})
	require.NoError(t, err)

	assert.NotEmpty(t, d.ID)
	assert.Equal(t, deadline.DefaultTitle, d.Title)
	assert.Equal(t, deadline.PriorityMedium, d.Priority)
	assert.Equal(t, deadline.StatusTodo, d.Status)
	assert.Equal(t, common.DateOf(testNow), d.DueDate)
	assert.Equal(t, "c1", d.ClientID)
	assert.Equal(t, testNow, d.CreatedAt)

	stored, err := o.store.deadlines.Get(context.Background(), d.ID)
	require.NoError(t, err)
	assert.Equal(t, *d, *stored)
	assert.Equal(t, []EventType{EventDeadlineCreated}, o.publisher.publishedTypes())
}

func TestDeadlineService_Create_NoClients(t *testing.T) {
	svc, _ := newTestDeadlineService(func(o *testDeadlineOpts) {
		o.store.clients = newMockClientRepo(o.store.deadlines)
	})
	d, err := svc.Create(context.Background(), CreateDeadlineRequest{Title: "Standalone"})
	require.NoError(t, err)
	assert.Equal(t, "", d.ClientID)
}

func TestDeadlineService_Create_Explicit(t *testing.T) {
	svc, _ := newTestDeadlineService()
	due := common.MustParseDate("2024-06-01")
	d, err := svc.Create(context.Background(), CreateDeadlineRequest{
		Title: "  Risk Analysis Report ", ClientID: "c2", DueDate: &due, Priority: "HIGH", Status: "in_progress",
	})
	require.NoError(t, err)
	assert.Equal(t, "Risk Analysis Report", d.Title)
	assert.Equal(t, "c2", d.ClientID)
	assert.Equal(t, due, d.DueDate)
	assert.Equal(t, deadline.PriorityHigh, d.Priority)
	assert.Equal(t, deadline.StatusInProgress, d.Status)
}

func TestDeadlineService_Create_Invalid(t *testing.T) {
	svc, o := newTestDeadlineService()
	_, err := svc.Create(context.Background(), CreateDeadlineRequest{Priority: "urgent"})
	assert.True(t, errors.IsCode(err, errors.ErrCodeDeadlineInvalidPriority))
	assert.Empty(t, o.publisher.publishedTypes())
}

func TestDeadlineService_Update(t *testing.T) {
	svc, o := newTestDeadlineService()
	title := "Q2 Review (final)"
	status := "complete"
	d, err := svc.Update(context.Background(), "d1", UpdateDeadlineRequest{Title: &title, Status: &status})
	require.NoError(t, err)
	assert.Equal(t, title, d.Title)
	assert.Equal(t, deadline.StatusComplete, d.Status)
	assert.Equal(t, deadline.PriorityHigh, d.Priority)

	empty := "  "
	_, err = svc.Update(context.Background(), "d1", UpdateDeadlineRequest{Title: &empty})
	assert.True(t, errors.IsCode(err, errors.ErrCodeDeadlineInvalid))

	_, err = svc.Update(context.Background(), "missing", UpdateDeadlineRequest{Title: &title})
	assert.True(t, errors.IsNotFound(err))
	assert.Equal(t, []EventType{EventDeadlineUpdated}, o.publisher.publishedTypes())
}

func TestDeadlineService_Delete(t *testing.T) {
	svc, o := newTestDeadlineService()
	require.NoError(t, svc.Delete(context.Background(), "d2"))
	_, err := svc.Get(context.Background(), "d2")
	assert.True(t, errors.IsCode(err, errors.ErrCodeDeadlineNotFound))

	err = svc.Delete(context.Background(), "d2")
	assert.True(t, errors.IsNotFound(err))
	assert.Equal(t, []EventType{EventDeadlineDeleted}, o.publisher.publishedTypes())
}

// ---------------------------------------------------------------------------
// Tests: status changes
// ---------------------------------------------------------------------------

func TestDeadlineService_CycleStatus(t *testing.T) {
	svc, o := newTestDeadlineService()
	want := []deadline.Status{deadline.StatusInProgress, deadline.StatusComplete, deadline.StatusTodo, deadline.StatusInProgress}
	for _, st := range want {
		d, err := svc.CycleStatus(context.Background(), "d3")
		require.NoError(t, err)
		assert.Equal(t, st, d.Status)
	}

	last := o.publisher.Calls[len(o.publisher.Calls)-1].Arguments.Get(1).(*ChangeEvent)
	assert.Equal(t, map[string]string{"from": "todo", "to": "in_progress"}, last.Attributes)
	assert.Equal(t, []string{"d3"}, last.EntityIDs)
}

func TestDeadlineService_CycleStatus_UnknownRestarts(t *testing.T) {
	svc, o := newTestDeadlineService()
	d := fixtureDeadlines()[0]
	d.ID, d.Status = "legacy", deadline.Status("archived")
	o.store.deadlines.items["legacy"] = d
	o.store.deadlines.order = append(o.store.deadlines.order, "legacy")

	got, err := svc.CycleStatus(context.Background(), "legacy")
	require.NoError(t, err)
	assert.Equal(t, deadline.StatusTodo, got.Status)
}

func TestDeadlineService_CompleteMany(t *testing.T) {
	svc, o := newTestDeadlineService()
	n, err := svc.CompleteMany(context.Background(), []string{"d1", "d3", "nope"})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	for _, id := range []string{"d1", "d3"} {
		d, err := svc.Get(context.Background(), id)
		require.NoError(t, err)
		assert.True(t, d.IsComplete())
	}

	n, err = svc.CompleteMany(context.Background(), nil)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Equal(t, []EventType{EventDeadlinesCompleted}, o.publisher.publishedTypes())
}

//Personal.AI order the ending
