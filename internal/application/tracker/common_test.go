package tracker

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/turtacn/ConsultTrack-Intelligence/internal/domain/client"
	"github.com/turtacn/ConsultTrack-Intelligence/internal/domain/deadline"
	"github.com/turtacn/ConsultTrack-Intelligence/internal/testutil"
	"github.com/turtacn/ConsultTrack-Intelligence/pkg/errors"
	"github.com/turtacn/ConsultTrack-Intelligence/pkg/types/common"
)

// ---------------------------------------------------------------------------
// Mock implementations (shared across tests)
// ---------------------------------------------------------------------------

// Wednesday.
var testNow = time.Date(2024, 5, 8, 10, 30, 0, 0, time.UTC)

type mockDeadlineRepo struct {
	mu      sync.Mutex
	order   []string
	items   map[string]deadline.Deadline
	listErr error
	saveErr error
}

func newMockDeadlineRepo(ds ...deadline.Deadline) *mockDeadlineRepo {
	r := &mockDeadlineRepo{items: map[string]deadline.Deadline{}}
	for _, d := range ds {
		d := d
		_ = r.Save(context.Background(), &d)
	}
	return r
}

func (r *mockDeadlineRepo) List(context.Context) ([]deadline.Deadline, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.listErr != nil {
		return nil, r.listErr
	}
	out := make([]deadline.Deadline, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.items[id])
	}
	return out, nil
}

func (r *mockDeadlineRepo) Get(_ context.Context, id string) (*deadline.Deadline, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.items[id]
	if !ok {
		return nil, errors.New(errors.ErrCodeDeadlineNotFound, "deadline not found").WithDetail(id)
	}
	return &d, nil
}

func (r *mockDeadlineRepo) Save(_ context.Context, d *deadline.Deadline) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.saveErr != nil {
		return r.saveErr
	}
	if _, ok := r.items[d.ID]; !ok {
		r.order = append(r.order, d.ID)
	}
	r.items[d.ID] = *d
	return nil
}

func (r *mockDeadlineRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return errors.New(errors.ErrCodeDeadlineNotFound, "deadline not found").WithDetail(id)
	}
	delete(r.items, id)
	for i, oid := range r.order {
		if oid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

func (r *mockDeadlineRepo) UpdateStatus(_ context.Context, ids []string, status deadline.Status) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, id := range ids {
		if d, ok := r.items[id]; ok {
			d.Status = status
			r.items[id] = d
			n++
		}
	}
	return n, nil
}

func (r *mockDeadlineRepo) deleteByClient(clientID string) {
	var ids []string
	r.mu.Lock()
	for _, id := range r.order {
		if r.items[id].ClientID == clientID {
			ids = append(ids, id)
		}
	}
	r.mu.Unlock()
	for _, id := range ids {
		_ = r.Delete(context.Background(), id)
	}
}

type mockClientRepo struct {
	mu        sync.Mutex
	order     []string
	items     map[string]client.Client
	deadlines *mockDeadlineRepo
	listErr   error
}

func newMockClientRepo(deadlines *mockDeadlineRepo, cs ...client.Client) *mockClientRepo {
	r := &mockClientRepo{items: map[string]client.Client{}, deadlines: deadlines}
	for _, c := range cs {
		c := c
		_ = r.Save(context.Background(), &c)
	}
	return r
}

func (r *mockClientRepo) List(context.Context) ([]client.Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.listErr != nil {
		return nil, r.listErr
	}
	out := make([]client.Client, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.items[id])
	}
	return out, nil
}

func (r *mockClientRepo) Get(_ context.Context, id string) (*client.Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.items[id]
	if !ok {
		return nil, errors.New(errors.ErrCodeClientNotFound, "client not found").WithDetail(id)
	}
	return &c, nil
}

func (r *mockClientRepo) Save(_ context.Context, c *client.Client) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[c.ID]; !ok {
		r.order = append(r.order, c.ID)
	}
	r.items[c.ID] = *c
	return nil
}

func (r *mockClientRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	if _, ok := r.items[id]; !ok {
		r.mu.Unlock()
		return errors.New(errors.ErrCodeClientNotFound, "client not found").WithDetail(id)
	}
	delete(r.items, id)
	for i, oid := range r.order {
		if oid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	r.mu.Unlock()
	if r.deadlines != nil {
		r.deadlines.deleteByClient(id)
	}
	return nil
}

type mockCache struct {
	mu      sync.Mutex
	data    map[string][]byte
	ttls    map[string]time.Duration
	getErr  error
	setErr  error
	deleted []string
}

func newMockCache() *mockCache {
	return &mockCache{data: map[string][]byte{}, ttls: map[string]time.Duration{}}
}

func (c *mockCache) Get(_ context.Context, key string, dest interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.getErr != nil {
		return c.getErr
	}
	b, ok := c.data[key]
	if !ok {
		return fmt.Errorf("cache miss")
	}
	return json.Unmarshal(b, dest)
}

func (c *mockCache) Set(_ context.Context, key string, value interface{}, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.setErr != nil {
		return c.setErr
	}
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.data[key] = b
	c.ttls[key] = ttl
	return nil
}

func (c *mockCache) Delete(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.data, k)
		c.deleted = append(c.deleted, k)
	}
	return nil
}

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) Publish(ctx context.Context, ev *ChangeEvent) error {
	args := m.Called(ctx, ev)
	return args.Error(0)
}

// publishedTypes returns the event types of every Publish call, in order.
func (m *mockPublisher) publishedTypes() []EventType {
	var out []EventType
	for _, c := range m.Calls {
		if c.Method == "Publish" {
			out = append(out, c.Arguments.Get(1).(*ChangeEvent).Type)
		}
	}
	return out
}

func newAcceptingPublisher() *mockPublisher {
	p := &mockPublisher{}
	p.On("Publish", mock.Anything, mock.Anything).Return(nil)
	return p
}

type mockLogger struct {
	mu    sync.Mutex
	warns []string
	infos []string
}

func (l *mockLogger) Info(msg string, _ ...interface{}) {
	l.mu.Lock()
	l.infos = append(l.infos, msg)
	l.mu.Unlock()
}

func (l *mockLogger) Warn(msg string, _ ...interface{}) {
	l.mu.Lock()
	l.warns = append(l.warns, msg)
	l.mu.Unlock()
}

func (l *mockLogger) Error(string, ...interface{}) {}
func (l *mockLogger) Debug(string, ...interface{}) {}

// ---------------------------------------------------------------------------
// Fixtures
// ---------------------------------------------------------------------------

func fixtureClients() []client.Client {
	return []client.Client{
		{ID: "c1", Name: "Margaret Whitfield", Company: "Whitfield & Associates", Industry: "Legal", Status: client.StatusActive},
		{ID: "c2", Name: "James Harrington", Company: "Harrington Capital Group", Industry: "Finance", Status: client.StatusActive},
		{ID: "c3", Name: "Diana Thornton", Company: "Thornton Real Estate", Industry: "Real Estate", Status: client.StatusInactive},
	}
}

func fixtureDeadlines() []deadline.Deadline {
	today := common.DateOf(testNow)
	mk := func(id, clientID, title string, offset int, p deadline.Priority, st deadline.Status) deadline.Deadline {
		return deadline.Deadline{ID: id, ClientID: clientID, Title: title, DueDate: today.AddDays(offset), Priority: p, Status: st}
	}
	return []deadline.Deadline{
		mk("d1", "c1", "Q2 Financial Review Package", 3, deadline.PriorityHigh, deadline.StatusInProgress),
		mk("d2", "c1", "Contract Renewal Analysis", 10, deadline.PriorityMedium, deadline.StatusTodo),
		mk("d3", "c2", "Investment Portfolio Assessment", 1, deadline.PriorityHigh, deadline.StatusTodo),
		mk("d4", "c2", "Weekly Status Update", -2, deadline.PriorityLow, deadline.StatusTodo),
		mk("d5", "c1", "Regulatory Filing Preparation", -3, deadline.PriorityHigh, deadline.StatusComplete),
		mk("d6", "gone", "Orphaned Review", -1, deadline.PriorityMedium, deadline.StatusInProgress),
	}
}

type testStore struct {
	clients   *mockClientRepo
	deadlines *mockDeadlineRepo
}

func newTestStore() testStore {
	ds := newMockDeadlineRepo(fixtureDeadlines()...)
	return testStore{clients: newMockClientRepo(ds, fixtureClients()...), deadlines: ds}
}

// ---------------------------------------------------------------------------
// Tests: shared helpers
// ---------------------------------------------------------------------------

func TestEventType_InvalidatesSummary(t *testing.T) {
	for _, et := range []EventType{EventDeadlineCreated, EventDeadlineStatusChanged, EventDeadlinesCompleted, EventClientDeleted} {
		assert.True(t, et.InvalidatesSummary(), et)
	}
	for _, et := range []EventType{EventChatTurn, EventChatExported, ""} {
		assert.False(t, et.InvalidatesSummary(), et)
	}
}

func TestLoggerAdapter(t *testing.T) {
	ml := testutil.NewMockLogger()
	l := NewLoggerAdapter(ml)

	l.Info("deadline created", "deadline_id", "d1", "count", 3)
	l.Warn("event publish failed", "error", fmt.Errorf("broker down"))
	l.Error("odd", "dangling")

	msgs := ml.GetMessages()
	assert.Len(t, msgs, 3)
	field := func(m testutil.LogMessage, key string) interface{} {
		v, _ := m.Field(key)
		return v
	}
	assert.Equal(t, "d1", field(msgs[0], "deadline_id"))
	assert.Equal(t, 3, field(msgs[0], "count"))
	assert.EqualError(t, field(msgs[1], "error").(error), "broker down")
	assert.Equal(t, "dangling", field(msgs[2], "!BADKEY"))
	assert.True(t, ml.HasMessage("warn", "event publish failed"))
}

func TestEmit_LogsPublishFailure(t *testing.T) {
	pub := &mockPublisher{}
	pub.On("Publish", mock.Anything, mock.Anything).Return(fmt.Errorf("broker down"))
	logger := &mockLogger{}

	emit(context.Background(), pub, logger, newEvent(EventClientCreated, testNow, "c1", "c1"))

	pub.AssertNumberOfCalls(t, "Publish", 1)
	assert.Equal(t, []string{"event publish failed"}, logger.warns)
}

//Personal.AI order the ending
