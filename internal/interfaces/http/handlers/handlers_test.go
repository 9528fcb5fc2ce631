package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/ConsultTrack-Intelligence/internal/application/tracker"
	"github.com/turtacn/ConsultTrack-Intelligence/internal/domain/client"
	"github.com/turtacn/ConsultTrack-Intelligence/internal/domain/deadline"
	"github.com/turtacn/ConsultTrack-Intelligence/internal/intelligence/assistant"
	"github.com/turtacn/ConsultTrack-Intelligence/internal/testutil"
	"github.com/turtacn/ConsultTrack-Intelligence/pkg/errors"
	"github.com/turtacn/ConsultTrack-Intelligence/pkg/types/common"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// ─────────────────────────────────────────────────────────────────────────────
// Fakes
// ─────────────────────────────────────────────────────────────────────────────

type mockDeadlineService struct{ mock.Mock }

func (m *mockDeadlineService) List(ctx context.Context, q tracker.DeadlineQuery) ([]deadline.Deadline, error) {
	args := m.Called(ctx, q)
	list, _ := args.Get(0).([]deadline.Deadline)
	return list, args.Error(1)
}

func (m *mockDeadlineService) Get(ctx context.Context, id string) (*deadline.Deadline, error) {
	args := m.Called(ctx, id)
	d, _ := args.Get(0).(*deadline.Deadline)
	return d, args.Error(1)
}

func (m *mockDeadlineService) Create(ctx context.Context, req tracker.CreateDeadlineRequest) (*deadline.Deadline, error) {
	args := m.Called(ctx, req)
	d, _ := args.Get(0).(*deadline.Deadline)
	return d, args.Error(1)
}

func (m *mockDeadlineService) Update(ctx context.Context, id string, req tracker.UpdateDeadlineRequest) (*deadline.Deadline, error) {
	args := m.Called(ctx, id, req)
	d, _ := args.Get(0).(*deadline.Deadline)
	return d, args.Error(1)
}

func (m *mockDeadlineService) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockDeadlineService) CycleStatus(ctx context.Context, id string) (*deadline.Deadline, error) {
	args := m.Called(ctx, id)
	d, _ := args.Get(0).(*deadline.Deadline)
	return d, args.Error(1)
}

func (m *mockDeadlineService) CompleteMany(ctx context.Context, ids []string) (int, error) {
	args := m.Called(ctx, ids)
	return args.Int(0), args.Error(1)
}

type fakeClientService struct {
	listFn   func(tracker.ClientQuery) ([]client.Client, error)
	createFn func(tracker.CreateClientRequest) (*client.Client, error)
	deleteFn func(string) error
}

func (f *fakeClientService) List(_ context.Context, q tracker.ClientQuery) ([]client.Client, error) {
	return f.listFn(q)
}

func (f *fakeClientService) Get(_ context.Context, id string) (*client.Client, error) {
	return nil, errors.New(errors.ErrCodeClientNotFound, "client not found").WithDetail(id)
}

func (f *fakeClientService) Create(_ context.Context, req tracker.CreateClientRequest) (*client.Client, error) {
	return f.createFn(req)
}

func (f *fakeClientService) Update(_ context.Context, id string, _ tracker.UpdateClientRequest) (*client.Client, error) {
	return &client.Client{ID: id}, nil
}

func (f *fakeClientService) Delete(_ context.Context, id string) error {
	return f.deleteFn(id)
}

type fakeDashboardService struct {
	overview  *tracker.Overview
	summary   *tracker.WeeklySummary
	refreshed bool
	err       error
}

func (f *fakeDashboardService) Overview(context.Context) (*tracker.Overview, error) {
	return f.overview, f.err
}

func (f *fakeDashboardService) WeeklySummary(_ context.Context, refresh bool) (*tracker.WeeklySummary, error) {
	f.refreshed = refresh
	return f.summary, f.err
}

func (f *fakeDashboardService) InvalidateSummary(context.Context) error { return nil }

type fakeChatService struct {
	messages  []assistant.Message
	sendFn    func(string) (*assistant.Turn, error)
	export    *tracker.ExportResult
	exportErr error
	resets    int
}

func (f *fakeChatService) Messages(context.Context) []assistant.Message { return f.messages }

func (f *fakeChatService) Send(_ context.Context, text string) (*assistant.Turn, error) {
	return f.sendFn(text)
}

func (f *fakeChatService) QuickQueries() []assistant.QuickQuery {
	return []assistant.QuickQuery{{ID: "overdue", Prompt: "What is overdue?"}}
}

func (f *fakeChatService) RunQuickQuery(_ context.Context, id string) (*assistant.Turn, error) {
	if id != "overdue" {
		return nil, errors.New(errors.ErrCodeChatUnknownQuery, "unknown quick query")
	}
	return f.sendFn("What is overdue?")
}

func (f *fakeChatService) Export(context.Context) (*tracker.ExportResult, error) {
	return f.export, f.exportErr
}

func (f *fakeChatService) Reset(context.Context) error {
	f.resets++
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Helpers
// ─────────────────────────────────────────────────────────────────────────────

func serve(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v))
}

func deadlineRouter(svc tracker.DeadlineService, log *testutil.MockLogger) *gin.Engine {
	h := NewDeadlineHandler(svc, log)
	r := gin.New()
	r.GET("/deadlines", h.List)
	r.POST("/deadlines", h.Create)
	r.POST("/deadlines/complete", h.Complete)
	r.GET("/deadlines/:id", h.Get)
	r.PUT("/deadlines/:id", h.Update)
	r.DELETE("/deadlines/:id", h.Delete)
	r.POST("/deadlines/:id/cycle", h.Cycle)
	return r
}

// ─────────────────────────────────────────────────────────────────────────────
// Deadlines
// ─────────────────────────────────────────────────────────────────────────────

func TestDeadlineHandler_ListBindsQuery(t *testing.T) {
	svc := new(mockDeadlineService)
	want := tracker.DeadlineQuery{ClientID: "c1", Priority: "high", Sort: "dueDate", Order: "desc"}
	svc.On("List", mock.Anything, want).Return([]deadline.Deadline{{ID: "d1"}, {ID: "d2"}}, nil)

	w := serve(deadlineRouter(svc, testutil.NewMockLogger()), http.MethodGet,
		"/deadlines?client_id=c1&priority=high&sort=dueDate&order=desc", "")

	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Data []struct {
			ID string `json:"id"`
		} `json:"data"`
		Total int `json:"total"`
	}
	decode(t, w, &resp)
	assert.Equal(t, 2, resp.Total)
	assert.Equal(t, "d2", resp.Data[1].ID)
	svc.AssertExpectations(t)
}

func TestDeadlineHandler_ListEmptyIsArray(t *testing.T) {
	svc := new(mockDeadlineService)
	svc.On("List", mock.Anything, tracker.DeadlineQuery{}).Return(nil, nil)

	w := serve(deadlineRouter(svc, testutil.NewMockLogger()), http.MethodGet, "/deadlines", "")
	assert.JSONEq(t, `{"data":[],"total":0}`, w.Body.String())
}

func TestDeadlineHandler_ListInvalidSort(t *testing.T) {
	svc := new(mockDeadlineService)
	svc.On("List", mock.Anything, mock.Anything).
		Return(nil, errors.New(errors.ErrCodeDeadlineInvalidSort, "unknown sort key").WithDetail("colour"))

	w := serve(deadlineRouter(svc, testutil.NewMockLogger()), http.MethodGet, "/deadlines?sort=colour", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	var resp ErrorResponse
	decode(t, w, &resp)
	assert.Equal(t, "DEADLINE_005", resp.Code)
	assert.Equal(t, "unknown sort key", resp.Message)
	assert.Equal(t, "colour", resp.Detail)
}

func TestDeadlineHandler_CreateEmptyBody(t *testing.T) {
	svc := new(mockDeadlineService)
	svc.On("Create", mock.Anything, tracker.CreateDeadlineRequest{}).
		Return(&deadline.Deadline{ID: "d9", Title: deadline.DefaultTitle}, nil)

	w := serve(deadlineRouter(svc, testutil.NewMockLogger()), http.MethodPost, "/deadlines", "")
	assert.Equal(t, http.StatusCreated, w.Code)
	var d struct {
		ID string `json:"id"`
	}
	decode(t, w, &d)
	assert.Equal(t, "d9", d.ID)
}

func TestDeadlineHandler_CreateWithBody(t *testing.T) {
	svc := new(mockDeadlineService)
	due := common.NewDate(2024, 5, 10)
	svc.On("Create", mock.Anything, tracker.CreateDeadlineRequest{Title: "VAT return", DueDate: &due}).
		Return(&deadline.Deadline{ID: "d1"}, nil)

	w := serve(deadlineRouter(svc, testutil.NewMockLogger()), http.MethodPost, "/deadlines",
		`{"title":"VAT return","due_date":"2024-05-10"}`)
	assert.Equal(t, http.StatusCreated, w.Code)
	svc.AssertExpectations(t)

	w = serve(deadlineRouter(svc, testutil.NewMockLogger()), http.MethodPost, "/deadlines", `{"title":`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDeadlineHandler_UpdateDeleteCycle(t *testing.T) {
	svc := new(mockDeadlineService)
	status := "complete"
	svc.On("Update", mock.Anything, "d1", tracker.UpdateDeadlineRequest{Status: &status}).
		Return(&deadline.Deadline{ID: "d1", Status: deadline.StatusComplete}, nil)
	svc.On("Delete", mock.Anything, "d1").Return(nil)
	svc.On("Delete", mock.Anything, "zz").Return(errors.New(errors.ErrCodeDeadlineNotFound, "deadline not found"))
	svc.On("CycleStatus", mock.Anything, "d1").Return(&deadline.Deadline{ID: "d1", Status: deadline.StatusInProgress}, nil)
	r := deadlineRouter(svc, testutil.NewMockLogger())

	w := serve(r, http.MethodPut, "/deadlines/d1", `{"status":"complete"}`)
	assert.Equal(t, http.StatusOK, w.Code)

	w = serve(r, http.MethodDelete, "/deadlines/d1", "")
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = serve(r, http.MethodDelete, "/deadlines/zz", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = serve(r, http.MethodPost, "/deadlines/d1/cycle", "")
	assert.Equal(t, http.StatusOK, w.Code)
	var d struct {
		Status deadline.Status `json:"status"`
	}
	decode(t, w, &d)
	assert.Equal(t, deadline.StatusInProgress, d.Status)
	svc.AssertExpectations(t)
}

func TestDeadlineHandler_Complete(t *testing.T) {
	svc := new(mockDeadlineService)
	svc.On("CompleteMany", mock.Anything, []string{"d1", "d2", "gone"}).Return(2, nil)

	w := serve(deadlineRouter(svc, testutil.NewMockLogger()), http.MethodPost, "/deadlines/complete",
		`{"ids":["d1","d2","gone"]}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"completed":2}`, w.Body.String())
}

func TestDeadlineHandler_InternalErrorIsMasked(t *testing.T) {
	svc := new(mockDeadlineService)
	svc.On("Get", mock.Anything, "d1").Return(nil, errors.New(errors.ErrCodeDatabaseError, "pq: connection refused at 10.0.0.5"))
	log := testutil.NewMockLogger()

	w := serve(deadlineRouter(svc, log), http.MethodGet, "/deadlines/d1", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "10.0.0.5")
	assert.True(t, log.HasMessage("error", "request failed"))
}

// ─────────────────────────────────────────────────────────────────────────────
// Clients
// ─────────────────────────────────────────────────────────────────────────────

func TestClientHandler(t *testing.T) {
	var gotQuery tracker.ClientQuery
	var gotCreate tracker.CreateClientRequest
	svc := &fakeClientService{
		listFn: func(q tracker.ClientQuery) ([]client.Client, error) {
			gotQuery = q
			return []client.Client{{ID: "c1", Name: "Acme"}}, nil
		},
		createFn: func(req tracker.CreateClientRequest) (*client.Client, error) {
			gotCreate = req
			return &client.Client{ID: "c2", Name: req.Name}, nil
		},
		deleteFn: func(string) error { return nil },
	}
	h := NewClientHandler(svc, testutil.NewMockLogger())
	r := gin.New()
	r.GET("/clients", h.List)
	r.POST("/clients", h.Create)
	r.GET("/clients/:id", h.Get)
	r.PUT("/clients/:id", h.Update)
	r.DELETE("/clients/:id", h.Delete)

	w := serve(r, http.MethodGet, "/clients?q=acme&active=true", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, tracker.ClientQuery{Search: "acme", ActiveOnly: true}, gotQuery)

	w = serve(r, http.MethodGet, "/clients?active=maybe", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = serve(r, http.MethodPost, "/clients", `{"name":"Globex","industry":"Energy"}`)
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "Energy", gotCreate.Industry)

	w = serve(r, http.MethodGet, "/clients/nope", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	var resp ErrorResponse
	decode(t, w, &resp)
	assert.Equal(t, "CLIENT_001", resp.Code)

	w = serve(r, http.MethodPut, "/clients/c1", `{"notes":"VIP"}`)
	assert.Equal(t, http.StatusOK, w.Code)

	w = serve(r, http.MethodDelete, "/clients/c1", "")
	assert.Equal(t, http.StatusNoContent, w.Code)
}

// ─────────────────────────────────────────────────────────────────────────────
// Dashboard
// ─────────────────────────────────────────────────────────────────────────────

func TestDashboardHandler_Overview(t *testing.T) {
	svc := &fakeDashboardService{overview: &tracker.Overview{
		Today:         common.NewDate(2024, 5, 8),
		ActiveClients: 3,
		Counts:        deadline.Counts{Overdue: 1, Upcoming: 2, ThisWeek: 2},
	}}
	var seen deadline.Counts
	h := NewDashboardHandler(svc, testutil.NewMockLogger(), func(c deadline.Counts) { seen = c })
	r := gin.New()
	r.GET("/dashboard", h.Overview)

	w := serve(r, http.MethodGet, "/dashboard", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 2, seen.Upcoming)

	var ov tracker.Overview
	decode(t, w, &ov)
	assert.Equal(t, "2024-05-08", ov.Today.String())
	assert.Equal(t, 3, ov.ActiveClients)
}

func TestDashboardHandler_Summary(t *testing.T) {
	svc := &fakeDashboardService{summary: &tracker.WeeklySummary{Available: false}}
	h := NewDashboardHandler(svc, testutil.NewMockLogger(), nil)
	r := gin.New()
	r.GET("/summary", h.Summary)

	w := serve(r, http.MethodGet, "/summary", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.False(t, svc.refreshed)

	serve(r, http.MethodGet, "/summary?refresh=true", "")
	assert.True(t, svc.refreshed)

	w = serve(r, http.MethodGet, "/summary?refresh=soon", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// ─────────────────────────────────────────────────────────────────────────────
// Chat
// ─────────────────────────────────────────────────────────────────────────────

func chatRouter(svc tracker.ChatService) *gin.Engine {
	h := NewChatHandler(svc, testutil.NewMockLogger())
	r := gin.New()
	r.GET("/chat/messages", h.Messages)
	r.POST("/chat/messages", h.Send)
	r.DELETE("/chat/messages", h.Reset)
	r.GET("/chat/quick-queries", h.QuickQueries)
	r.POST("/chat/quick-queries/:id", h.RunQuickQuery)
	r.POST("/chat/export", h.Export)
	return r
}

func TestChatHandler_Send(t *testing.T) {
	svc := &fakeChatService{sendFn: func(text string) (*assistant.Turn, error) {
		switch text {
		case "":
			return nil, errors.New(errors.ErrCodeChatEmptyMessage, "message is empty")
		case "busy":
			return nil, errors.New(errors.ErrCodeChatRequestInFlight, "a request is already in flight")
		}
		return &assistant.Turn{
			User:      assistant.Message{ID: "u1", Role: assistant.RoleUser, Content: text},
			Assistant: assistant.Message{ID: "a1", Role: assistant.RoleAssistant, Content: "Two overdue."},
		}, nil
	}}
	r := chatRouter(svc)

	w := serve(r, http.MethodPost, "/chat/messages", `{"text":"What is overdue?"}`)
	require.Equal(t, http.StatusOK, w.Code)
	var turn assistant.Turn
	decode(t, w, &turn)
	assert.Equal(t, "Two overdue.", turn.Assistant.Content)

	w = serve(r, http.MethodPost, "/chat/messages", `{"text":""}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = serve(r, http.MethodPost, "/chat/messages", `{"text":"busy"}`)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = serve(r, http.MethodPost, "/chat/messages", `not json`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestChatHandler_QuickQueries(t *testing.T) {
	svc := &fakeChatService{sendFn: func(text string) (*assistant.Turn, error) {
		return &assistant.Turn{User: assistant.Message{Content: text}}, nil
	}}
	r := chatRouter(svc)

	w := serve(r, http.MethodGet, "/chat/quick-queries", "")
	assert.JSONEq(t, `{"data":[{"id":"overdue","prompt":"What is overdue?"}],"total":1}`, w.Body.String())

	w = serve(r, http.MethodPost, "/chat/quick-queries/overdue", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = serve(r, http.MethodPost, "/chat/quick-queries/nope", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestChatHandler_MessagesExportReset(t *testing.T) {
	svc := &fakeChatService{
		export: &tracker.ExportResult{Key: "transcripts/2024/05/08/x.json", Location: "s3://b/k", Messages: 2},
	}
	r := chatRouter(svc)

	w := serve(r, http.MethodGet, "/chat/messages", "")
	assert.JSONEq(t, `{"data":[],"total":0}`, w.Body.String())

	w = serve(r, http.MethodPost, "/chat/export", "")
	assert.Equal(t, http.StatusCreated, w.Code)
	var res tracker.ExportResult
	decode(t, w, &res)
	assert.Equal(t, 2, res.Messages)

	svc.exportErr = errors.New(errors.ErrCodeChatArchiveFailed, "archive failed")
	w = serve(r, http.MethodPost, "/chat/export", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	w = serve(r, http.MethodDelete, "/chat/messages", "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, 1, svc.resets)
}

// ─────────────────────────────────────────────────────────────────────────────
// Health
// ─────────────────────────────────────────────────────────────────────────────

func TestHealthHandler(t *testing.T) {
	observed := map[string]bool{}
	var mu sync.Mutex
	h := NewHealthHandler("1.2.3", func(name string, ok bool) {
		mu.Lock()
		defer mu.Unlock()
		observed[name] = ok
	},
		CheckFunc{ComponentName: "store", Fn: func(context.Context) error { return nil }},
		CheckFunc{ComponentName: "redis", Fn: func(context.Context) error { return errors.New(errors.ErrCodeCacheError, "dial tcp: refused") }},
	)
	r := gin.New()
	r.GET("/healthz", h.Liveness)
	r.GET("/readyz", h.Readiness)

	w := serve(r, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, w.Code)
	var live LivenessResponse
	decode(t, w, &live)
	assert.Equal(t, "1.2.3", live.Version)

	w = serve(r, http.MethodGet, "/readyz", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	var ready ReadinessResponse
	decode(t, w, &ready)
	assert.Equal(t, "not_ready", ready.Status)
	assert.Equal(t, "healthy", ready.Components["store"].Status)
	assert.Equal(t, "unhealthy", ready.Components["redis"].Status)
	assert.Equal(t, map[string]bool{"store": true, "redis": false}, observed)
}

//Personal.AI order the ending
