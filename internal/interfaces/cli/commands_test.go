package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/ConsultTrack-Intelligence/internal/config"
	"github.com/turtacn/ConsultTrack-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/ConsultTrack-Intelligence/pkg/errors"
)

type apiCall struct {
	method string
	path   string
	query  string
	body   string
}

// fakeAPI serves canned bodies keyed by "METHOD /path" and records calls.
type fakeAPI struct {
	mu     sync.Mutex
	calls  []apiCall
	routes map[string]string
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b, _ := io.ReadAll(r.Body)
	f.mu.Lock()
	f.calls = append(f.calls, apiCall{r.Method, r.URL.Path, r.URL.RawQuery, string(b)})
	f.mu.Unlock()

	body, ok := f.routes[r.Method+" "+r.URL.Path]
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"code":"DEADLINE_001","message":"deadline not found"}`))
		return
	}
	if body == "" {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(body))
}

func (f *fakeAPI) last() apiCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[len(f.calls)-1]
}

func serveAPI(t *testing.T, routes map[string]string) (*fakeAPI, string) {
	api := &fakeAPI{routes: routes}
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)
	return api, srv.URL
}

func runCLI(t *testing.T, server string, args ...string) (string, string, error) {
	t.Helper()
	color.NoColor = true
	cmd := NewRootCommand()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append([]string{"--server", server, "--no-color"}, args...))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

const (
	deadlineBody = `{"id":"d1","title":"VAT return","client_id":"c1","due_date":"2024-05-10","priority":"high","status":"todo"}`
	agendaBody   = `{"today":"2024-05-08","active_clients":2,` +
		`"counts":{"overdue":1,"upcoming":2,"this_week":1},` +
		`"agenda":[{"id":"d0","title":"Payroll","client_id":"c2","due_date":"2024-05-06","priority":"medium","status":"todo","client_name":"Globex","status_label":"To do","days_until":-2}],` +
		`"this_week":[]}`
)

func TestDashboardCommand(t *testing.T) {
	_, url := serveAPI(t, map[string]string{"GET /api/v1/dashboard": agendaBody})

	out, _, err := runCLI(t, url, "dashboard")
	require.NoError(t, err)
	assert.Contains(t, out, "Today: 2024-05-08   Active clients: 2")
	assert.Contains(t, out, "Overdue: 1")
	assert.Contains(t, out, "This week: 1")
	assert.Contains(t, out, "2024-05-06")
	assert.Contains(t, out, "Globex")
	assert.Contains(t, out, "-2")

	out, _, err = runCLI(t, url, "-o", "json", "dashboard")
	require.NoError(t, err)
	var decoded struct {
		Counts struct {
			Overdue int `json:"overdue"`
		} `json:"counts"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, 1, decoded.Counts.Overdue)
}

func TestSummaryCommand(t *testing.T) {
	api, url := serveAPI(t, map[string]string{
		"GET /api/v1/dashboard/summary": `{"available":true,"generated_at":"2024-05-08T09:00:00Z",` +
			`"result":{"summary":"Busy week.","details":"","action_items":["Call Acme"],"alerts":["VAT overdue"]}}`,
	})

	out, _, err := runCLI(t, url, "summary", "--refresh")
	require.NoError(t, err)
	assert.Equal(t, "refresh=true", api.last().query)
	assert.Contains(t, out, "Busy week.")
	assert.Contains(t, out, "Action items:\n  - Call Acme")
	assert.Contains(t, out, "Alerts:\n  - VAT overdue")
	assert.Contains(t, out, "generated 2024-05-08 09:00")
}

func TestSummaryCommand_NotAvailable(t *testing.T) {
	_, url := serveAPI(t, map[string]string{"GET /api/v1/dashboard/summary": `{"available":false}`})

	out, _, err := runCLI(t, url, "summary")
	require.NoError(t, err)
	assert.Contains(t, out, "No summary available yet.")
}

func TestDeadlinesList(t *testing.T) {
	api, url := serveAPI(t, map[string]string{"GET /api/v1/deadlines": `{"data":[` + deadlineBody + `],"total":1}`})

	out, _, err := runCLI(t, url, "deadlines", "list", "--client", "c1", "--sort", "dueDate", "--order", "desc")
	require.NoError(t, err)
	assert.Equal(t, "client_id=c1&order=desc&sort=dueDate", api.last().query)
	assert.Contains(t, out, "ID  DUE         PRIORITY  STATUS  CLIENT  TITLE")
	assert.Contains(t, out, "d1  2024-05-10  high      todo    c1      VAT return")
}

func TestDeadlinesList_Empty(t *testing.T) {
	_, url := serveAPI(t, map[string]string{"GET /api/v1/deadlines": `{"data":[],"total":0}`})

	out, _, err := runCLI(t, url, "dl", "list")
	require.NoError(t, err)
	assert.Equal(t, "No deadlines.\n", out)
}

func TestDeadlinesAdd(t *testing.T) {
	api, url := serveAPI(t, map[string]string{"POST /api/v1/deadlines": deadlineBody})

	out, _, err := runCLI(t, url, "deadlines", "add", "VAT return", "--client", "c1", "--due", "2024-05-10", "--priority", "high")
	require.NoError(t, err)
	assert.JSONEq(t, `{"title":"VAT return","client_id":"c1","due_date":"2024-05-10","priority":"high"}`, api.last().body)
	assert.Contains(t, out, `OK: created d1 "VAT return" due 2024-05-10`)
}

func TestDeadlinesAdd_Defaults(t *testing.T) {
	api, url := serveAPI(t, map[string]string{"POST /api/v1/deadlines": deadlineBody})

	_, _, err := runCLI(t, url, "deadlines", "add")
	require.NoError(t, err)
	assert.JSONEq(t, `{}`, api.last().body)
}

func TestDeadlinesAdd_BadDue(t *testing.T) {
	api, url := serveAPI(t, nil)

	_, _, err := runCLI(t, url, "deadlines", "add", "--due", "10/05/2024")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeBadRequest))
	assert.Empty(t, api.calls)
}

func TestDeadlinesCycle(t *testing.T) {
	api, url := serveAPI(t, map[string]string{
		"POST /api/v1/deadlines/d1/cycle": `{"id":"d1","due_date":"2024-05-10","status":"in_progress"}`,
	})

	out, _, err := runCLI(t, url, "deadlines", "cycle", "d1")
	require.NoError(t, err)
	assert.Equal(t, "/api/v1/deadlines/d1/cycle", api.last().path)
	assert.Contains(t, out, "d1 is now in_progress")
}

func TestDeadlinesCycle_NotFound(t *testing.T) {
	_, url := serveAPI(t, nil)

	_, _, err := runCLI(t, url, "deadlines", "cycle", "nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "deadline not found")
}

func TestDeadlinesComplete(t *testing.T) {
	api, url := serveAPI(t, map[string]string{"POST /api/v1/deadlines/complete": `{"completed":1}`})

	out, _, err := runCLI(t, url, "deadlines", "complete", "d1", "missing")
	require.NoError(t, err)
	assert.JSONEq(t, `{"ids":["d1","missing"]}`, api.last().body)
	assert.Contains(t, out, "completed 1 of 2")

	out, _, err = runCLI(t, url, "-o", "json", "deadlines", "complete", "d1")
	require.NoError(t, err)
	assert.JSONEq(t, `{"completed":1}`, out)

	_, _, err = runCLI(t, url, "deadlines", "complete")
	assert.Error(t, err)
}

func TestDeadlinesDelete(t *testing.T) {
	api, url := serveAPI(t, map[string]string{"DELETE /api/v1/deadlines/d1": ""})

	out, _, err := runCLI(t, url, "deadlines", "delete", "d1")
	require.NoError(t, err)
	assert.Equal(t, http.MethodDelete, api.last().method)
	assert.Contains(t, out, "deleted d1")
}

func TestClientsList(t *testing.T) {
	api, url := serveAPI(t, map[string]string{
		"GET /api/v1/clients": `{"data":[{"id":"c1","name":"Ada","company":"Acme","industry":"Retail","status":"active"}],"total":1}`,
	})

	out, _, err := runCLI(t, url, "clients", "list", "--search", "ac", "--active")
	require.NoError(t, err)
	assert.Equal(t, "active=true&q=ac", api.last().query)
	assert.Contains(t, out, "c1  Ada   Acme     Retail    active")

	out, _, err = runCLI(t, url, "--output", "json", "clients", "list")
	require.NoError(t, err)
	var decoded []map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	require.Len(t, decoded, 1)
	assert.Equal(t, "Acme", decoded[0]["company"])
}

const turnBody = `{"user":{"id":"m1","role":"user","content":"what is overdue?"},` +
	`"assistant":{"id":"m2","role":"assistant","content":"One item.","parsed_response":{"summary":"One item.","action_items":["File VAT"]}}}`

func TestChatCommand(t *testing.T) {
	api, url := serveAPI(t, map[string]string{"POST /api/v1/chat/messages": turnBody})

	out, _, err := runCLI(t, url, "chat", "what", "is", "overdue?")
	require.NoError(t, err)
	assert.JSONEq(t, `{"text":"what is overdue?"}`, api.last().body)
	assert.Contains(t, out, "you> what is overdue?")
	assert.Contains(t, out, "assistant>\nOne item.")
	assert.Contains(t, out, "  - File VAT")

	_, _, err = runCLI(t, url, "chat")
	assert.Error(t, err)
}

func TestChatQuick(t *testing.T) {
	api, url := serveAPI(t, map[string]string{
		"GET /api/v1/chat/quick-queries":         `{"data":[{"id":"overdue","prompt":"What is overdue?"}],"total":1}`,
		"POST /api/v1/chat/quick-queries/overdue": turnBody,
	})

	out, _, err := runCLI(t, url, "chat", "quick")
	require.NoError(t, err)
	assert.Contains(t, out, "overdue  What is overdue?")

	out, _, err = runCLI(t, url, "chat", "quick", "overdue")
	require.NoError(t, err)
	assert.Equal(t, "/api/v1/chat/quick-queries/overdue", api.last().path)
	assert.Contains(t, out, "One item.")
}

func TestChatHistoryResetExport(t *testing.T) {
	api, url := serveAPI(t, map[string]string{
		"GET /api/v1/chat/messages":    `{"data":[{"id":"m1","role":"user","content":"hi"},{"id":"m2","role":"assistant","content":"Please try again."}],"total":2}`,
		"DELETE /api/v1/chat/messages": "",
		"POST /api/v1/chat/export":     `{"key":"chats/x.json","location":"s3://bucket/chats/x.json","messages":2}`,
	})

	out, _, err := runCLI(t, url, "chat", "history")
	require.NoError(t, err)
	assert.Contains(t, out, "you> hi")
	assert.Contains(t, out, "Please try again.")

	out, _, err = runCLI(t, url, "chat", "reset")
	require.NoError(t, err)
	assert.Equal(t, http.MethodDelete, api.last().method)
	assert.Contains(t, out, "conversation cleared")

	out, _, err = runCLI(t, url, "chat", "export")
	require.NoError(t, err)
	assert.Contains(t, out, "2 messages archived to s3://bucket/chats/x.json")
}

func TestSeedCommand(t *testing.T) {
	orig := seedStore
	t.Cleanup(func() { seedStore = orig })

	var gotMigrate bool
	seedStore = func(_ context.Context, cfg *config.Config, migrate bool, _ logging.Logger) (bool, error) {
		gotMigrate = migrate
		return true, nil
	}
	t.Setenv("CONSULTTRACK_STORE_DRIVER", "postgres")
	t.Setenv("CONSULTTRACK_DATABASE_USER", "consulttrack")

	out, _, err := runCLI(t, "http://127.0.0.1:1", "seed", "--skip-migrate")
	require.NoError(t, err)
	assert.False(t, gotMigrate)
	assert.Contains(t, out, "sample data loaded")

	seedStore = func(context.Context, *config.Config, bool, logging.Logger) (bool, error) { return false, nil }
	out, _, err = runCLI(t, "http://127.0.0.1:1", "-o", "json", "seed")
	require.NoError(t, err)
	assert.JSONEq(t, `{"seeded":false}`, out)
}

func TestSeedCommand_RequiresPostgres(t *testing.T) {
	t.Setenv("CONSULTTRACK_STORE_DRIVER", "memory")

	_, _, err := runCLI(t, "http://127.0.0.1:1", "seed")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeInvalidConfig))
}

//Personal.AI order the ending
