package assistant

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/ConsultTrack-Intelligence/pkg/types/common"
)

type recordingObserver struct {
	mu    sync.Mutex
	calls []string
}

func (o *recordingObserver) ObserveAgentCall(kind string, outcome Outcome, _ float64) {
	o.mu.Lock()
	o.calls = append(o.calls, kind+":"+string(outcome))
	o.mu.Unlock()
}

func succeed(summary string) AgentCallerFunc {
	return func(context.Context, string, string) (*AgentResult, error) {
		return &AgentResult{Success: true, Response: &AgentResponse{Result: Structured(map[string]any{"summary": summary})}}, nil
	}
}

func newTestConversation(t *testing.T, caller AgentCaller, opts ...Option) *Conversation {
	t.Helper()
	seq := 0
	clients, deadlines := contextFixture()
	source := func(context.Context) (Snapshot, error) {
		return Snapshot{Clients: clients, Deadlines: deadlines}, nil
	}
	base := []Option{
		WithClock(common.NewFixedClock(contextNow)),
		WithIDGenerator(func() string { seq++; return fmt.Sprintf("m%d", seq) }),
	}
	return NewConversation(caller, source, "agent-1", append(base, opts...)...)
}

func TestConversation_SubmitSuccess(t *testing.T) {
	var gotMessage, gotAgent string
	caller := AgentCallerFunc(func(_ context.Context, message, agentID string) (*AgentResult, error) {
		gotMessage, gotAgent = message, agentID
		return &AgentResult{Success: true, Response: &AgentResponse{
			Result: Text("```json\n{\"summary\":\"Two items due\",\"action_items\":[\"Call James\"]}\n```"),
		}}, nil
	})
	obs := &recordingObserver{}
	conv := newTestConversation(t, caller, WithObserver(obs))

	turn, err := conv.Submit(context.Background(), "What's due this week?")
	require.NoError(t, err)

	assert.Equal(t, "agent-1", gotAgent)
	assert.True(t, strings.HasPrefix(gotMessage, "What's due this week?\n\n--- Context ---\nCurrent date: 2024-05-08\n"))
	assert.Contains(t, gotMessage, "Whitfield & Associates")

	assert.Equal(t, RoleUser, turn.User.Role)
	assert.Equal(t, "m1", turn.User.ID)
	assert.Equal(t, "m2", turn.Assistant.ID)
	assert.Equal(t, "Two items due", turn.Assistant.Content)
	assert.Equal(t, OutcomeSuccess, turn.Assistant.Outcome)
	require.NotNil(t, turn.Assistant.Result)
	assert.Equal(t, []string{"Call James"}, turn.Assistant.Result.ActionItems)
	assert.Equal(t, contextNow, turn.Assistant.Timestamp)

	msgs := conv.Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, turn.User, msgs[0])
	assert.Equal(t, turn.Assistant, msgs[1])
	assert.Equal(t, StateIdle, conv.State())
	assert.Equal(t, []string{"chat:success"}, obs.calls)
}

func TestConversation_ContentFallbacks(t *testing.T) {
	tests := []struct {
		name    string
		payload Payload
		want    string
	}{
		{"summary wins", Structured(map[string]any{"summary": "S", "details": "D"}), "S"},
		{"details", Structured(map[string]any{"details": "D"}), "D"},
		{"nothing usable", Text("no json at all"), FallbackContent},
		{"empty payload", Payload{}, FallbackContent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conv := newTestConversation(t, AgentCallerFunc(func(context.Context, string, string) (*AgentResult, error) {
				return &AgentResult{Success: true, Response: &AgentResponse{Result: tt.payload}}, nil
			}))
			turn, err := conv.Submit(context.Background(), "q")
			require.NoError(t, err)
			assert.Equal(t, tt.want, turn.Assistant.Content)
			assert.Equal(t, OutcomeSuccess, turn.Assistant.Outcome)
		})
	}
}

func TestConversation_CustomNormalizer(t *testing.T) {
	upper := NewNormalizer(ExtractorFunc(func(text string) (map[string]any, error) {
		return map[string]any{"summary": strings.ToUpper(text)}, nil
	}))
	caller := AgentCallerFunc(func(context.Context, string, string) (*AgentResult, error) {
		return &AgentResult{Success: true, Response: &AgentResponse{Result: Text("plain words")}}, nil
	})
	conv := newTestConversation(t, caller, WithNormalizer(upper))

	turn, err := conv.Submit(context.Background(), "q")
	require.NoError(t, err)
	assert.Equal(t, "PLAIN WORDS", turn.Assistant.Content)
}

func TestConversation_AgentFailure(t *testing.T) {
	tests := []struct {
		reason string
		want   string
	}{
		{"quota exceeded", "I could not process your request. quota exceeded"},
		{"", "I could not process your request. Please try again."},
		{"  ", "I could not process your request. Please try again."},
	}
	for _, tt := range tests {
		conv := newTestConversation(t, AgentCallerFunc(func(context.Context, string, string) (*AgentResult, error) {
			return &AgentResult{Success: false, Error: tt.reason}, nil
		}))
		turn, err := conv.Submit(context.Background(), "q")
		require.NoError(t, err)
		assert.Equal(t, tt.want, turn.Assistant.Content)
		assert.Equal(t, OutcomeAgentError, turn.Assistant.Outcome)
		assert.Nil(t, turn.Assistant.Result)
	}
}

func TestConversation_TransportFailures(t *testing.T) {
	tests := map[string]struct {
		caller AgentCallerFunc
		source SnapshotSource
		ctx    func() context.Context
	}{
		"call error": {
			caller: func(context.Context, string, string) (*AgentResult, error) { return nil, fmt.Errorf("dial tcp: refused") },
		},
		"nil result": {
			caller: func(context.Context, string, string) (*AgentResult, error) { return nil, nil },
		},
		"panic": {
			caller: func(context.Context, string, string) (*AgentResult, error) { panic("boom") },
		},
		"snapshot error": {
			caller: succeed("unused"),
			source: func(context.Context) (Snapshot, error) { return Snapshot{}, fmt.Errorf("store down") },
		},
		"cancelled before call": {
			caller: succeed("unused"),
			ctx: func() context.Context {
				ctx, cancel := context.WithCancel(context.Background())
				cancel()
				return ctx
			},
		},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			conv := newTestConversation(t, tt.caller)
			if tt.source != nil {
				conv.source = tt.source
			}
			ctx := context.Background()
			if tt.ctx != nil {
				ctx = tt.ctx()
			}
			turn, err := conv.Submit(ctx, "q")
			require.NoError(t, err)
			assert.Equal(t, NetworkErrorMessage, turn.Assistant.Content)
			assert.Equal(t, OutcomeTransportError, turn.Assistant.Outcome)
			assert.Nil(t, turn.Assistant.Result)
			assert.Len(t, conv.Messages(), 2)
			assert.Equal(t, StateIdle, conv.State())
		})
	}
}

func TestConversation_CancelledDuringCall(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	conv := newTestConversation(t, AgentCallerFunc(func(context.Context, string, string) (*AgentResult, error) {
		cancel()
		return &AgentResult{Success: true}, nil
	}))
	turn, err := conv.Submit(ctx, "q")
	require.NoError(t, err)
	assert.Equal(t, OutcomeTransportError, turn.Assistant.Outcome)
}

func TestConversation_CancelUnblocksCallerIgnoringContext(t *testing.T) {
	release := make(chan struct{})
	defer close(release)
	conv := newTestConversation(t, AgentCallerFunc(func(context.Context, string, string) (*AgentResult, error) {
		<-release
		return &AgentResult{Success: true}, nil
	}))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	done := make(chan *Turn, 1)
	go func() {
		turn, err := conv.Submit(ctx, "q")
		assert.NoError(t, err)
		done <- turn
	}()

	select {
	case turn := <-done:
		require.NotNil(t, turn)
		assert.Equal(t, NetworkErrorMessage, turn.Assistant.Content)
		assert.Equal(t, OutcomeTransportError, turn.Assistant.Outcome)
	case <-time.After(2 * time.Second):
		t.Fatal("Submit did not return after the context was cancelled")
	}
	assert.Equal(t, StateIdle, conv.State())
	assert.Len(t, conv.Messages(), 2)
}

func TestSummaryGenerator_CancelUnblocksCallerIgnoringContext(t *testing.T) {
	release := make(chan struct{})
	defer close(release)
	g := NewSummaryGenerator(AgentCallerFunc(func(context.Context, string, string) (*AgentResult, error) {
		<-release
		return &AgentResult{Success: true}, nil
	}), nil, "agent-1")

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, ok := g.Generate(ctx)
	assert.False(t, ok)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestConversation_EmptySubmitIsNoop(t *testing.T) {
	called := false
	conv := newTestConversation(t, AgentCallerFunc(func(context.Context, string, string) (*AgentResult, error) {
		called = true
		return nil, nil
	}))
	for _, text := range []string{"", "   ", "\n\t"} {
		turn, err := conv.Submit(context.Background(), text)
		assert.ErrorIs(t, err, ErrEmptyMessage)
		assert.Nil(t, turn)
	}
	assert.False(t, called)
	assert.Empty(t, conv.Messages())
}

func TestConversation_RejectsWhileInFlight(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	calls := 0
	conv := newTestConversation(t, AgentCallerFunc(func(context.Context, string, string) (*AgentResult, error) {
		calls++
		close(entered)
		<-release
		return &AgentResult{Success: true, Response: &AgentResponse{Result: Structured(map[string]any{"summary": "done"})}}, nil
	}))

	done := make(chan *Turn)
	go func() {
		turn, _ := conv.Submit(context.Background(), "first")
		done <- turn
	}()

	<-entered
	assert.Equal(t, StateAwaitingResponse, conv.State())

	turn, err := conv.Submit(context.Background(), "second")
	assert.ErrorIs(t, err, ErrRequestInFlight)
	assert.Nil(t, turn)
	assert.ErrorIs(t, conv.Reset(), ErrRequestInFlight)

	msgs := conv.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, "first", msgs[0].Content)

	close(release)
	select {
	case first := <-done:
		require.NotNil(t, first)
		assert.Equal(t, "done", first.Assistant.Content)
	case <-time.After(5 * time.Second):
		t.Fatal("submit did not return")
	}

	assert.Equal(t, 1, calls)
	assert.Len(t, conv.Messages(), 2)
	assert.Equal(t, StateIdle, conv.State())
}

func TestConversation_ConcurrentSubmitsOneTurnEach(t *testing.T) {
	conv := newTestConversation(t, succeed("ok"), WithIDGenerator(func() string { return common.NewID().String() }))
	var wg sync.WaitGroup
	var mu sync.Mutex
	accepted := 0
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := conv.Submit(context.Background(), "q"); err == nil {
				mu.Lock()
				accepted++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	msgs := conv.Messages()
	require.Len(t, msgs, 2*accepted)
	for i := 0; i < len(msgs); i += 2 {
		assert.Equal(t, RoleUser, msgs[i].Role)
		assert.Equal(t, RoleAssistant, msgs[i+1].Role)
	}
}

func TestConversation_Reset(t *testing.T) {
	conv := newTestConversation(t, succeed("ok"))
	_, err := conv.Submit(context.Background(), "q")
	require.NoError(t, err)
	require.Len(t, conv.Messages(), 2)

	require.NoError(t, conv.Reset())
	assert.Empty(t, conv.Messages())
	assert.Equal(t, StateIdle, conv.State())
}

func TestConversation_MessagesIsCopy(t *testing.T) {
	conv := newTestConversation(t, succeed("ok"))
	_, err := conv.Submit(context.Background(), "q")
	require.NoError(t, err)

	msgs := conv.Messages()
	msgs[0].Content = "mutated"
	assert.Equal(t, "q", conv.Messages()[0].Content)
}

func TestSummaryGenerator(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		var prompt string
		obs := &recordingObserver{}
		g := NewSummaryGenerator(AgentCallerFunc(func(_ context.Context, message, _ string) (*AgentResult, error) {
			prompt = message
			return &AgentResult{Success: true, Response: &AgentResponse{Result: Text(`{"summary":"Busy week","alerts":["HIPAA audit overdue"]}`)}}, nil
		}), nil, "agent-1", WithClock(common.NewFixedClock(contextNow)), WithObserver(obs))

		res, ok := g.Generate(context.Background())
		require.True(t, ok)
		assert.Equal(t, "Busy week", res.Summary)
		assert.Equal(t, []string{"HIPAA audit overdue"}, res.Alerts)
		assert.True(t, strings.HasPrefix(prompt, WeeklySummaryPrompt+ContextSeparator))
		assert.Equal(t, []string{"summary:success"}, obs.calls)
	})

	failures := map[string]AgentCallerFunc{
		"agent error": func(context.Context, string, string) (*AgentResult, error) { return &AgentResult{Error: "nope"}, nil },
		"transport":   func(context.Context, string, string) (*AgentResult, error) { return nil, fmt.Errorf("timeout") },
		"panic":       func(context.Context, string, string) (*AgentResult, error) { panic("boom") },
	}
	for name, caller := range failures {
		t.Run(name, func(t *testing.T) {
			g := NewSummaryGenerator(caller, nil, "agent-1")
			var ok bool
			require.NotPanics(t, func() { _, ok = g.Generate(context.Background()) })
			assert.False(t, ok)
		})
	}
}

func TestQuickQueries(t *testing.T) {
	qs := QuickQueries()
	require.Len(t, qs, 4)
	assert.Equal(t, "What's due this week?", qs[0].Prompt)

	qs[0].Prompt = "changed"
	q, ok := LookupQuickQuery("due-this-week")
	require.True(t, ok)
	assert.Equal(t, "What's due this week?", q.Prompt)

	_, ok = LookupQuickQuery("nope")
	assert.False(t, ok)
}

//Personal.AI order the ending
