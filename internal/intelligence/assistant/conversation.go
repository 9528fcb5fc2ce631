package assistant

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/turtacn/ConsultTrack-Intelligence/pkg/errors"
	"github.com/turtacn/ConsultTrack-Intelligence/pkg/types/common"
)

// ─────────────────────────────────────────────────────────────────────────────
// Messages
// ─────────────────────────────────────────────────────────────────────────────

// Role identifies the author of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Outcome classifies how a turn resolved.
type Outcome string

const (
	OutcomeSuccess        Outcome = "success"
	OutcomeAgentError     Outcome = "agent_error"
	OutcomeTransportError Outcome = "transport_error"
)

// Fixed assistant texts for failed turns.
const (
	AgentErrorPrefix    = "I could not process your request. "
	AgentErrorDefault   = "Please try again."
	NetworkErrorMessage = "A network error occurred. Please try again."
)

// Message is one entry of the append-only chat log.  Assistant messages from
// a successful call carry the normalized result.
type Message struct {
	ID        string            `json:"id"`
	Role      Role              `json:"role"`
	Content   string            `json:"content"`
	Result    *NormalizedResult `json:"parsed_response,omitempty"`
	Outcome   Outcome           `json:"outcome,omitempty"`
	Timestamp time.Time         `json:"timestamp"`
}

// Turn is one accepted user message and its resolved assistant message.
type Turn struct {
	User      Message `json:"user"`
	Assistant Message `json:"assistant"`
}

// ─────────────────────────────────────────────────────────────────────────────
// State
// ─────────────────────────────────────────────────────────────────────────────

// State is the conversation gate.
type State int32

const (
	StateIdle State = iota
	StateAwaitingResponse
)

func (s State) String() string {
	if s == StateAwaitingResponse {
		return "awaiting_response"
	}
	return "idle"
}

var (
	// ErrEmptyMessage rejects blank submissions.
	ErrEmptyMessage = errors.New(errors.ErrCodeChatEmptyMessage, "message is empty")
	// ErrRequestInFlight rejects submissions while a call is outstanding.
	ErrRequestInFlight = errors.New(errors.ErrCodeChatRequestInFlight, "a request is already in flight")
)

// ─────────────────────────────────────────────────────────────────────────────
// Conversation
// ─────────────────────────────────────────────────────────────────────────────

// Conversation runs at most one agent call at a time.  Submissions are gated
// by a compare-and-swap on the state, so a second Submit while a call is
// outstanding is rejected rather than queued.  Every accepted Submit appends
// exactly one user message and exactly one assistant message.
type Conversation struct {
	state atomic.Int32

	mu       sync.RWMutex
	messages []Message

	caller     AgentCaller
	source     SnapshotSource
	agentID    string
	serializer Serializer
	normalizer *Normalizer
	clock      common.Clock
	logger     Logger
	observer   Observer
	newID      func() string
}

// Option configures a Conversation or SummaryGenerator.
type Option func(*options)

type options struct {
	serializer Serializer
	normalizer *Normalizer
	clock      common.Clock
	logger     Logger
	observer   Observer
	newID      func() string
}

func WithSerializer(s Serializer) Option     { return func(o *options) { o.serializer = s } }
func WithNormalizer(n *Normalizer) Option    { return func(o *options) { o.normalizer = n } }
func WithClock(c common.Clock) Option        { return func(o *options) { o.clock = c } }
func WithLogger(l Logger) Option             { return func(o *options) { o.logger = l } }
func WithObserver(ob Observer) Option        { return func(o *options) { o.observer = ob } }
func WithIDGenerator(f func() string) Option { return func(o *options) { o.newID = f } }

func buildOptions(opts []Option) options {
	o := options{
		normalizer: defaultNormalizer,
		clock:      common.SystemClock{},
		logger:     noopLogger{},
		observer:   noopObserver{},
		newID:      func() string { return common.NewID().String() },
	}
	for _, fn := range opts {
		fn(&o)
	}
	if o.normalizer == nil {
		o.normalizer = defaultNormalizer
	}
	return o
}

// NewConversation builds an idle conversation.
func NewConversation(caller AgentCaller, source SnapshotSource, agentID string, opts ...Option) *Conversation {
	o := buildOptions(opts)
	return &Conversation{
		caller:     caller,
		source:     source,
		agentID:    agentID,
		serializer: o.serializer,
		normalizer: o.normalizer,
		clock:      o.clock,
		logger:     o.logger,
		observer:   o.observer,
		newID:      o.newID,
	}
}

// State returns the current gate state.
func (c *Conversation) State() State {
	return State(c.state.Load())
}

// Messages returns a copy of the log.
func (c *Conversation) Messages() []Message {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Message, len(c.messages))
	copy(out, c.messages)
	return out
}

// Reset clears the log.  It fails with ErrRequestInFlight unless idle.
func (c *Conversation) Reset() error {
	if !c.state.CompareAndSwap(int32(StateIdle), int32(StateAwaitingResponse)) {
		return ErrRequestInFlight
	}
	defer c.state.Store(int32(StateIdle))
	c.mu.Lock()
	c.messages = nil
	c.mu.Unlock()
	return nil
}

// Submit sends text with the current context to the agent and appends the
// resolved turn.  It returns ErrEmptyMessage for blank text and
// ErrRequestInFlight when a call is outstanding; neither changes the log.
// Agent and transport failures are not errors: they resolve as assistant
// messages on the returned Turn.
func (c *Conversation) Submit(ctx context.Context, text string) (*Turn, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyMessage
	}
	if !c.state.CompareAndSwap(int32(StateIdle), int32(StateAwaitingResponse)) {
		return nil, ErrRequestInFlight
	}
	defer c.state.Store(int32(StateIdle))

	user := Message{ID: c.newID(), Role: RoleUser, Content: text, Timestamp: c.clock.Now()}
	c.append(user)

	assistant := c.resolve(ctx, text)
	c.append(assistant)

	return &Turn{User: user, Assistant: assistant}, nil
}

func (c *Conversation) append(m Message) {
	c.mu.Lock()
	c.messages = append(c.messages, m)
	c.mu.Unlock()
}

// resolve always yields exactly one assistant message.
func (c *Conversation) resolve(ctx context.Context, text string) (msg Message) {
	start := time.Now()
	msg = Message{ID: c.newID(), Role: RoleAssistant}
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("agent call panicked", "panic", fmt.Sprint(r))
			msg.Content, msg.Result, msg.Outcome = NetworkErrorMessage, nil, OutcomeTransportError
		}
		msg.Timestamp = c.clock.Now()
		c.observer.ObserveAgentCall("chat", msg.Outcome, time.Since(start).Seconds())
	}()

	result, err := call(ctx, c.caller, c.source, c.serializer, c.clock, c.agentID, text)
	switch {
	case err != nil:
		c.logger.Warn("agent call failed", "error", err)
		msg.Content, msg.Outcome = NetworkErrorMessage, OutcomeTransportError
	case !result.Success:
		reason := result.Error
		if strings.TrimSpace(reason) == "" {
			reason = AgentErrorDefault
		}
		c.logger.Info("agent reported failure", "reason", result.Error)
		msg.Content, msg.Outcome = AgentErrorPrefix+reason, OutcomeAgentError
	default:
		normalized := c.normalizer.Normalize(result.Payload())
		msg.Content, msg.Result, msg.Outcome = normalized.DisplayContent(), &normalized, OutcomeSuccess
	}
	return msg
}

// call builds the context and dispatches one request.  Cancellation and a nil
// result count as transport failures.
func call(ctx context.Context, caller AgentCaller, source SnapshotSource, ser Serializer,
	clock common.Clock, agentID, prompt string) (*AgentResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var snap Snapshot
	if source != nil {
		var err error
		if snap, err = source(ctx); err != nil {
			return nil, fmt.Errorf("load snapshot: %w", err)
		}
	}
	body, err := ser.Serialize(snap.Clients, snap.Deadlines, clock.Now())
	if err != nil {
		return nil, err
	}
	result, err := dispatch(ctx, caller, ComposeMessage(prompt, body), agentID)
	if err != nil {
		return nil, err
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}
	if result == nil {
		return nil, fmt.Errorf("agent returned no result")
	}
	return result, nil
}

type callOutcome struct {
	result   *AgentResult
	err      error
	panicked interface{}
}

// dispatch runs caller.Call so that ctx bounds the wait even when the caller
// ignores it.  An abandoned call finishes in the background and its result
// is dropped.  A panic in the caller is re-raised on the calling goroutine.
func dispatch(ctx context.Context, caller AgentCaller, message, agentID string) (*AgentResult, error) {
	done := make(chan callOutcome, 1)
	go func() {
		var out callOutcome
		defer func() {
			if r := recover(); r != nil {
				out = callOutcome{panicked: r}
			}
			done <- out
		}()
		out.result, out.err = caller.Call(ctx, message, agentID)
	}()

	select {
	case out := <-done:
		if out.panicked != nil {
			panic(out.panicked)
		}
		return out.result, out.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

//Personal.AI order the ending
