package assistant

import "context"

// AgentResponse carries the agent's result payload.
type AgentResponse struct {
	Result Payload `json:"result"`
}

// AgentResult is the outcome of a completed agent call.  Success=false is an
// agent-reported failure with an optional reason in Error.
type AgentResult struct {
	Success  bool           `json:"success"`
	Response *AgentResponse `json:"response,omitempty"`
	Error    string         `json:"error,omitempty"`
}

// Payload returns the result payload, empty when absent.
func (r *AgentResult) Payload() Payload {
	if r == nil || r.Response == nil {
		return Payload{}
	}
	return r.Response.Result
}

// AgentCaller dispatches one message to the external agent.  A non-nil error
// means the call did not complete (transport failure).
type AgentCaller interface {
	Call(ctx context.Context, message, agentID string) (*AgentResult, error)
}

// AgentCallerFunc adapts a function to AgentCaller.
type AgentCallerFunc func(ctx context.Context, message, agentID string) (*AgentResult, error)

// Call calls f.
func (f AgentCallerFunc) Call(ctx context.Context, message, agentID string) (*AgentResult, error) {
	return f(ctx, message, agentID)
}

// SnapshotSource returns the current store state for context building.
type SnapshotSource func(ctx context.Context) (Snapshot, error)

// Logger is the key/value logging port of this package.
type Logger interface {
	Debug(msg string, keysAndValues ...interface{})
	Info(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...interface{}) {}
func (noopLogger) Info(string, ...interface{})  {}
func (noopLogger) Warn(string, ...interface{})  {}
func (noopLogger) Error(string, ...interface{}) {}

// Observer receives per-call telemetry.  Implementations must be safe for
// concurrent use.
type Observer interface {
	ObserveAgentCall(kind string, outcome Outcome, seconds float64)
}

type noopObserver struct{}

func (noopObserver) ObserveAgentCall(string, Outcome, float64) {}

//Personal.AI order the ending
