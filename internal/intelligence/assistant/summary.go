package assistant

import (
	"context"
	"time"

	"github.com/turtacn/ConsultTrack-Intelligence/pkg/types/common"
)

// WeeklySummaryPrompt asks the agent for the dashboard's workload summary.
const WeeklySummaryPrompt = "Provide a weekly workload summary. Include key priorities, overdue items, and recommendations for the week ahead."

// SummaryGenerator produces the weekly AI summary.  Unlike a conversation
// turn it records nothing: a failed generation is logged and reported as
// ok=false so the caller keeps whatever it showed before.
type SummaryGenerator struct {
	caller     AgentCaller
	source     SnapshotSource
	agentID    string
	serializer Serializer
	normalizer *Normalizer
	clock      common.Clock
	logger     Logger
	observer   Observer
}

// NewSummaryGenerator builds a generator sharing the conversation options.
func NewSummaryGenerator(caller AgentCaller, source SnapshotSource, agentID string, opts ...Option) *SummaryGenerator {
	o := buildOptions(opts)
	return &SummaryGenerator{
		caller:     caller,
		source:     source,
		agentID:    agentID,
		serializer: o.serializer,
		normalizer: o.normalizer,
		clock:      o.clock,
		logger:     o.logger,
		observer:   o.observer,
	}
}

// Generate asks for the weekly summary.  ok is false on any agent-reported or
// transport failure, including a panic in the caller.
func (g *SummaryGenerator) Generate(ctx context.Context) (result NormalizedResult, ok bool) {
	start := time.Now()
	outcome := OutcomeTransportError
	defer func() {
		if r := recover(); r != nil {
			g.logger.Error("weekly summary panicked", "panic", r)
			result, ok, outcome = NormalizedResult{}, false, OutcomeTransportError
		}
		g.observer.ObserveAgentCall("summary", outcome, time.Since(start).Seconds())
	}()

	res, err := call(ctx, g.caller, g.source, g.serializer, g.clock, g.agentID, WeeklySummaryPrompt)
	if err != nil {
		g.logger.Warn("weekly summary failed", "error", err)
		return NormalizedResult{}, false
	}
	if !res.Success {
		outcome = OutcomeAgentError
		g.logger.Warn("weekly summary rejected by agent", "reason", res.Error)
		return NormalizedResult{}, false
	}
	outcome = OutcomeSuccess
	return g.normalizer.Normalize(res.Payload()), true
}

//Personal.AI order the ending
