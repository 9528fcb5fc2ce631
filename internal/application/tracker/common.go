// Package tracker holds the application services of the deadline tracker:
// deadline and client management, the dashboard with its weekly AI summary,
// and the chat workspace.  Services depend on narrow ports declared here and
// are wired to concrete infrastructure by the command packages.
package tracker

import (
	"context"
	"fmt"
	"time"

	"github.com/turtacn/ConsultTrack-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/ConsultTrack-Intelligence/pkg/types/common"
)

// Logger abstracts structured logging.
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
	Debug(msg string, keysAndValues ...interface{})
}

// CachePort abstracts cache get/set.  Get returns an error on a miss.
type CachePort interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// EventPublisher emits change events.  Publishing is best effort: services
// log a failure and carry on.
type EventPublisher interface {
	Publish(ctx context.Context, event *ChangeEvent) error
}

// TranscriptArchive stores exported chat transcripts.
type TranscriptArchive interface {
	PutTranscript(ctx context.Context, key string, data []byte) (location string, err error)
}

// ─────────────────────────────────────────────────────────────────────────────
// Change events
// ─────────────────────────────────────────────────────────────────────────────

// EventType names a change event.
type EventType string

const (
	EventDeadlineCreated       EventType = "deadline.created"
	EventDeadlineUpdated       EventType = "deadline.updated"
	EventDeadlineDeleted       EventType = "deadline.deleted"
	EventDeadlineStatusChanged EventType = "deadline.status_changed"
	EventDeadlinesCompleted    EventType = "deadline.bulk_completed"
	EventClientCreated         EventType = "client.created"
	EventClientUpdated         EventType = "client.updated"
	EventClientDeleted         EventType = "client.deleted"
	EventChatTurn              EventType = "chat.turn"
	EventChatExported          EventType = "chat.exported"
)

// InvalidatesSummary reports whether the event changes the data the weekly
// summary was built from.
func (t EventType) InvalidatesSummary() bool {
	switch t {
	case EventChatTurn, EventChatExported:
		return false
	}
	return t != ""
}

// ChangeEvent describes one mutation.
type ChangeEvent struct {
	ID         string            `json:"id"`
	Type       EventType         `json:"type"`
	EntityIDs  []string          `json:"entity_ids"`
	ClientID   string            `json:"client_id,omitempty"`
	Attributes map[string]string `json:"attributes,omitempty"`
	OccurredAt time.Time         `json:"occurred_at"`
}

func newEvent(t EventType, at time.Time, clientID string, ids ...string) *ChangeEvent {
	return &ChangeEvent{
		ID:         common.NewID().String(),
		Type:       t,
		EntityIDs:  ids,
		ClientID:   clientID,
		OccurredAt: at.UTC(),
	}
}

// emit publishes ev and logs, never returns, a failure.
func emit(ctx context.Context, pub EventPublisher, logger Logger, ev *ChangeEvent) {
	if err := pub.Publish(ctx, ev); err != nil {
		logger.Warn("event publish failed", "type", string(ev.Type), "error", err)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Adapters
// ─────────────────────────────────────────────────────────────────────────────

type loggerAdapter struct {
	l logging.Logger
}

// NewLoggerAdapter exposes a logging.Logger through the key/value port.  An
// odd trailing key is logged under "!BADKEY".
func NewLoggerAdapter(l logging.Logger) Logger {
	if l == nil {
		l = logging.NewNopLogger()
	}
	return &loggerAdapter{l: l}
}

func (a *loggerAdapter) Info(msg string, kv ...interface{})  { a.l.Info(msg, toFields(kv)...) }
func (a *loggerAdapter) Warn(msg string, kv ...interface{})  { a.l.Warn(msg, toFields(kv)...) }
func (a *loggerAdapter) Error(msg string, kv ...interface{}) { a.l.Error(msg, toFields(kv)...) }
func (a *loggerAdapter) Debug(msg string, kv ...interface{}) { a.l.Debug(msg, toFields(kv)...) }

func toFields(kv []interface{}) []logging.Field {
	fields := make([]logging.Field, 0, (len(kv)+1)/2)
	for i := 0; i < len(kv); i += 2 {
		if i+1 >= len(kv) {
			fields = append(fields, logging.Any("!BADKEY", kv[i]))
			break
		}
		key, ok := kv[i].(string)
		if !ok {
			key = fmt.Sprint(kv[i])
		}
		if err, isErr := kv[i+1].(error); isErr && key == "error" {
			fields = append(fields, logging.Err(err))
			continue
		}
		fields = append(fields, logging.Any(key, kv[i+1]))
	}
	return fields
}

type noopLogger struct{}

func (noopLogger) Info(string, ...interface{})  {}
func (noopLogger) Warn(string, ...interface{})  {}
func (noopLogger) Error(string, ...interface{}) {}
func (noopLogger) Debug(string, ...interface{}) {}

type noopCache struct{}

var errNoCache = fmt.Errorf("cache disabled")

func (noopCache) Get(context.Context, string, interface{}) error                { return errNoCache }
func (noopCache) Set(context.Context, string, interface{}, time.Duration) error { return nil }
func (noopCache) Delete(context.Context, ...string) error                       { return nil }

type noopPublisher struct{}

func (noopPublisher) Publish(context.Context, *ChangeEvent) error { return nil }

// NoopCache returns a cache that never hits.
func NoopCache() CachePort { return noopCache{} }

// NoopPublisher returns a publisher that drops every event.
func NoopPublisher() EventPublisher { return noopPublisher{} }

//Personal.AI order the ending
