package kafka

import (
	"context"
	"time"

	"github.com/turtacn/ConsultTrack-Intelligence/pkg/errors"
)

// EventPublisher wraps payloads in an EventEnvelope and routes them to the
// topic of their event type.
type EventPublisher struct {
	producer Publisher
	source   string
}

// NewEventPublisher publishes through producer and stamps source on every
// envelope.
func NewEventPublisher(producer Publisher, source string) *EventPublisher {
	return &EventPublisher{producer: producer, source: source}
}

// PublishEvent sends payload as eventType.  key selects the partition, so
// events of one client stay ordered.
func (p *EventPublisher) PublishEvent(ctx context.Context, eventType, key string, at time.Time, payload interface{}) error {
	topic, ok := TopicForEventType(eventType)
	if !ok {
		return errors.New(errors.ErrCodeValidation, "no topic for event type").WithDetail(eventType)
	}
	env, err := NewEventEnvelope(eventType, p.source, at, payload)
	if err != nil {
		return err
	}
	msg, err := env.ToMessage(topic, key)
	if err != nil {
		return err
	}
	return p.producer.Publish(ctx, msg)
}

//Personal.AI order the ending
