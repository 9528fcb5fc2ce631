package main

import (
	"context"
	"time"

	"github.com/turtacn/ConsultTrack-Intelligence/internal/application/tracker"
	"github.com/turtacn/ConsultTrack-Intelligence/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/ConsultTrack-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/ConsultTrack-Intelligence/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/ConsultTrack-Intelligence/pkg/errors"
	"github.com/turtacn/ConsultTrack-Intelligence/pkg/types/common"
)

// eventHandler is the part of SummaryRefresher the consumer drives.
type eventHandler interface {
	HandleEvent(ctx context.Context, ev *tracker.ChangeEvent) (bool, error)
}

// newRefreshHandler decodes change events and feeds them to the refresher.
// Undecodable messages are dropped, not retried: redelivery cannot fix them.
func newRefreshHandler(refresher eventHandler, metrics *prometheus.AppMetrics, timeout time.Duration, logger logging.Logger) common.MessageHandler {
	return func(ctx context.Context, msg *common.Message) error {
		start := time.Now()
		err := handleRefresh(ctx, refresher, metrics, timeout, logger, msg)
		if metrics != nil {
			prometheus.RecordMessageProcessed(metrics, msg.Topic, time.Since(start), err)
		}
		return err
	}
}

func handleRefresh(ctx context.Context, refresher eventHandler, metrics *prometheus.AppMetrics, timeout time.Duration, logger logging.Logger, msg *common.Message) error {
	env, err := kafka.MessageToEventEnvelope(msg)
	if err != nil {
		logger.Warn("dropping undecodable message", logging.String("topic", msg.Topic), logging.Int64("offset", msg.Offset), logging.Err(err))
		return nil
	}
	var ev tracker.ChangeEvent
	if err := env.DecodePayload(&ev); err != nil {
		logger.Warn("dropping event with bad payload", logging.String("event_id", env.EventID), logging.Err(err))
		return nil
	}
	if ev.Type == "" {
		ev.Type = tracker.EventType(env.EventType)
	}

	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	ran, err := refresher.HandleEvent(ctx, &ev)
	result := "skipped"
	switch {
	case err != nil:
		result = "error"
	case ran:
		result = "refreshed"
	}
	if metrics != nil {
		prometheus.RecordSummaryRefresh(metrics, result)
	}
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeInternal, "summary refresh failed")
	}
	return nil
}

//Personal.AI order the ending
