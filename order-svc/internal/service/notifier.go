package service

import (
	"context"
	"time"

	"restobar/events"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type EventNotifier struct {
	publisher EventPublisher
	timeout   time.Duration
	logger    zerolog.Logger
}

func NewEventNotifier(publisher EventPublisher, timeout time.Duration, logger zerolog.Logger) *EventNotifier {
	return &EventNotifier{publisher: publisher, timeout: timeout, logger: logger}
}

// Notify publishes with its own deadline, detached from the request, and
// only logs failures.
func (n *EventNotifier) Notify(ctx context.Context, event events.Event) {
	if n.publisher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), n.timeout)
	defer cancel()

	if err := n.publisher.Publish(ctx, event); err != nil {
		n.logger.Error().Err(err).
			Str("event_type", event.Type).
			Str("event_id", event.ID).
			Msg("failed to publish notification")
	}
}
