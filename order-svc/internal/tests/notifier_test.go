package tests

import (
	"context"
	"testing"
	"time"

	"restobar/events"
	"restobar/order-svc/internal/mocks"
	"restobar/order-svc/internal/service"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestEventNotifier_Notify(t *testing.T) {
	tests := []struct {
		name       string
		publishErr error
	}{
		{name: "published"},
		{name: "publish failure is swallowed", publishErr: assert.AnError},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			publisher := mocks.NewEventPublisher(t)
			notifier := service.NewEventNotifier(publisher, time.Second, zerolog.Nop())
			publisher.On("Publish", mock.MatchedBy(func(ctx context.Context) bool {
				_, hasDeadline := ctx.Deadline()
				return hasDeadline && ctx.Err() == nil
			}), mock.MatchedBy(func(e events.Event) bool {
				return e.ID != "" && !e.Timestamp.IsZero() && e.Data.OrderID == 11
			})).Return(testCase.publishErr).Once()

			ctx, cancel := context.WithCancel(context.Background())
			cancel()

			notifier.Notify(ctx, events.Event{Type: events.TypeOrderCreated, Data: events.Payload{OrderID: 11}})
		})
	}
}
