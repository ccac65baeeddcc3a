package service

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"time"

	"restobar/events"
	"restobar/notify-svc/internal/domain"

	"github.com/rs/zerolog"
)

type Consumer struct {
	Reader      MessageReader
	Store       StoreInterface
	Mailer      Mailer
	Hub         Broadcaster
	SendTimeout time.Duration
	Logger      zerolog.Logger
}

func NewConsumer(reader MessageReader, store StoreInterface, mailer Mailer, hub Broadcaster, sendTimeout time.Duration, logger zerolog.Logger) *Consumer {
	return &Consumer{
		Reader:      reader,
		Store:       store,
		Mailer:      mailer,
		Hub:         hub,
		SendTimeout: sendTimeout,
		Logger:      logger,
	}
}

func (c *Consumer) Start(ctx context.Context) {
	c.Logger.Info().Msg("starting notification consumer")
	for {
		message, err := c.Reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, io.EOF) {
				c.Logger.Info().Msg("notification consumer stopped")
				return
			}
			c.Logger.Error().Err(err).Msg("error reading message")
			continue
		}

		var event events.Event
		if err := json.Unmarshal(message.Value, &event); err != nil {
			c.Logger.Error().Err(err).Str("key", string(message.Key)).Msg("error unmarshaling event")
			continue
		}

		c.Process(ctx, event)
	}
}

// Process pushes the realtime frame and sends the email an event asks for.
// Redelivered events are skipped; every failure is logged and dropped.
func (c *Consumer) Process(ctx context.Context, event events.Event) {
	logger := c.Logger.With().Str("event_id", event.ID).Str("event_type", event.Type).Logger()

	if event.ID != "" {
		first, err := c.Store.MarkProcessed(ctx, event.ID)
		if err != nil {
			logger.Warn().Err(err).Msg("dedupe check failed")
		} else if !first {
			logger.Debug().Msg("duplicate event skipped")
			return
		}
	}

	if event.Realtime != "" {
		c.Hub.Broadcast(domain.RealtimeMessage{
			Channel:   event.Realtime,
			Message:   event.Message,
			Data:      event.Data,
			Timestamp: event.Timestamp,
		})
	}

	if event.EmailKind != "" && event.Recipient != "" {
		if err := c.sendEmail(ctx, event); err != nil {
			logger.Error().Err(err).Str("email_kind", event.EmailKind).Msg("failed to send email")
		}
	}

	if err := c.Store.RecordActivity(ctx, event); err != nil {
		logger.Warn().Err(err).Msg("failed to record activity")
	}
}

func (c *Consumer) sendEmail(ctx context.Context, event events.Event) error {
	email, err := RenderEmail(event)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, c.SendTimeout)
	defer cancel()
	return c.Mailer.Send(ctx, email)
}
