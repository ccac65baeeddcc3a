package service

import (
	"context"

	"restobar/events"
	"restobar/notify-svc/internal/domain"
	"restobar/notify-svc/internal/storage"

	"github.com/segmentio/kafka-go"
)

type MessageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
}

type StoreInterface interface {
	MarkProcessed(ctx context.Context, eventID string) (bool, error)
	RecordActivity(ctx context.Context, event events.Event) error
}

type Mailer interface {
	Send(ctx context.Context, email domain.Email) error
}

type Broadcaster interface {
	Broadcast(msg domain.RealtimeMessage)
}

var (
	_ MessageReader  = (*kafka.Reader)(nil)
	_ StoreInterface = (*storage.Store)(nil)
	_ Mailer         = (*SMTPMailer)(nil)
	_ Broadcaster    = (*Hub)(nil)
)
