package mocks

import (
	"context"
	"testing"

	"restobar/events"
	"restobar/notify-svc/internal/domain"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/mock"
)

type StoreInterface struct {
	mock.Mock
}

func NewStoreInterface(t *testing.T) *StoreInterface {
	m := &StoreInterface{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *StoreInterface) MarkProcessed(ctx context.Context, eventID string) (bool, error) {
	ret := m.Called(ctx, eventID)
	return ret.Bool(0), ret.Error(1)
}

func (m *StoreInterface) RecordActivity(ctx context.Context, event events.Event) error {
	return m.Called(ctx, event).Error(0)
}

type Mailer struct {
	mock.Mock
}

func NewMailer(t *testing.T) *Mailer {
	m := &Mailer{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *Mailer) Send(ctx context.Context, email domain.Email) error {
	return m.Called(ctx, email).Error(0)
}

type Broadcaster struct {
	mock.Mock
}

func NewBroadcaster(t *testing.T) *Broadcaster {
	m := &Broadcaster{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *Broadcaster) Broadcast(msg domain.RealtimeMessage) {
	m.Called(msg)
}

type MessageReader struct {
	mock.Mock
}

func NewMessageReader(t *testing.T) *MessageReader {
	m := &MessageReader{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MessageReader) ReadMessage(ctx context.Context) (kafka.Message, error) {
	ret := m.Called(ctx)
	msg, _ := ret.Get(0).(kafka.Message)
	return msg, ret.Error(1)
}
