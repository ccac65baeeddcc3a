package mocks

import (
	"context"
	"mime/multipart"
	"testing"
	"time"

	"restobar/events"
	"restobar/order-svc/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

type ReviewCache struct {
	mock.Mock
}

func NewReviewCache(t *testing.T) *ReviewCache {
	m := &ReviewCache{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *ReviewCache) ReviewMarkerKey(orderID, userID int) string {
	return m.Called(orderID, userID).String(0)
}

func (m *ReviewCache) Exists(ctx context.Context, key string) (bool, error) {
	ret := m.Called(ctx, key)
	return value[bool](ret, 0), ret.Error(1)
}

func (m *ReviewCache) SetMarker(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

type RateLimiter struct {
	mock.Mock
}

func NewRateLimiter(t *testing.T) *RateLimiter {
	m := &RateLimiter{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *RateLimiter) Check(ctx context.Context, key string) (bool, time.Duration, error) {
	ret := m.Called(ctx, key)
	return value[bool](ret, 0), value[time.Duration](ret, 1), ret.Error(2)
}

func (m *RateLimiter) RecordFailure(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

func (m *RateLimiter) Reset(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

type EventPublisher struct {
	mock.Mock
}

func NewEventPublisher(t *testing.T) *EventPublisher {
	m := &EventPublisher{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *EventPublisher) Publish(ctx context.Context, event events.Event) error {
	return m.Called(ctx, event).Error(0)
}

type Notifier struct {
	mock.Mock
}

func NewNotifier(t *testing.T) *Notifier {
	m := &Notifier{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *Notifier) Notify(ctx context.Context, event events.Event) {
	m.Called(ctx, event)
}

type TokenIssuer struct {
	mock.Mock
}

func NewTokenIssuer(t *testing.T) *TokenIssuer {
	m := &TokenIssuer{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *TokenIssuer) Issue(account *domain.Account) (string, error) {
	ret := m.Called(account)
	return ret.String(0), ret.Error(1)
}

type DiscountEvaluator struct {
	mock.Mock
}

func NewDiscountEvaluator(t *testing.T) *DiscountEvaluator {
	m := &DiscountEvaluator{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *DiscountEvaluator) Evaluate(ctx context.Context, userID int, gross decimal.Decimal, now time.Time, voucherCode string) ([]domain.Discount, error) {
	ret := m.Called(ctx, userID, gross, now, voucherCode)
	return value[[]domain.Discount](ret, 0), ret.Error(1)
}

type QRGenerator struct {
	mock.Mock
}

func NewQRGenerator(t *testing.T) *QRGenerator {
	m := &QRGenerator{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *QRGenerator) Generate(orderID int) ([]byte, error) {
	ret := m.Called(orderID)
	return value[[]byte](ret, 0), ret.Error(1)
}

type FileSaver struct {
	mock.Mock
}

func NewFileSaver(t *testing.T) *FileSaver {
	m := &FileSaver{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *FileSaver) Save(file multipart.File, header *multipart.FileHeader, folder string) (string, error) {
	ret := m.Called(file, header, folder)
	return ret.String(0), ret.Error(1)
}

type StatusReader struct {
	mock.Mock
}

func NewStatusReader(t *testing.T) *StatusReader {
	m := &StatusReader{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *StatusReader) IsOpen(ctx context.Context) (bool, error) {
	ret := m.Called(ctx)
	return value[bool](ret, 0), ret.Error(1)
}
