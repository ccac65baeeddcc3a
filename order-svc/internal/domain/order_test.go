package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrderStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from     OrderStatus
		to       OrderStatus
		expected bool
	}{
		{OrderPending, OrderProcessing, true},
		{OrderPending, OrderRejected, true},
		{OrderPending, OrderCancelled, true},
		{OrderPending, OrderCompleted, false},
		{OrderPending, OrderReadyToPickup, false},
		{OrderProcessing, OrderReadyToPickup, true},
		{OrderProcessing, OrderCompleted, true},
		{OrderProcessing, OrderRejected, false},
		{OrderReadyToPickup, OrderCompleted, true},
		{OrderReadyToPickup, OrderProcessing, false},
		{OrderCompleted, OrderCancelled, false},
		{OrderCompleted, OrderProcessing, false},
		{OrderRejected, OrderProcessing, false},
		{OrderCancelled, OrderPending, false},
	}

	for _, testCase := range tests {
		t.Run(string(testCase.from)+"->"+string(testCase.to), func(t *testing.T) {
			assert.Equal(t, testCase.expected, testCase.from.CanTransitionTo(testCase.to))
		})
	}
}

func TestOrderStatus_Terminal(t *testing.T) {
	assert.True(t, OrderCompleted.Terminal())
	assert.True(t, OrderRejected.Terminal())
	assert.True(t, OrderCancelled.Terminal())
	assert.False(t, OrderPending.Terminal())
	assert.False(t, OrderReadyToPickup.Terminal())
}

func TestOrderAction_Target(t *testing.T) {
	status, ok := ActionReady.Target()
	assert.True(t, ok)
	assert.Equal(t, OrderReadyToPickup, status)

	_, ok = OrderAction("refund").Target()
	assert.False(t, ok)
}

func TestReservationStatus_CanTransitionTo(t *testing.T) {
	assert.True(t, ReservationPending.CanTransitionTo(ReservationConfirmed))
	assert.True(t, ReservationPending.CanTransitionTo(ReservationCancelled))
	assert.True(t, ReservationConfirmed.CanTransitionTo(ReservationDone))
	assert.False(t, ReservationConfirmed.CanTransitionTo(ReservationConfirmed))
	assert.False(t, ReservationConfirmed.CanTransitionTo(ReservationCancelled))
	assert.False(t, ReservationPending.CanTransitionTo(ReservationDone))
	assert.False(t, ReservationDone.CanTransitionTo(ReservationCancelled))
}

func TestOrder_Discounts(t *testing.T) {
	order := Order{Discounts: []Discount{
		{Kind: DiscountPWD},
		{Kind: DiscountVoucher, VoucherID: 7},
	}}

	assert.True(t, order.HasDiscount(DiscountPWD))
	id, ok := order.VoucherID()
	assert.True(t, ok)
	assert.Equal(t, 7, id)

	kept := order.WithoutDiscount(DiscountPWD)
	assert.Len(t, kept, 1)
	assert.Equal(t, DiscountVoucher, kept[0].Kind)
}
