// Package events holds the envelope order-svc publishes and notify-svc consumes.
package events

import (
	"strconv"
	"time"
)

const (
	TypeOrderCreated             = "order.created"
	TypeOrderStatusChanged       = "order.status_changed"
	TypeReservationCreated       = "reservation.created"
	TypeReservationStatusChanged = "reservation.status_changed"
	TypeReviewCreated            = "review.created"
	TypeAccountStatusChanged     = "account.status_changed"
	TypeRestaurantStatusChanged  = "restaurant.status_changed"
)

// Real-time channel names pushed to staff screens.
const (
	RealtimeNewOrder       = "newOrder"
	RealtimeNewReservation = "newReservation"
	RealtimeOrderStatus    = "orderStatus"
	RealtimeReservation    = "reservationStatus"
	RealtimeRestaurant     = "restaurantStatus"
)

// Email template kinds.
const (
	EmailOrderPlaced          = "order_placed"
	EmailOrderProcessing      = "order_processing"
	EmailOrderReady           = "order_ready"
	EmailOrderCompleted       = "order_completed"
	EmailOrderRejected        = "order_rejected"
	EmailOrderCancelled       = "order_cancelled"
	EmailReservationReceived  = "reservation_received"
	EmailReservationConfirmed = "reservation_confirmed"
	EmailReservationRejected  = "reservation_rejected"
	EmailReservationCancelled = "reservation_cancelled"
	EmailReservationDone      = "reservation_done"
	EmailAccountBlocked       = "account_blocked"
	EmailAccountUnblocked     = "account_unblocked"
)

type Event struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Realtime  string    `json:"realtime,omitempty"`
	EmailKind string    `json:"email_kind,omitempty"`
	Recipient string    `json:"recipient,omitempty"`
	Name      string    `json:"name,omitempty"`
	Message   string    `json:"message,omitempty"`
	Data      Payload   `json:"data"`
	Timestamp time.Time `json:"timestamp"`
}

type Payload struct {
	OrderID       int    `json:"order_id,omitempty"`
	ReservationID int    `json:"reservation_id,omitempty"`
	UserID        int    `json:"user_id,omitempty"`
	Status        string `json:"status,omitempty"`
	Total         string `json:"total,omitempty"`
	TableName     string `json:"table_name,omitempty"`
	DineIn        string `json:"dine_in,omitempty"`
	Rating        int    `json:"rating,omitempty"`
}

// Key picks the partition key so events for one entity stay ordered.
func (e Event) Key() string {
	switch {
	case e.Data.OrderID != 0:
		return "order-" + strconv.Itoa(e.Data.OrderID)
	case e.Data.ReservationID != 0:
		return "reservation-" + strconv.Itoa(e.Data.ReservationID)
	case e.Data.UserID != 0:
		return "account-" + strconv.Itoa(e.Data.UserID)
	default:
		return e.ID
	}
}
