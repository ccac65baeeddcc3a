package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type ReservationStatus string

const (
	ReservationPending   ReservationStatus = "pending"
	ReservationConfirmed ReservationStatus = "confirmed"
	ReservationCancelled ReservationStatus = "cancelled"
	ReservationDone      ReservationStatus = "done"
)

var reservationTransitions = map[ReservationStatus][]ReservationStatus{
	ReservationPending:   {ReservationConfirmed, ReservationCancelled},
	ReservationConfirmed: {ReservationDone},
}

func (s ReservationStatus) CanTransitionTo(next ReservationStatus) bool {
	for _, allowed := range reservationTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

type Reservation struct {
	ID              int               `json:"id"`
	UserID          int               `json:"user_id"`
	TableID         int               `json:"table_id"`
	TableName       string            `json:"table_name,omitempty"`
	FullName        string            `json:"full_name"`
	Email           string            `json:"email"`
	Phone           string            `json:"phone"`
	DineInDateTime  time.Time         `json:"dine_in_date_time"`
	ReferenceNumber string            `json:"reference_number"`
	ProofOfPayment  string            `json:"proof_of_payment"`
	TotalPrice      decimal.Decimal   `json:"total_price"`
	ReservationFee  decimal.Decimal   `json:"reservation_fee"`
	Status          ReservationStatus `json:"status"`
	CompletedAt     *time.Time        `json:"completed_at,omitempty"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
}

type CalendarEvent struct {
	ReservationID int       `json:"reservation_id"`
	Title         string    `json:"title"`
	Start         time.Time `json:"start"`
	Status        string    `json:"status"`
}

type Voucher struct {
	ID         int             `json:"id"`
	Code       string          `json:"code"`
	Discount   decimal.Decimal `json:"discount"`
	MinSpend   decimal.Decimal `json:"min_spend"`
	ExpiryDate time.Time       `json:"expiry_date"`
	CreatedAt  time.Time       `json:"created_at"`
}

func (v *Voucher) Expired(now time.Time) bool {
	return v.ExpiryDate.Before(now)
}

// VoucherState is a voucher as seen by one user.
type VoucherState struct {
	Voucher
	Claimed  bool `json:"claimed"`
	Redeemed bool `json:"redeemed"`
}
