package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderPending       OrderStatus = "pending"
	OrderProcessing    OrderStatus = "processing"
	OrderReadyToPickup OrderStatus = "ready_to_pickup"
	OrderCompleted     OrderStatus = "completed"
	OrderRejected      OrderStatus = "rejected"
	OrderCancelled     OrderStatus = "cancelled"
)

var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderPending:       {OrderProcessing, OrderRejected, OrderCancelled},
	OrderProcessing:    {OrderReadyToPickup, OrderCompleted, OrderCancelled},
	OrderReadyToPickup: {OrderCompleted, OrderCancelled},
}

func (s OrderStatus) Terminal() bool {
	return len(orderTransitions[s]) == 0
}

func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range orderTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

type OrderAction string

const (
	ActionProcess  OrderAction = "process"
	ActionReject   OrderAction = "reject"
	ActionReady    OrderAction = "ready"
	ActionComplete OrderAction = "complete"
	ActionCancel   OrderAction = "cancel"
)

// Target maps a staff or customer action to the status it moves an order to.
func (a OrderAction) Target() (OrderStatus, bool) {
	switch a {
	case ActionProcess:
		return OrderProcessing, true
	case ActionReject:
		return OrderRejected, true
	case ActionReady:
		return OrderReadyToPickup, true
	case ActionComplete:
		return OrderCompleted, true
	case ActionCancel:
		return OrderCancelled, true
	}
	return "", false
}

type DiscountKind string

const (
	DiscountPWD     DiscountKind = "pwd"
	DiscountVoucher DiscountKind = "voucher"
)

// Discount is a tagged variant: VoucherID is set only for DiscountVoucher.
type Discount struct {
	Kind        DiscountKind    `json:"kind"`
	VoucherID   int             `json:"voucher_id,omitempty"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
}

type Payment struct {
	Method          string `json:"method"`
	ReferenceNumber string `json:"reference_number"`
	ProofOfPayment  string `json:"proof_of_payment"`
}

type OrderItem struct {
	ProductID int             `json:"product_id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

type Order struct {
	ID            int             `json:"id"`
	UserID        *int            `json:"user_id,omitempty"`
	CustomerEmail string          `json:"-"`
	FullName      string          `json:"full_name,omitempty"`
	TableNumber   string          `json:"table_number,omitempty"`
	Items         []OrderItem     `json:"items"`
	Discounts     []Discount      `json:"discounts"`
	GrossTotal    decimal.Decimal `json:"gross_total"`
	DiscountTotal decimal.Decimal `json:"discount_total"`
	NetTotal      decimal.Decimal `json:"net_total"`
	Status        OrderStatus     `json:"status"`
	Payment       Payment         `json:"payment"`
	Note          string          `json:"note,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

func (o *Order) HasDiscount(kind DiscountKind) bool {
	for _, d := range o.Discounts {
		if d.Kind == kind {
			return true
		}
	}
	return false
}

func (o *Order) VoucherID() (int, bool) {
	for _, d := range o.Discounts {
		if d.Kind == DiscountVoucher {
			return d.VoucherID, true
		}
	}
	return 0, false
}

func (o *Order) OwnedBy(userID int) bool {
	return o.UserID != nil && *o.UserID == userID
}

// WithoutDiscount returns the discounts minus every entry of the given kind.
func (o *Order) WithoutDiscount(kind DiscountKind) []Discount {
	kept := make([]Discount, 0, len(o.Discounts))
	for _, d := range o.Discounts {
		if d.Kind != kind {
			kept = append(kept, d)
		}
	}
	return kept
}
