package domain

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrValidation    = errors.New("validation failed")
	ErrNotFound      = errors.New("not found")
	ErrStateConflict = errors.New("state conflict")
	ErrForbidden     = errors.New("forbidden")
	ErrUnauthorized  = errors.New("unauthorized")
)

var (
	ErrEmptyCart          = fmt.Errorf("%w: cart is empty", ErrValidation)
	ErrCartChanged        = fmt.Errorf("%w: cart changed during checkout, review it and try again", ErrStateConflict)
	ErrMissingPayment     = fmt.Errorf("%w: payment method, reference number and proof of payment are required", ErrValidation)
	ErrInvalidTransition  = fmt.Errorf("%w: invalid status transition", ErrStateConflict)
	ErrInvalidAction      = fmt.Errorf("%w: unknown order action", ErrValidation)
	ErrOrderNotFound      = fmt.Errorf("%w: order", ErrNotFound)
	ErrProductNotFound    = fmt.Errorf("%w: product", ErrNotFound)
	ErrTableNotFound      = fmt.Errorf("%w: table", ErrNotFound)
	ErrCartItemNotFound   = fmt.Errorf("%w: cart item", ErrNotFound)
	ErrUploadNotFound     = fmt.Errorf("%w: file", ErrNotFound)
	ErrAccountNotFound    = fmt.Errorf("%w: account", ErrNotFound)
	ErrEmailTaken         = fmt.Errorf("%w: email already registered", ErrStateConflict)
	ErrInvalidCredentials = fmt.Errorf("%w: invalid email or password", ErrUnauthorized)
	ErrAccountBlocked     = fmt.Errorf("%w: account is blocked", ErrForbidden)
	ErrAccountInUse       = fmt.Errorf("%w: account has orders or reservations", ErrStateConflict)
	ErrRestaurantClosed   = fmt.Errorf("%w: the restaurant is not accepting orders right now", ErrStateConflict)

	ErrReservationNotFound = fmt.Errorf("%w: reservation", ErrNotFound)
	ErrOnlyPendingCancel   = fmt.Errorf("%w: only pending reservations may be cancelled", ErrStateConflict)
	ErrDateBlocked         = fmt.Errorf("%w: reservations are closed for that date", ErrStateConflict)
	ErrDateAlreadyBlocked  = fmt.Errorf("%w: date already blocked", ErrStateConflict)

	ErrVoucherNotFound       = fmt.Errorf("%w: voucher", ErrNotFound)
	ErrVoucherInvalid        = fmt.Errorf("%w: voucher code is invalid", ErrValidation)
	ErrVoucherExpired        = fmt.Errorf("%w: voucher has expired", ErrValidation)
	ErrVoucherNotClaimed     = fmt.Errorf("%w: voucher has not been claimed", ErrValidation)
	ErrVoucherAlreadyClaimed = fmt.Errorf("%w: voucher already claimed", ErrValidation)
	ErrVoucherMinSpend       = fmt.Errorf("%w: order total is below the voucher minimum spend", ErrValidation)
	ErrVoucherAlreadyUsed    = fmt.Errorf("%w: voucher already used", ErrStateConflict)
	ErrVoucherCodeTaken      = fmt.Errorf("%w: voucher code already exists", ErrStateConflict)
	ErrVoucherInUse          = fmt.Errorf("%w: voucher has already been redeemed", ErrStateConflict)

	ErrPWDRequestPending  = fmt.Errorf("%w: a PWD request is already pending", ErrStateConflict)
	ErrPWDRequestNotFound = fmt.Errorf("%w: PWD request", ErrNotFound)
	ErrPWDCooldown        = fmt.Errorf("%w: PWD discount already used in the last 24 hours", ErrStateConflict)

	ErrOrderNotReviewable = fmt.Errorf("%w: only your completed orders can be reviewed", ErrStateConflict)
	ErrDuplicateReview    = fmt.Errorf("%w: review already submitted for this order", ErrStateConflict)
)

// PWDCooldown is the minimum gap between two PWD-discounted orders of one user.
const PWDCooldown = 24 * time.Hour

func Validationf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// RateLimitError is returned while a login key is locked out.
type RateLimitError struct {
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("too many failed attempts, retry in %d seconds", int(e.RetryAfter.Seconds()))
}
