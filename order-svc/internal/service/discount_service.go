package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"restobar/order-svc/internal/domain"
	"restobar/order-svc/internal/pricing"

	"github.com/shopspring/decimal"
)

// DiscountService decides which discounts an order attempt may carry.
//
// PWD eligibility uses a strict 24 hour cooldown measured from the user's
// last PWD-discounted order; there is no separate calendar-day rule.
// Voucher minimum spend is compared with the pre-discount gross so a PWD
// discount cannot push an order under the threshold.
type DiscountService struct {
	pwd      PWDRepository
	orders   OrderRepository
	vouchers VoucherRepository
}

func NewDiscountService(pwd PWDRepository, orders OrderRepository, vouchers VoucherRepository) *DiscountService {
	return &DiscountService{pwd: pwd, orders: orders, vouchers: vouchers}
}

func (s *DiscountService) Evaluate(ctx context.Context, userID int, gross decimal.Decimal, now time.Time, voucherCode string) ([]domain.Discount, error) {
	var discounts []domain.Discount

	pwd, err := s.PWD(ctx, userID, gross, now)
	if err != nil {
		return nil, err
	}
	if pwd != nil {
		discounts = append(discounts, *pwd)
	}

	if strings.TrimSpace(voucherCode) != "" {
		voucher, err := s.Voucher(ctx, userID, voucherCode, gross, now)
		if err != nil {
			return nil, err
		}
		discounts = append(discounts, *voucher)
	}

	return discounts, nil
}

// PWD returns nil when the user is not currently eligible.
func (s *DiscountService) PWD(ctx context.Context, userID int, gross decimal.Decimal, now time.Time) (*domain.Discount, error) {
	approved, err := s.pwd.HasPWDRequest(ctx, userID, domain.PWDApproved)
	if err != nil {
		return nil, err
	}
	if !approved {
		return nil, nil
	}

	last, err := s.orders.LastPWDOrderAt(ctx, userID)
	if err != nil {
		return nil, err
	}
	if last != nil && now.Sub(*last) < domain.PWDCooldown {
		return nil, nil
	}

	discount := pricing.PWDDiscount(gross)
	return &discount, nil
}

// Voucher fails closed: any doubt about the code rejects the order attempt.
func (s *DiscountService) Voucher(ctx context.Context, userID int, code string, gross decimal.Decimal, now time.Time) (*domain.Discount, error) {
	voucher, err := s.vouchers.GetVoucherByCode(ctx, strings.TrimSpace(code))
	if errors.Is(err, domain.ErrVoucherNotFound) {
		return nil, domain.ErrVoucherInvalid
	}
	if err != nil {
		return nil, err
	}
	if voucher.Expired(now) {
		return nil, domain.ErrVoucherExpired
	}

	claimed, redeemed, err := s.vouchers.VoucherState(ctx, voucher.ID, userID)
	if err != nil {
		return nil, err
	}
	if !claimed {
		return nil, domain.ErrVoucherNotClaimed
	}
	if redeemed {
		return nil, domain.ErrVoucherAlreadyUsed
	}
	if gross.LessThan(voucher.MinSpend) {
		return nil, domain.ErrVoucherMinSpend
	}

	discount := pricing.VoucherDiscount(voucher)
	return &discount, nil
}
