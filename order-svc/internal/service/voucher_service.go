package service

import (
	"context"
	"strings"
	"time"

	"restobar/order-svc/internal/domain"

	"github.com/rs/zerolog"
)

// VoucherService owns the claim side of the voucher ledger. Redemption only
// happens inside order placement.
type VoucherService struct {
	vouchers VoucherRepository
	logger   zerolog.Logger
	now      func() time.Time
}

func NewVoucherService(vouchers VoucherRepository, logger zerolog.Logger) *VoucherService {
	return &VoucherService{vouchers: vouchers, logger: logger, now: time.Now}
}

func (s *VoucherService) validate(voucher *domain.Voucher) error {
	voucher.Code = strings.ToUpper(strings.TrimSpace(voucher.Code))
	if voucher.Code == "" {
		return domain.Validationf("voucher code is required")
	}
	if !voucher.Discount.IsPositive() {
		return domain.Validationf("voucher discount must be greater than zero")
	}
	if voucher.MinSpend.IsNegative() {
		return domain.Validationf("voucher minimum spend cannot be negative")
	}
	if voucher.Expired(s.now()) {
		return domain.Validationf("voucher expiry date must be in the future")
	}
	return nil
}

func (s *VoucherService) Create(ctx context.Context, voucher *domain.Voucher, claimForAll bool) error {
	if err := s.validate(voucher); err != nil {
		return err
	}
	if err := s.vouchers.CreateVoucher(ctx, voucher, claimForAll); err != nil {
		return err
	}
	s.logger.Info().Int("voucher_id", voucher.ID).Str("code", voucher.Code).Bool("claim_for_all", claimForAll).Msg("voucher created")
	return nil
}

// Update edits the voucher terms. Claims and redemptions keep pointing at it.
func (s *VoucherService) Update(ctx context.Context, voucher *domain.Voucher) error {
	if err := s.validate(voucher); err != nil {
		return err
	}
	if err := s.vouchers.UpdateVoucher(ctx, voucher); err != nil {
		return err
	}
	s.logger.Info().Int("voucher_id", voucher.ID).Str("code", voucher.Code).Msg("voucher updated")
	return nil
}

func (s *VoucherService) Delete(ctx context.Context, id int) error {
	if err := s.vouchers.DeleteVoucher(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Int("voucher_id", id).Msg("voucher deleted")
	return nil
}

func (s *VoucherService) Claim(ctx context.Context, userID, voucherID int) error {
	voucher, err := s.vouchers.GetVoucher(ctx, voucherID)
	if err != nil {
		return err
	}
	if voucher.Expired(s.now()) {
		return domain.ErrVoucherExpired
	}

	claimed, err := s.vouchers.ClaimVoucher(ctx, voucherID, userID)
	if err != nil {
		return err
	}
	if !claimed {
		return domain.ErrVoucherAlreadyClaimed
	}
	return nil
}

func (s *VoucherService) ListForUser(ctx context.Context, userID int) ([]domain.VoucherState, error) {
	return s.vouchers.ListVouchersForUser(ctx, userID)
}
