package storage

import (
	"context"
	"database/sql"
	"errors"

	"restobar/order-svc/internal/domain"
)

// CreateVoucher inserts the voucher and, when claimForAll is set, hands it to
// every customer account in the same transaction.
func (r *PostgresRepository) CreateVoucher(ctx context.Context, voucher *domain.Voucher, claimForAll bool) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := tx.QueryRowContext(ctx, `
		INSERT INTO vouchers (code, discount, min_spend, expiry_date)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`, voucher.Code, voucher.Discount, voucher.MinSpend, voucher.ExpiryDate).Scan(&voucher.ID, &voucher.CreatedAt); err != nil {
		if isUniqueViolation(err) {
			return domain.ErrVoucherCodeTaken
		}
		return err
	}

	if claimForAll {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO voucher_claims (voucher_id, user_id)
			SELECT $1, id FROM accounts WHERE role = 'user'
			ON CONFLICT DO NOTHING
		`, voucher.ID); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *PostgresRepository) UpdateVoucher(ctx context.Context, voucher *domain.Voucher) error {
	ok, err := rowsAffected(r.DB.ExecContext(ctx, `
		UPDATE vouchers SET code = $1, discount = $2, min_spend = $3, expiry_date = $4
		WHERE id = $5
	`, voucher.Code, voucher.Discount, voucher.MinSpend, voucher.ExpiryDate, voucher.ID))
	if isUniqueViolation(err) {
		return domain.ErrVoucherCodeTaken
	}
	if err == nil && !ok {
		return domain.ErrVoucherNotFound
	}
	return err
}

// DeleteVoucher drops the voucher and its outstanding claims. A voucher with
// redemptions stays in the ledger.
func (r *PostgresRepository) DeleteVoucher(ctx context.Context, id int) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM voucher_claims WHERE voucher_id = $1", id); err != nil {
		return err
	}
	ok, err := rowsAffected(tx.ExecContext(ctx, "DELETE FROM vouchers WHERE id = $1", id))
	if isForeignKeyViolation(err) {
		return domain.ErrVoucherInUse
	}
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrVoucherNotFound
	}
	return tx.Commit()
}

const voucherColumns = "SELECT id, code, discount, min_spend, expiry_date, created_at FROM vouchers"

func scanVoucher(row rowScanner) (*domain.Voucher, error) {
	var v domain.Voucher
	if err := row.Scan(&v.ID, &v.Code, &v.Discount, &v.MinSpend, &v.ExpiryDate, &v.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrVoucherNotFound
		}
		return nil, err
	}
	return &v, nil
}

func (r *PostgresRepository) GetVoucher(ctx context.Context, id int) (*domain.Voucher, error) {
	return scanVoucher(r.DB.QueryRowContext(ctx, voucherColumns+" WHERE id = $1", id))
}

func (r *PostgresRepository) GetVoucherByCode(ctx context.Context, code string) (*domain.Voucher, error) {
	return scanVoucher(r.DB.QueryRowContext(ctx, voucherColumns+" WHERE upper(code) = upper($1)", code))
}

// ClaimVoucher reports false when the user had already claimed it.
func (r *PostgresRepository) ClaimVoucher(ctx context.Context, voucherID, userID int) (bool, error) {
	return rowsAffected(r.DB.ExecContext(ctx, `
		INSERT INTO voucher_claims (voucher_id, user_id)
		VALUES ($1, $2)
		ON CONFLICT (voucher_id, user_id) DO NOTHING`, voucherID, userID))
}

func (r *PostgresRepository) VoucherState(ctx context.Context, voucherID, userID int) (bool, bool, error) {
	var claimed, redeemed bool
	err := r.DB.QueryRowContext(ctx, `
		SELECT
			EXISTS(SELECT 1 FROM voucher_claims WHERE voucher_id = $1 AND user_id = $2),
			EXISTS(SELECT 1 FROM voucher_redemptions WHERE voucher_id = $1 AND user_id = $2)
	`, voucherID, userID).Scan(&claimed, &redeemed)
	return claimed, redeemed, err
}

func (r *PostgresRepository) ListVouchersForUser(ctx context.Context, userID int) ([]domain.VoucherState, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT v.id, v.code, v.discount, v.min_spend, v.expiry_date, v.created_at,
			(c.user_id IS NOT NULL), (rd.user_id IS NOT NULL)
		FROM vouchers v
		LEFT JOIN voucher_claims c ON c.voucher_id = v.id AND c.user_id = $1
		LEFT JOIN voucher_redemptions rd ON rd.voucher_id = v.id AND rd.user_id = $1
		WHERE v.expiry_date > now()
		ORDER BY v.expiry_date`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var vouchers []domain.VoucherState
	for rows.Next() {
		var v domain.VoucherState
		if err := rows.Scan(&v.ID, &v.Code, &v.Discount, &v.MinSpend, &v.ExpiryDate, &v.CreatedAt, &v.Claimed, &v.Redeemed); err != nil {
			return nil, err
		}
		vouchers = append(vouchers, v)
	}
	return vouchers, rows.Err()
}
