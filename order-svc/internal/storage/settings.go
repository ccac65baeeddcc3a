package storage

import (
	"context"
	"fmt"

	"restobar/order-svc/internal/domain"
)

var settingsImageColumns = map[domain.SettingsImage]string{
	domain.SettingsLogo:          "logo",
	domain.SettingsOrderQR:       "order_qr",
	domain.SettingsReservationQR: "reservation_qr",
}

func (r *PostgresRepository) GetSettings(ctx context.Context) (*domain.Settings, error) {
	var s domain.Settings
	err := r.DB.QueryRowContext(ctx, `
		SELECT site_name, logo, order_qr, reservation_qr, is_open, updated_at
		FROM settings WHERE id = 1
	`).Scan(&s.SiteName, &s.Logo, &s.OrderQR, &s.ReservationQR, &s.IsOpen, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// ToggleOpen flips the open flag in place and returns the new value.
func (r *PostgresRepository) ToggleOpen(ctx context.Context) (bool, error) {
	var open bool
	err := r.DB.QueryRowContext(ctx,
		"UPDATE settings SET is_open = NOT is_open, updated_at = now() WHERE id = 1 RETURNING is_open",
	).Scan(&open)
	return open, err
}

func (r *PostgresRepository) UpdateSettingsImage(ctx context.Context, kind domain.SettingsImage, url string) error {
	column, ok := settingsImageColumns[kind]
	if !ok {
		return domain.Validationf("unknown settings image %q", kind)
	}
	_, err := r.DB.ExecContext(ctx,
		fmt.Sprintf("UPDATE settings SET %s = $1, updated_at = now() WHERE id = 1", column), url)
	return err
}

func (r *PostgresRepository) UpdateSiteName(ctx context.Context, name string) error {
	_, err := r.DB.ExecContext(ctx, "UPDATE settings SET site_name = $1, updated_at = now() WHERE id = 1", name)
	return err
}
