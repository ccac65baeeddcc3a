package storage

import (
	"context"
	"database/sql"
	"errors"

	"restobar/order-svc/internal/domain"
)

// UploadOwner finds the account that attached the file at path to an order,
// a reservation or a PWD request.
func (r *PostgresRepository) UploadOwner(ctx context.Context, path string) (int, error) {
	var owner sql.NullInt64
	err := r.DB.QueryRowContext(ctx, `
		SELECT user_id FROM orders WHERE proof_of_payment = $1
		UNION ALL
		SELECT user_id FROM reservations WHERE proof_of_payment = $1
		UNION ALL
		SELECT user_id FROM pwd_requests WHERE document_path = $1
		LIMIT 1
	`, path).Scan(&owner)
	if errors.Is(err, sql.ErrNoRows) || (err == nil && !owner.Valid) {
		return 0, domain.ErrUploadNotFound
	}
	if err != nil {
		return 0, err
	}
	return int(owner.Int64), nil
}
