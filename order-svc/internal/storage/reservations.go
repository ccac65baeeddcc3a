package storage

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"restobar/order-svc/internal/domain"
)

const reservationColumns = `
	SELECT r.id, r.user_id, r.table_id, COALESCE(t.name, ''), r.full_name, r.email, r.phone,
		r.dine_in_at, r.reference_number, r.proof_of_payment, r.total_price, r.reservation_fee,
		r.status, r.completed_at, r.created_at, r.updated_at
	FROM reservations r
	LEFT JOIN dining_tables t ON t.id = r.table_id`

func scanReservation(row rowScanner) (*domain.Reservation, error) {
	var (
		res         domain.Reservation
		completedAt sql.NullTime
	)
	if err := row.Scan(&res.ID, &res.UserID, &res.TableID, &res.TableName, &res.FullName, &res.Email, &res.Phone,
		&res.DineInDateTime, &res.ReferenceNumber, &res.ProofOfPayment, &res.TotalPrice, &res.ReservationFee,
		&res.Status, &completedAt, &res.CreatedAt, &res.UpdatedAt); err != nil {
		return nil, err
	}
	if completedAt.Valid {
		res.CompletedAt = &completedAt.Time
	}
	return &res, nil
}

func (r *PostgresRepository) CreateReservation(ctx context.Context, res *domain.Reservation) error {
	return r.DB.QueryRowContext(ctx, `
		INSERT INTO reservations (user_id, table_id, full_name, email, phone, dine_in_at, reference_number,
			proof_of_payment, total_price, reservation_fee, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at, updated_at
	`, res.UserID, res.TableID, res.FullName, res.Email, res.Phone, res.DineInDateTime, res.ReferenceNumber,
		res.ProofOfPayment, res.TotalPrice, res.ReservationFee, res.Status,
	).Scan(&res.ID, &res.CreatedAt, &res.UpdatedAt)
}

func (r *PostgresRepository) GetReservation(ctx context.Context, id int) (*domain.Reservation, error) {
	res, err := scanReservation(r.DB.QueryRowContext(ctx, reservationColumns+" WHERE r.id = $1", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrReservationNotFound
	}
	return res, err
}

func (r *PostgresRepository) listReservations(ctx context.Context, query string, args ...any) ([]domain.Reservation, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reservations []domain.Reservation
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, err
		}
		reservations = append(reservations, *res)
	}
	return reservations, rows.Err()
}

func (r *PostgresRepository) ListReservationsByUser(ctx context.Context, userID int) ([]domain.Reservation, error) {
	return r.listReservations(ctx, reservationColumns+" WHERE r.user_id = $1 ORDER BY r.dine_in_at DESC", userID)
}

// ListReservations returns every reservation when status is empty.
func (r *PostgresRepository) ListReservations(ctx context.Context, status domain.ReservationStatus) ([]domain.Reservation, error) {
	return r.listReservations(ctx, reservationColumns+" WHERE $1 = '' OR r.status = $1 ORDER BY r.dine_in_at", string(status))
}

func (r *PostgresRepository) UpdateReservationStatus(ctx context.Context, id int, from, to domain.ReservationStatus, completedAt *time.Time) (bool, error) {
	return rowsAffected(r.DB.ExecContext(ctx, `
		UPDATE reservations
		SET status = $1, completed_at = COALESCE($2, completed_at), updated_at = now()
		WHERE id = $3 AND status = $4`, to, completedAt, id, from))
}

func (r *PostgresRepository) IsDateBlocked(ctx context.Context, date string) (bool, error) {
	var blocked bool
	err := r.DB.QueryRowContext(ctx, "SELECT EXISTS(SELECT 1 FROM blocked_dates WHERE date = $1)", date).Scan(&blocked)
	return blocked, err
}

func (r *PostgresRepository) BlockDate(ctx context.Context, blocked *domain.BlockedDate) error {
	err := r.DB.QueryRowContext(ctx,
		"INSERT INTO blocked_dates (date, reason) VALUES ($1, $2) RETURNING created_at",
		blocked.Date, blocked.Reason).Scan(&blocked.CreatedAt)
	if isUniqueViolation(err) {
		return domain.ErrDateAlreadyBlocked
	}
	return err
}

func (r *PostgresRepository) UnblockDate(ctx context.Context, date string) error {
	_, err := r.DB.ExecContext(ctx, "DELETE FROM blocked_dates WHERE date = $1", date)
	return err
}

func (r *PostgresRepository) ListBlockedDates(ctx context.Context) ([]domain.BlockedDate, error) {
	rows, err := r.DB.QueryContext(ctx, "SELECT date, reason, created_at FROM blocked_dates ORDER BY date")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var dates []domain.BlockedDate
	for rows.Next() {
		var d domain.BlockedDate
		if err := rows.Scan(&d.Date, &d.Reason, &d.CreatedAt); err != nil {
			return nil, err
		}
		dates = append(dates, d)
	}
	return dates, rows.Err()
}
