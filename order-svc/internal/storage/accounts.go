package storage

import (
	"context"
	"database/sql"
	"errors"

	"restobar/order-svc/internal/domain"

	"github.com/lib/pq"
)

func (r *PostgresRepository) CreateAccount(ctx context.Context, account *domain.Account) error {
	err := r.DB.QueryRowContext(ctx,
		"INSERT INTO accounts (name, email, password_hash, role) VALUES ($1, $2, $3, $4) RETURNING id, created_at",
		account.Name, account.Email, account.PasswordHash, account.Role,
	).Scan(&account.ID, &account.CreatedAt)
	if isUniqueViolation(err) {
		return domain.ErrEmailTaken
	}
	return err
}

const accountColumns = "SELECT id, name, email, password_hash, role, blocked, created_at FROM accounts"

func scanAccount(row rowScanner) (*domain.Account, error) {
	var a domain.Account
	err := row.Scan(&a.ID, &a.Name, &a.Email, &a.PasswordHash, &a.Role, &a.Blocked, &a.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrAccountNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *PostgresRepository) GetAccountByEmail(ctx context.Context, email string) (*domain.Account, error) {
	return scanAccount(r.DB.QueryRowContext(ctx, accountColumns+" WHERE email = $1", email))
}

func (r *PostgresRepository) GetAccount(ctx context.Context, id int) (*domain.Account, error) {
	return scanAccount(r.DB.QueryRowContext(ctx, accountColumns+" WHERE id = $1", id))
}

func (r *PostgresRepository) ListAccounts(ctx context.Context, roles []domain.Role) ([]domain.Account, error) {
	names := make([]string, len(roles))
	for i, role := range roles {
		names[i] = string(role)
	}
	rows, err := r.DB.QueryContext(ctx, accountColumns+" WHERE role = ANY($1) ORDER BY name", pq.Array(names))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accounts []domain.Account
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, *account)
	}
	return accounts, rows.Err()
}

func (r *PostgresRepository) UpdateAccount(ctx context.Context, account *domain.Account) error {
	ok, err := rowsAffected(r.DB.ExecContext(ctx,
		"UPDATE accounts SET name = $1, email = $2, role = $3 WHERE id = $4",
		account.Name, account.Email, account.Role, account.ID))
	if isUniqueViolation(err) {
		return domain.ErrEmailTaken
	}
	if err == nil && !ok {
		return domain.ErrAccountNotFound
	}
	return err
}

// DeleteAccount refuses accounts still referenced by orders, reservations
// or vouchers.
func (r *PostgresRepository) DeleteAccount(ctx context.Context, id int) error {
	ok, err := rowsAffected(r.DB.ExecContext(ctx, "DELETE FROM accounts WHERE id = $1", id))
	if isForeignKeyViolation(err) {
		return domain.ErrAccountInUse
	}
	if err == nil && !ok {
		return domain.ErrAccountNotFound
	}
	return err
}

func (r *PostgresRepository) SetAccountBlocked(ctx context.Context, id int, blocked bool) error {
	ok, err := rowsAffected(r.DB.ExecContext(ctx,
		"UPDATE accounts SET blocked = $1 WHERE id = $2", blocked, id))
	if err == nil && !ok {
		return domain.ErrAccountNotFound
	}
	return err
}

// CreatePWDRequest relies on a partial unique index so a user holds at most
// one pending request even when two submissions race.
func (r *PostgresRepository) CreatePWDRequest(ctx context.Context, req *domain.PWDRequest) error {
	err := r.DB.QueryRowContext(ctx,
		"INSERT INTO pwd_requests (user_id, document_path, status) VALUES ($1, $2, $3) RETURNING id, created_at",
		req.UserID, req.DocumentPath, req.Status,
	).Scan(&req.ID, &req.CreatedAt)
	if isUniqueViolation(err) {
		return domain.ErrPWDRequestPending
	}
	return err
}

func (r *PostgresRepository) HasPWDRequest(ctx context.Context, userID int, status domain.PWDStatus) (bool, error) {
	var exists bool
	err := r.DB.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM pwd_requests WHERE user_id = $1 AND status = $2)", userID, status,
	).Scan(&exists)
	return exists, err
}

func (r *PostgresRepository) GetPWDRequest(ctx context.Context, id int) (*domain.PWDRequest, error) {
	var req domain.PWDRequest
	err := r.DB.QueryRowContext(ctx,
		"SELECT id, user_id, document_path, status, created_at FROM pwd_requests WHERE id = $1", id,
	).Scan(&req.ID, &req.UserID, &req.DocumentPath, &req.Status, &req.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrPWDRequestNotFound
	}
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *PostgresRepository) UpdatePWDStatus(ctx context.Context, id int, from, to domain.PWDStatus) (bool, error) {
	return rowsAffected(r.DB.ExecContext(ctx,
		"UPDATE pwd_requests SET status = $1 WHERE id = $2 AND status = $3", to, id, from))
}

func (r *PostgresRepository) ListPWDRequests(ctx context.Context, status domain.PWDStatus) ([]domain.PWDRequest, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id, user_id, document_path, status, created_at FROM pwd_requests WHERE status = $1 ORDER BY created_at", status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var requests []domain.PWDRequest
	for rows.Next() {
		var req domain.PWDRequest
		if err := rows.Scan(&req.ID, &req.UserID, &req.DocumentPath, &req.Status, &req.CreatedAt); err != nil {
			return nil, err
		}
		requests = append(requests, req)
	}
	return requests, rows.Err()
}

func (r *PostgresRepository) IsOrderReviewable(ctx context.Context, orderID, userID int) (bool, error) {
	var exists bool
	err := r.DB.QueryRowContext(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM orders
			WHERE id = $1 AND user_id = $2 AND status = 'completed'
		)
	`, orderID, userID).Scan(&exists)
	return exists, err
}

// GetExistingReviewID returns 0 when the user has not reviewed the order.
func (r *PostgresRepository) GetExistingReviewID(ctx context.Context, orderID, userID int) (int, error) {
	var id int
	err := r.DB.QueryRowContext(ctx,
		"SELECT id FROM reviews WHERE order_id = $1 AND user_id = $2", orderID, userID,
	).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	return id, err
}

func (r *PostgresRepository) InsertReview(ctx context.Context, review *domain.Review) error {
	err := r.DB.QueryRowContext(ctx, `
		INSERT INTO reviews (user_id, order_id, rating, comment)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`, review.UserID, review.OrderID, review.Rating, review.Comment).
		Scan(&review.ID, &review.CreatedAt)
	if isUniqueViolation(err) {
		return domain.ErrDuplicateReview
	}
	return err
}

func (r *PostgresRepository) ListReviewsByUser(ctx context.Context, userID int) ([]domain.Review, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, user_id, order_id, rating, comment, created_at
		FROM reviews
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reviews []domain.Review
	for rows.Next() {
		var rev domain.Review
		if err := rows.Scan(&rev.ID, &rev.UserID, &rev.OrderID, &rev.Rating, &rev.Comment, &rev.CreatedAt); err != nil {
			return nil, err
		}
		reviews = append(reviews, rev)
	}
	return reviews, rows.Err()
}

func (r *PostgresRepository) ListReviews(ctx context.Context) ([]domain.ReviewDetail, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT rv.id, rv.user_id, rv.order_id, rv.rating, rv.comment, rv.created_at,
			a.name, a.email, o.net_total
		FROM reviews rv
		JOIN accounts a ON a.id = rv.user_id
		JOIN orders o ON o.id = rv.order_id
		ORDER BY rv.created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reviews []domain.ReviewDetail
	for rows.Next() {
		var rev domain.ReviewDetail
		if err := rows.Scan(&rev.ID, &rev.UserID, &rev.OrderID, &rev.Rating, &rev.Comment, &rev.CreatedAt,
			&rev.UserName, &rev.UserEmail, &rev.OrderTotal); err != nil {
			return nil, err
		}
		reviews = append(reviews, rev)
	}
	return reviews, rows.Err()
}
