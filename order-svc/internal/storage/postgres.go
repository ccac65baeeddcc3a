package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
)

type PostgresRepository struct {
	DB *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{DB: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

func isForeignKeyViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23503"
}

func rowsAffected(result sql.Result, err error) (bool, error) {
	if err != nil {
		return false, err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *PostgresRepository) EnsureSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS accounts (
			id SERIAL PRIMARY KEY,
			name TEXT NOT NULL,
			email TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			role TEXT NOT NULL DEFAULT 'user',
			blocked BOOLEAN NOT NULL DEFAULT false,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		"ALTER TABLE accounts ADD COLUMN IF NOT EXISTS blocked BOOLEAN NOT NULL DEFAULT false",
		`CREATE TABLE IF NOT EXISTS products (
			id SERIAL PRIMARY KEY,
			name TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			price NUMERIC(10,2) NOT NULL CHECK (price > 0),
			category TEXT NOT NULL,
			status TEXT NOT NULL DEFAULT 'available',
			image_url TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS dining_tables (
			id SERIAL PRIMARY KEY,
			name TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			pax INT NOT NULL,
			price NUMERIC(10,2) NOT NULL DEFAULT 0,
			reservation_fee NUMERIC(10,2) NOT NULL DEFAULT 0,
			image_url TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS carts (
			user_id INT PRIMARY KEY REFERENCES accounts(id),
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS cart_items (
			user_id INT NOT NULL REFERENCES carts(user_id),
			product_id INT NOT NULL,
			quantity INT NOT NULL CHECK (quantity >= 1),
			PRIMARY KEY (user_id, product_id)
		)`,
		`CREATE TABLE IF NOT EXISTS orders (
			id SERIAL PRIMARY KEY,
			user_id INT REFERENCES accounts(id),
			full_name TEXT NOT NULL DEFAULT '',
			table_number TEXT NOT NULL DEFAULT '',
			gross_total NUMERIC(12,2) NOT NULL,
			discount_total NUMERIC(12,2) NOT NULL,
			net_total NUMERIC(12,2) NOT NULL,
			status TEXT NOT NULL,
			payment_method TEXT NOT NULL DEFAULT '',
			reference_number TEXT NOT NULL DEFAULT '',
			proof_of_payment TEXT NOT NULL DEFAULT '',
			note TEXT NOT NULL DEFAULT '',
			qr_code BYTEA,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS order_items (
			order_id INT NOT NULL REFERENCES orders(id),
			product_id INT NOT NULL,
			name TEXT NOT NULL,
			price NUMERIC(10,2) NOT NULL,
			quantity INT NOT NULL,
			subtotal NUMERIC(12,2) NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS order_discounts (
			order_id INT NOT NULL REFERENCES orders(id),
			position INT NOT NULL,
			kind TEXT NOT NULL,
			voucher_id INT,
			amount NUMERIC(12,2) NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			PRIMARY KEY (order_id, position)
		)`,
		`CREATE TABLE IF NOT EXISTS vouchers (
			id SERIAL PRIMARY KEY,
			code TEXT NOT NULL UNIQUE,
			discount NUMERIC(10,2) NOT NULL,
			min_spend NUMERIC(10,2) NOT NULL DEFAULT 0,
			expiry_date TIMESTAMPTZ NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS voucher_claims (
			voucher_id INT NOT NULL REFERENCES vouchers(id),
			user_id INT NOT NULL REFERENCES accounts(id),
			claimed_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			PRIMARY KEY (voucher_id, user_id)
		)`,
		`CREATE TABLE IF NOT EXISTS voucher_redemptions (
			voucher_id INT NOT NULL REFERENCES vouchers(id),
			user_id INT NOT NULL REFERENCES accounts(id),
			order_id INT NOT NULL REFERENCES orders(id),
			redeemed_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			PRIMARY KEY (voucher_id, user_id)
		)`,
		`CREATE TABLE IF NOT EXISTS pwd_requests (
			id SERIAL PRIMARY KEY,
			user_id INT NOT NULL REFERENCES accounts(id),
			document_path TEXT NOT NULL,
			status TEXT NOT NULL DEFAULT 'Pending',
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS reservations (
			id SERIAL PRIMARY KEY,
			user_id INT NOT NULL REFERENCES accounts(id),
			table_id INT NOT NULL,
			full_name TEXT NOT NULL,
			email TEXT NOT NULL,
			phone TEXT NOT NULL,
			dine_in_at TIMESTAMPTZ NOT NULL,
			reference_number TEXT NOT NULL,
			proof_of_payment TEXT NOT NULL,
			total_price NUMERIC(10,2) NOT NULL,
			reservation_fee NUMERIC(10,2) NOT NULL,
			status TEXT NOT NULL,
			completed_at TIMESTAMPTZ,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS blocked_dates (
			date TEXT PRIMARY KEY,
			reason TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS reviews (
			id SERIAL PRIMARY KEY,
			user_id INT NOT NULL REFERENCES accounts(id),
			order_id INT NOT NULL REFERENCES orders(id),
			rating INT NOT NULL,
			comment TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			UNIQUE (user_id, order_id)
		)`,
		`CREATE TABLE IF NOT EXISTS settings (
			id INT PRIMARY KEY DEFAULT 1 CHECK (id = 1),
			site_name TEXT NOT NULL DEFAULT 'Nap''s Grill and Restobar',
			logo TEXT NOT NULL DEFAULT '',
			order_qr TEXT NOT NULL DEFAULT '',
			reservation_qr TEXT NOT NULL DEFAULT '',
			is_open BOOLEAN NOT NULL DEFAULT true,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		"INSERT INTO settings (id) VALUES (1) ON CONFLICT (id) DO NOTHING",
		"CREATE INDEX IF NOT EXISTS orders_user_created_idx ON orders (user_id, created_at DESC)",
		"CREATE INDEX IF NOT EXISTS orders_status_idx ON orders (status)",
		"CREATE UNIQUE INDEX IF NOT EXISTS pwd_requests_one_pending_idx ON pwd_requests (user_id) WHERE status = 'Pending'",
	}
	for _, stmt := range statements {
		if _, err := r.DB.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema `%s`: %w", stmt, err)
		}
	}
	return nil
}
