package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"restobar/order-svc/internal/domain"
)

const orderColumns = `
	SELECT o.id, o.user_id, COALESCE(a.email, ''), o.full_name, o.table_number,
		o.gross_total, o.discount_total, o.net_total, o.status,
		o.payment_method, o.reference_number, o.proof_of_payment, o.note,
		o.created_at, o.updated_at
	FROM orders o
	LEFT JOIN accounts a ON a.id = o.user_id`

func scanOrder(row rowScanner) (*domain.Order, error) {
	var (
		order  domain.Order
		userID sql.NullInt64
	)
	if err := row.Scan(&order.ID, &userID, &order.CustomerEmail, &order.FullName, &order.TableNumber,
		&order.GrossTotal, &order.DiscountTotal, &order.NetTotal, &order.Status,
		&order.Payment.Method, &order.Payment.ReferenceNumber, &order.Payment.ProofOfPayment, &order.Note,
		&order.CreatedAt, &order.UpdatedAt); err != nil {
		return nil, err
	}
	if userID.Valid {
		id := int(userID.Int64)
		order.UserID = &id
	}
	return &order, nil
}

// CreateOrder runs the whole checkout write path in one transaction. The
// owner's account row is locked so concurrent checkouts of one user are
// serialized, and the cart is re-read under that lock so a second submit of
// an already ordered cart fails. The PWD cooldown is re-checked, the voucher
// redemption is a primary-key insert that succeeds at most once, and the
// cart is cleared.
func (r *PostgresRepository) CreateOrder(ctx context.Context, order *domain.Order) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var userID any
	if order.UserID != nil {
		userID = *order.UserID
		if err := tx.QueryRowContext(ctx,
			"SELECT email FROM accounts WHERE id = $1 FOR UPDATE", *order.UserID,
		).Scan(&order.CustomerEmail); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return domain.ErrAccountNotFound
			}
			return fmt.Errorf("lock account: %w", err)
		}

		if err := matchCart(ctx, tx, *order.UserID, order.Items); err != nil {
			return err
		}

		if order.HasDiscount(domain.DiscountPWD) {
			var recent bool
			if err := tx.QueryRowContext(ctx, `
				SELECT EXISTS(
					SELECT 1 FROM orders o
					JOIN order_discounts d ON d.order_id = o.id
					WHERE o.user_id = $1 AND d.kind = 'pwd' AND o.created_at > $2
				)`, *order.UserID, time.Now().Add(-domain.PWDCooldown)).Scan(&recent); err != nil {
				return fmt.Errorf("check pwd cooldown: %w", err)
			}
			if recent {
				return domain.ErrPWDCooldown
			}
		}
	}

	if err := tx.QueryRowContext(ctx, `
		INSERT INTO orders (user_id, full_name, table_number, gross_total, discount_total, net_total,
			status, payment_method, reference_number, proof_of_payment, note)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at, updated_at
	`, userID, order.FullName, order.TableNumber, order.GrossTotal, order.DiscountTotal, order.NetTotal,
		order.Status, order.Payment.Method, order.Payment.ReferenceNumber, order.Payment.ProofOfPayment, order.Note,
	).Scan(&order.ID, &order.CreatedAt, &order.UpdatedAt); err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	for _, item := range order.Items {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO order_items (order_id, product_id, name, price, quantity, subtotal)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, order.ID, item.ProductID, item.Name, item.Price, item.Quantity, item.Subtotal); err != nil {
			return fmt.Errorf("insert order item: %w", err)
		}
	}

	for i, discount := range order.Discounts {
		var voucherID any
		switch discount.Kind {
		case domain.DiscountVoucher:
			voucherID = discount.VoucherID
		case domain.DiscountPWD:
		default:
			return fmt.Errorf("unknown discount kind %q", discount.Kind)
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO order_discounts (order_id, position, kind, voucher_id, amount, description)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, order.ID, i, discount.Kind, voucherID, discount.Amount, discount.Description); err != nil {
			return fmt.Errorf("insert order discount: %w", err)
		}
	}

	if voucherID, ok := order.VoucherID(); ok {
		if order.UserID == nil {
			return domain.ErrVoucherNotClaimed
		}
		redeemed, err := rowsAffected(tx.ExecContext(ctx, `
			INSERT INTO voucher_redemptions (voucher_id, user_id, order_id)
			SELECT $1, $2, $3
			WHERE EXISTS (SELECT 1 FROM voucher_claims WHERE voucher_id = $1 AND user_id = $2)
			ON CONFLICT (voucher_id, user_id) DO NOTHING
		`, voucherID, *order.UserID, order.ID))
		if err != nil {
			return fmt.Errorf("redeem voucher: %w", err)
		}
		if !redeemed {
			return domain.ErrVoucherAlreadyUsed
		}
	}

	if order.UserID != nil {
		cleared, err := rowsAffected(tx.ExecContext(ctx, "DELETE FROM cart_items WHERE user_id = $1", *order.UserID))
		if err != nil {
			return fmt.Errorf("clear cart: %w", err)
		}
		if !cleared {
			return domain.ErrCartChanged
		}
	}

	return tx.Commit()
}

// matchCart compares the orderable cart lines with the priced snapshot.
func matchCart(ctx context.Context, tx *sql.Tx, userID int, items []domain.OrderItem) error {
	rows, err := tx.QueryContext(ctx, `
		SELECT ci.product_id, ci.quantity, p.price
		FROM cart_items ci
		JOIN products p ON p.id = ci.product_id
		WHERE ci.user_id = $1 AND p.status = 'available' AND ci.quantity > 0
		ORDER BY ci.product_id`, userID)
	if err != nil {
		return fmt.Errorf("read cart: %w", err)
	}
	defer rows.Close()

	want := make(map[int]domain.OrderItem, len(items))
	for _, item := range items {
		want[item.ProductID] = item
	}

	seen := 0
	for rows.Next() {
		var line domain.CartLine
		if err := rows.Scan(&line.ProductID, &line.Quantity, &line.Price); err != nil {
			return fmt.Errorf("read cart: %w", err)
		}
		item, ok := want[line.ProductID]
		if !ok || item.Quantity != line.Quantity || !item.Price.Equal(line.Price) {
			return domain.ErrCartChanged
		}
		seen++
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("read cart: %w", err)
	}

	if seen == 0 {
		return domain.ErrEmptyCart
	}
	if seen != len(want) {
		return domain.ErrCartChanged
	}
	return nil
}

func (r *PostgresRepository) loadOrderLines(ctx context.Context, order *domain.Order) error {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT product_id, name, price, quantity, subtotal
		FROM order_items
		WHERE order_id = $1`, order.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	order.Items = []domain.OrderItem{}
	for rows.Next() {
		var item domain.OrderItem
		if err := rows.Scan(&item.ProductID, &item.Name, &item.Price, &item.Quantity, &item.Subtotal); err != nil {
			return err
		}
		order.Items = append(order.Items, item)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	discountRows, err := r.DB.QueryContext(ctx, `
		SELECT kind, COALESCE(voucher_id, 0), amount, description
		FROM order_discounts
		WHERE order_id = $1
		ORDER BY position`, order.ID)
	if err != nil {
		return err
	}
	defer discountRows.Close()

	order.Discounts = []domain.Discount{}
	for discountRows.Next() {
		var d domain.Discount
		if err := discountRows.Scan(&d.Kind, &d.VoucherID, &d.Amount, &d.Description); err != nil {
			return err
		}
		order.Discounts = append(order.Discounts, d)
	}
	return discountRows.Err()
}

func (r *PostgresRepository) GetOrder(ctx context.Context, id int) (*domain.Order, error) {
	order, err := scanOrder(r.DB.QueryRowContext(ctx, orderColumns+" WHERE o.id = $1", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := r.loadOrderLines(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

func (r *PostgresRepository) listOrders(ctx context.Context, query string, args ...any) ([]domain.Order, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}

	var orders []domain.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		orders = append(orders, *order)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range orders {
		if err := r.loadOrderLines(ctx, &orders[i]); err != nil {
			return nil, err
		}
	}
	return orders, nil
}

func (r *PostgresRepository) ListOrdersByUser(ctx context.Context, userID int) ([]domain.Order, error) {
	return r.listOrders(ctx, orderColumns+" WHERE o.user_id = $1 ORDER BY o.created_at DESC", userID)
}

// ListOrdersByStatus returns every order when status is empty.
func (r *PostgresRepository) ListOrdersByStatus(ctx context.Context, status domain.OrderStatus) ([]domain.Order, error) {
	return r.listOrders(ctx, orderColumns+" WHERE $1 = '' OR o.status = $1 ORDER BY o.created_at DESC", string(status))
}

func (r *PostgresRepository) ListCompletedOrders(ctx context.Context, from, to time.Time) ([]domain.Order, error) {
	return r.listOrders(ctx,
		orderColumns+" WHERE o.status = 'completed' AND o.created_at >= $1 AND o.created_at <= $2 ORDER BY o.created_at",
		from, to)
}

func (r *PostgresRepository) CountOrdersByStatus(ctx context.Context, status domain.OrderStatus) (int, error) {
	var count int
	err := r.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM orders WHERE status = $1", status).Scan(&count)
	return count, err
}

// UpdateOrderStatus applies the change only if the order is still in from.
func (r *PostgresRepository) UpdateOrderStatus(ctx context.Context, id int, from, to domain.OrderStatus) (bool, error) {
	return rowsAffected(r.DB.ExecContext(ctx,
		"UPDATE orders SET status = $1, updated_at = now() WHERE id = $2 AND status = $3",
		to, id, from))
}

func (r *PostgresRepository) LastPWDOrderAt(ctx context.Context, userID int) (*time.Time, error) {
	var last sql.NullTime
	err := r.DB.QueryRowContext(ctx, `
		SELECT MAX(o.created_at)
		FROM orders o
		JOIN order_discounts d ON d.order_id = o.id
		WHERE o.user_id = $1 AND d.kind = 'pwd'`, userID).Scan(&last)
	if err != nil {
		return nil, err
	}
	if !last.Valid {
		return nil, nil
	}
	return &last.Time, nil
}

func (r *PostgresRepository) SaveQRCode(ctx context.Context, orderID int, qr []byte) error {
	_, err := r.DB.ExecContext(ctx, `UPDATE orders SET qr_code = $1 WHERE id = $2`, qr, orderID)
	return err
}

func (r *PostgresRepository) GetQRCode(ctx context.Context, orderID int) ([]byte, error) {
	var qrCode []byte
	err := r.DB.QueryRowContext(ctx, "SELECT qr_code FROM orders WHERE id = $1", orderID).Scan(&qrCode)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	return qrCode, nil
}
