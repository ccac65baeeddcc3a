package storage

import (
	"context"

	"restobar/order-svc/internal/domain"
)

// AddCartItem creates the cart row on first use and merges the product
// with a single upsert.
func (r *PostgresRepository) AddCartItem(ctx context.Context, userID, productID int) error {
	if _, err := r.DB.ExecContext(ctx,
		"INSERT INTO carts (user_id) VALUES ($1) ON CONFLICT (user_id) DO NOTHING", userID); err != nil {
		return err
	}
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO cart_items (user_id, product_id, quantity)
		VALUES ($1, $2, 1)
		ON CONFLICT (user_id, product_id) DO UPDATE SET quantity = cart_items.quantity + 1`,
		userID, productID)
	return err
}

func (r *PostgresRepository) IncreaseCartItem(ctx context.Context, userID, productID int) error {
	ok, err := rowsAffected(r.DB.ExecContext(ctx,
		"UPDATE cart_items SET quantity = quantity + 1 WHERE user_id = $1 AND product_id = $2",
		userID, productID))
	if err == nil && !ok {
		return domain.ErrCartItemNotFound
	}
	return err
}

// DecreaseCartItem decrements while above one, otherwise removes the item.
func (r *PostgresRepository) DecreaseCartItem(ctx context.Context, userID, productID int) error {
	ok, err := rowsAffected(r.DB.ExecContext(ctx,
		"UPDATE cart_items SET quantity = quantity - 1 WHERE user_id = $1 AND product_id = $2 AND quantity > 1",
		userID, productID))
	if err != nil || ok {
		return err
	}

	ok, err = rowsAffected(r.DB.ExecContext(ctx,
		"DELETE FROM cart_items WHERE user_id = $1 AND product_id = $2", userID, productID))
	if err == nil && !ok {
		return domain.ErrCartItemNotFound
	}
	return err
}

func (r *PostgresRepository) ClearCart(ctx context.Context, userID int) error {
	_, err := r.DB.ExecContext(ctx, "DELETE FROM cart_items WHERE user_id = $1", userID)
	return err
}

func (r *PostgresRepository) ListCartLines(ctx context.Context, userID int) ([]domain.CartLine, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT ci.product_id, ci.quantity, COALESCE(p.name, ''), COALESCE(p.price, 0),
			COALESCE(p.status = 'available', false)
		FROM cart_items ci
		LEFT JOIN products p ON p.id = ci.product_id
		WHERE ci.user_id = $1
		ORDER BY ci.product_id`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lines []domain.CartLine
	for rows.Next() {
		var line domain.CartLine
		if err := rows.Scan(&line.ProductID, &line.Quantity, &line.Name, &line.Price, &line.Available); err != nil {
			return nil, err
		}
		if line.Name == "" {
			line.Name = "Unavailable item"
		}
		lines = append(lines, line)
	}
	return lines, rows.Err()
}
