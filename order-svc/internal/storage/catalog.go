package storage

import (
	"context"
	"database/sql"
	"errors"

	"restobar/order-svc/internal/domain"
)

func (r *PostgresRepository) CreateProduct(ctx context.Context, product *domain.Product) error {
	return r.DB.QueryRowContext(ctx,
		"INSERT INTO products (name, description, price, category, status, image_url) VALUES ($1, $2, $3, $4, $5, $6) RETURNING id, created_at",
		product.Name, product.Description, product.Price, product.Category, product.Status, product.ImageURL,
	).Scan(&product.ID, &product.CreatedAt)
}

func (r *PostgresRepository) ListProducts(ctx context.Context, category domain.Category) ([]domain.Product, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, name, description, price, category, status, COALESCE(image_url, ''), created_at
		FROM products
		WHERE $1 = '' OR category = $1
		ORDER BY category, name`, string(category))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Category, &p.Status, &p.ImageURL, &p.CreatedAt); err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func (r *PostgresRepository) GetProduct(ctx context.Context, id int) (*domain.Product, error) {
	var p domain.Product
	err := r.DB.QueryRowContext(ctx, `
		SELECT id, name, description, price, category, status, COALESCE(image_url, ''), created_at
		FROM products
		WHERE id = $1`, id).
		Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Category, &p.Status, &p.ImageURL, &p.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PostgresRepository) UpdateProduct(ctx context.Context, product *domain.Product) error {
	err := r.DB.QueryRowContext(ctx, `
		UPDATE products
		SET name=$1, description=$2, price=$3, category=$4, status=$5
		WHERE id=$6
		RETURNING COALESCE(image_url, ''), created_at`,
		product.Name, product.Description, product.Price, product.Category, product.Status, product.ID).
		Scan(&product.ImageURL, &product.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrProductNotFound
	}
	return err
}

func (r *PostgresRepository) DeleteProduct(ctx context.Context, id int) (int64, error) {
	result, err := r.DB.ExecContext(ctx, "DELETE FROM products WHERE id=$1", id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func (r *PostgresRepository) UpdateProductImage(ctx context.Context, id int, imageURL string) error {
	ok, err := rowsAffected(r.DB.ExecContext(ctx, "UPDATE products SET image_url=$1 WHERE id=$2", imageURL, id))
	if err == nil && !ok {
		return domain.ErrProductNotFound
	}
	return err
}

func (r *PostgresRepository) CreateTable(ctx context.Context, table *domain.Table) error {
	return r.DB.QueryRowContext(ctx,
		"INSERT INTO dining_tables (name, description, pax, price, reservation_fee, image_url) VALUES ($1, $2, $3, $4, $5, $6) RETURNING id, created_at",
		table.Name, table.Description, table.Pax, table.Price, table.ReservationFee, table.ImageURL,
	).Scan(&table.ID, &table.CreatedAt)
}

func (r *PostgresRepository) ListTables(ctx context.Context) ([]domain.Table, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, name, description, pax, price, reservation_fee, COALESCE(image_url, ''), created_at
		FROM dining_tables
		ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tables []domain.Table
	for rows.Next() {
		var t domain.Table
		if err := rows.Scan(&t.ID, &t.Name, &t.Description, &t.Pax, &t.Price, &t.ReservationFee, &t.ImageURL, &t.CreatedAt); err != nil {
			return nil, err
		}
		tables = append(tables, t)
	}
	return tables, rows.Err()
}

func (r *PostgresRepository) GetTable(ctx context.Context, id int) (*domain.Table, error) {
	var t domain.Table
	err := r.DB.QueryRowContext(ctx, `
		SELECT id, name, description, pax, price, reservation_fee, COALESCE(image_url, ''), created_at
		FROM dining_tables
		WHERE id = $1`, id).
		Scan(&t.ID, &t.Name, &t.Description, &t.Pax, &t.Price, &t.ReservationFee, &t.ImageURL, &t.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrTableNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *PostgresRepository) UpdateTable(ctx context.Context, table *domain.Table) error {
	err := r.DB.QueryRowContext(ctx, `
		UPDATE dining_tables
		SET name=$1, description=$2, pax=$3, price=$4, reservation_fee=$5
		WHERE id=$6
		RETURNING COALESCE(image_url, ''), created_at`,
		table.Name, table.Description, table.Pax, table.Price, table.ReservationFee, table.ID).
		Scan(&table.ImageURL, &table.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrTableNotFound
	}
	return err
}

func (r *PostgresRepository) DeleteTable(ctx context.Context, id int) (int64, error) {
	result, err := r.DB.ExecContext(ctx, "DELETE FROM dining_tables WHERE id=$1", id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func (r *PostgresRepository) UpdateTableImage(ctx context.Context, id int, imageURL string) error {
	ok, err := rowsAffected(r.DB.ExecContext(ctx, "UPDATE dining_tables SET image_url=$1 WHERE id=$2", imageURL, id))
	if err == nil && !ok {
		return domain.ErrTableNotFound
	}
	return err
}
