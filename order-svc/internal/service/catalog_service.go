package service

import (
	"context"
	"strings"

	"restobar/order-svc/internal/domain"
)

type ProductService struct {
	repo ProductRepository
}

func NewProductService(repo ProductRepository) *ProductService {
	return &ProductService{repo: repo}
}

func validateProduct(product *domain.Product) error {
	product.Name = strings.TrimSpace(product.Name)
	if product.Name == "" {
		return domain.Validationf("product name is required")
	}
	if !product.Price.IsPositive() {
		return domain.Validationf("product price must be greater than zero")
	}
	if !product.Category.Valid() {
		return domain.Validationf("unknown category %q", product.Category)
	}
	switch product.Status {
	case "":
		product.Status = domain.ProductAvailable
	case domain.ProductAvailable, domain.ProductUnavailable:
	default:
		return domain.Validationf("unknown product status %q", product.Status)
	}
	return nil
}

func (s *ProductService) Create(ctx context.Context, product *domain.Product) error {
	if err := validateProduct(product); err != nil {
		return err
	}
	return s.repo.CreateProduct(ctx, product)
}

func (s *ProductService) List(ctx context.Context, category domain.Category) ([]domain.Product, error) {
	if category != "" && !category.Valid() {
		return nil, domain.Validationf("unknown category %q", category)
	}
	return s.repo.ListProducts(ctx, category)
}

func (s *ProductService) Get(ctx context.Context, id int) (*domain.Product, error) {
	return s.repo.GetProduct(ctx, id)
}

func (s *ProductService) Update(ctx context.Context, product *domain.Product) error {
	if err := validateProduct(product); err != nil {
		return err
	}
	return s.repo.UpdateProduct(ctx, product)
}

func (s *ProductService) Delete(ctx context.Context, id int) (int64, error) {
	return s.repo.DeleteProduct(ctx, id)
}

func (s *ProductService) UpdateImage(ctx context.Context, id int, imageURL string) error {
	return s.repo.UpdateProductImage(ctx, id, imageURL)
}

type TableService struct {
	repo TableRepository
}

func NewTableService(repo TableRepository) *TableService {
	return &TableService{repo: repo}
}

func validateTable(table *domain.Table) error {
	table.Name = strings.TrimSpace(table.Name)
	if table.Name == "" {
		return domain.Validationf("table name is required")
	}
	if table.Pax < 1 {
		return domain.Validationf("table pax must be at least 1")
	}
	if table.Price.IsNegative() || table.ReservationFee.IsNegative() {
		return domain.Validationf("table price and reservation fee cannot be negative")
	}
	return nil
}

func (s *TableService) Create(ctx context.Context, table *domain.Table) error {
	if err := validateTable(table); err != nil {
		return err
	}
	return s.repo.CreateTable(ctx, table)
}

func (s *TableService) List(ctx context.Context) ([]domain.Table, error) {
	return s.repo.ListTables(ctx)
}

func (s *TableService) Get(ctx context.Context, id int) (*domain.Table, error) {
	return s.repo.GetTable(ctx, id)
}

func (s *TableService) Update(ctx context.Context, table *domain.Table) error {
	if err := validateTable(table); err != nil {
		return err
	}
	return s.repo.UpdateTable(ctx, table)
}

func (s *TableService) Delete(ctx context.Context, id int) (int64, error) {
	return s.repo.DeleteTable(ctx, id)
}

func (s *TableService) UpdateImage(ctx context.Context, id int, imageURL string) error {
	return s.repo.UpdateTableImage(ctx, id, imageURL)
}
