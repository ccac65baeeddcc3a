package service

import (
	"context"
	"errors"

	"restobar/order-svc/internal/domain"
	"restobar/order-svc/internal/pricing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

type CartService struct {
	carts    CartRepository
	products ProductRepository
	logger   zerolog.Logger
}

func NewCartService(carts CartRepository, products ProductRepository, logger zerolog.Logger) *CartService {
	return &CartService{carts: carts, products: products, logger: logger}
}

// Add merges one unit of the product into the cart. Unknown or unavailable
// products are logged and ignored so the cart is never corrupted.
func (s *CartService) Add(ctx context.Context, userID, productID int) error {
	product, err := s.products.GetProduct(ctx, productID)
	if errors.Is(err, domain.ErrProductNotFound) {
		s.logger.Warn().Int("user_id", userID).Int("product_id", productID).Msg("add to cart ignored: unknown product")
		return nil
	}
	if err != nil {
		return err
	}
	if product.Status != domain.ProductAvailable {
		s.logger.Warn().Int("user_id", userID).Int("product_id", productID).Msg("add to cart ignored: product unavailable")
		return nil
	}
	return s.carts.AddCartItem(ctx, userID, productID)
}

func (s *CartService) Increase(ctx context.Context, userID, productID int) error {
	return s.carts.IncreaseCartItem(ctx, userID, productID)
}

func (s *CartService) Decrease(ctx context.Context, userID, productID int) error {
	return s.carts.DecreaseCartItem(ctx, userID, productID)
}

func (s *CartService) Clear(ctx context.Context, userID int) error {
	return s.carts.ClearCart(ctx, userID)
}

func (s *CartService) Items(ctx context.Context, userID int) (*domain.Cart, error) {
	lines, err := s.carts.ListCartLines(ctx, userID)
	if err != nil {
		return nil, err
	}

	gross := decimal.Zero
	for _, line := range lines {
		if line.Available {
			gross = gross.Add(pricing.Subtotal(line.Price, line.Quantity))
		}
	}
	if lines == nil {
		lines = []domain.CartLine{}
	}
	return &domain.Cart{UserID: userID, Lines: lines, Gross: gross}, nil
}
