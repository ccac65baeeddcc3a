package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"restobar/events"
	"restobar/order-svc/internal/domain"
	"restobar/order-svc/internal/pricing"

	"github.com/rs/zerolog"
)

type PlaceOrderInput struct {
	VoucherCode string         `json:"voucher_code"`
	Note        string         `json:"note"`
	Payment     domain.Payment `json:"payment"`
}

type WalkInItem struct {
	ProductID int `json:"product_id"`
	Quantity  int `json:"quantity"`
}

type WalkInInput struct {
	FullName    string       `json:"full_name"`
	TableNumber string       `json:"table_number"`
	Items       []WalkInItem `json:"items"`
}

var orderEmailKinds = map[domain.OrderStatus]string{
	domain.OrderProcessing:    events.EmailOrderProcessing,
	domain.OrderReadyToPickup: events.EmailOrderReady,
	domain.OrderCompleted:     events.EmailOrderCompleted,
	domain.OrderRejected:      events.EmailOrderRejected,
	domain.OrderCancelled:     events.EmailOrderCancelled,
}

type OrderService struct {
	orders    OrderRepository
	carts     CartRepository
	products  ProductRepository
	discounts DiscountEvaluator
	status    StatusReader
	notifier  Notifier
	qrEncoder QRGenerator
	logger    zerolog.Logger
	now       func() time.Time
}

func NewOrderService(
	orders OrderRepository,
	carts CartRepository,
	products ProductRepository,
	discounts DiscountEvaluator,
	status StatusReader,
	notifier Notifier,
	qr QRGenerator,
	logger zerolog.Logger,
) *OrderService {
	return &OrderService{
		orders:    orders,
		carts:     carts,
		products:  products,
		discounts: discounts,
		status:    status,
		notifier:  notifier,
		qrEncoder: qr,
		logger:    logger,
		now:       time.Now,
	}
}

func (s *OrderService) checkout(ctx context.Context, userID int, voucherCode string) (*Checkout, error) {
	lines, err := s.carts.ListCartLines(ctx, userID)
	if err != nil {
		return nil, err
	}
	items := pricing.Snapshot(lines)
	if len(items) == 0 {
		return nil, domain.ErrEmptyCart
	}

	discounts, err := s.discounts.Evaluate(ctx, userID, pricing.Gross(items), s.now(), voucherCode)
	if err != nil {
		return nil, err
	}

	return &Checkout{
		Items:     items,
		Discounts: discounts,
		Totals:    pricing.ComputeTotals(items, discounts),
	}, nil
}

// Preview prices the current cart without persisting anything.
func (s *OrderService) Preview(ctx context.Context, user domain.CurrentUser, voucherCode string) (*Checkout, error) {
	return s.checkout(ctx, user.ID, voucherCode)
}

func (s *OrderService) PlaceOrder(ctx context.Context, user domain.CurrentUser, input PlaceOrderInput) (*domain.Order, error) {
	payment := input.Payment
	if strings.TrimSpace(payment.Method) == "" || strings.TrimSpace(payment.ReferenceNumber) == "" || payment.ProofOfPayment == "" {
		return nil, domain.ErrMissingPayment
	}

	open, err := s.status.IsOpen(ctx)
	if err != nil {
		return nil, err
	}
	if !open {
		return nil, domain.ErrRestaurantClosed
	}

	checkout, err := s.checkout(ctx, user.ID, input.VoucherCode)
	if err != nil {
		return nil, err
	}

	userID := user.ID
	order := &domain.Order{
		UserID:    &userID,
		Items:     checkout.Items,
		Discounts: checkout.Discounts,
		Status:    domain.OrderPending,
		Payment:   payment,
		Note:      strings.TrimSpace(input.Note),
	}
	pricing.Apply(order)

	err = s.orders.CreateOrder(ctx, order)
	if errors.Is(err, domain.ErrPWDCooldown) {
		// A concurrent checkout used the PWD allowance first.
		s.logger.Info().Int("user_id", userID).Msg("PWD discount dropped at commit time")
		order.Discounts = order.WithoutDiscount(domain.DiscountPWD)
		pricing.Apply(order)
		err = s.orders.CreateOrder(ctx, order)
	}
	if err != nil {
		return nil, err
	}

	s.attachQRCode(ctx, order.ID)

	s.logger.Info().
		Int("order_id", order.ID).
		Int("user_id", userID).
		Str("net_total", order.NetTotal.StringFixed(2)).
		Msg("order placed")

	s.notifier.Notify(ctx, events.Event{
		Type:      events.TypeOrderCreated,
		Realtime:  events.RealtimeNewOrder,
		EmailKind: events.EmailOrderPlaced,
		Recipient: order.CustomerEmail,
		Message:   fmt.Sprintf("Order #%d has been placed.", order.ID),
		Data: events.Payload{
			OrderID: order.ID,
			UserID:  userID,
			Status:  string(order.Status),
			Total:   order.NetTotal.StringFixed(2),
		},
	})

	return order, nil
}

// PlaceWalkInOrder records a waiter-taken order for a guest at a table. It
// skips the customer queue and starts in processing.
func (s *OrderService) PlaceWalkInOrder(ctx context.Context, user domain.CurrentUser, input WalkInInput) (*domain.Order, error) {
	if !user.Is(domain.RoleWaiter, domain.RoleStaff, domain.RoleAdmin) {
		return nil, domain.ErrForbidden
	}

	fullName := strings.TrimSpace(input.FullName)
	tableNumber := strings.TrimSpace(input.TableNumber)
	if fullName == "" || tableNumber == "" {
		return nil, domain.Validationf("full name and table number are required")
	}
	if len(input.Items) == 0 {
		return nil, domain.ErrEmptyCart
	}

	items := make([]domain.OrderItem, 0, len(input.Items))
	for _, incoming := range input.Items {
		if incoming.Quantity < 1 {
			return nil, domain.Validationf("quantity for product %d must be at least 1", incoming.ProductID)
		}
		product, err := s.products.GetProduct(ctx, incoming.ProductID)
		if errors.Is(err, domain.ErrProductNotFound) {
			return nil, domain.Validationf("product %d does not exist", incoming.ProductID)
		}
		if err != nil {
			return nil, err
		}
		if product.Status != domain.ProductAvailable {
			return nil, domain.Validationf("%s is unavailable", product.Name)
		}
		items = append(items, domain.OrderItem{
			ProductID: product.ID,
			Name:      product.Name,
			Price:     product.Price,
			Quantity:  incoming.Quantity,
		})
	}

	order := &domain.Order{
		FullName:    fullName,
		TableNumber: tableNumber,
		Items:       items,
		Status:      domain.OrderProcessing,
		Payment:     domain.Payment{Method: "cash"},
	}
	pricing.Apply(order)

	if err := s.orders.CreateOrder(ctx, order); err != nil {
		return nil, err
	}

	s.notifier.Notify(ctx, events.Event{
		Type:     events.TypeOrderCreated,
		Realtime: events.RealtimeNewOrder,
		Name:     fullName,
		Message:  fmt.Sprintf("Walk-in order #%d for table %s.", order.ID, tableNumber),
		Data: events.Payload{
			OrderID: order.ID,
			Status:  string(order.Status),
			Total:   order.NetTotal.StringFixed(2),
		},
	})

	return order, nil
}

func (s *OrderService) Transition(ctx context.Context, user domain.CurrentUser, orderID int, action domain.OrderAction) (*domain.Order, error) {
	target, ok := action.Target()
	if !ok {
		return nil, domain.ErrInvalidAction
	}

	order, err := s.orders.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if action == domain.ActionCancel {
		if !order.OwnedBy(user.ID) && !user.Is(domain.RoleStaff, domain.RoleAdmin) {
			return nil, domain.ErrForbidden
		}
	} else if !user.Is(domain.RoleStaff, domain.RoleKitchen, domain.RoleAdmin) {
		return nil, domain.ErrForbidden
	}

	from := order.Status
	if !from.CanTransitionTo(target) {
		return nil, fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, from, target)
	}

	updated, err := s.orders.UpdateOrderStatus(ctx, orderID, from, target)
	if err != nil {
		return nil, err
	}
	if !updated {
		return nil, fmt.Errorf("%w: order %d changed concurrently", domain.ErrInvalidTransition, orderID)
	}
	order.Status = target
	order.UpdatedAt = s.now()

	s.logger.Info().
		Int("order_id", orderID).
		Str("from", string(from)).
		Str("to", string(target)).
		Int("actor_id", user.ID).
		Msg("order status changed")

	var userID int
	if order.UserID != nil {
		userID = *order.UserID
	}
	s.notifier.Notify(ctx, events.Event{
		Type:      events.TypeOrderStatusChanged,
		Realtime:  events.RealtimeOrderStatus,
		EmailKind: orderEmailKinds[target],
		Recipient: order.CustomerEmail,
		Name:      order.FullName,
		Message:   fmt.Sprintf("Order #%d is now %s.", orderID, target),
		Data: events.Payload{
			OrderID: orderID,
			UserID:  userID,
			Status:  string(target),
			Total:   order.NetTotal.StringFixed(2),
		},
	})

	return order, nil
}

func (s *OrderService) Get(ctx context.Context, user domain.CurrentUser, orderID int) (*domain.Order, error) {
	order, err := s.orders.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !order.OwnedBy(user.ID) && user.Is(domain.RoleUser) {
		return nil, domain.ErrForbidden
	}
	return order, nil
}

func (s *OrderService) ListForUser(ctx context.Context, userID int) ([]domain.Order, error) {
	return s.orders.ListOrdersByUser(ctx, userID)
}

func (s *OrderService) ListByStatus(ctx context.Context, status domain.OrderStatus) ([]domain.Order, error) {
	return s.orders.ListOrdersByStatus(ctx, status)
}

func (s *OrderService) PendingCount(ctx context.Context) (int, error) {
	return s.orders.CountOrdersByStatus(ctx, domain.OrderPending)
}

func (s *OrderService) attachQRCode(ctx context.Context, orderID int) {
	if s.qrEncoder == nil {
		return
	}
	qr, err := s.qrEncoder.Generate(orderID)
	if err != nil {
		s.logger.Warn().Err(err).Int("order_id", orderID).Msg("failed to generate pickup QR")
		return
	}
	if err := s.orders.SaveQRCode(ctx, orderID, qr); err != nil {
		s.logger.Warn().Err(err).Int("order_id", orderID).Msg("failed to save pickup QR")
	}
}

func (s *OrderService) QRCode(ctx context.Context, user domain.CurrentUser, orderID int) ([]byte, error) {
	if _, err := s.Get(ctx, user, orderID); err != nil {
		return nil, err
	}

	qr, err := s.orders.GetQRCode(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if len(qr) == 0 && s.qrEncoder != nil {
		if regenerated, err := s.qrEncoder.Generate(orderID); err == nil {
			_ = s.orders.SaveQRCode(ctx, orderID, regenerated)
			return regenerated, nil
		}
	}
	return qr, nil
}

func (s *OrderService) QRLink(orderID int) string {
	return fmt.Sprintf("/api/orders/%d/qrcode", orderID)
}
