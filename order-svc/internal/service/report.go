package service

import (
	"context"
	"encoding/csv"
	"io"
	"strconv"
	"strings"
	"time"

	"restobar/order-svc/internal/domain"
)

var reportHeader = []string{
	"order_id", "created_at", "customer", "items", "gross_total", "discount_total", "net_total",
	"payment_method", "reference_number",
}

// ExportCompleted writes completed orders created within [from, to] as CSV.
func (s *OrderService) ExportCompleted(ctx context.Context, from, to time.Time, w io.Writer) error {
	if to.Before(from) {
		return domain.Validationf("report end date is before start date")
	}

	orders, err := s.orders.ListCompletedOrders(ctx, from, to)
	if err != nil {
		return err
	}

	out := csv.NewWriter(w)
	if err := out.Write(reportHeader); err != nil {
		return err
	}
	for _, order := range orders {
		items := make([]string, 0, len(order.Items))
		for _, item := range order.Items {
			items = append(items, item.Name+" x"+strconv.Itoa(item.Quantity))
		}
		customer := order.FullName
		if customer == "" {
			customer = order.CustomerEmail
		}
		record := []string{
			strconv.Itoa(order.ID),
			order.CreatedAt.Format(time.RFC3339),
			customer,
			strings.Join(items, "; "),
			order.GrossTotal.StringFixed(2),
			order.DiscountTotal.StringFixed(2),
			order.NetTotal.StringFixed(2),
			order.Payment.Method,
			order.Payment.ReferenceNumber,
		}
		if err := out.Write(record); err != nil {
			return err
		}
	}
	out.Flush()
	return out.Error()
}
