// Package pricing derives order totals from item snapshots and discounts.
// Nothing here touches storage; callers re-run Apply before every write.
package pricing

import (
	"fmt"

	"restobar/order-svc/internal/domain"

	"github.com/shopspring/decimal"
)

var pwdRate = decimal.NewFromFloat(0.20)

type Totals struct {
	Gross         decimal.Decimal `json:"gross"`
	DiscountTotal decimal.Decimal `json:"discount_total"`
	Net           decimal.Decimal `json:"net"`
}

func Subtotal(price decimal.Decimal, quantity int) decimal.Decimal {
	return price.Mul(decimal.NewFromInt(int64(quantity)))
}

func Gross(items []domain.OrderItem) decimal.Decimal {
	gross := decimal.Zero
	for _, item := range items {
		gross = gross.Add(Subtotal(item.Price, item.Quantity))
	}
	return gross
}

func ComputeTotals(items []domain.OrderItem, discounts []domain.Discount) Totals {
	gross := Gross(items)

	discountTotal := decimal.Zero
	for _, d := range discounts {
		discountTotal = discountTotal.Add(d.Amount)
	}

	net := gross.Sub(discountTotal)
	if net.IsNegative() {
		net = decimal.Zero
	}

	return Totals{Gross: gross, DiscountTotal: discountTotal, Net: net}
}

// Apply overwrites every derived money field on the order.
func Apply(order *domain.Order) Totals {
	for i := range order.Items {
		order.Items[i].Subtotal = Subtotal(order.Items[i].Price, order.Items[i].Quantity)
	}
	totals := ComputeTotals(order.Items, order.Discounts)
	order.GrossTotal = totals.Gross
	order.DiscountTotal = totals.DiscountTotal
	order.NetTotal = totals.Net
	return totals
}

func PWDAmount(gross decimal.Decimal) decimal.Decimal {
	return gross.Mul(pwdRate).Round(2)
}

func PWDDiscount(gross decimal.Decimal) domain.Discount {
	return domain.Discount{
		Kind:        domain.DiscountPWD,
		Amount:      PWDAmount(gross),
		Description: "PWD 20% discount",
	}
}

func VoucherDiscount(voucher *domain.Voucher) domain.Discount {
	return domain.Discount{
		Kind:        domain.DiscountVoucher,
		VoucherID:   voucher.ID,
		Amount:      voucher.Discount,
		Description: fmt.Sprintf("Voucher %s", voucher.Code),
	}
}

// Snapshot freezes the available cart lines into order items.
func Snapshot(lines []domain.CartLine) []domain.OrderItem {
	items := make([]domain.OrderItem, 0, len(lines))
	for _, line := range lines {
		if !line.Available || line.Quantity < 1 {
			continue
		}
		items = append(items, domain.OrderItem{
			ProductID: line.ProductID,
			Name:      line.Name,
			Price:     line.Price,
			Quantity:  line.Quantity,
			Subtotal:  Subtotal(line.Price, line.Quantity),
		})
	}
	return items
}
