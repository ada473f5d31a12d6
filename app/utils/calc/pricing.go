package calc

import (
	"time"

	"github.com/AhmedZafar5533/marbo-go/app/models"
	"github.com/shopspring/decimal"
)

// TaxRate is the flat storefront tax rate (8.5%).
var TaxRate = decimal.NewFromFloat(0.085)

// ShippingCost is flat free shipping. There is no shipping-cost model.
var ShippingCost = decimal.Zero

// Summarize derives the order summary from a cart. Pure: the cart is never
// mutated and equal carts always produce equal figures.
func Summarize(cart models.Cart) models.OrderSummary {
	itemCount := 0
	subtotal := decimal.Zero

	for _, item := range cart.Items {
		itemCount += item.Quantity
		subtotal = subtotal.Add(item.LineTotal())
	}

	tax := subtotal.Mul(TaxRate)

	return models.OrderSummary{
		ItemCount: itemCount,
		Subtotal:  subtotal,
		Tax:       tax,
		TaxRate:   TaxRate,
		Shipping:  ShippingCost,
		Total:     subtotal.Add(tax).Add(ShippingCost),
	}
}

// NewCheckoutSnapshot freezes a cart into an immutable checkout projection
// with per-line totals and the derived summary.
func NewCheckoutSnapshot(cart models.Cart) models.CheckoutSnapshot {
	items := make([]models.SnapshotItem, 0, len(cart.Items))
	for _, item := range cart.Items {
		items = append(items, models.SnapshotItem{
			ProductID:  item.ProductID,
			Name:       item.Name,
			UnitPrice:  item.UnitPrice,
			Quantity:   item.Quantity,
			TotalPrice: item.LineTotal(),
		})
	}

	return models.CheckoutSnapshot{
		Items:   items,
		Summary: Summarize(cart),
		TakenAt: time.Now(),
	}
}
