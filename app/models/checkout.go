package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderSummary holds the derived totals for a cart snapshot.
type OrderSummary struct {
	ItemCount int             `json:"itemCount"`
	Subtotal  decimal.Decimal `json:"subtotal"`
	Tax       decimal.Decimal `json:"tax"`
	TaxRate   decimal.Decimal `json:"taxRate"`
	Shipping  decimal.Decimal `json:"shipping"`
	Total     decimal.Decimal `json:"totalPrice"`
}

// SnapshotItem is one line of a checkout snapshot with its precomputed
// line total.
type SnapshotItem struct {
	ProductID  string          `json:"productId"`
	Name       string          `json:"name"`
	UnitPrice  decimal.Decimal `json:"price"`
	Quantity   int             `json:"quantity"`
	TotalPrice decimal.Decimal `json:"totalPrice"`
}

// CheckoutSnapshot is an immutable projection of a cart taken when checkout
// begins. Checkout operates on the snapshot, not the live cart, so totals
// cannot drift mid-flow.
type CheckoutSnapshot struct {
	Items   []SnapshotItem `json:"items"`
	Summary OrderSummary   `json:"summary"`
	TakenAt time.Time      `json:"takenAt"`
}

func (s CheckoutSnapshot) Empty() bool {
	return len(s.Items) == 0
}
