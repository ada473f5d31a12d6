package models

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LocalIDPrefix marks line items that were created offline and have not yet
// been assigned a server-side product identity.
const LocalIDPrefix = "local-"

// CartLineItem is one product line in a cart. ProductID is the single
// canonical identity; producers that populate a legacy "_id" field instead
// are normalized at the boundary via LineItemInput.Normalize.
type CartLineItem struct {
	ProductID string          `json:"productId"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
	ImageURL  string          `json:"image,omitempty"`
	ServiceID string          `json:"serviceId,omitempty"`
	TypeOf    string          `json:"typeOf,omitempty"`
}

// LineTotal returns unit price times quantity.
func (i CartLineItem) LineTotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// IsLocal reports whether the item still carries a client-generated
// placeholder key rather than a server product identity.
func (i CartLineItem) IsLocal() bool {
	return strings.HasPrefix(i.ProductID, LocalIDPrefix)
}

// LineItemInput is the wire shape accepted from producers. Upstream catalogs
// are inconsistent about which identifier field they populate, so both are
// carried here and collapsed into ProductID during normalization.
type LineItemInput struct {
	ID        string          `json:"_id,omitempty"`
	ProductID string          `json:"productId,omitempty"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
	ImageURL  string          `json:"image,omitempty"`
	ServiceID string          `json:"serviceId,omitempty"`
	TypeOf    string          `json:"typeOf,omitempty"`
}

// Normalize produces a canonical line item. ProductID wins when both
// identifier fields are set; an item with neither gets a local placeholder
// key so it stays matchable until the server assigns a real identity.
func (in LineItemInput) Normalize() CartLineItem {
	id := in.ProductID
	if id == "" {
		id = in.ID
	}
	if id == "" {
		id = LocalIDPrefix + uuid.New().String()
	}

	qty := in.Quantity
	if qty < 1 {
		qty = 1
	}

	return CartLineItem{
		ProductID: id,
		Name:      in.Name,
		UnitPrice: in.Price,
		Quantity:  qty,
		ImageURL:  in.ImageURL,
		ServiceID: in.ServiceID,
		TypeOf:    in.TypeOf,
	}
}

// Cart is an ordered collection of line items plus the derived quantity
// total. Order is display-only. QuantityTotal is always recomputed from the
// items, never adjusted in place.
type Cart struct {
	Items         []CartLineItem `json:"items"`
	QuantityTotal int            `json:"quantityTotal"`
}

func EmptyCart() Cart {
	return Cart{Items: []CartLineItem{}}
}

// Recount recomputes QuantityTotal as the sum of all item quantities.
func (c *Cart) Recount() {
	total := 0
	for _, item := range c.Items {
		total += item.Quantity
	}
	c.QuantityTotal = total
}

// Find returns the index of the item with the given product identity,
// or -1 when absent.
func (c Cart) Find(productID string) int {
	for i, item := range c.Items {
		if item.ProductID == productID {
			return i
		}
	}
	return -1
}

// Clone returns a deep copy so callers can hold a snapshot while the
// original keeps mutating.
func (c Cart) Clone() Cart {
	items := make([]CartLineItem, len(c.Items))
	copy(items, c.Items)
	return Cart{Items: items, QuantityTotal: c.QuantityTotal}
}

// NormalizeItems maps a batch of wire items into canonical line items,
// collapsing duplicates by summing quantities. Used when adopting a cart
// from the gateway or from stored state.
func NormalizeItems(inputs []LineItemInput) []CartLineItem {
	items := make([]CartLineItem, 0, len(inputs))
	index := make(map[string]int, len(inputs))

	for _, in := range inputs {
		item := in.Normalize()
		if at, ok := index[item.ProductID]; ok {
			items[at].Quantity += item.Quantity
			continue
		}
		index[item.ProductID] = len(items)
		items = append(items, item)
	}
	return items
}
