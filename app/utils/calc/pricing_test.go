package calc

import (
	"testing"

	"github.com/AhmedZafar5533/marbo-go/app/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cartWith(items ...models.CartLineItem) models.Cart {
	cart := models.Cart{Items: items}
	cart.Recount()
	return cart
}

func TestSummarizeEmptyCart(t *testing.T) {
	summary := Summarize(models.EmptyCart())

	assert.Equal(t, 0, summary.ItemCount)
	assert.True(t, summary.Subtotal.IsZero())
	assert.True(t, summary.Tax.IsZero())
	assert.True(t, summary.Shipping.IsZero())
	assert.True(t, summary.Total.IsZero())
}

func TestSummarizeExactFigures(t *testing.T) {
	cart := cartWith(models.CartLineItem{
		ProductID: "p1",
		Name:      "Item A",
		UnitPrice: decimal.RequireFromString("10.00"),
		Quantity:  3,
	})

	summary := Summarize(cart)

	assert.Equal(t, 3, summary.ItemCount)
	assert.True(t, summary.Subtotal.Equal(decimal.RequireFromString("30.00")), "subtotal %s", summary.Subtotal)
	assert.True(t, summary.Tax.Equal(decimal.RequireFromString("2.55")), "tax %s", summary.Tax)
	assert.True(t, summary.Shipping.IsZero())
	assert.True(t, summary.Total.Equal(decimal.RequireFromString("32.55")), "total %s", summary.Total)
}

func TestSummarizeIsPure(t *testing.T) {
	cart := cartWith(
		models.CartLineItem{ProductID: "p1", UnitPrice: decimal.RequireFromString("19.99"), Quantity: 2},
		models.CartLineItem{ProductID: "p2", UnitPrice: decimal.RequireFromString("5.25"), Quantity: 1},
	)
	before := cart.Clone()

	first := Summarize(cart)
	second := Summarize(cart)

	assert.Equal(t, before, cart, "cart must not be mutated")
	assert.True(t, first.Subtotal.Equal(second.Subtotal))
	assert.True(t, first.Tax.Equal(second.Tax))
	assert.True(t, first.Total.Equal(second.Total))
	assert.Equal(t, first.ItemCount, second.ItemCount)

	expected := decimal.RequireFromString("19.99").Mul(decimal.NewFromInt(2)).
		Add(decimal.RequireFromString("5.25"))
	assert.True(t, first.Subtotal.Equal(expected))
	assert.True(t, first.Tax.Equal(first.Subtotal.Mul(TaxRate)))
	assert.True(t, first.Total.Equal(first.Subtotal.Add(first.Tax)))
}

func TestNewCheckoutSnapshot(t *testing.T) {
	cart := cartWith(
		models.CartLineItem{ProductID: "p1", Name: "A", UnitPrice: decimal.RequireFromString("10.00"), Quantity: 2},
		models.CartLineItem{ProductID: "p2", Name: "B", UnitPrice: decimal.RequireFromString("4.50"), Quantity: 1},
	)

	snapshot := NewCheckoutSnapshot(cart)

	require.Len(t, snapshot.Items, 2)
	assert.True(t, snapshot.Items[0].TotalPrice.Equal(decimal.RequireFromString("20.00")))
	assert.True(t, snapshot.Items[1].TotalPrice.Equal(decimal.RequireFromString("4.50")))
	assert.Equal(t, 3, snapshot.Summary.ItemCount)
	assert.False(t, snapshot.Empty())

	// The snapshot must not alias the live cart.
	cart.Items[0].Quantity = 99
	assert.Equal(t, 2, snapshot.Items[0].Quantity)
}
