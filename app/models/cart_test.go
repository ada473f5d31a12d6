package models

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizePrefersProductID(t *testing.T) {
	item := LineItemInput{ID: "legacy-1", ProductID: "p1", Name: "A", Quantity: 2}.Normalize()

	assert.Equal(t, "p1", item.ProductID)
	assert.Equal(t, 2, item.Quantity)
}

func TestNormalizePromotesLegacyID(t *testing.T) {
	item := LineItemInput{ID: "legacy-1", Name: "A"}.Normalize()

	assert.Equal(t, "legacy-1", item.ProductID)
	assert.Equal(t, 1, item.Quantity, "missing quantity defaults to 1")
}

func TestNormalizeAssignsLocalPlaceholder(t *testing.T) {
	item := LineItemInput{Name: "offline item"}.Normalize()

	assert.True(t, strings.HasPrefix(item.ProductID, LocalIDPrefix))
	assert.True(t, item.IsLocal())
}

func TestNormalizeItemsCollapsesDuplicates(t *testing.T) {
	items := NormalizeItems([]LineItemInput{
		{ProductID: "p1", Quantity: 2, Price: decimal.RequireFromString("10.00")},
		{ID: "p1", Quantity: 1},
		{ProductID: "p2", Quantity: 1},
	})

	require.Len(t, items, 2)
	assert.Equal(t, "p1", items[0].ProductID)
	assert.Equal(t, 3, items[0].Quantity)
	assert.Equal(t, "p2", items[1].ProductID)
}

func TestRecount(t *testing.T) {
	cart := Cart{Items: []CartLineItem{
		{ProductID: "p1", Quantity: 2},
		{ProductID: "p2", Quantity: 5},
	}}
	cart.Recount()
	assert.Equal(t, 7, cart.QuantityTotal)

	cart.Items = nil
	cart.Recount()
	assert.Equal(t, 0, cart.QuantityTotal)
}

func TestCloneIsIndependent(t *testing.T) {
	cart := Cart{Items: []CartLineItem{{ProductID: "p1", Quantity: 1}}}
	cart.Recount()

	clone := cart.Clone()
	clone.Items[0].Quantity = 9

	assert.Equal(t, 1, cart.Items[0].Quantity)
}
