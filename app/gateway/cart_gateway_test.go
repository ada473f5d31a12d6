package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/AhmedZafar5533/marbo-go/app/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestCartGatewayGetNormalizesLegacyIdentifiers(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "/cart/get", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":true,"cartItems":[
			{"_id":"legacy-1","name":"Old","price":5,"quantity":2},
			{"productId":"p2","name":"New","price":3.5,"quantity":1}
		]}`))
	}))
	defer server.Close()

	gw := NewCartGateway(server.URL, zap.NewNop())
	cart, err := gw.Get(context.Background())

	require.NoError(t, err)
	require.Len(t, cart.Items, 2)
	assert.Equal(t, "legacy-1", cart.Items[0].ProductID)
	assert.Equal(t, "p2", cart.Items[1].ProductID)
	assert.Equal(t, 3, cart.QuantityTotal)
}

func TestCartGatewayGetNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no cart", http.StatusNotFound)
	}))
	defer server.Close()

	gw := NewCartGateway(server.URL, zap.NewNop())
	_, err := gw.Get(context.Background())

	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCartGatewayAddReturnsServerItem(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/cart/add", r.URL.Path)

		var body struct {
			Product models.CartLineItem `json:"product"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "p1", body.Product.ProductID)

		// Server collapsed the add into an existing line.
		w.Write([]byte(`{"success":true,"message":"added","cartItem":{"productId":"p1","name":"A","price":10,"quantity":4}}`))
	}))
	defer server.Close()

	gw := NewCartGateway(server.URL, zap.NewNop())
	item, err := gw.Add(context.Background(), models.CartLineItem{
		ProductID: "p1",
		Name:      "A",
		UnitPrice: decimal.RequireFromString("10.00"),
		Quantity:  1,
	})

	require.NoError(t, err)
	assert.Equal(t, 4, item.Quantity, "server-returned quantity is authoritative")
}

func TestCartGatewaySemanticRejection(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":false,"message":"item out of stock"}`))
	}))
	defer server.Close()

	gw := NewCartGateway(server.URL, zap.NewNop())
	_, err := gw.Add(context.Background(), models.CartLineItem{ProductID: "p1", Quantity: 1})

	var semantic *SemanticError
	require.ErrorAs(t, err, &semantic)
	assert.Equal(t, "item out of stock", semantic.Message)
}

func TestCartGatewayTransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	gw := NewCartGateway(server.URL, zap.NewNop())
	err := gw.Remove(context.Background(), "p1")

	require.Error(t, err)
	var semantic *SemanticError
	assert.False(t, errors.As(err, &semantic), "non-2xx is a transport failure, not a semantic one")
}

func TestCartGatewayUpdateQuantityRejectsNonPositive(t *testing.T) {
	// Must never reach the network.
	gw := NewCartGateway("http://127.0.0.1:0", zap.NewNop())

	_, err := gw.UpdateQuantity(context.Background(), "p1", 0)
	require.Error(t, err)
}

func TestCartGatewayUpdateQuantityNullItem(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/cart/update", r.URL.Path)
		w.Write([]byte(`{"success":true}`))
	}))
	defer server.Close()

	gw := NewCartGateway(server.URL, zap.NewNop())
	item, err := gw.UpdateQuantity(context.Background(), "p1", 2)

	require.NoError(t, err)
	assert.Nil(t, item)
}

func TestCartGatewaySync(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/cart/sync", r.URL.Path)

		var body struct {
			CartItems []models.CartLineItem `json:"cartItems"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Len(t, body.CartItems, 2)

		w.Write([]byte(`{"success":true,"cartItems":[
			{"productId":"x","quantity":1},
			{"productId":"y","quantity":1},
			{"productId":"z","quantity":2}
		]}`))
	}))
	defer server.Close()

	gw := NewCartGateway(server.URL, zap.NewNop())
	cart, err := gw.Sync(context.Background(), []models.CartLineItem{
		{ProductID: "x", Quantity: 1},
		{ProductID: "y", Quantity: 1},
	})

	require.NoError(t, err)
	require.Len(t, cart.Items, 3)
	assert.Equal(t, 4, cart.QuantityTotal)
}
