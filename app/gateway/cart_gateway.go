// Package gateway holds the HTTP clients for the remote marketplace API:
// the cart endpoints, the order endpoint, and the OTP auth endpoints.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"time"

	"github.com/AhmedZafar5533/marbo-go/app/models"
	"go.uber.org/zap"
)

// ErrNotFound signals the session has no server-side cart. Callers treat it
// as an empty cart, not a failure.
var ErrNotFound = errors.New("cart not found")

// SemanticError is a well-formed 200 response whose body carries
// success=false. The server-supplied message is shown to the user verbatim.
type SemanticError struct {
	Message string
}

func (e *SemanticError) Error() string {
	if e.Message == "" {
		return "request rejected by server"
	}
	return e.Message
}

// CartGateway is the remote cart service consumed by the reconciliation
// engine. All operations require an authenticated session; credentials ride
// on the shared cookie jar.
type CartGateway interface {
	Get(ctx context.Context) (models.Cart, error)
	Add(ctx context.Context, item models.CartLineItem) (models.CartLineItem, error)
	Remove(ctx context.Context, productID string) error
	UpdateQuantity(ctx context.Context, productID string, quantity int) (*models.CartLineItem, error)
	Clear(ctx context.Context) error
	Sync(ctx context.Context, items []models.CartLineItem) (models.Cart, error)
}

type cartEnvelope struct {
	Success   bool                   `json:"success"`
	Message   string                 `json:"message"`
	CartItems []models.LineItemInput `json:"cartItems"`
	CartItem  *models.LineItemInput  `json:"cartItem"`
	Item      *models.LineItemInput  `json:"item"`
}

type httpCartGateway struct {
	baseURL string
	client  *http.Client
	logger  *zap.Logger
}

// NewCartGateway builds the HTTP cart client. The jar carries the session
// cookie issued by the auth endpoints.
func NewCartGateway(baseURL string, logger *zap.Logger) CartGateway {
	jar, _ := cookiejar.New(nil)
	return &httpCartGateway{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 10 * time.Second, Jar: jar},
		logger:  logger,
	}
}

// NewCartGatewayWithClient is used by callers that share one HTTP client
// (and cookie jar) across gateways.
func NewCartGatewayWithClient(baseURL string, client *http.Client, logger *zap.Logger) CartGateway {
	return &httpCartGateway{baseURL: baseURL, client: client, logger: logger}
}

func (g *httpCartGateway) doRequest(ctx context.Context, method, path string, payload any) (*cartEnvelope, error) {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, g.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request to %s failed: %w", path, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response from %s: %w", path, err)
	}

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		g.logger.Warn("marbo API returned non-2xx status",
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
		)
		return nil, fmt.Errorf("marbo API returned status %d on %s", resp.StatusCode, path)
	}

	var envelope cartEnvelope
	if err := json.Unmarshal(respBody, &envelope); err != nil {
		return nil, fmt.Errorf("failed to decode response from %s: %w", path, err)
	}
	if !envelope.Success {
		return nil, &SemanticError{Message: envelope.Message}
	}
	return &envelope, nil
}

func (g *httpCartGateway) Get(ctx context.Context) (models.Cart, error) {
	envelope, err := g.doRequest(ctx, http.MethodGet, "/cart/get", nil)
	if err != nil {
		return models.Cart{}, err
	}

	cart := models.Cart{Items: models.NormalizeItems(envelope.CartItems)}
	cart.Recount()
	return cart, nil
}

func (g *httpCartGateway) Add(ctx context.Context, item models.CartLineItem) (models.CartLineItem, error) {
	envelope, err := g.doRequest(ctx, http.MethodPost, "/cart/add", map[string]any{
		"product": item,
	})
	if err != nil {
		return models.CartLineItem{}, err
	}

	// The server decides whether the add collapsed into an existing line;
	// its returned item is authoritative.
	returned := envelope.CartItem
	if returned == nil {
		returned = envelope.Item
	}
	if returned == nil {
		return models.CartLineItem{}, fmt.Errorf("cart API add response missing cart item")
	}
	return returned.Normalize(), nil
}

func (g *httpCartGateway) Remove(ctx context.Context, productID string) error {
	_, err := g.doRequest(ctx, http.MethodPost, "/cart/remove", map[string]any{
		"productId": productID,
	})
	return err
}

func (g *httpCartGateway) UpdateQuantity(ctx context.Context, productID string, quantity int) (*models.CartLineItem, error) {
	if quantity <= 0 {
		// The server treats quantity as strictly positive; the engine
		// translates zero into a remove before ever reaching here.
		return nil, fmt.Errorf("quantity must be positive, got %d", quantity)
	}

	envelope, err := g.doRequest(ctx, http.MethodPost, "/cart/update", map[string]any{
		"productId": productID,
		"quantity":  quantity,
	})
	if err != nil {
		return nil, err
	}

	returned := envelope.CartItem
	if returned == nil {
		returned = envelope.Item
	}
	if returned == nil {
		return nil, nil
	}
	item := returned.Normalize()
	return &item, nil
}

func (g *httpCartGateway) Clear(ctx context.Context) error {
	_, err := g.doRequest(ctx, http.MethodPost, "/cart/clear", nil)
	return err
}

func (g *httpCartGateway) Sync(ctx context.Context, items []models.CartLineItem) (models.Cart, error) {
	envelope, err := g.doRequest(ctx, http.MethodPost, "/cart/sync", map[string]any{
		"cartItems": items,
	})
	if err != nil {
		return models.Cart{}, err
	}

	cart := models.Cart{Items: models.NormalizeItems(envelope.CartItems)}
	cart.Recount()
	return cart, nil
}
