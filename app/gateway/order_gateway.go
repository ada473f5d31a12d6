package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/AhmedZafar5533/marbo-go/app/models"
	"go.uber.org/zap"
)

// OrderAPI submits finalized orders to the marketplace. Create succeeds only
// on HTTP 201; any other outcome leaves the order unplaced.
type OrderAPI interface {
	Create(ctx context.Context, order models.OrderRequest) error
}

type httpOrderAPI struct {
	baseURL string
	client  *http.Client
	logger  *zap.Logger
}

func NewOrderAPI(baseURL string, client *http.Client, logger *zap.Logger) OrderAPI {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &httpOrderAPI{baseURL: baseURL, client: client, logger: logger}
}

func (g *httpOrderAPI) Create(ctx context.Context, order models.OrderRequest) error {
	data, err := json.Marshal(order)
	if err != nil {
		return fmt.Errorf("failed to encode order: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/orders/add", bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to build order request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return fmt.Errorf("order request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		g.logger.Warn("order API rejected order",
			zap.String("orderCode", order.OrderCode),
			zap.Int("status", resp.StatusCode),
		)
		return fmt.Errorf("order API returned status %d: %s", resp.StatusCode, string(body))
	}
	return nil
}
