package orders

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/caffeinecoffee/storefront/internal/config"
	"github.com/caffeinecoffee/storefront/internal/domain"
	"github.com/caffeinecoffee/storefront/pkg/errors"
)

// CreateOrderPath is where orders are posted on the order service
const CreateOrderPath = "/api/orders"

type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
	newKey     func() string
}

// NewClient creates a new order service client
func NewClient(cfg config.OrdersConfig, logger *zap.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
		newKey: func() string { return uuid.NewString() },
	}
}

// CreateOrderResponse is the body returned by the order service
type CreateOrderResponse struct {
	Success     bool   `json:"success"`
	OrderNumber string `json:"orderNumber,omitempty"`
	Error       string `json:"error,omitempty"`
}

// CreateOrder posts order and returns the server-issued order number.
// It sends exactly one request and never retries.
func (c *Client) CreateOrder(ctx context.Context, order domain.Order) (string, error) {
	jsonData, err := json.Marshal(order)
	if err != nil {
		return "", &errors.ErrTransport{Err: fmt.Errorf("failed to marshal order: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+CreateOrderPath, bytes.NewReader(jsonData))
	if err != nil {
		return "", &errors.ErrTransport{Err: fmt.Errorf("failed to create request: %w", err)}
	}

	idempotencyKey := c.newKey()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Idempotency-Key", idempotencyKey)

	c.logger.Debug("Submitting order",
		zap.String("idempotency_key", idempotencyKey),
		zap.Int("items", len(order.Items)),
		zap.Int64("total", order.Total),
	)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &errors.ErrTransport{Err: fmt.Errorf("failed to execute request: %w", err)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &errors.ErrTransport{Err: fmt.Errorf("failed to read response: %w", err)}
	}

	var out CreateOrderResponse
	decodeErr := json.Unmarshal(body, &out)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// the body may still carry a reason
		return "", &errors.ErrOrderRejected{StatusCode: resp.StatusCode, Reason: out.Error}
	}
	if decodeErr != nil {
		return "", &errors.ErrTransport{Err: fmt.Errorf("failed to unmarshal response: %w", decodeErr)}
	}
	if !out.Success {
		return "", &errors.ErrOrderRejected{StatusCode: resp.StatusCode, Reason: out.Error}
	}
	if out.OrderNumber == "" {
		return "", &errors.ErrTransport{Err: fmt.Errorf("response has no orderNumber")}
	}

	return out.OrderNumber, nil
}
