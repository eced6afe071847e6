// Package orders submits orders to the order service over HTTP.
package orders

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

// ErrRejected wraps transport failures and non-2xx answers.
var ErrRejected = errors.New("order not accepted")

// StatusError carries a non-2xx status returned by the order service.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("order service returned status %d", e.StatusCode)
}

func (e *StatusError) Unwrap() error {
	return ErrRejected
}

type Log interface {
	Info(string, ...zap.Field)
	Warn(string, ...zap.Field)
	Error(string, ...zap.Field)
}

// Client posts orders to POST {base}/orders.
type Client struct {
	baseURL string
	http    *http.Client
	log     Log
}

func NewClient(baseURL string, httpClient *http.Client, log Log) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
		log:     log,
	}
}

// Submit posts order as JSON. idempotencyKey is sent as Idempotency-Key. The
// returned confirmation is the raw response body, nil when the service
// answers 2xx without a JSON body.
func (c *Client) Submit(ctx context.Context, idempotencyKey string, order any) (json.RawMessage, error) {
	payload, err := json.Marshal(order)
	if err != nil {
		return nil, fmt.Errorf("encode order: %w", err)
	}

	endpoint := c.baseURL + "/orders"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build order request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if idempotencyKey != "" {
		req.Header.Set("Idempotency-Key", idempotencyKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Error("Order request failed", zap.String("url", endpoint), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrRejected, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", ErrRejected, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.log.Error("Order service rejected order",
			zap.Int("status", resp.StatusCode),
			zap.String("idempotency_key", idempotencyKey),
		)
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		c.log.Info("Order accepted without confirmation body", zap.Int("status", resp.StatusCode))
		return nil, nil
	}
	if !json.Valid(body) {
		c.log.Warn("Order confirmation is not JSON, ignoring it", zap.Int("status", resp.StatusCode))
		return nil, nil
	}

	c.log.Info("Order accepted", zap.Int("status", resp.StatusCode), zap.String("idempotency_key", idempotencyKey))
	return json.RawMessage(body), nil
}
