// Package catalog fetches products from the product service over HTTP.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/drstein77/plantcart/internal/models"
	"go.uber.org/zap"
)

// ErrUnavailable wraps transport failures and non-2xx answers.
var ErrUnavailable = errors.New("product source unavailable")

// StatusError carries a non-2xx status returned by the product service.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("product service returned status %d", e.StatusCode)
}

func (e *StatusError) Unwrap() error {
	return ErrUnavailable
}

type Log interface {
	Debug(string, ...zap.Field)
	Error(string, ...zap.Field)
}

// Client reads products from GET {base}/product?ids=...
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

// GetProducts returns the products for ids in response order. A response of
// the wrong shape returns an empty list and no error.
func (c *Client) GetProducts(ctx context.Context, ids []string) ([]models.Product, error) {
	escaped := make([]string, len(ids))
	for i, id := range ids {
		escaped[i] = url.QueryEscape(id)
	}
	endpoint := c.baseURL + "/product?ids=" + strings.Join(escaped, ",")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build product request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Error("Product request failed", zap.String("url", endpoint), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.log.Error("Product service rejected request", zap.String("url", endpoint), zap.Int("status", resp.StatusCode))
		return nil, &StatusError{StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", ErrUnavailable, err)
	}

	products, err := models.DecodeProducts(body)
	if err != nil {
		c.log.Error("Product response is not JSON", zap.Error(err))
		return nil, fmt.Errorf("decode products: %w", err)
	}

	c.log.Debug("Products fetched", zap.Int("count", len(products)))
	return products, nil
}
