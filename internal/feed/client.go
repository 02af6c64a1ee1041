package feed

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/purinorder/purinorder/internal/config"
)

// ErrFeedNotConfigured is returned when no feed URL is set.
var ErrFeedNotConfigured = errors.New("feed url not configured")

// Product is one entry of the spreadsheet-backed product feed. Field names
// follow the sheet's JSON export.
type Product struct {
	ID            uint              `json:"id"`
	Name          string            `json:"name"`
	Price         int64             `json:"price"`
	DisplayPrice  string            `json:"display_price"`
	Category      string            `json:"category"`
	Subcategory   string            `json:"subcategory"`
	Status        string            `json:"status"`
	Master        string            `json:"master"`
	OrderDeadline *time.Time        `json:"order_deadline"`
	Images        []string          `json:"images"`
	Variants      []ProductVariant  `json:"variants"`
	OptionGroups  []OptionGroup     `json:"option_groups"`
	VariantImages map[string]int    `json:"variant_images"`
	Stock         *int              `json:"stock"`
	Extra         map[string]string `json:"extra,omitempty"`
}

// ProductVariant is one variant entry of a feed product.
type ProductVariant struct {
	Name  string `json:"name"`
	Price int64  `json:"price"`
	Stock *int   `json:"stock"`
}

// OptionGroup is one option group of a feed product; variant names are the
// concatenation of one option per group.
type OptionGroup struct {
	Name    string   `json:"name"`
	Options []string `json:"options"`
}

type feedResponse struct {
	Products []Product `json:"products"`
}

// Client talks to the script-hosted spreadsheet feed.
type Client struct {
	url        string
	pushURL    string
	httpClient *http.Client
}

// NewClient creates a feed client with the configured timeout.
func NewClient(cfg config.FeedConfig) *Client {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		url:     cfg.URL,
		pushURL: cfg.PushURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Fetch downloads the feed. Network errors and timeouts are ordinary errors;
// callers decide whether they are fatal.
func (c *Client) Fetch(ctx context.Context) ([]Product, error) {
	if c == nil || c.url == "" {
		return nil, ErrFeedNotConfigured
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("feed fetch failed: status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 32<<20))
	if err != nil {
		return nil, err
	}
	var parsed feedResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("feed parse failed: %w", err)
	}
	return parsed.Products, nil
}

// Push uploads product rows back to the sheet backend. Best effort by
// contract; the caller never fails its primary operation on a push error.
func (c *Client) Push(ctx context.Context, products []Product) error {
	if c == nil || c.pushURL == "" {
		return ErrFeedNotConfigured
	}
	payload, err := json.Marshal(feedResponse{Products: products})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.pushURL, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("feed push failed: status %d", resp.StatusCode)
	}
	return nil
}
