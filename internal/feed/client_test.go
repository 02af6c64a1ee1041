package feed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/purinorder/purinorder/internal/config"
)

func TestClientFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"products":[{"id":1,"name":"Áo thun","price":150000,"master":"xuongA","variants":[{"name":"Đen / M","price":150000}]}]}`))
	}))
	defer srv.Close()

	c := NewClient(config.FeedConfig{URL: srv.URL, TimeoutSeconds: 5})
	products, err := c.Fetch(context.Background())
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(products) != 1 {
		t.Fatalf("expected 1 product, got %d", len(products))
	}
	p := products[0]
	if p.Name != "Áo thun" || p.Master != "xuongA" {
		t.Fatalf("unexpected product: %+v", p)
	}
	if len(p.Variants) != 1 || p.Variants[0].Name != "Đen / M" {
		t.Fatalf("unexpected variants: %+v", p.Variants)
	}
}

func TestClientFetchBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient(config.FeedConfig{URL: srv.URL, TimeoutSeconds: 5})
	if _, err := c.Fetch(context.Background()); err == nil {
		t.Fatal("expected error on non-200 status")
	}
}

func TestClientNotConfigured(t *testing.T) {
	c := NewClient(config.FeedConfig{})
	if _, err := c.Fetch(context.Background()); err != ErrFeedNotConfigured {
		t.Fatalf("expected ErrFeedNotConfigured, got %v", err)
	}
	if err := c.Push(context.Background(), nil); err != ErrFeedNotConfigured {
		t.Fatalf("expected ErrFeedNotConfigured, got %v", err)
	}
}
