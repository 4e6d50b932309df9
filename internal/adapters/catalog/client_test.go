package catalog_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"hotelbook/internal/adapters/catalog"
)

func TestClient_FetchItems_RetriesThenSuccess(t *testing.T) {
	var hits int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch atomic.AddInt32(&hits, 1) {
		case 1, 2:
			// two transient failures
			w.WriteHeader(500)
		default:
			w.WriteHeader(200)
			_ = json.NewEncoder(w).Encode([]map[string]any{
				{"id": 1.0, "title": "Sample", "price": 29.9},
				{"id": 2.0, "title": "Other", "price": 10.0},
			})
		}
	}))
	defer ts.Close()

	cl := catalog.New(ts.URL, 100) // high RPS for tests
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	got, err := cl.FetchItems(ctx, 1)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("limit not applied: %d items", len(got))
	}
	if title, _ := got[0]["title"].(string); title != "Sample" {
		t.Fatalf("unexpected payload: %+v", got[0])
	}
	if atomic.LoadInt32(&hits) < 3 {
		t.Fatalf("expected at least 3 calls due to retries, got %d", hits)
	}
}

func TestClient_FetchItems_404(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	defer ts.Close()

	cl := catalog.New(ts.URL, 100)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	_, err := cl.FetchItems(ctx, 6)
	if !errors.Is(err, catalog.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
