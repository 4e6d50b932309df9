package app_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"hotelbook/internal/app"
	"hotelbook/internal/domain"
)

func feedItem(id float64, title string, price float64) map[string]any {
	return map[string]any{
		"id":          id,
		"title":       title,
		"price":       price,
		"image":       "https://img.example/p.jpg",
		"description": "A product",
	}
}

func TestDeals_MapsFeedItems(t *testing.T) {
	feed := &fakeFeed{items: []map[string]any{
		feedItem(1, "Fjallraven Foldsack No 1 Backpack Fits 15 Laptops", 109.95),
		feedItem(2, "Mens Casual T-Shirt", 22.3),
	}}
	svc := app.NewDealsService(feed, &fakeCache{}, time.Minute, 6)

	out := svc.Deals(context.Background())
	if len(out) != 2 {
		t.Fatalf("expected 2 deals, got %d", len(out))
	}

	first := out[0]
	if first.ID != "1" {
		t.Fatalf("id: %s", first.ID)
	}
	// titles longer than 30 chars get an ellipsis
	if first.Name != "Fjallraven Foldsack No 1 Backp..." {
		t.Fatalf("name: %q", first.Name)
	}
	// 109.95 USD * 15 rounded to whole rand
	if !first.Price.Equal(money("1649")) {
		t.Fatalf("price: %s", first.Price)
	}
	// rating derives from id: 4.0 + (1 % 11)/10
	if first.Rating != 4.1 {
		t.Fatalf("rating: %v", first.Rating)
	}
	if first.Location != "Cape Town" || out[1].Location != "Johannesburg" {
		t.Fatalf("city rotation wrong: %s / %s", first.Location, out[1].Location)
	}
	if first.Category != "Recommended" {
		t.Fatalf("category: %s", first.Category)
	}

	if out[1].Name != "Mens Casual T-Shirt" {
		t.Fatalf("short title must not be truncated: %q", out[1].Name)
	}
	if !out[1].Price.Equal(money("335")) { // 22.3 * 15 = 334.5 rounds to 335
		t.Fatalf("price: %s", out[1].Price)
	}
}

func TestDeals_DropsUnusableItems(t *testing.T) {
	feed := &fakeFeed{items: []map[string]any{
		feedItem(1, "Good Item", 10),
		{"title": "No id or price"},
		{"id": float64(3), "price": 5.0}, // no title
	}}
	svc := app.NewDealsService(feed, &fakeCache{}, time.Minute, 6)

	out := svc.Deals(context.Background())
	if len(out) != 1 || out[0].Name != "Good Item" {
		t.Fatalf("expected only the usable item, got %+v", out)
	}
}

func TestDeals_FallbackOnFeedError(t *testing.T) {
	feed := &fakeFeed{err: errors.New("boom")}
	cache := &fakeCache{}
	svc := app.NewDealsService(feed, cache, time.Minute, 6)

	out := svc.Deals(context.Background())
	if len(out) != 3 {
		t.Fatalf("expected 3 fallback deals, got %d", len(out))
	}
	if out[0].Name != "Luxury Beach Resort" || out[1].Name != "Mountain View Lodge" || out[2].Name != "City Central Hotel" {
		t.Fatalf("fallback set wrong: %+v", out)
	}
	// the fallback must never be cached
	if _, cached := cache.store["deals"]; cached {
		t.Fatal("fallback deals were cached")
	}
}

func TestDeals_FallbackOnEmptyFeed(t *testing.T) {
	feed := &fakeFeed{items: []map[string]any{{"junk": true}}}
	svc := app.NewDealsService(feed, &fakeCache{}, time.Minute, 6)

	out := svc.Deals(context.Background())
	if len(out) != 3 || out[0].ID != "101" {
		t.Fatalf("expected fallback set, got %+v", out)
	}
}

func TestDeals_CachesFeedResults(t *testing.T) {
	feed := &fakeFeed{items: []map[string]any{feedItem(7, "Cached Deal", 20)}}
	cache := &fakeCache{}
	svc := app.NewDealsService(feed, cache, time.Minute, 6)

	first := svc.Deals(context.Background())
	if len(first) != 1 {
		t.Fatalf("expected 1 deal, got %d", len(first))
	}

	// break the feed; the cached copy must still serve
	feed.err = errors.New("down")
	second := svc.Deals(context.Background())
	if len(second) != 1 || second[0].Name != "Cached Deal" {
		t.Fatalf("expected cached deal, got %+v", second)
	}
}

var _ domain.CatalogFeed = (*fakeFeed)(nil)
