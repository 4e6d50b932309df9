package redisad_test

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"

	redisad "hotelbook/internal/adapters/redis"
	"hotelbook/internal/domain"
)

func TestCacheRoundTrip(t *testing.T) {
	mr := miniredis.RunT(t)
	c := redisad.New(mr.Addr(), "", 0)
	ctx := context.Background()

	var missed domain.Hotel
	ok, err := c.Get(ctx, "hotel:1", &missed)
	if err != nil || ok {
		t.Fatalf("expected clean miss, got ok=%v err=%v", ok, err)
	}

	h := domain.Hotel{ID: "1", Name: "Ocean View Hotel", Location: "Cape Town, South Africa", Rating: 4.8}
	if err := c.Set(ctx, "hotel:1", h, 60); err != nil {
		t.Fatalf("set: %v", err)
	}

	var got domain.Hotel
	ok, err = c.Get(ctx, "hotel:1", &got)
	if err != nil || !ok {
		t.Fatalf("expected hit, got ok=%v err=%v", ok, err)
	}
	if got.Name != h.Name || got.Location != h.Location {
		t.Fatalf("unexpected cached hotel: %+v", got)
	}

	if err := c.Del(ctx, "hotel:1"); err != nil {
		t.Fatalf("del: %v", err)
	}
	if ok, _ := c.Get(ctx, "hotel:1", &got); ok {
		t.Fatal("expected miss after delete")
	}
}
