package app

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"hotelbook/internal/domain"
)

// SeedService populates the hotel catalog: a fixed base set plus whatever
// the external feed yields, reshaped by the same mapper the deals surface
// uses.
type SeedService struct {
	feed  domain.CatalogFeed
	repo  domain.HotelRepository
	cache domain.Cache
}

func NewSeedService(f domain.CatalogFeed, r domain.HotelRepository, c domain.Cache) *SeedService {
	return &SeedService{feed: f, repo: r, cache: c}
}

// FetchHotels pulls up to count feed items and maps them. A dead feed is
// not fatal to seeding; the caller still has the base set.
func (s *SeedService) FetchHotels(ctx context.Context, count int) ([]domain.Hotel, error) {
	items, err := s.feed.FetchItems(ctx, count)
	if err != nil {
		return nil, fmt.Errorf("fetch catalog feed: %w", err)
	}
	return mapFeedHotels(items), nil
}

// SeedHotel upserts one hotel and evicts its stale cache entries.
func (s *SeedService) SeedHotel(ctx context.Context, h domain.Hotel) error {
	if err := s.repo.UpsertHotel(ctx, h); err != nil {
		return err
	}
	if s.cache != nil {
		_ = s.cache.Del(ctx, "hotel:"+h.ID)
	}
	return nil
}

// BaseHotels is the fixed starter catalog the app ships with.
func BaseHotels() []domain.Hotel {
	return []domain.Hotel{
		{
			ID:          "1",
			Name:        "Ocean View Hotel",
			Location:    "Cape Town",
			Price:       decimal.NewFromInt(250),
			Rating:      4.8,
			Description: "Beachfront hotel with panoramic ocean views and a rooftop pool.",
			Image:       "https://images.unsplash.com/photo-1571003123894-1f0594d2b5d9?w=400",
			Amenities:   []string{"WiFi", "Pool", "Spa", "Restaurant"},
			Category:    "Popular",
		},
		{
			ID:          "2",
			Name:        "Mountain Retreat",
			Location:    "Drakensberg",
			Price:       decimal.NewFromInt(180),
			Rating:      4.6,
			Description: "Quiet lodge at the foot of the mountains with guided hikes.",
			Image:       "https://images.unsplash.com/photo-1549294413-26f195200c16?w=400",
			Amenities:   []string{"WiFi", "Breakfast", "Parking"},
			Category:    "Popular",
		},
		{
			ID:          "3",
			Name:        "City Center Suites",
			Location:    "Johannesburg",
			Price:       decimal.NewFromInt(120),
			Rating:      4.3,
			Description: "Serviced suites in the business district, minutes from transit.",
			Image:       "https://images.unsplash.com/photo-1564501049412-61c2a3083791?w=400",
			Amenities:   []string{"WiFi", "Gym", "Workspace"},
			Category:    "Popular",
		},
	}
}
