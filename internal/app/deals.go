package app

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"hotelbook/internal/domain"
)

// DealsService backs the recommendation surface: a read-only third-party
// feed reshaped into hotel records. The feed is best-effort; any failure or
// an unusable payload yields the fixed local fallback list instead of an
// empty screen.
type DealsService struct {
	feed     domain.CatalogFeed
	cache    domain.Cache
	cacheTTL time.Duration
	count    int
}

func NewDealsService(feed domain.CatalogFeed, c domain.Cache, ttl time.Duration, count int) *DealsService {
	if count <= 0 {
		count = 6
	}
	return &DealsService{feed: feed, cache: c, cacheTTL: ttl, count: count}
}

func (s *DealsService) Deals(ctx context.Context) []domain.Hotel {
	const key = "deals"
	var out []domain.Hotel
	if ok, _ := s.cache.Get(ctx, key, &out); ok && len(out) > 0 {
		return out
	}

	items, err := s.feed.FetchItems(ctx, s.count)
	if err != nil {
		log.Warn().Err(err).Msg("catalog feed failed, serving fallback deals")
		return fallbackDeals()
	}
	out = mapFeedHotels(items)
	if len(out) == 0 {
		log.Warn().Int("items", len(items)).Msg("catalog feed yielded no usable deals, serving fallback")
		return fallbackDeals()
	}

	// the fallback list is never cached; only real feed results are
	_ = s.cache.Set(ctx, key, out, int(s.cacheTTL.Seconds()))
	return out
}

// fallbackDeals is the fixed substitute data set used when the feed is
// unavailable. Returned fresh each call so callers can't share state.
func fallbackDeals() []domain.Hotel {
	return []domain.Hotel{
		{
			ID:          "101",
			Name:        "Luxury Beach Resort",
			Location:    "Cape Town",
			Rating:      4.8,
			Price:       decimal.NewFromInt(450),
			Image:       "https://images.unsplash.com/photo-1566073771259-6a8506099945?w=400",
			Description: "Premium beachfront accommodation",
			Category:    "Recommended",
		},
		{
			ID:          "102",
			Name:        "Mountain View Lodge",
			Location:    "Drakensberg",
			Rating:      4.6,
			Price:       decimal.NewFromInt(320),
			Image:       "https://images.unsplash.com/photo-1586375300773-8384e3e4916f?w=400",
			Description: "Scenic mountain retreat",
			Category:    "Recommended",
		},
		{
			ID:          "103",
			Name:        "City Central Hotel",
			Location:    "Johannesburg",
			Rating:      4.3,
			Price:       decimal.NewFromInt(280),
			Image:       "https://images.unsplash.com/photo-1551882547-ff40c63fe5fa?w=400",
			Description: "Modern hotel in business district",
			Category:    "Recommended",
		},
	}
}
