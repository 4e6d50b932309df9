package app

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"hotelbook/internal/domain"
)

// QueryService serves the read side: hotel catalog, review lists, and the
// profile's booking history with display statuses resolved on the way out.
type QueryService struct {
	hotels   domain.HotelRepository
	reviews  domain.ReviewRepository
	bookings domain.BookingRepository
	cache    domain.Cache
	cacheTTL time.Duration
	now      func() time.Time
}

func NewQueryService(h domain.HotelRepository, rv domain.ReviewRepository, b domain.BookingRepository, c domain.Cache, ttl time.Duration) *QueryService {
	return &QueryService{hotels: h, reviews: rv, bookings: b, cache: c, cacheTTL: ttl, now: time.Now}
}

// WithClock overrides the time source; tests pin it for status resolution.
func (s *QueryService) WithClock(now func() time.Time) *QueryService {
	s.now = now
	return s
}

func (s *QueryService) GetHotel(ctx context.Context, id string) (domain.Hotel, error) {
	key := "hotel:" + id
	var h domain.Hotel
	if ok, _ := s.cache.Get(ctx, key, &h); ok {
		return h, nil
	}
	h, err := s.hotels.GetHotel(ctx, id)
	if err != nil {
		return domain.Hotel{}, err
	}
	_ = s.cache.Set(ctx, key, h, int(s.cacheTTL.Seconds()))
	return h, nil
}

func (s *QueryService) ListHotels(ctx context.Context, sort string, limit int) ([]domain.Hotel, error) {
	if !domain.ValidSort(sort) {
		sort = domain.SortDefault
	}
	key := fmt.Sprintf("hotels:%s:%d", sort, limit)
	var out []domain.Hotel
	if ok, _ := s.cache.Get(ctx, key, &out); ok {
		return out, nil
	}
	out, err := s.hotels.ListHotels(ctx, domain.HotelsQuery{Sort: sort, Limit: limit})
	if err != nil {
		return nil, err
	}
	_ = s.cache.Set(ctx, key, out, int(s.cacheTTL.Seconds()))
	return out, nil
}

func (s *QueryService) ListReviews(ctx context.Context, hotelID string, pg domain.PageQuery) ([]domain.Review, error) {
	key := reviewsKey(hotelID, pg.Limit)
	var out []domain.Review
	if ok, _ := s.cache.Get(ctx, key, &out); ok {
		return out, nil
	}

	rs, err := s.reviews.ListReviews(ctx, hotelID, pg)
	if err != nil {
		return nil, err
	}

	// copy to avoid aliasing the repo's backing array (prevents callers from
	// mutating the cached value)
	cp := make([]domain.Review, len(rs))
	copy(cp, rs)

	// size guard: never cache pathological pages
	if b, _ := json.Marshal(cp); len(b) < 1_000_000 {
		_ = s.cache.Set(ctx, key, cp, int(s.cacheTTL.Seconds()))
	}
	return cp, nil
}

// ListBookings returns the caller's bookings newest-first with their
// display status. Statuses are time-derived, so this path is never cached.
func (s *QueryService) ListBookings(ctx context.Context, userID string) ([]domain.BookingView, error) {
	bs, err := s.bookings.ListBookings(ctx, userID)
	if err != nil {
		return nil, err
	}
	return domain.ResolveBookings(bs, s.now()), nil
}

func (s *QueryService) GetBooking(ctx context.Context, userID, id string) (domain.BookingView, error) {
	b, err := s.bookings.GetBooking(ctx, userID, id)
	if err != nil {
		return domain.BookingView{}, err
	}
	return domain.BookingView{Booking: b, DisplayStatus: b.Status(s.now())}, nil
}

func reviewsKey(hotelID string, limit int) string {
	return fmt.Sprintf("reviews:%s:%d", hotelID, limit)
}
