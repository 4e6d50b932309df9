package domain

import (
	"context"
	"time"
)

type HotelRepository interface {
	// Write paths (seeder)
	UpsertHotel(ctx context.Context, h Hotel) error

	// Read paths
	GetHotel(ctx context.Context, id string) (Hotel, error)
	ListHotels(ctx context.Context, q HotelsQuery) ([]Hotel, error)
}

type ReviewRepository interface {
	InsertReview(ctx context.Context, r Review) error
	ListReviews(ctx context.Context, hotelID string, pg PageQuery) ([]Review, error)
}

type BookingRepository interface {
	InsertBooking(ctx context.Context, b Booking) (Booking, error)
	GetBooking(ctx context.Context, userID, id string) (Booking, error)
	ListBookings(ctx context.Context, userID string) ([]Booking, error)
	MarkCancelled(ctx context.Context, userID, id string) error
}

type UserRepository interface {
	UpsertProfile(ctx context.Context, p UserProfile) error
	GetProfile(ctx context.Context, id string) (UserProfile, error)
	UpdateDisplayName(ctx context.Context, id, name string) error
}

// Session is the authenticated view of a provider account.
type Session struct {
	UserID      string
	Token       string
	DisplayName string
	Email       string
}

// IdentityProvider is the external auth collaborator. Failures carry an
// *AuthError so callers can map the taxonomy to fixed messages.
type IdentityProvider interface {
	SignUp(ctx context.Context, name, email, password string) (Session, error)
	SignIn(ctx context.Context, email, password string) (Session, error)
	SignOut(ctx context.Context, token string) error
	SendPasswordReset(ctx context.Context, email string) error
	CurrentUser(ctx context.Context, token string) (Session, error)
	UpdateDisplayName(ctx context.Context, token, name string) (Session, error)
}

// CatalogFeed is the read-only third-party feed behind the deals surface.
type CatalogFeed interface {
	FetchItems(ctx context.Context, limit int) ([]map[string]any, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}

// Queries & read models

type HotelsQuery struct {
	Sort  string // SortDefault | SortPrice | SortRating
	Limit int
}

type PageQuery struct {
	Limit int
	Sort  string
}

// BookingView pairs a stored booking with its time-derived display status.
type BookingView struct {
	Booking
	DisplayStatus BookingStatus
}

// ResolveBookings derives display statuses for a list against today.
func ResolveBookings(bs []Booking, today time.Time) []BookingView {
	out := make([]BookingView, 0, len(bs))
	for _, b := range bs {
		out = append(out, BookingView{Booking: b, DisplayStatus: b.Status(today)})
	}
	return out
}
