package app

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"hotelbook/internal/adapters/observability"
	"hotelbook/internal/domain"
)

// BookingRequest is a proposed stay as the client submits it: raw calendar
// date strings plus counts. Validation happens here, not in the handler.
type BookingRequest struct {
	HotelID         string
	CheckIn         string
	CheckOut        string
	Guests          int
	Rooms           int
	SpecialRequests string
}

// BookingService creates and cancels bookings. The clock and id source are
// injectable so the date rules test deterministically.
type BookingService struct {
	hotels   domain.HotelRepository
	bookings domain.BookingRepository
	now      func() time.Time
	newID    func() string
}

func NewBookingService(h domain.HotelRepository, b domain.BookingRepository) *BookingService {
	return &BookingService{hotels: h, bookings: b, now: time.Now, newID: uuid.NewString}
}

func (s *BookingService) WithClock(now func() time.Time) *BookingService {
	s.now = now
	return s
}

// Quote is the live price summary for a proposed stay.
type Quote struct {
	Nights int
	Total  decimal.Decimal
}

// PriceQuote prices a proposed stay without touching storage. Incomplete or
// invalid ranges quote as zero nights / zero total, never as an error.
func (s *BookingService) PriceQuote(ctx context.Context, hotelID, checkIn, checkOut string, rooms int) (Quote, error) {
	h, err := s.hotels.GetHotel(ctx, hotelID)
	if err != nil {
		return Quote{}, err
	}
	nights := domain.Nights(checkIn, checkOut)
	return Quote{Nights: nights, Total: domain.Total(nights, h.Price, rooms)}, nil
}

// Create validates the stay, prices it, snapshots the hotel's name and
// image, and persists the booking. The snapshot is deliberate: later hotel
// edits must not rewrite booking history.
func (s *BookingService) Create(ctx context.Context, userID string, req BookingRequest) (domain.Booking, error) {
	if err := domain.ValidateStay(req.CheckIn, req.CheckOut, req.Guests, req.Rooms, s.now()); err != nil {
		observability.ObserveBooking("rejected")
		return domain.Booking{}, err
	}

	h, err := s.hotels.GetHotel(ctx, req.HotelID)
	if err != nil {
		return domain.Booking{}, err
	}

	nights := domain.Nights(req.CheckIn, req.CheckOut)
	b := domain.Booking{
		ID:              s.newID(),
		UserID:          userID,
		HotelID:         h.ID,
		HotelName:       h.Name,
		HotelImage:      h.Image,
		CheckIn:         req.CheckIn,
		CheckOut:        req.CheckOut,
		Guests:          req.Guests,
		Rooms:           req.Rooms,
		TotalNights:     nights,
		TotalPrice:      domain.Total(nights, h.Price, req.Rooms),
		SpecialRequests: req.SpecialRequests,
	}

	created, err := s.bookings.InsertBooking(ctx, b)
	if err != nil {
		return domain.Booking{}, fmt.Errorf("insert booking for %s: %w", userID, err)
	}
	observability.ObserveBooking("created")
	return created, nil
}

// Cancel flips the cancellation flag. Allowed only while the booking is
// still confirmed with a future check-in; the record itself is kept.
func (s *BookingService) Cancel(ctx context.Context, userID, id string) (domain.Booking, error) {
	b, err := s.bookings.GetBooking(ctx, userID, id)
	if err != nil {
		return domain.Booking{}, err
	}
	if !b.Cancellable(s.now()) {
		return domain.Booking{}, domain.ErrCancelNotAllowed
	}
	if err := s.bookings.MarkCancelled(ctx, userID, id); err != nil {
		return domain.Booking{}, err
	}
	observability.ObserveBooking("cancelled")
	b.Cancelled = true
	return b, nil
}

// ReviewService posts reviews and keeps the cached first page coherent.
type ReviewService struct {
	hotels   domain.HotelRepository
	reviews  domain.ReviewRepository
	cache    domain.Cache
	cacheTTL time.Duration
	now      func() time.Time
	newID    func() string
}

func NewReviewService(h domain.HotelRepository, rv domain.ReviewRepository, c domain.Cache, ttl time.Duration) *ReviewService {
	return &ReviewService{hotels: h, reviews: rv, cache: c, cacheTTL: ttl, now: time.Now, newID: uuid.NewString}
}

func (s *ReviewService) WithClock(now func() time.Time) *ReviewService {
	s.now = now
	return s
}

// Post stores a review for the hotel and returns the updated newest-first
// list. Rating is clamped at this boundary; the aggregator itself only
// rejects blank comments.
func (s *ReviewService) Post(ctx context.Context, sess domain.Session, hotelID string, rating int, comment string) ([]domain.Review, error) {
	if _, err := s.hotels.GetHotel(ctx, hotelID); err != nil {
		return nil, err
	}

	author := sess.DisplayName
	if author == "" {
		author = "Anonymous"
	}
	rv := domain.Review{
		ID:      s.newID(),
		HotelID: hotelID,
		UserID:  sess.UserID,
		Author:  author,
		Rating:  domain.ClampRating(rating),
		Comment: comment,
		Date:    s.now().Format(domain.DateLayout),
	}

	existing, err := s.reviews.ListReviews(ctx, hotelID, domain.PageQuery{Limit: 50})
	if err != nil {
		return nil, err
	}
	updated, err := domain.AddReview(existing, rv)
	if err != nil {
		return nil, err
	}
	if err := s.reviews.InsertReview(ctx, rv); err != nil {
		return nil, fmt.Errorf("insert review for hotel %s: %w", hotelID, err)
	}

	// drop the stale first page; the next read repopulates it
	_ = s.cache.Del(ctx, reviewsKey(hotelID, 50))
	return updated, nil
}

// AccountService fronts the identity collaborator and the profile store.
// Form rules run locally; provider failures carry their taxonomy code up to
// the HTTP layer's message table.
type AccountService struct {
	ids   domain.IdentityProvider
	users domain.UserRepository
	now   func() time.Time
}

func NewAccountService(ids domain.IdentityProvider, users domain.UserRepository) *AccountService {
	return &AccountService{ids: ids, users: users, now: time.Now}
}

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

func (s *AccountService) SignUp(ctx context.Context, name, email, password, confirm string) (domain.Session, error) {
	if name == "" || email == "" || password == "" || confirm == "" {
		return domain.Session{}, domain.ErrFieldsRequired
	}
	if !emailRe.MatchString(email) {
		return domain.Session{}, domain.ErrInvalidEmailAddr
	}
	if len(password) < 6 {
		return domain.Session{}, domain.ErrPasswordTooShort
	}
	if password != confirm {
		return domain.Session{}, domain.ErrPasswordMismatch
	}

	sess, err := s.ids.SignUp(ctx, name, email, password)
	if err != nil {
		return domain.Session{}, err
	}

	// best-effort: the account exists even if the profile write fails
	_ = s.users.UpsertProfile(ctx, domain.UserProfile{
		ID:        sess.UserID,
		Name:      name,
		Email:     email,
		CreatedAt: s.now(),
	})
	return sess, nil
}

func (s *AccountService) SignIn(ctx context.Context, email, password string) (domain.Session, error) {
	if email == "" || password == "" {
		return domain.Session{}, domain.ErrFieldsRequired
	}
	if !emailRe.MatchString(email) {
		return domain.Session{}, domain.ErrInvalidEmailAddr
	}
	return s.ids.SignIn(ctx, email, password)
}

func (s *AccountService) SignOut(ctx context.Context, token string) error {
	return s.ids.SignOut(ctx, token)
}

func (s *AccountService) SendPasswordReset(ctx context.Context, email string) error {
	if email == "" {
		return domain.ErrFieldsRequired
	}
	if !emailRe.MatchString(email) {
		return domain.ErrInvalidEmailAddr
	}
	return s.ids.SendPasswordReset(ctx, email)
}

// Me returns the stored profile, falling back to the session's provider
// fields when no profile document exists yet.
func (s *AccountService) Me(ctx context.Context, sess domain.Session) (domain.UserProfile, error) {
	p, err := s.users.GetProfile(ctx, sess.UserID)
	if err == nil {
		return p, nil
	}
	if err != domain.ErrNotFound {
		return domain.UserProfile{}, err
	}
	return domain.UserProfile{ID: sess.UserID, Name: sess.DisplayName, Email: sess.Email}, nil
}

// UpdateProfile applies the typed merge and pushes the display name to both
// the provider and the profile store.
func (s *AccountService) UpdateProfile(ctx context.Context, sess domain.Session, upd domain.ProfileUpdate) (domain.UserProfile, error) {
	current, err := s.Me(ctx, sess)
	if err != nil {
		return domain.UserProfile{}, err
	}
	merged := domain.ApplyProfileUpdate(current, upd)

	if upd.Name != nil && strings.TrimSpace(*upd.Name) == "" {
		return domain.UserProfile{}, domain.ErrFieldsRequired
	}
	if upd.Name != nil {
		if _, err := s.ids.UpdateDisplayName(ctx, sess.Token, merged.Name); err != nil {
			return domain.UserProfile{}, err
		}
		if err := s.users.UpdateDisplayName(ctx, sess.UserID, merged.Name); err != nil && err != domain.ErrNotFound {
			return domain.UserProfile{}, err
		}
	}
	return merged, nil
}
