package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the calendar-date wire format used everywhere a stay date
// travels: no time of day, no zone, compared at whole-day granularity.
const DateLayout = "2006-01-02"

// Booking is owned by the user who created it. Hotel name and image are
// copied at creation time so later catalog edits do not rewrite history.
// The only mutation ever applied is the cancellation flag.
type Booking struct {
	ID              string
	UserID          string
	HotelID         string
	HotelName       string // snapshot
	HotelImage      string // snapshot
	CheckIn         string // DateLayout
	CheckOut        string // DateLayout
	Guests          int
	Rooms           int
	TotalNights     int
	TotalPrice      decimal.Decimal
	SpecialRequests string
	Cancelled       bool
	BookedAt        time.Time // server-assigned
}

// BookingStatus is derived on demand and never persisted.
type BookingStatus string

const (
	StatusConfirmed BookingStatus = "confirmed"
	StatusActive    BookingStatus = "active"
	StatusCompleted BookingStatus = "completed"
	StatusCancelled BookingStatus = "cancelled"
)

// ParseDate parses a calendar date in DateLayout.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

// Day truncates t to its calendar day in UTC.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Nights returns the whole-day difference between checkIn and checkOut.
// Missing or unparsable inputs yield 0: the stay is incomplete, not wrong.
// A non-positive result means the range is not bookable yet.
func Nights(checkIn, checkOut string) int {
	if checkIn == "" || checkOut == "" {
		return 0
	}
	in, err := ParseDate(checkIn)
	if err != nil {
		return 0
	}
	out, err := ParseDate(checkOut)
	if err != nil {
		return 0
	}
	return int(out.Sub(in).Hours() / 24)
}

// Total prices a stay: nights * nightly * rooms when nights is positive,
// zero otherwise. Decimal math end to end; no float drift.
func Total(nights int, nightly decimal.Decimal, rooms int) decimal.Decimal {
	if nights <= 0 {
		return decimal.Zero
	}
	return nightly.Mul(decimal.NewFromInt(int64(nights))).Mul(decimal.NewFromInt(int64(rooms)))
}

// ValidateStay checks a proposed stay against today and reports the first
// violated rule, in fixed priority order. today is passed in explicitly so
// callers control the clock.
func ValidateStay(checkIn, checkOut string, guests, rooms int, today time.Time) error {
	in, inErr := ParseDate(checkIn)
	out, outErr := ParseDate(checkOut)
	if checkIn == "" || checkOut == "" || inErr != nil || outErr != nil {
		return ErrDatesMissing
	}
	if in.Before(Day(today)) {
		return ErrCheckInPast
	}
	if !out.After(in) {
		return ErrCheckOutOrder
	}
	if guests < 1 {
		return ErrGuestsRequired
	}
	if rooms < 1 {
		return ErrRoomsRequired
	}
	return nil
}

// ResolveStatus derives the display status of a booking from its dates and
// cancellation flag. Conditions are checked in order; cancelled and
// completed are terminal, active and confirmed are purely time-derived.
func ResolveStatus(cancelled bool, checkIn, checkOut, today time.Time) BookingStatus {
	d := Day(today)
	switch {
	case cancelled:
		return StatusCancelled
	case d.After(Day(checkOut)):
		return StatusCompleted
	case !d.Before(Day(checkIn)):
		return StatusActive
	default:
		return StatusConfirmed
	}
}

// Status resolves the booking's display status against today. Unparsable
// dates cannot occur for bookings that passed ValidateStay; if they do, the
// cancellation flag still wins and anything else reads as confirmed.
func (b Booking) Status(today time.Time) BookingStatus {
	if b.Cancelled {
		return StatusCancelled
	}
	in, err := ParseDate(b.CheckIn)
	if err != nil {
		return StatusConfirmed
	}
	out, err := ParseDate(b.CheckOut)
	if err != nil {
		return StatusConfirmed
	}
	return ResolveStatus(false, in, out, today)
}

// Cancellable reports whether the explicit cancel operation is permitted:
// only while the booking is still confirmed and check-in lies in the future.
func (b Booking) Cancellable(today time.Time) bool {
	if b.Status(today) != StatusConfirmed {
		return false
	}
	in, err := ParseDate(b.CheckIn)
	if err != nil {
		return false
	}
	return in.After(Day(today))
}
