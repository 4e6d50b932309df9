package domain

import "github.com/shopspring/decimal"

// Hotel is an immutable catalog snapshot. Callers receive it by value and
// never write it back; booking creation copies the fields it needs instead
// of holding a live reference.
type Hotel struct {
	ID          string
	Name        string
	Location    string
	Price       decimal.Decimal // nightly rate, major units
	Rating      float64         // 0..5
	Description string
	Image       string // opaque URI, resolved by the image collaborator
	Amenities   []string
	Category    string
}

// Sort modes accepted by the hotel listing.
const (
	SortDefault = "default"
	SortPrice   = "price"  // cheapest first
	SortRating  = "rating" // best first
)

func ValidSort(s string) bool {
	return s == SortDefault || s == SortPrice || s == SortRating
}
