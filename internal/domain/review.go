package domain

import "strings"

// Review belongs to exactly one hotel and is never mutated after creation.
type Review struct {
	ID      string
	HotelID string
	UserID  string
	Author  string // display name at posting time
	Rating  int    // 1..5, clamped by the caller before construction
	Comment string
	Date    string // calendar date YYYY-MM-DD
}

// AddReview prepends r to existing (newest-first) without mutating the
// input slice. A blank comment is rejected; rating bounds are the caller's
// responsibility.
func AddReview(existing []Review, r Review) ([]Review, error) {
	if strings.TrimSpace(r.Comment) == "" {
		return nil, ErrEmptyComment
	}
	out := make([]Review, 0, len(existing)+1)
	out = append(out, r)
	out = append(out, existing...)
	return out, nil
}

// ClampRating forces a proposed rating into the 1..5 range.
func ClampRating(r int) int {
	if r < 1 {
		return 1
	}
	if r > 5 {
		return 5
	}
	return r
}
