package domain

import (
	"errors"
	"testing"
)

func TestAddReview_PrependsNewestFirst(t *testing.T) {
	existing := []Review{
		{ID: "2", Comment: "Great hotel with amazing breakfast."},
		{ID: "1", Comment: "Excellent service and beautiful location!"},
	}
	out, err := AddReview(existing, Review{ID: "3", Comment: "Quiet rooms, friendly staff.", Rating: 5})
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if len(out) != 3 || out[0].ID != "3" || out[1].ID != "2" {
		t.Fatalf("unexpected order: %+v", out)
	}
	// input must be untouched
	if len(existing) != 2 || existing[0].ID != "2" {
		t.Fatalf("input slice mutated: %+v", existing)
	}
}

func TestAddReview_Empty(t *testing.T) {
	out, err := AddReview(nil, Review{Comment: "Great stay", Rating: 5})
	if err != nil || len(out) != 1 {
		t.Fatalf("expected one-element sequence, got %v / %v", out, err)
	}
	if _, err := AddReview(out, Review{Comment: "  "}); !errors.Is(err, ErrEmptyComment) {
		t.Fatalf("whitespace comment not rejected: %v", err)
	}
	if _, err := AddReview(out, Review{Comment: ""}); !errors.Is(err, ErrEmptyComment) {
		t.Fatalf("empty comment not rejected: %v", err)
	}
}

func TestClampRating(t *testing.T) {
	for in, want := range map[int]int{-3: 1, 0: 1, 1: 1, 3: 3, 5: 5, 9: 5} {
		if got := ClampRating(in); got != want {
			t.Fatalf("ClampRating(%d) = %d, want %d", in, got, want)
		}
	}
}

func TestApplyProfileUpdate(t *testing.T) {
	p := UserProfile{ID: "u1", Name: "Martin Khoza", Email: "martin@example.com"}

	same := ApplyProfileUpdate(p, ProfileUpdate{})
	if same != p {
		t.Fatalf("empty update changed profile: %+v", same)
	}

	name := "M. Khoza"
	got := ApplyProfileUpdate(p, ProfileUpdate{Name: &name})
	if got.Name != "M. Khoza" || got.Email != p.Email || got.ID != p.ID {
		t.Fatalf("unexpected merge result: %+v", got)
	}
}
