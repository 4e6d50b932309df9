package domain

import "time"

// UserProfile mirrors the identity provider's account plus the profile
// document we keep alongside it. The identifier is assigned by the provider.
type UserProfile struct {
	ID        string
	Name      string
	Email     string
	CreatedAt time.Time
}

// ProfileUpdate carries the editable profile fields. Display name is the
// only field that may change after creation.
type ProfileUpdate struct {
	Name *string
}

// ApplyProfileUpdate merges upd into p field by field and returns the
// result. Nil fields leave the current value untouched.
func ApplyProfileUpdate(p UserProfile, upd ProfileUpdate) UserProfile {
	if upd.Name != nil {
		p.Name = *upd.Name
	}
	return p
}
