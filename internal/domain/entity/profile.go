package entity

import "time"

// Profile is the application's durable record about an authenticated identity.
// ID equals the identity provider's subject id and is never generated here.
type Profile struct {
	ID                 string
	Email              string
	OnboardingComplete bool
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// ProfilePatch carries a partial update. Nil fields are left untouched.
type ProfilePatch struct {
	Email              *string
	OnboardingComplete *bool
}

// IsEmpty reports whether the patch changes nothing.
func (p ProfilePatch) IsEmpty() bool {
	return p.Email == nil && p.OnboardingComplete == nil
}
