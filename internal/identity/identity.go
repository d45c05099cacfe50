package identity

import "time"

// Identity is a locally managed credential record. Its ID is the subject that
// appears in issued tokens and that profiles are keyed by.
type Identity struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	FullName     string    `json:"fullName,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}
