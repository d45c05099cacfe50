package repository

import (
	"context"
	"errors"
	"time"

	"github.com/wichananm65/mood-backend/internal/domain/entity"
)

var (
	// ErrNotFound means the store answered definitively that no row exists.
	ErrNotFound = errors.New("profile not found")
	// ErrDuplicate means an insert hit the uniqueness constraint on the profile id.
	ErrDuplicate = errors.New("profile already exists")
)

// ProfileRepository defines persistence behavior for the Profile entity.
// Implementations must enforce uniqueness of Profile.ID at the storage boundary
// and must keep ErrNotFound distinct from every other lookup failure.
type ProfileRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Profile, error)
	Create(ctx context.Context, profile *entity.Profile) (*entity.Profile, error)
	Update(ctx context.Context, id string, patch entity.ProfilePatch, updatedAt time.Time) (*entity.Profile, error)
}
