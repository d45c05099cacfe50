package usecase

import (
	"context"

	"github.com/wichananm65/mood-backend/internal/domain/entity"
)

// ProfileBootstrapper ensures a Profile exists for an authenticated identity.
type ProfileBootstrapper interface {
	Bootstrap(ctx context.Context, input BootstrapInput) (BootstrapResult, error)
}

// ProfileUsecase exposes application-level operations on an existing Profile.
type ProfileUsecase interface {
	Get(ctx context.Context, id string) (*entity.Profile, error)
	Update(ctx context.Context, id string, input UpdateProfileInput) (*entity.Profile, error)
	CompleteOnboarding(ctx context.Context, id string) (*entity.Profile, error)
}

// BootstrapInput carries the identity handed over by the authentication provider.
type BootstrapInput struct {
	IdentityID string
	Email      string
}

// UpdateProfileInput carries a partial profile update. Nil fields are ignored.
type UpdateProfileInput struct {
	Email              *string
	OnboardingComplete *bool
}
