package presenter

import (
	"time"

	"github.com/wichananm65/mood-backend/internal/domain/entity"
)

// ProfilePresenter shapes domain entities for delivery layer responses.
type ProfilePresenter struct{}

func NewProfilePresenter() *ProfilePresenter {
	return &ProfilePresenter{}
}

type ProfileResponse struct {
	ID                 string `json:"id"`
	Email              string `json:"email"`
	OnboardingComplete bool   `json:"onboarding_complete"`
	CreatedAt          string `json:"created_at"`
	UpdatedAt          string `json:"updated_at"`
}

func (p *ProfilePresenter) ToResponse(profile *entity.Profile) *ProfileResponse {
	if profile == nil {
		return nil
	}
	return &ProfileResponse{
		ID:                 profile.ID,
		Email:              profile.Email,
		OnboardingComplete: profile.OnboardingComplete,
		CreatedAt:          profile.CreatedAt.UTC().Format(time.RFC3339Nano),
		UpdatedAt:          profile.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
}
