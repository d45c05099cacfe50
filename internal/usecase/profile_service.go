package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/wichananm65/mood-backend/internal/domain/entity"
	"github.com/wichananm65/mood-backend/internal/domain/repository"
)

var (
	ErrInvalidEmail     = errors.New("email must not be empty")
	ErrOnboardingReset  = errors.New("onboarding cannot be marked incomplete once finished")
	ErrInvalidProfileID = errors.New("invalid profile id")
)

// ProfileService implements ProfileUsecase with repository dependency.
type ProfileService struct {
	repo repository.ProfileRepository
	now  func() time.Time
}

var _ ProfileUsecase = (*ProfileService)(nil)

func NewProfileService(repo repository.ProfileRepository) *ProfileService {
	return &ProfileService{repo: repo, now: time.Now}
}

func (s *ProfileService) Get(ctx context.Context, id string) (*entity.Profile, error) {
	if strings.TrimSpace(id) == "" {
		return nil, ErrInvalidProfileID
	}
	return s.repo.GetByID(ctx, id)
}

func (s *ProfileService) Update(ctx context.Context, id string, input UpdateProfileInput) (*entity.Profile, error) {
	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	patch := entity.ProfilePatch{}
	if input.Email != nil {
		email := strings.TrimSpace(*input.Email)
		if email == "" {
			return nil, ErrInvalidEmail
		}
		if email != current.Email {
			patch.Email = &email
		}
	}
	if input.OnboardingComplete != nil {
		switch {
		case current.OnboardingComplete && !*input.OnboardingComplete:
			return nil, ErrOnboardingReset
		case !current.OnboardingComplete && *input.OnboardingComplete:
			done := true
			patch.OnboardingComplete = &done
		}
	}

	if patch.IsEmpty() {
		return current, nil
	}
	return s.repo.Update(ctx, id, patch, s.now().UTC().Truncate(time.Microsecond))
}

func (s *ProfileService) CompleteOnboarding(ctx context.Context, id string) (*entity.Profile, error) {
	done := true
	return s.Update(ctx, id, UpdateProfileInput{OnboardingComplete: &done})
}
