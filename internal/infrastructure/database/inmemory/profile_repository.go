package inmemory

import (
	"context"
	"sync"
	"time"

	"github.com/wichananm65/mood-backend/internal/domain/entity"
	"github.com/wichananm65/mood-backend/internal/domain/repository"
)

// ProfileRepository is an in-memory implementation of ProfileRepository.
// It rejects a second Create for the same id just like the primary key does in Postgres.
type ProfileRepository struct {
	mu    sync.RWMutex
	store map[string]*entity.Profile
}

var _ repository.ProfileRepository = (*ProfileRepository)(nil)

func NewProfileRepository() *ProfileRepository {
	return &ProfileRepository{
		store: make(map[string]*entity.Profile),
	}
}

func (r *ProfileRepository) GetByID(ctx context.Context, id string) (*entity.Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	profile, ok := r.store[id]
	if !ok {
		return nil, repository.ErrNotFound
	}

	copy := *profile
	return &copy, nil
}

func (r *ProfileRepository) Create(ctx context.Context, profile *entity.Profile) (*entity.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.store[profile.ID]; ok {
		return nil, repository.ErrDuplicate
	}

	profileCopy := *profile
	r.store[profileCopy.ID] = &profileCopy

	result := profileCopy
	return &result, nil
}

func (r *ProfileRepository) Update(ctx context.Context, id string, patch entity.ProfilePatch, updatedAt time.Time) (*entity.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	profile, ok := r.store[id]
	if !ok {
		return nil, repository.ErrNotFound
	}

	if patch.Email != nil {
		profile.Email = *patch.Email
	}
	if patch.OnboardingComplete != nil {
		profile.OnboardingComplete = *patch.OnboardingComplete
	}
	profile.UpdatedAt = updatedAt

	result := *profile
	return &result, nil
}

// Len returns the number of stored profiles.
func (r *ProfileRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.store)
}
