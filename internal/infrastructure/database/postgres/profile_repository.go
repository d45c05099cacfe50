package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/wichananm65/mood-backend/internal/domain/entity"
	"github.com/wichananm65/mood-backend/internal/domain/repository"
)

// ProfileRepository is a PostgreSQL implementation of ProfileRepository.
// The primary key on profiles.id is what makes concurrent bootstraps safe.
type ProfileRepository struct {
	db *sql.DB
}

type rowScanner interface {
	Scan(dest ...any) error
}

var _ repository.ProfileRepository = (*ProfileRepository)(nil)

const (
	getProfileByIDQuery = `
		SELECT id, email, onboarding_complete, created_at, updated_at
		FROM profiles
		WHERE id = $1
	`
	insertProfileQuery = `
		INSERT INTO profiles (id, email, onboarding_complete, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	updateProfileQuery = `
		UPDATE profiles
		SET email = COALESCE($2, email),
			onboarding_complete = COALESCE($3, onboarding_complete),
			updated_at = $4
		WHERE id = $1
		RETURNING id, email, onboarding_complete, created_at, updated_at
	`
)

func NewProfileRepository(db *sql.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

func (r *ProfileRepository) GetByID(ctx context.Context, id string) (*entity.Profile, error) {
	row := r.db.QueryRowContext(ctx, getProfileByIDQuery, id)
	profile, err := scanProfile(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("select profile %q: %w", id, err)
	}
	return profile, nil
}

func (r *ProfileRepository) Create(ctx context.Context, profile *entity.Profile) (*entity.Profile, error) {
	_, err := r.db.ExecContext(ctx, insertProfileQuery,
		profile.ID,
		profile.Email,
		profile.OnboardingComplete,
		profile.CreatedAt,
		profile.UpdatedAt,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			return nil, repository.ErrDuplicate
		}
		return nil, fmt.Errorf("insert profile %q: %w", profile.ID, err)
	}

	created := *profile
	return &created, nil
}

func (r *ProfileRepository) Update(ctx context.Context, id string, patch entity.ProfilePatch, updatedAt time.Time) (*entity.Profile, error) {
	email := sql.NullString{}
	if patch.Email != nil {
		email = sql.NullString{String: *patch.Email, Valid: true}
	}
	onboarding := sql.NullBool{}
	if patch.OnboardingComplete != nil {
		onboarding = sql.NullBool{Bool: *patch.OnboardingComplete, Valid: true}
	}

	row := r.db.QueryRowContext(ctx, updateProfileQuery, id, email, onboarding, updatedAt)
	profile, err := scanProfile(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("update profile %q: %w", id, err)
	}
	return profile, nil
}

func scanProfile(scanner rowScanner) (*entity.Profile, error) {
	profile := &entity.Profile{}
	if err := scanner.Scan(
		&profile.ID,
		&profile.Email,
		&profile.OnboardingComplete,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	); err != nil {
		return nil, err
	}
	profile.CreatedAt = profile.CreatedAt.UTC()
	profile.UpdatedAt = profile.UpdatedAt.UTC()
	return profile, nil
}
