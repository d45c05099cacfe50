package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/wichananm65/mood-backend/internal/domain/entity"
	"github.com/wichananm65/mood-backend/internal/domain/repository"
)

// Outcome describes how a bootstrap call resolved.
type Outcome string

const (
	OutcomeFound           Outcome = "found"
	OutcomeCreated         Outcome = "created"
	OutcomeRaceRecovered   Outcome = "race_recovered"
	OutcomeLookupFailure   Outcome = "lookup_failure"
	OutcomeCreationFailure Outcome = "creation_failure"
	OutcomeInvalidIdentity Outcome = "invalid_identity"
)

var (
	ErrInvalidIdentity = errors.New("identity id is required")
	ErrLookupFailure   = errors.New("profile lookup failed")
	ErrCreationFailure = errors.New("profile creation failed")
)

// BootstrapError is returned when a profile could not be looked up or created.
// It matches ErrLookupFailure or ErrCreationFailure with errors.Is and unwraps
// to the storage error that caused it.
type BootstrapError struct {
	Kind       error
	IdentityID string
	Err        error
}

func (e *BootstrapError) Error() string {
	return fmt.Sprintf("%v for identity %q: %v", e.Kind, e.IdentityID, e.Err)
}

func (e *BootstrapError) Is(target error) bool {
	return target == e.Kind
}

func (e *BootstrapError) Unwrap() error {
	return e.Err
}

// BootstrapResult is the profile a bootstrap call resolved to.
type BootstrapResult struct {
	Profile *entity.Profile
	Outcome Outcome
}

// BootstrapObserver is notified of every bootstrap outcome.
type BootstrapObserver interface {
	ObserveBootstrap(outcome string)
}

type nopObserver struct{}

func (nopObserver) ObserveBootstrap(string) {}

// ProfileBootstrap implements ProfileBootstrapper on top of a ProfileRepository.
//
// It does not lock between the existence check and the insert. Two concurrent
// calls for the same identity may both try to create; the store rejects the
// second insert and the loser reads back the winner's row.
type ProfileBootstrap struct {
	repo     repository.ProfileRepository
	log      *zap.Logger
	observer BootstrapObserver
	now      func() time.Time
}

var _ ProfileBootstrapper = (*ProfileBootstrap)(nil)

func NewProfileBootstrap(repo repository.ProfileRepository, log *zap.Logger, observer BootstrapObserver) *ProfileBootstrap {
	if log == nil {
		log = zap.NewNop()
	}
	if observer == nil {
		observer = nopObserver{}
	}
	return &ProfileBootstrap{
		repo:     repo,
		log:      log,
		observer: observer,
		now:      time.Now,
	}
}

func (b *ProfileBootstrap) Bootstrap(ctx context.Context, input BootstrapInput) (BootstrapResult, error) {
	id := strings.TrimSpace(input.IdentityID)
	if id == "" {
		b.observer.ObserveBootstrap(string(OutcomeInvalidIdentity))
		return BootstrapResult{}, ErrInvalidIdentity
	}
	log := b.log.With(zap.String("identity_id", id))

	existing, err := b.repo.GetByID(ctx, id)
	switch {
	case err == nil:
		return b.resolved(log, existing, OutcomeFound), nil
	case !errors.Is(err, repository.ErrNotFound):
		return b.failed(log, ErrLookupFailure, id, err)
	}

	now := b.timestamp()
	created, err := b.repo.Create(ctx, &entity.Profile{
		ID:                 id,
		Email:              strings.TrimSpace(input.Email),
		OnboardingComplete: false,
		CreatedAt:          now,
		UpdatedAt:          now,
	})
	if err == nil {
		return b.resolved(log, created, OutcomeCreated), nil
	}
	if !errors.Is(err, repository.ErrDuplicate) {
		return b.failed(log, ErrCreationFailure, id, err)
	}

	// Lost the insert race: the row exists now, read it back once.
	log.Debug("profile insert hit duplicate key, re-reading")
	existing, err = b.repo.GetByID(ctx, id)
	switch {
	case err == nil:
		return b.resolved(log, existing, OutcomeRaceRecovered), nil
	case errors.Is(err, repository.ErrNotFound):
		return b.failed(log, ErrCreationFailure, id, fmt.Errorf("duplicate key reported but row missing: %w", err))
	default:
		return b.failed(log, ErrLookupFailure, id, err)
	}
}

func (b *ProfileBootstrap) resolved(log *zap.Logger, profile *entity.Profile, outcome Outcome) BootstrapResult {
	b.observer.ObserveBootstrap(string(outcome))
	log.Info("profile bootstrapped", zap.String("outcome", string(outcome)))
	return BootstrapResult{Profile: profile, Outcome: outcome}
}

func (b *ProfileBootstrap) failed(log *zap.Logger, kind error, id string, cause error) (BootstrapResult, error) {
	outcome := OutcomeCreationFailure
	if kind == ErrLookupFailure {
		outcome = OutcomeLookupFailure
	}
	b.observer.ObserveBootstrap(string(outcome))
	log.Error("profile bootstrap failed", zap.String("outcome", string(outcome)), zap.Error(cause))
	return BootstrapResult{Outcome: outcome}, &BootstrapError{Kind: kind, IdentityID: id, Err: cause}
}

// timestamp returns the current time at the precision Postgres stores.
func (b *ProfileBootstrap) timestamp() time.Time {
	return b.now().UTC().Truncate(time.Microsecond)
}
