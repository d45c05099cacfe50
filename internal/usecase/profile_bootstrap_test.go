package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/wichananm65/mood-backend/internal/domain/entity"
	"github.com/wichananm65/mood-backend/internal/domain/repository"
	"github.com/wichananm65/mood-backend/internal/infrastructure/database/inmemory"
)

// countingRepo records how often the store is read and written.
type countingRepo struct {
	*inmemory.ProfileRepository
	mu      sync.Mutex
	gets    int
	creates int
}

func newCountingRepo() *countingRepo {
	return &countingRepo{ProfileRepository: inmemory.NewProfileRepository()}
}

func (r *countingRepo) GetByID(ctx context.Context, id string) (*entity.Profile, error) {
	r.mu.Lock()
	r.gets++
	r.mu.Unlock()
	return r.ProfileRepository.GetByID(ctx, id)
}

func (r *countingRepo) Create(ctx context.Context, p *entity.Profile) (*entity.Profile, error) {
	r.mu.Lock()
	r.creates++
	r.mu.Unlock()
	return r.ProfileRepository.Create(ctx, p)
}

type recordingObserver struct {
	mu       sync.Mutex
	outcomes []string
}

func (o *recordingObserver) ObserveBootstrap(outcome string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.outcomes = append(o.outcomes, outcome)
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestBootstrap_CreatesProfileForNewIdentity(t *testing.T) {
	repo := newCountingRepo()
	obs := &recordingObserver{}
	svc := NewProfileBootstrap(repo, zap.NewNop(), obs)
	t0 := time.Date(2026, 10, 18, 8, 0, 0, 123456789, time.UTC)
	svc.now = fixedClock(t0)

	res, err := svc.Bootstrap(context.Background(), BootstrapInput{IdentityID: "u1", Email: "a@x.com"})
	require.NoError(t, err)
	assert.Equal(t, OutcomeCreated, res.Outcome)
	assert.Equal(t, &entity.Profile{
		ID:                 "u1",
		Email:              "a@x.com",
		OnboardingComplete: false,
		CreatedAt:          t0.Truncate(time.Microsecond),
		UpdatedAt:          t0.Truncate(time.Microsecond),
	}, res.Profile)

	assert.Equal(t, 1, repo.creates)
	assert.Equal(t, 1, repo.Len())
	assert.Equal(t, []string{"created"}, obs.outcomes)
}

func TestBootstrap_ExistingIdentityPerformsNoWrites(t *testing.T) {
	repo := newCountingRepo()
	t0 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	_, err := repo.ProfileRepository.Create(context.Background(), &entity.Profile{
		ID: "u1", Email: "a@x.com", OnboardingComplete: true, CreatedAt: t0, UpdatedAt: t0,
	})
	require.NoError(t, err)

	svc := NewProfileBootstrap(repo, zap.NewNop(), nil)
	res, err := svc.Bootstrap(context.Background(), BootstrapInput{IdentityID: "u1", Email: "changed@x.com"})
	require.NoError(t, err)

	assert.Equal(t, OutcomeFound, res.Outcome)
	assert.Equal(t, "a@x.com", res.Profile.Email)
	assert.True(t, res.Profile.OnboardingComplete)
	assert.Equal(t, 0, repo.creates)
}

func TestBootstrap_IsIdempotentAcrossSequentialCalls(t *testing.T) {
	repo := newCountingRepo()
	svc := NewProfileBootstrap(repo, zap.NewNop(), nil)
	t0 := time.Date(2026, 10, 18, 8, 0, 0, 0, time.UTC)
	svc.now = fixedClock(t0)

	first, err := svc.Bootstrap(context.Background(), BootstrapInput{IdentityID: "u1", Email: "a@x.com"})
	require.NoError(t, err)

	const calls = 5
	for i := 0; i < calls; i++ {
		svc.now = fixedClock(t0.Add(time.Duration(i+1) * time.Hour))
		res, err := svc.Bootstrap(context.Background(), BootstrapInput{IdentityID: "u1", Email: "a@x.com"})
		require.NoError(t, err)
		assert.Equal(t, OutcomeFound, res.Outcome)
		assert.Equal(t, first.Profile, res.Profile)
		assert.True(t, res.Profile.CreatedAt.Equal(t0), "createdAt must never move")
	}

	assert.Equal(t, 1, repo.creates)
	assert.Equal(t, 1, repo.Len())
}

// barrierRepo holds every Create until all expected callers have passed their
// existence check, forcing the read-then-write race.
type barrierRepo struct {
	*countingRepo
	ready sync.WaitGroup
}

func (r *barrierRepo) Create(ctx context.Context, p *entity.Profile) (*entity.Profile, error) {
	r.ready.Done()
	r.ready.Wait()
	return r.countingRepo.Create(ctx, p)
}

func TestBootstrap_ConcurrentCallsStoreOneProfile(t *testing.T) {
	const callers = 2
	repo := &barrierRepo{countingRepo: newCountingRepo()}
	repo.ready.Add(callers)
	obs := &recordingObserver{}
	svc := NewProfileBootstrap(repo, zap.NewNop(), obs)

	results := make([]BootstrapResult, callers)
	errs := make([]error, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = svc.Bootstrap(context.Background(), BootstrapInput{IdentityID: "u1", Email: "a@x.com"})
		}(i)
	}
	wg.Wait()

	for i := 0; i < callers; i++ {
		require.NoError(t, errs[i])
	}
	assert.Equal(t, results[0].Profile, results[1].Profile)
	assert.Equal(t, callers, repo.creates, "both callers should have attempted the insert")
	assert.Equal(t, 1, repo.Len())
	assert.ElementsMatch(t, []string{"created", "race_recovered"}, obs.outcomes)
}

// interleavingRepo lets another writer insert the row between the caller's
// lookup and its insert.
type interleavingRepo struct {
	*inmemory.ProfileRepository
	beforeCreate func()
}

func (r *interleavingRepo) Create(ctx context.Context, p *entity.Profile) (*entity.Profile, error) {
	if r.beforeCreate != nil {
		r.beforeCreate()
		r.beforeCreate = nil
	}
	return r.ProfileRepository.Create(ctx, p)
}

func TestBootstrap_DuplicateKeyResolvesToStoredRecord(t *testing.T) {
	inner := inmemory.NewProfileRepository()
	winner := &entity.Profile{ID: "u1", Email: "a@x.com", CreatedAt: time.Date(2026, 5, 5, 5, 5, 5, 0, time.UTC)}
	repo := &interleavingRepo{ProfileRepository: inner, beforeCreate: func() {
		_, _ = inner.Create(context.Background(), winner)
	}}

	svc := NewProfileBootstrap(repo, zap.NewNop(), nil)
	res, err := svc.Bootstrap(context.Background(), BootstrapInput{IdentityID: "u1", Email: "a@x.com"})
	require.NoError(t, err)
	assert.Equal(t, OutcomeRaceRecovered, res.Outcome)
	assert.True(t, res.Profile.CreatedAt.Equal(winner.CreatedAt))
	assert.Equal(t, 1, inner.Len())
}

// stubRepo returns canned errors.
type stubRepo struct {
	getErrs   []error
	createErr error
	creates   int
}

func (r *stubRepo) GetByID(ctx context.Context, id string) (*entity.Profile, error) {
	if len(r.getErrs) == 0 {
		return &entity.Profile{ID: id}, nil
	}
	err := r.getErrs[0]
	r.getErrs = r.getErrs[1:]
	if err != nil {
		return nil, err
	}
	return &entity.Profile{ID: id}, nil
}

func (r *stubRepo) Create(ctx context.Context, p *entity.Profile) (*entity.Profile, error) {
	r.creates++
	if r.createErr != nil {
		return nil, r.createErr
	}
	return p, nil
}

func (r *stubRepo) Update(ctx context.Context, id string, patch entity.ProfilePatch, updatedAt time.Time) (*entity.Profile, error) {
	return nil, errors.New("not used")
}

func TestBootstrap_LookupFailureSkipsCreation(t *testing.T) {
	connErr := errors.New("dial tcp 10.0.0.5:5432: connect: connection refused")
	repo := &stubRepo{getErrs: []error{connErr}}
	obs := &recordingObserver{}
	svc := NewProfileBootstrap(repo, zap.NewNop(), obs)

	res, err := svc.Bootstrap(context.Background(), BootstrapInput{IdentityID: "u1", Email: "a@x.com"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrLookupFailure)
	assert.NotErrorIs(t, err, ErrCreationFailure)
	assert.ErrorIs(t, err, connErr)
	assert.Nil(t, res.Profile)
	assert.Equal(t, 0, repo.creates, "no insert may follow a failed lookup")
	assert.Equal(t, []string{"lookup_failure"}, obs.outcomes)

	var bootErr *BootstrapError
	require.ErrorAs(t, err, &bootErr)
	assert.Equal(t, "u1", bootErr.IdentityID)
}

func TestBootstrap_CreationFailure(t *testing.T) {
	insertErr := errors.New("permission denied for table profiles")
	repo := &stubRepo{getErrs: []error{repository.ErrNotFound}, createErr: insertErr}
	svc := NewProfileBootstrap(repo, zap.NewNop(), nil)

	_, err := svc.Bootstrap(context.Background(), BootstrapInput{IdentityID: "u1", Email: "a@x.com"})
	assert.ErrorIs(t, err, ErrCreationFailure)
	assert.ErrorIs(t, err, insertErr)
	assert.Equal(t, 1, repo.creates)
}

func TestBootstrap_DuplicateThenLookupFailure(t *testing.T) {
	connErr := errors.New("connection reset by peer")
	repo := &stubRepo{getErrs: []error{repository.ErrNotFound, connErr}, createErr: repository.ErrDuplicate}
	svc := NewProfileBootstrap(repo, zap.NewNop(), nil)

	_, err := svc.Bootstrap(context.Background(), BootstrapInput{IdentityID: "u1", Email: "a@x.com"})
	assert.ErrorIs(t, err, ErrLookupFailure)
	assert.ErrorIs(t, err, connErr)
}

func TestBootstrap_DuplicateButRowMissing(t *testing.T) {
	repo := &stubRepo{getErrs: []error{repository.ErrNotFound, repository.ErrNotFound}, createErr: repository.ErrDuplicate}
	svc := NewProfileBootstrap(repo, zap.NewNop(), nil)

	_, err := svc.Bootstrap(context.Background(), BootstrapInput{IdentityID: "u1", Email: "a@x.com"})
	assert.ErrorIs(t, err, ErrCreationFailure)
	assert.Equal(t, 1, repo.creates, "the lookup is retried once, the insert is not")
}

func TestBootstrap_RejectsEmptyIdentity(t *testing.T) {
	repo := &stubRepo{}
	svc := NewProfileBootstrap(repo, zap.NewNop(), nil)

	_, err := svc.Bootstrap(context.Background(), BootstrapInput{IdentityID: "   ", Email: "a@x.com"})
	assert.ErrorIs(t, err, ErrInvalidIdentity)
	assert.Equal(t, 0, repo.creates)
}
