package identity

import (
	"context"
	"errors"
	"sync"
)

var (
	ErrNotFound           = errors.New("identity not found")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailExists        = errors.New("email already exists")
)

type Repository interface {
	GetByEmail(ctx context.Context, email string) (Identity, error)
	Create(ctx context.Context, identity Identity) (Identity, error)
}

type InMemoryRepository struct {
	mu         sync.RWMutex
	identities []Identity
}

func NewInMemoryRepository(seed []Identity) *InMemoryRepository {
	repo := &InMemoryRepository{
		identities: make([]Identity, 0, len(seed)),
	}
	repo.identities = append(repo.identities, seed...)
	return repo
}

func (r *InMemoryRepository) GetByEmail(ctx context.Context, email string) (Identity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, identity := range r.identities {
		if identity.Email == email {
			return identity, nil
		}
	}

	return Identity{}, ErrNotFound
}

func (r *InMemoryRepository) Create(ctx context.Context, identity Identity) (Identity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.identities {
		if existing.Email == identity.Email || existing.ID == identity.ID {
			return Identity{}, ErrEmailExists
		}
	}

	r.identities = append(r.identities, identity)
	return identity, nil
}
