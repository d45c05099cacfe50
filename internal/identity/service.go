package identity

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 8

var (
	ErrInvalidEmail     = errors.New("please enter a valid email address")
	ErrWeakPassword     = errors.New("password must be at least 8 characters long")
	ErrFullNameRequired = errors.New("please enter your full name")

	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// Register creates a new identity with a bcrypt-hashed password.
func (s *Service) Register(ctx context.Context, email, password, fullName string) (Identity, error) {
	email = normalizeEmail(email)
	fullName = strings.TrimSpace(fullName)

	if fullName == "" {
		return Identity{}, ErrFullNameRequired
	}
	if !emailPattern.MatchString(email) {
		return Identity{}, ErrInvalidEmail
	}
	if len(password) < minPasswordLength {
		return Identity{}, ErrWeakPassword
	}

	if _, err := s.repo.GetByEmail(ctx, email); err == nil {
		return Identity{}, ErrEmailExists
	} else if !errors.Is(err, ErrNotFound) {
		return Identity{}, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return Identity{}, err
	}

	return s.repo.Create(ctx, Identity{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: string(hashed),
		FullName:     fullName,
		CreatedAt:    s.now().UTC().Truncate(time.Microsecond),
	})
}

// Authenticate checks the credentials. Unknown emails and wrong passwords are
// indistinguishable to the caller.
func (s *Service) Authenticate(ctx context.Context, email, password string) (Identity, error) {
	identity, err := s.repo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Identity{}, ErrInvalidCredentials
		}
		return Identity{}, err
	}

	if bcrypt.CompareHashAndPassword([]byte(identity.PasswordHash), []byte(password)) != nil {
		return Identity{}, ErrInvalidCredentials
	}

	return identity, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
