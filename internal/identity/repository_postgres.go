package identity

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/wichananm65/mood-backend/internal/infrastructure/database/postgres"
)

type PostgresRepository struct {
	db *sql.DB
}

const (
	getIdentityByEmailQuery = `
		SELECT id, email, password_hash, full_name, created_at
		FROM identities
		WHERE email = $1
	`
	insertIdentityQuery = `
		INSERT INTO identities (id, email, password_hash, full_name, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (Identity, error) {
	var identity Identity
	err := r.db.QueryRowContext(ctx, getIdentityByEmailQuery, email).Scan(
		&identity.ID,
		&identity.Email,
		&identity.PasswordHash,
		&identity.FullName,
		&identity.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Identity{}, ErrNotFound
		}
		return Identity{}, fmt.Errorf("select identity: %w", err)
	}

	identity.CreatedAt = identity.CreatedAt.UTC()
	return identity, nil
}

func (r *PostgresRepository) Create(ctx context.Context, identity Identity) (Identity, error) {
	_, err := r.db.ExecContext(ctx, insertIdentityQuery,
		identity.ID,
		identity.Email,
		identity.PasswordHash,
		identity.FullName,
		identity.CreatedAt,
	)
	if err != nil {
		if postgres.IsUniqueViolation(err) {
			return Identity{}, ErrEmailExists
		}
		return Identity{}, fmt.Errorf("insert identity: %w", err)
	}

	return identity, nil
}
