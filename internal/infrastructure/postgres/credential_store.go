package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/skycastlabs/user-service/internal/identity"
)

// CredentialStore persists identity-provider credentials in Postgres.
type CredentialStore struct {
	pool *pgxpool.Pool
}

func NewCredentialStore(pool *pgxpool.Pool) *CredentialStore {
	return &CredentialStore{pool: pool}
}

func (s *CredentialStore) Insert(ctx context.Context, c *identity.Credential) error {
	row := s.pool.QueryRow(ctx, `
		INSERT INTO identity_credentials (subject, email, password_hash, confirmed)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at
	`, c.Subject, c.Email, c.PasswordHash, c.Confirmed)

	if err := row.Scan(&c.CreatedAt); err != nil {
		var pgErr *pgconn.PgError
		// 23505: unique_violation on email
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: email already registered", identity.ErrRejected)
		}
		return err
	}
	return nil
}

func (s *CredentialStore) GetByEmail(ctx context.Context, email string) (*identity.Credential, error) {
	c := &identity.Credential{}
	row := s.pool.QueryRow(ctx, `
		SELECT subject, email, password_hash, confirmed, created_at
		FROM identity_credentials
		WHERE email = $1
	`, email)

	if err := row.Scan(&c.Subject, &c.Email, &c.PasswordHash, &c.Confirmed, &c.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, identity.ErrNoCredential
		}
		return nil, err
	}
	return c, nil
}

func (s *CredentialStore) SetConfirmed(ctx context.Context, subject string) error {
	res, err := s.pool.Exec(ctx, `
		UPDATE identity_credentials SET confirmed = TRUE WHERE subject = $1
	`, subject)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return identity.ErrNoCredential
	}
	return nil
}

func (s *CredentialStore) Delete(ctx context.Context, subject string) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM identity_credentials WHERE subject = $1`, subject)
	return err
}

var _ identity.CredentialStore = (*CredentialStore)(nil)
