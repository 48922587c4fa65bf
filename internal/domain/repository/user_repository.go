package repository

import (
	"context"
	"errors"

	"github.com/skycastlabs/user-service/internal/domain/entity"
)

var (
	// ErrNotFound is returned when no record exists for the given key.
	ErrNotFound = errors.New("record not found")
	// ErrVersionConflict is returned by Update when the record was modified
	// since it was read. Callers retry the read-modify-write.
	ErrVersionConflict = errors.New("record version conflict")
)

// UserRepository is the durable per-user record store, keyed by the
// provider-issued subject identifier.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	// Update persists u only if the stored version still matches u.Version,
	// bumping the version on success.
	Update(ctx context.Context, u *entity.User) error
}
