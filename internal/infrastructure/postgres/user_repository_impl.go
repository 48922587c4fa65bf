package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/skycastlabs/user-service/internal/domain/entity"
	"github.com/skycastlabs/user-service/internal/domain/repository"
)

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

const userColumns = `id, user_name, first_name, last_name, email, mobile_number,
	is_verified, profile_picture, favourite_places, is_notification_on,
	created_at, updated_at, version`

func scanUser(row pgx.Row) (*entity.User, error) {
	u := &entity.User{}
	if err := row.Scan(&u.ID, &u.UserName, &u.FirstName, &u.LastName, &u.Email,
		&u.MobileNumber, &u.IsVerified, &u.ProfilePicture, &u.FavouritePlaces,
		&u.IsNotificationOn, &u.CreatedAt, &u.UpdatedAt, &u.Version); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	if u.FavouritePlaces == nil {
		u.FavouritePlaces = []string{}
	}
	return u, nil
}

func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO users (id, user_name, first_name, last_name, email, mobile_number,
			is_verified, profile_picture, favourite_places, is_notification_on)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at, updated_at, version
	`, u.ID, u.UserName, u.FirstName, u.LastName, u.Email, u.MobileNumber,
		u.IsVerified, u.ProfilePicture, u.FavouritePlaces, u.IsNotificationOn)

	return row.Scan(&u.CreatedAt, &u.UpdatedAt, &u.Version)
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	return scanUser(r.pool.QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE id = $1
	`, id))
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return scanUser(r.pool.QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE email = $1
	`, email))
}

// Update writes the record back conditional on the version it was read at.
// A zero-row result means either the record vanished or another writer got
// there first; the two are told apart with a follow-up existence check.
func (r *UserRepository) Update(ctx context.Context, u *entity.User) error {
	u.UpdatedAt = time.Now()

	res, err := r.pool.Exec(ctx, `
		UPDATE users
		SET user_name = $1, first_name = $2, last_name = $3, mobile_number = $4,
			is_verified = $5, profile_picture = $6, favourite_places = $7,
			is_notification_on = $8, updated_at = $9, version = version + 1
		WHERE id = $10 AND version = $11
	`, u.UserName, u.FirstName, u.LastName, u.MobileNumber,
		u.IsVerified, u.ProfilePicture, u.FavouritePlaces,
		u.IsNotificationOn, u.UpdatedAt, u.ID, u.Version)
	if err != nil {
		return err
	}

	if res.RowsAffected() == 0 {
		var exists bool
		if err := r.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE id = $1)`, u.ID).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return repository.ErrNotFound
		}
		return repository.ErrVersionConflict
	}

	u.Version++
	return nil
}

var _ repository.UserRepository = (*UserRepository)(nil)
