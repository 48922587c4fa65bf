package application

import (
	"context"

	"github.com/skycastlabs/user-service/internal/domain/entity"
)

// AddFavourite appends city to the caller's favourites. The collection is
// bounded at entity.MaxFavouritePlaces and rejects duplicates; both checks
// run against the freshly loaded record inside the retry loop.
func (s *Service) AddFavourite(ctx context.Context, subject, city string) ([]string, error) {
	if city == "" {
		return nil, ErrValidation
	}

	u, err := s.updateWithRetry(ctx, subject, func(u *entity.User) error {
		if len(u.FavouritePlaces) >= entity.MaxFavouritePlaces {
			return ErrCapacityExceeded
		}
		if u.HasFavourite(city) {
			return ErrDuplicateEntry
		}
		u.FavouritePlaces = append(u.FavouritePlaces, city)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return u.FavouritePlaces, nil
}

// RemoveFavourite removes city from the caller's favourites, keeping the
// relative order of the rest. Removing an absent city is a no-op success;
// the unchanged list is still persisted and returned.
func (s *Service) RemoveFavourite(ctx context.Context, subject, city string) ([]string, error) {
	if city == "" {
		return nil, ErrValidation
	}

	u, err := s.updateWithRetry(ctx, subject, func(u *entity.User) error {
		for i, c := range u.FavouritePlaces {
			if c == city {
				u.FavouritePlaces = append(u.FavouritePlaces[:i], u.FavouritePlaces[i+1:]...)
				break
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return u.FavouritePlaces, nil
}
