package application

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/sirupsen/logrus"

	"github.com/skycastlabs/user-service/internal/domain/entity"
	"github.com/skycastlabs/user-service/internal/domain/repository"
	"github.com/skycastlabs/user-service/internal/identity"
)

// AssetStore accepts a named byte stream and returns a stable reference key.
type AssetStore interface {
	Put(ctx context.Context, subject, name, contentType string, r io.Reader) (string, error)
}

// Service orchestrates the account lifecycle against the identity provider
// and the user record store, and owns the favourites and profile-asset
// mutation logic. All collaborators are injected at construction.
type Service struct {
	Repo         repository.UserRepository
	Provider     identity.Provider
	Assets       AssetStore
	Logger       *logrus.Logger
	ES           *elasticsearch.Client
	ESUsersIndex string
}

func NewService(repo repository.UserRepository, provider identity.Provider, assets AssetStore, logger *logrus.Logger, es *elasticsearch.Client, esUsersIndex string) *Service {
	return &Service{
		Repo:         repo,
		Provider:     provider,
		Assets:       assets,
		Logger:       logger,
		ES:           es,
		ESUsersIndex: esUsersIndex,
	}
}

// Record updates are read-modify-write with an optimistic version check;
// a conflicting writer forces a re-read.
const maxUpdateAttempts = 3

func (s *Service) updateWithRetry(ctx context.Context, id string, mutate func(*entity.User) error) (*entity.User, error) {
	var lastErr error
	for attempt := 0; attempt < maxUpdateAttempts; attempt++ {
		u, err := s.Repo.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, ErrNotFound
			}
			return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
		}
		if err := mutate(u); err != nil {
			return nil, err
		}
		switch err := s.Repo.Update(ctx, u); {
		case err == nil:
			return u, nil
		case errors.Is(err, repository.ErrVersionConflict):
			lastErr = err
		case errors.Is(err, repository.ErrNotFound):
			return nil, ErrNotFound
		default:
			return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
		}
	}
	return nil, fmt.Errorf("%w: %v", ErrPersistence, lastErr)
}
