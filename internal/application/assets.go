package application

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/skycastlabs/user-service/internal/domain/entity"
	"github.com/skycastlabs/user-service/internal/domain/repository"
)

// LinkProfilePicture uploads the asset and binds the returned reference key
// to the user record. The record is loaded up front so a missing user never
// produces an orphan upload; an upload that succeeds but fails to persist
// leaves an unreferenced object, which is logged and surfaced as a
// persistence failure rather than silently dropped.
func (s *Service) LinkProfilePicture(ctx context.Context, subject, name, contentType string, r io.Reader, size int64) (string, error) {
	if r == nil || size <= 0 || name == "" {
		return "", fmt.Errorf("%w: file should be uploaded", ErrValidation)
	}

	if _, err := s.Repo.GetByID(ctx, subject); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	key, err := s.Assets.Put(ctx, subject, name, contentType, r)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrAssetStore, err)
	}

	u, err := s.updateWithRetry(ctx, subject, func(u *entity.User) error {
		u.ProfilePicture = key
		return nil
	})
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithField("key", key).WithField("subject", subject).
				Error("uploaded asset left unreferenced after persist failure")
		}
		return "", err
	}

	s.indexUser(ctx, u)
	return key, nil
}
