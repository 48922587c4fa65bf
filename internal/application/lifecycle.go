package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/skycastlabs/user-service/internal/domain/entity"
	"github.com/skycastlabs/user-service/internal/domain/repository"
	"github.com/skycastlabs/user-service/internal/identity"
)

// RegisterInput carries the fields required to open an account.
type RegisterInput struct {
	UserName     string
	FirstName    string
	LastName     string
	Email        string
	MobileNumber string
	Password     string
}

// Register creates a provider credential and the local user record.
// The duplicate-email check runs before the provider call so a rejected
// registration never leaves an orphan provider identity. If persistence
// still fails afterwards (e.g. a concurrent insert), the provider identity
// is removed best-effort before the error is surfaced.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*entity.User, error) {
	if _, err := s.Repo.GetByEmail(ctx, in.Email); err == nil {
		return nil, ErrDuplicateAccount
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	subject, err := s.Provider.SignUp(ctx, in.Email, in.Password)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIdentityProvider, err)
	}

	u := &entity.User{
		ID:              subject,
		UserName:        in.UserName,
		FirstName:       in.FirstName,
		LastName:        in.LastName,
		Email:           in.Email,
		MobileNumber:    in.MobileNumber,
		IsVerified:      false,
		FavouritePlaces: []string{},
	}
	if err := s.Repo.Create(ctx, u); err != nil {
		if delErr := s.Provider.DeleteIdentity(ctx, subject); delErr != nil && s.Logger != nil {
			s.Logger.WithError(delErr).WithFields(logrus.Fields{
				"subject": subject, "email": in.Email,
			}).Error("compensation failed: provider identity left without local record")
		}
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	s.indexUser(ctx, u)
	return u, nil
}

// Verify consumes the one-time code and marks the record verified.
// Verifying an already-verified account is a no-op success; isVerified
// only ever transitions false to true.
func (s *Service) Verify(ctx context.Context, email, code string) (*entity.User, error) {
	if err := s.Provider.ConfirmSignUp(ctx, email, code); err != nil {
		if errors.Is(err, identity.ErrCodeMismatch) {
			return nil, fmt.Errorf("%w: %v", ErrVerification, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrIdentityProvider, err)
	}

	u, err := s.Repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// provider knows the email but the local record is gone
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if u.IsVerified {
		return u, nil
	}

	u, err = s.updateWithRetry(ctx, u.ID, func(u *entity.User) error {
		u.IsVerified = true
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.indexUser(ctx, u)
	return u, nil
}

// Login authenticates a credential pair against the identity provider and
// returns the minted token pair alongside the local record.
func (s *Service) Login(ctx context.Context, email, password string) (*entity.User, identity.TokenPair, error) {
	pair, err := s.Provider.InitiateAuth(ctx, email, password)
	if err != nil {
		switch {
		case errors.Is(err, identity.ErrInvalidLogin):
			return nil, identity.TokenPair{}, fmt.Errorf("%w: %v", ErrUnauthorized, err)
		case errors.Is(err, identity.ErrNotConfirmed):
			return nil, identity.TokenPair{}, fmt.Errorf("%w: email not verified", ErrVerification)
		default:
			return nil, identity.TokenPair{}, fmt.Errorf("%w: %v", ErrIdentityProvider, err)
		}
	}

	u, err := s.Repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, identity.TokenPair{}, ErrNotFound
		}
		return nil, identity.TokenPair{}, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return u, pair, nil
}

// GetProfile loads the caller's own record by resolved subject identifier.
func (s *Service) GetProfile(ctx context.Context, subject string) (*entity.User, error) {
	u, err := s.Repo.GetByID(ctx, subject)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return u, nil
}
