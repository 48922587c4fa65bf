package application

import "errors"

// Component failures are translated exactly once, at the handler boundary,
// into the response envelope. Everything the services return wraps one of
// these kinds.
var (
	ErrValidation       = errors.New("validation failed")
	ErrDuplicateAccount = errors.New("account already exists for email")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrNotFound         = errors.New("user not found")
	ErrCapacityExceeded = errors.New("favourite places cannot be more than 5")
	ErrDuplicateEntry   = errors.New("city already added in favourites")
	ErrVerification     = errors.New("verification failed")
	ErrIdentityProvider = errors.New("identity provider failure")
	ErrAssetStore       = errors.New("asset store failure")
	ErrPersistence      = errors.New("persistence failure")
)
