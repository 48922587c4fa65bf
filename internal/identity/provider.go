package identity

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrRejected is returned when the provider refuses a sign-up
	// (policy violation or an already-registered credential).
	ErrRejected = errors.New("identity provider rejected sign-up")
	// ErrCodeMismatch is returned when a verification code is wrong,
	// expired, or no pending verification exists for the email.
	ErrCodeMismatch = errors.New("verification code mismatch")
	// ErrInvalidLogin covers unknown email or wrong password.
	ErrInvalidLogin = errors.New("invalid credentials")
	// ErrNotConfirmed is returned when authenticating a credential whose
	// email has not been verified yet.
	ErrNotConfirmed = errors.New("credential not confirmed")
	// ErrInvalidToken is returned for tokens that fail validation.
	ErrInvalidToken = errors.New("invalid token")
	// ErrNoCredential is returned by stores when no credential row exists.
	ErrNoCredential = errors.New("credential not found")
)

// TokenPair is the access/refresh pair minted after authentication.
type TokenPair struct {
	AccessToken        string    `json:"accessToken"`
	AccessTokenExpiry  time.Time `json:"accessTokenExpiry"`
	RefreshToken       string    `json:"refreshToken"`
	RefreshTokenExpiry time.Time `json:"refreshTokenExpiry"`
}

// Provider is the identity-provider boundary the account core talks to.
// It owns credential issuance, one-time verification codes and token
// minting/validation; callers only ever see subject identifiers.
type Provider interface {
	// SignUp registers a credential pair and returns the issued subject
	// identifier. A verification code is dispatched to the email.
	SignUp(ctx context.Context, email, password string) (string, error)
	// ConfirmSignUp consumes a one-time verification code. Confirming an
	// already-confirmed credential succeeds.
	ConfirmSignUp(ctx context.Context, email, code string) error
	// InitiateAuth validates the credential pair and mints tokens.
	InitiateAuth(ctx context.Context, email, password string) (TokenPair, error)
	// ValidateToken checks a bearer token and returns the subject it encodes.
	ValidateToken(ctx context.Context, token string) (string, error)
	// DeleteIdentity removes a registered credential. Used as compensation
	// when local persistence fails after a successful sign-up.
	DeleteIdentity(ctx context.Context, subject string) error
}

// Credential is the provider-side record of a registered identity.
type Credential struct {
	Subject      string
	Email        string
	PasswordHash string
	Confirmed    bool
	CreatedAt    time.Time
}

// CredentialStore persists provider credentials.
type CredentialStore interface {
	Insert(ctx context.Context, c *Credential) error // ErrRejected on duplicate email
	GetByEmail(ctx context.Context, email string) (*Credential, error)
	SetConfirmed(ctx context.Context, subject string) error
	Delete(ctx context.Context, subject string) error
}

// CodeCache holds pending verification codes with a TTL.
type CodeCache interface {
	Put(ctx context.Context, email, code string, ttl time.Duration) error
	// Get returns the pending code, or ErrCodeMismatch when none exists.
	Get(ctx context.Context, email string) (string, error)
	Drop(ctx context.Context, email string) error
}

// Publisher dispatches outbound messages (verification code emails).
type Publisher interface {
	PublishJSON(ctx context.Context, body any) error
}
