package identity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/skycastlabs/user-service/pkg/helpers"
	"github.com/skycastlabs/user-service/pkg/mailer"
	tpl "github.com/skycastlabs/user-service/pkg/mailer/templates"
)

const codeTTL = 15 * time.Minute

// HostedProvider is an in-process identity provider: bcrypt credentials in
// the credential store, TTL'd verification codes in the code cache, HS256
// tokens from the JWT manager, and verification emails enqueued for the
// email worker. All collaborators are injected at construction.
type HostedProvider struct {
	Creds  CredentialStore
	Codes  CodeCache
	JWT    *helpers.JWTManager
	Pub    Publisher // optional; nil disables code emails
	Logger *logrus.Logger
}

func NewHostedProvider(creds CredentialStore, codes CodeCache, jwt *helpers.JWTManager, pub Publisher, logger *logrus.Logger) *HostedProvider {
	return &HostedProvider{Creds: creds, Codes: codes, JWT: jwt, Pub: pub, Logger: logger}
}

func (p *HostedProvider) SignUp(ctx context.Context, email, password string) (string, error) {
	if len(password) < 8 {
		return "", fmt.Errorf("%w: password shorter than 8 characters", ErrRejected)
	}
	hash, err := helpers.HashPassword(password)
	if err != nil {
		return "", err
	}

	cred := &Credential{
		Subject:      uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
	}
	if err := p.Creds.Insert(ctx, cred); err != nil {
		return "", err
	}

	code, err := helpers.GenVerifyCode()
	if err != nil {
		return "", err
	}
	if err := p.Codes.Put(ctx, email, code, codeTTL); err != nil {
		return "", err
	}

	if p.Pub != nil {
		job := mailer.EmailJob{
			To:       email,
			Template: tpl.TemplateVerifyCode,
			Data: map[string]any{
				"Name":      email,
				"Code":      code,
				"ExpiresIn": codeTTL.String(),
			},
		}
		if err := p.Pub.PublishJSON(ctx, job); err != nil && p.Logger != nil {
			p.Logger.WithError(err).WithField("email", email).Warn("enqueue verification email failed")
		}
	}

	return cred.Subject, nil
}

func (p *HostedProvider) ConfirmSignUp(ctx context.Context, email, code string) error {
	cred, err := p.Creds.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNoCredential) {
			return ErrCodeMismatch
		}
		return err
	}
	if cred.Confirmed {
		// re-confirming is a no-op success
		return nil
	}

	pending, err := p.Codes.Get(ctx, email)
	if err != nil {
		return err
	}
	if pending != code {
		return ErrCodeMismatch
	}

	if err := p.Creds.SetConfirmed(ctx, cred.Subject); err != nil {
		return err
	}
	_ = p.Codes.Drop(ctx, email)
	return nil
}

func (p *HostedProvider) InitiateAuth(ctx context.Context, email, password string) (TokenPair, error) {
	cred, err := p.Creds.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNoCredential) {
			return TokenPair{}, ErrInvalidLogin
		}
		return TokenPair{}, err
	}
	if !helpers.CompareHashAndPassword(cred.PasswordHash, password) {
		return TokenPair{}, ErrInvalidLogin
	}
	if !cred.Confirmed {
		return TokenPair{}, ErrNotConfirmed
	}

	access, aexp, err := p.JWT.GenerateAccessToken(cred.Subject)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, rexp, err := p.JWT.GenerateRefreshToken(cred.Subject)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{
		AccessToken:        access,
		AccessTokenExpiry:  aexp,
		RefreshToken:       refresh,
		RefreshTokenExpiry: rexp,
	}, nil
}

func (p *HostedProvider) ValidateToken(ctx context.Context, token string) (string, error) {
	claims, err := p.JWT.ParseAccessToken(token)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.Subject == "" {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}

func (p *HostedProvider) DeleteIdentity(ctx context.Context, subject string) error {
	return p.Creds.Delete(ctx, subject)
}

var _ Provider = (*HostedProvider)(nil)
