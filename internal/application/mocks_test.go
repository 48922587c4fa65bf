package application

import (
	"context"
	"fmt"
	"io"

	"github.com/skycastlabs/user-service/internal/domain/entity"
	"github.com/skycastlabs/user-service/internal/domain/repository"
	"github.com/skycastlabs/user-service/internal/identity"
)

// fakeRepo is an in-memory UserRepository with version semantics matching
// the postgres implementation.
type fakeRepo struct {
	users map[string]*entity.User

	createErr error
	getErr    error
	updateErr error

	// conflictsLeft makes the next N Update calls fail with a version
	// conflict while still bumping the stored version, mimicking a
	// concurrent writer.
	conflictsLeft int

	getCalls    int
	updateCalls int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{users: map[string]*entity.User{}}
}

func cloneUser(u *entity.User) *entity.User {
	cp := *u
	cp.FavouritePlaces = append([]string{}, u.FavouritePlaces...)
	return &cp
}

func (r *fakeRepo) Create(ctx context.Context, u *entity.User) error {
	if r.createErr != nil {
		return r.createErr
	}
	u.Version = 1
	r.users[u.ID] = cloneUser(u)
	return nil
}

func (r *fakeRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	r.getCalls++
	if r.getErr != nil {
		return nil, r.getErr
	}
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return cloneUser(u), nil
}

func (r *fakeRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	if r.getErr != nil {
		return nil, r.getErr
	}
	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeRepo) Update(ctx context.Context, u *entity.User) error {
	r.updateCalls++
	if r.updateErr != nil {
		return r.updateErr
	}
	stored, ok := r.users[u.ID]
	if !ok {
		return repository.ErrNotFound
	}
	if r.conflictsLeft > 0 {
		r.conflictsLeft--
		stored.Version++
		return repository.ErrVersionConflict
	}
	if stored.Version != u.Version {
		return repository.ErrVersionConflict
	}
	u.Version++
	r.users[u.ID] = cloneUser(u)
	return nil
}

var _ repository.UserRepository = (*fakeRepo)(nil)

// fakeProvider scripts the identity-provider boundary.
type fakeProvider struct {
	subject    string
	signUpErr  error
	confirmErr error
	authPair   identity.TokenPair
	authErr    error
	validated  string
	vErr       error

	signUpCalls  int
	confirmCalls int
	deleted      []string
}

func (p *fakeProvider) SignUp(ctx context.Context, email, password string) (string, error) {
	p.signUpCalls++
	if p.signUpErr != nil {
		return "", p.signUpErr
	}
	return p.subject, nil
}

func (p *fakeProvider) ConfirmSignUp(ctx context.Context, email, code string) error {
	p.confirmCalls++
	return p.confirmErr
}

func (p *fakeProvider) InitiateAuth(ctx context.Context, email, password string) (identity.TokenPair, error) {
	if p.authErr != nil {
		return identity.TokenPair{}, p.authErr
	}
	return p.authPair, nil
}

func (p *fakeProvider) ValidateToken(ctx context.Context, token string) (string, error) {
	if p.vErr != nil {
		return "", p.vErr
	}
	return p.validated, nil
}

func (p *fakeProvider) DeleteIdentity(ctx context.Context, subject string) error {
	p.deleted = append(p.deleted, subject)
	return nil
}

var _ identity.Provider = (*fakeProvider)(nil)

// fakeAssets records uploads and returns deterministic keys.
type fakeAssets struct {
	putErr   error
	putCalls int
	lastKey  string
}

func (a *fakeAssets) Put(ctx context.Context, subject, name, contentType string, r io.Reader) (string, error) {
	a.putCalls++
	if a.putErr != nil {
		return "", a.putErr
	}
	a.lastKey = fmt.Sprintf("profiles/%s/%s", subject, name)
	return a.lastKey, nil
}

var _ AssetStore = (*fakeAssets)(nil)

func newTestService(repo *fakeRepo, provider *fakeProvider, assets *fakeAssets) *Service {
	return NewService(repo, provider, assets, nil, nil, "")
}
