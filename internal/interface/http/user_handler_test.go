package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	userapp "github.com/skycastlabs/user-service/internal/application"
	"github.com/skycastlabs/user-service/internal/domain/entity"
	"github.com/skycastlabs/user-service/internal/domain/repository"
	"github.com/skycastlabs/user-service/internal/identity"
	"github.com/skycastlabs/user-service/internal/interface/middleware"
	"github.com/skycastlabs/user-service/pkg/validation"
)

func init() {
	gin.SetMode(gin.TestMode)
	validation.Init()
}

type memRepo struct {
	users map[string]*entity.User
}

func newMemRepo() *memRepo { return &memRepo{users: map[string]*entity.User{}} }

func (r *memRepo) Create(ctx context.Context, u *entity.User) error {
	u.Version = 1
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *memRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *memRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *memRepo) Update(ctx context.Context, u *entity.User) error {
	if _, ok := r.users[u.ID]; !ok {
		return repository.ErrNotFound
	}
	u.Version++
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

type scriptedProvider struct {
	subject    string
	signUpErr  error
	confirmErr error
	authErr    error
	pair       identity.TokenPair
}

func (p *scriptedProvider) SignUp(ctx context.Context, email, password string) (string, error) {
	if p.signUpErr != nil {
		return "", p.signUpErr
	}
	return p.subject, nil
}
func (p *scriptedProvider) ConfirmSignUp(ctx context.Context, email, code string) error {
	return p.confirmErr
}
func (p *scriptedProvider) InitiateAuth(ctx context.Context, email, password string) (identity.TokenPair, error) {
	if p.authErr != nil {
		return identity.TokenPair{}, p.authErr
	}
	return p.pair, nil
}
func (p *scriptedProvider) ValidateToken(ctx context.Context, token string) (string, error) {
	return p.subject, nil
}
func (p *scriptedProvider) DeleteIdentity(ctx context.Context, subject string) error { return nil }

type memAssets struct{ err error }

func (a *memAssets) Put(ctx context.Context, subject, name, contentType string, r io.Reader) (string, error) {
	if a.err != nil {
		return "", a.err
	}
	return fmt.Sprintf("profiles/%s/%s", subject, name), nil
}

// rig wires the handler into a router the way the user module does, with the
// auth middleware replaced by a fixed subject.
func rig(repo *memRepo, provider *scriptedProvider, assets *memAssets, subject string) *gin.Engine {
	svc := userapp.NewService(repo, provider, assets, nil, nil, "")
	h := NewUserHandler(svc, nil)

	r := gin.New()
	api := r.Group("/api")
	api.POST("/users", h.Register)
	api.POST("/users/verify", h.Verify)
	api.POST("/users/login", h.Login)

	authed := api.Group("")
	authed.Use(func(c *gin.Context) { c.Set(middleware.CtxSubjectKey, subject) })
	authed.GET("/users", h.GetProfile)
	authed.POST("/users/favourites", h.AddFavourite)
	authed.PATCH("/users/favourites", h.RemoveFavourite)
	authed.POST("/users/uploads", h.Upload)
	authed.GET("/users/search", h.Search)
	return r
}

type envelope struct {
	Status     string         `json:"status"`
	StatusCode int            `json:"statusCode"`
	Message    string         `json:"message"`
	Data       map[string]any `json:"data"`
	Error      any            `json:"error"`
}

func doJSON(r *gin.Engine, method, path, body string, headers map[string]string) (*httptest.ResponseRecorder, envelope) {
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	var env envelope
	_ = json.Unmarshal(w.Body.Bytes(), &env)
	return w, env
}

const registerBody = `{"userName":"ada","firstName":"Ada","lastName":"Lovelace","email":"a@x.com","mobileNumber":"0123456789","password":"password123"}`

func TestRegisterEndpoint_Created(t *testing.T) {
	repo := newMemRepo()
	r := rig(repo, &scriptedProvider{subject: "U1"}, &memAssets{}, "")

	w, env := doJSON(r, http.MethodPost, "/api/users", registerBody, nil)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "success", env.Status)
	assert.Equal(t, http.StatusCreated, env.StatusCode)
	assert.Equal(t, "a@x.com", env.Data["email"])
	assert.Equal(t, false, env.Data["isVerified"])
	assert.NotContains(t, env.Data, "version")
}

func TestRegisterEndpoint_ValidationDetails(t *testing.T) {
	r := rig(newMemRepo(), &scriptedProvider{subject: "U1"}, &memAssets{}, "")

	body := `{"userName":"ada","firstName":"Ada","lastName":"Lovelace","email":"not-an-email","mobileNumber":"123","password":"short"}`
	w, env := doJSON(r, http.MethodPost, "/api/users", body, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "error", env.Status)

	details, ok := env.Error.(map[string]any)
	require.True(t, ok, "error detail should be a field map, got %T", env.Error)
	assert.Contains(t, details, "email")
	assert.Contains(t, details, "password")
	assert.Contains(t, details, "mobileNumber")
}

func TestRegisterEndpoint_DuplicateEmailConflict(t *testing.T) {
	repo := newMemRepo()
	repo.users["U0"] = &entity.User{ID: "U0", Email: "a@x.com", Version: 1}
	r := rig(repo, &scriptedProvider{subject: "U1"}, &memAssets{}, "")

	w, env := doJSON(r, http.MethodPost, "/api/users", registerBody, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "error", env.Status)
}

func TestVerifyEndpoint_WrongCode(t *testing.T) {
	repo := newMemRepo()
	repo.users["U1"] = &entity.User{ID: "U1", Email: "a@x.com", Version: 1}
	r := rig(repo, &scriptedProvider{confirmErr: identity.ErrCodeMismatch}, &memAssets{}, "")

	w, env := doJSON(r, http.MethodPost, "/api/users/verify", `{"email":"a@x.com","verifyCode":"123456"}`, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "error", env.Status)
}

func TestVerifyEndpoint_Success(t *testing.T) {
	repo := newMemRepo()
	repo.users["U1"] = &entity.User{ID: "U1", Email: "a@x.com", Version: 1}
	r := rig(repo, &scriptedProvider{}, &memAssets{}, "")

	w, env := doJSON(r, http.MethodPost, "/api/users/verify", `{"email":"a@x.com","verifyCode":"123456"}`, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, env.Data["isVerified"])
}

func TestLoginEndpoint(t *testing.T) {
	repo := newMemRepo()
	repo.users["U1"] = &entity.User{ID: "U1", Email: "a@x.com", IsVerified: true, Version: 1}

	t.Run("success returns user and tokens", func(t *testing.T) {
		p := &scriptedProvider{pair: identity.TokenPair{AccessToken: "tok"}}
		r := rig(repo, p, &memAssets{}, "")
		w, env := doJSON(r, http.MethodPost, "/api/users/login", `{"email":"a@x.com","password":"password123"}`, nil)
		require.Equal(t, http.StatusOK, w.Code)
		tokens, ok := env.Data["tokens"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "tok", tokens["accessToken"])
	})

	t.Run("bad credentials are unauthorized", func(t *testing.T) {
		r := rig(repo, &scriptedProvider{authErr: identity.ErrInvalidLogin}, &memAssets{}, "")
		w, _ := doJSON(r, http.MethodPost, "/api/users/login", `{"email":"a@x.com","password":"password123"}`, nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("unverified email is a bad request", func(t *testing.T) {
		r := rig(repo, &scriptedProvider{authErr: identity.ErrNotConfirmed}, &memAssets{}, "")
		w, _ := doJSON(r, http.MethodPost, "/api/users/login", `{"email":"a@x.com","password":"password123"}`, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestGetProfileEndpoint(t *testing.T) {
	repo := newMemRepo()
	repo.users["U1"] = &entity.User{ID: "U1", Email: "a@x.com", Version: 1}
	r := rig(repo, &scriptedProvider{}, &memAssets{}, "U1")

	w, env := doJSON(r, http.MethodGet, "/api/users", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "a@x.com", env.Data["email"])
}

func TestGetProfileEndpoint_MissingRecord(t *testing.T) {
	r := rig(newMemRepo(), &scriptedProvider{}, &memAssets{}, "ghost")
	w, _ := doJSON(r, http.MethodGet, "/api/users", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestFavouriteEndpoints_CityHeader(t *testing.T) {
	repo := newMemRepo()
	repo.users["U1"] = &entity.User{ID: "U1", Email: "a@x.com", FavouritePlaces: []string{"Paris"}, Version: 1}
	r := rig(repo, &scriptedProvider{}, &memAssets{}, "U1")

	w, env := doJSON(r, http.MethodPost, "/api/users/favourites", "", map[string]string{"city": "Tokyo"})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, []any{"Paris", "Tokyo"}, env.Data["favouritePlaces"])

	w, env = doJSON(r, http.MethodPatch, "/api/users/favourites", "", map[string]string{"city": "Paris"})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, []any{"Tokyo"}, env.Data["favouritePlaces"])
}

func TestAddFavouriteEndpoint_Errors(t *testing.T) {
	repo := newMemRepo()
	repo.users["U1"] = &entity.User{
		ID: "U1", Email: "a@x.com", Version: 1,
		FavouritePlaces: []string{"Paris", "Tokyo", "Rome", "Cairo", "Lima"},
	}
	r := rig(repo, &scriptedProvider{}, &memAssets{}, "U1")

	w, _ := doJSON(r, http.MethodPost, "/api/users/favourites", "", map[string]string{"city": "Oslo"})
	assert.Equal(t, http.StatusBadRequest, w.Code, "full list must reject a sixth city")

	w, _ = doJSON(r, http.MethodPost, "/api/users/favourites", "", map[string]string{"city": "Paris"})
	assert.Equal(t, http.StatusBadRequest, w.Code, "duplicate city must be rejected")

	w, _ = doJSON(r, http.MethodPost, "/api/users/favourites", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code, "missing city header must be rejected")
}

func multipartBody(t *testing.T, field, filename, content string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = fw.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func TestUploadEndpoint(t *testing.T) {
	repo := newMemRepo()
	repo.users["U1"] = &entity.User{ID: "U1", Email: "a@x.com", Version: 1}
	r := rig(repo, &scriptedProvider{}, &memAssets{}, "U1")

	body, contentType := multipartBody(t, "file", "me.png", "png-bytes")
	req := httptest.NewRequest(http.MethodPost, "/api/users/uploads", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "image uploaded successfully")
	assert.Equal(t, "profiles/U1/me.png", repo.users["U1"].ProfilePicture)
}

func TestUploadEndpoint_MissingFile(t *testing.T) {
	repo := newMemRepo()
	repo.users["U1"] = &entity.User{ID: "U1", Version: 1}
	r := rig(repo, &scriptedProvider{}, &memAssets{}, "U1")

	body, contentType := multipartBody(t, "attachment", "me.png", "png-bytes")
	req := httptest.NewRequest(http.MethodPost, "/api/users/uploads", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "file should be uploaded")
}

func TestSearchEndpoint_RequiresQuery(t *testing.T) {
	r := rig(newMemRepo(), &scriptedProvider{}, &memAssets{}, "U1")
	w, env := doJSON(r, http.MethodGet, "/api/users/search", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "error", env.Status)
}
