package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	userapp "github.com/skycastlabs/user-service/internal/application"
	"github.com/skycastlabs/user-service/internal/interface/middleware"
	"github.com/skycastlabs/user-service/pkg/response"
	"github.com/skycastlabs/user-service/pkg/validation"
)

type UserHandler struct {
	Svc    *userapp.Service
	Logger *logrus.Logger
}

func NewUserHandler(svc *userapp.Service, logger *logrus.Logger) *UserHandler {
	return &UserHandler{Svc: svc, Logger: logger}
}

type registerRequest struct {
	UserName     string `json:"userName" binding:"required"`
	FirstName    string `json:"firstName" binding:"required"`
	LastName     string `json:"lastName" binding:"required"`
	Email        string `json:"email" binding:"required,email"`
	MobileNumber string `json:"mobileNumber" binding:"omitempty,mobile"`
	Password     string `json:"password" binding:"required,pwd"`
}

type verifyRequest struct {
	Email      string `json:"email" binding:"required,email"`
	VerifyCode string `json:"verifyCode" binding:"required,verifycode"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,pwd"`
}

// statusFor translates component failures into response status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, userapp.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, userapp.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, userapp.ErrDuplicateAccount):
		return http.StatusConflict
	case errors.Is(err, userapp.ErrValidation),
		errors.Is(err, userapp.ErrVerification),
		errors.Is(err, userapp.ErrCapacityExceeded),
		errors.Is(err, userapp.ErrDuplicateEntry):
		return http.StatusBadRequest
	case errors.Is(err, userapp.ErrIdentityProvider),
		errors.Is(err, userapp.ErrAssetStore):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (h *UserHandler) fail(c *gin.Context, err error, message string) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError && h.Logger != nil {
		h.Logger.WithError(err).WithField("path", c.FullPath()).Error(message)
	}
	response.Error(c, status, message, err.Error())
}

// Register POST /api/users (public)
func (h *UserHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	u, err := h.Svc.Register(c.Request.Context(), userapp.RegisterInput{
		UserName:     req.UserName,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		MobileNumber: req.MobileNumber,
		Password:     req.Password,
	})
	if err != nil {
		h.fail(c, err, "problem in signing up")
		return
	}
	response.Success(c, http.StatusCreated, u, "user created successfully")
}

// Verify POST /api/users/verify (public)
func (h *UserHandler) Verify(c *gin.Context) {
	var req verifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	u, err := h.Svc.Verify(c.Request.Context(), req.Email, req.VerifyCode)
	if err != nil {
		h.fail(c, err, "problem in verifying user")
		return
	}
	response.Success(c, http.StatusOK, u, "user verified successfully")
}

// Login POST /api/users/login (public)
func (h *UserHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	u, pair, err := h.Svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.fail(c, err, "problem in logging in")
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"user":   u,
		"tokens": pair,
	}, "login successful")
}

// GetProfile GET /api/users (protected)
func (h *UserHandler) GetProfile(c *gin.Context) {
	subject := c.GetString(middleware.CtxSubjectKey)
	u, err := h.Svc.GetProfile(c.Request.Context(), subject)
	if err != nil {
		h.fail(c, err, "error in fetching user")
		return
	}
	response.Success(c, http.StatusOK, u, "user fetched successfully")
}

// AddFavourite POST /api/users/favourites (protected)
// The target city name travels in the "city" request header.
func (h *UserHandler) AddFavourite(c *gin.Context) {
	subject := c.GetString(middleware.CtxSubjectKey)
	city := c.GetHeader("city")
	places, err := h.Svc.AddFavourite(c.Request.Context(), subject, city)
	if err != nil {
		h.fail(c, err, "problem in adding favourite")
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"favouritePlaces": places}, "city added to favourites")
}

// RemoveFavourite PATCH /api/users/favourites (protected)
func (h *UserHandler) RemoveFavourite(c *gin.Context) {
	subject := c.GetString(middleware.CtxSubjectKey)
	city := c.GetHeader("city")
	places, err := h.Svc.RemoveFavourite(c.Request.Context(), subject, city)
	if err != nil {
		h.fail(c, err, "problem in removing favourite")
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"favouritePlaces": places}, "city removed from favourites")
}

// Upload POST /api/users/uploads (protected, multipart single file)
func (h *UserHandler) Upload(c *gin.Context) {
	subject := c.GetString(middleware.CtxSubjectKey)

	fh, err := c.FormFile("file")
	if err != nil {
		response.Error(c, http.StatusBadRequest, "error in file upload", "file should be uploaded")
		return
	}
	f, err := fh.Open()
	if err != nil {
		response.Error(c, http.StatusBadRequest, "error in file upload", err.Error())
		return
	}
	// release the staged multipart file regardless of outcome
	defer func() { _ = f.Close() }()

	contentType := fh.Header.Get("Content-Type")
	if _, err := h.Svc.LinkProfilePicture(c.Request.Context(), subject, fh.Filename, contentType, f, fh.Size); err != nil {
		h.fail(c, err, "error in file upload")
		return
	}
	response.Success[any](c, http.StatusOK, nil, "image uploaded successfully")
}

// Search GET /api/users/search?q= (protected)
func (h *UserHandler) Search(c *gin.Context) {
	q := c.Query("q")
	if q == "" {
		response.Error(c, http.StatusBadRequest, "invalid payload", gin.H{"q": "is required"})
		return
	}
	hits, err := h.Svc.SearchUsers(c.Request.Context(), q, 10)
	if err != nil {
		h.fail(c, err, "problem in searching users")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"hits": hits}, "search results")
}
