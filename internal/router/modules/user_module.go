package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/skycastlabs/user-service/internal/container"
	"github.com/skycastlabs/user-service/internal/identity"
	handlers "github.com/skycastlabs/user-service/internal/interface/http"
	"github.com/skycastlabs/user-service/internal/interface/middleware"
)

// UserModule wires the /api/users surface.
// Public: POST /users, POST /users/verify, POST /users/login
// Protected: GET /users, POST+PATCH /users/favourites, POST /users/uploads, GET /users/search
type UserModule struct {
	Handler  *handlers.UserHandler
	Provider identity.Provider
}

func NewUserModule(h *handlers.UserHandler, provider identity.Provider) *UserModule {
	return &UserModule{Handler: h, Provider: provider}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	// Public with per-IP rate limits
	registerLimiter := middleware.RateLimit(container.GetRedis(), 10, time.Minute, middleware.KeyByIPAndPath(), nil)
	verifyLimiter := middleware.RateLimit(container.GetRedis(), 30, time.Minute, middleware.KeyByIPAndPath(), nil)
	loginLimiter := middleware.RateLimit(container.GetRedis(), 10, time.Minute, middleware.KeyByIP(), nil)

	rg.POST("/users", registerLimiter, m.Handler.Register)
	rg.POST("/users/verify", verifyLimiter, m.Handler.Verify)
	rg.POST("/users/login", loginLimiter, m.Handler.Login)

	// Protected
	auth := rg.Group("/")
	auth.Use(middleware.Auth(m.Provider))
	auth.Use(
		middleware.RateLimit(container.GetRedis(), 300, time.Minute, middleware.KeyByIP(), nil),
		middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyBySubject(), nil),
	)
	{
		auth.GET("/users", m.Handler.GetProfile)
		auth.POST("/users/favourites", m.Handler.AddFavourite)
		auth.PATCH("/users/favourites", m.Handler.RemoveFavourite)
		auth.POST("/users/uploads", m.Handler.Upload)
		auth.GET("/users/search", m.Handler.Search)
	}
}
