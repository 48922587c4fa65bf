package router

import (
	userapp "github.com/skycastlabs/user-service/internal/application"
	"github.com/skycastlabs/user-service/internal/container"
	gcsinfra "github.com/skycastlabs/user-service/internal/infrastructure/gcs"
	pginfra "github.com/skycastlabs/user-service/internal/infrastructure/postgres"
	handlers "github.com/skycastlabs/user-service/internal/interface/http"
	"github.com/skycastlabs/user-service/internal/router/modules"
)

func buildUserModule() *modules.UserModule {
	repo := pginfra.NewUserRepository(container.GetPGPool())
	assets := gcsinfra.NewAssetStore(container.GetGCS(), container.GetConfig().GCSBucket)

	service := userapp.NewService(
		repo,
		container.GetProvider(),
		assets,
		container.GetLogger(),
		container.GetES(),
		container.GetConfig().ESUsersIndex,
	)

	handler := handlers.NewUserHandler(service, container.GetLogger())

	return modules.NewUserModule(handler, container.GetProvider())
}

// InitModules initializes all application modules and registers them with the router registry.
// Called once during application startup.
func InitModules(r *Registry) {
	r.Add(buildUserModule())
	if container.GetConfig().DebugMetricsEnabled {
		r.Add(modules.NewDebugModule())
	}
}
