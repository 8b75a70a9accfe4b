package router

import (
	app "github.com/shoplite/catalog-backend/internal/application"
	"github.com/shoplite/catalog-backend/internal/container"
	pginfra "github.com/shoplite/catalog-backend/internal/infrastructure/postgres"
	handlers "github.com/shoplite/catalog-backend/internal/interface/http"
	"github.com/shoplite/catalog-backend/internal/router/modules"
	"github.com/shoplite/catalog-backend/pkg/helpers"
)

// InitModules wires repositories, services and handlers from the container
// singletons and registers every feature module. Call once during startup.
func InitModules(r *Registry) {
	cfg := container.GetConfig()
	logger := container.GetLogger()
	pool := container.GetPGPool()

	categoryRepo := pginfra.NewCategoryRepository(pool)
	productRepo := pginfra.NewProductRepository(pool)
	userRepo := pginfra.NewUserRepository(pool)

	categorySvc := app.NewCategoryService(categoryRepo, productRepo, logger)
	productSvc := app.NewProductService(
		productRepo,
		categoryRepo,
		container.GetRedis(),
		logger,
		container.GetES(),
		cfg.ESProductsIndex,
		container.GetGCS(),
		cfg.GCSBucket,
	)
	userSvc := app.NewUserService(
		userRepo,
		container.GetJWT(),
		container.GetRedis(),
		logger,
		container.GetRabbitPub(),
		cfg.MailSendEnabled,
	)

	cookies := helpers.NewCookie(cfg.CookieDomain, cfg.CookieSecure)

	r.Add(modules.NewAuthModule(handlers.NewAuthHandler(userSvc, cookies, logger), container.GetJWT()))
	r.Add(modules.NewUserModule(handlers.NewUserHandler(userSvc, logger), container.GetJWT()))
	r.Add(modules.NewCatalogModule(
		handlers.NewCategoryHandler(categorySvc, logger),
		handlers.NewProductHandler(productSvc, logger),
		container.GetJWT(),
	))
	r.Add(modules.NewDebugModule())
}
