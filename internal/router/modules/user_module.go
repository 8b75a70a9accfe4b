package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/shoplite/catalog-backend/internal/container"
	handlers "github.com/shoplite/catalog-backend/internal/interface/http"
	"github.com/shoplite/catalog-backend/internal/interface/middleware"
	"github.com/shoplite/catalog-backend/pkg/helpers"
)

// UserModule registers the account routes. Profile and password routes need
// only a valid session; listing and lifecycle routes are admin-only.
type UserModule struct {
	Handler *handlers.UserHandler
	JWT     *helpers.JWTManager
}

func NewUserModule(h *handlers.UserHandler, jwt *helpers.JWTManager) *UserModule {
	return &UserModule{Handler: h, JWT: jwt}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	rdb := container.GetRedis()

	auth := rg.Group("/")
	auth.Use(middleware.Auth(rdb, m.JWT))
	auth.Use(middleware.RateLimit(rdb, 120, time.Minute, middleware.KeyByUserID(), nil))
	{
		auth.GET("/users/me", m.Handler.Me)
		auth.POST("/users/me/password", m.Handler.ChangePassword)
		auth.PUT("/users/:id", m.Handler.Update)
	}

	admin := auth.Group("/")
	admin.Use(middleware.RequireAdmin())
	{
		admin.GET("/users", m.Handler.List)
		admin.GET("/users/:id", m.Handler.Get)
		admin.PATCH("/users/:id/role", m.Handler.ChangeRole)
		admin.POST("/users/:id/activate", m.Handler.Activate)
		admin.POST("/users/:id/deactivate", m.Handler.Deactivate)
	}
}
