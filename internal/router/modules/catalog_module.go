package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/shoplite/catalog-backend/internal/container"
	handlers "github.com/shoplite/catalog-backend/internal/interface/http"
	"github.com/shoplite/catalog-backend/internal/interface/middleware"
	"github.com/shoplite/catalog-backend/pkg/helpers"
)

// CatalogModule registers the category and product routes. Reads are public,
// writes require an admin-privileged session.
type CatalogModule struct {
	Categories *handlers.CategoryHandler
	Products   *handlers.ProductHandler
	JWT        *helpers.JWTManager
}

func NewCatalogModule(cats *handlers.CategoryHandler, prods *handlers.ProductHandler, jwt *helpers.JWTManager) *CatalogModule {
	return &CatalogModule{Categories: cats, Products: prods, JWT: jwt}
}

func (m *CatalogModule) Register(rg *gin.RouterGroup) {
	rdb := container.GetRedis()

	readLimiter := middleware.RateLimit(rdb, 300, time.Minute, middleware.KeyByIP(), nil)
	searchLimiter := middleware.RateLimit(rdb, 60, time.Minute, middleware.KeyByIPAndPath(), nil)

	public := rg.Group("/")
	public.Use(readLimiter)
	{
		public.GET("/categories", m.Categories.List)
		public.GET("/categories/:id", m.Categories.Get)
		public.GET("/categories/:id/products", m.Products.ListByCategory)
		public.GET("/products/:id", m.Products.Get)
		public.GET("/products/sku/:sku", m.Products.GetBySKU)
		public.GET("/products/search", searchLimiter, m.Products.Search)
	}

	admin := rg.Group("/")
	admin.Use(
		middleware.Auth(rdb, m.JWT),
		middleware.RequireAdmin(),
		middleware.RateLimit(rdb, 120, time.Minute, middleware.KeyByUserID(), nil),
	)
	{
		admin.POST("/categories", m.Categories.Create)
		admin.PUT("/categories/:id", m.Categories.Update)
		admin.PATCH("/categories/:id/active", m.Categories.SetActive)
		admin.DELETE("/categories/:id", m.Categories.Delete)

		admin.POST("/products", m.Products.Create)
		admin.PUT("/products/:id", m.Products.Update)
		admin.POST("/products/:id/stock", m.Products.AdjustStock)
		admin.POST("/products/:id/category", m.Products.ChangeCategory)
		admin.PUT("/products/:id/price", m.Products.UpdatePrice)
		admin.DELETE("/products/:id", m.Products.Deactivate)
		admin.POST("/products/:id/image", m.Products.UploadImage)
	}
}
