package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	app "github.com/shoplite/catalog-backend/internal/application"
	"github.com/shoplite/catalog-backend/internal/domain/entity"
	"github.com/shoplite/catalog-backend/internal/domain/valueobject"
	"github.com/shoplite/catalog-backend/pkg/response"
	"github.com/shoplite/catalog-backend/pkg/validation"
)

type ProductHandler struct {
	Svc    *app.ProductService
	Logger *logrus.Logger
}

func NewProductHandler(svc *app.ProductService, logger *logrus.Logger) *ProductHandler {
	return &ProductHandler{Svc: svc, Logger: logger}
}

type productRequest struct {
	SKU           string `json:"sku"`
	Name          string `json:"name" binding:"required"`
	Description   string `json:"description"`
	PriceAmount   string `json:"price_amount" binding:"required"`
	PriceCurrency string `json:"price_currency" binding:"required,currency"`
	StockQuantity int    `json:"stock_quantity" binding:"gte=0"`
	CategoryID    string `json:"category_id" binding:"required,uuid"`
}

func (r productRequest) toEntity() (*entity.Product, error) {
	price, err := valueobject.NewMoneyFromString(r.PriceAmount, r.PriceCurrency)
	if err != nil {
		return nil, err
	}
	return &entity.Product{
		SKU:           r.SKU,
		Name:          r.Name,
		Description:   r.Description,
		Price:         price,
		StockQuantity: r.StockQuantity,
		Category:      entity.Category{ID: r.CategoryID},
	}, nil
}

// Create POST /api/products
func (h *ProductHandler) Create(c *gin.Context) {
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	candidate, err := req.toEntity()
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, err.Error(), nil)
		return
	}
	p, err := h.Svc.CreateProduct(c.Request.Context(), candidate)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusCreated, toProductResponse(p), "product created", nil)
}

// Update PUT /api/products/:id
func (h *ProductHandler) Update(c *gin.Context) {
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	candidate, err := req.toEntity()
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, err.Error(), nil)
		return
	}
	p, err := h.Svc.UpdateProduct(c.Request.Context(), c.Param("id"), candidate)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, toProductResponse(p), "product updated", nil)
}

// Get GET /api/products/:id
func (h *ProductHandler) Get(c *gin.Context) {
	p, err := h.Svc.GetProductByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, toProductResponse(p), "product", nil)
}

// GetBySKU GET /api/products/sku/:sku
func (h *ProductHandler) GetBySKU(c *gin.Context) {
	p, err := h.Svc.GetProductBySKU(c.Request.Context(), c.Param("sku"))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, toProductResponse(p), "product", nil)
}

// ListByCategory GET /api/categories/:id/products?page=&page_size=
func (h *ProductHandler) ListByCategory(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	items, total, err := h.Svc.ListProductsByCategory(c.Request.Context(), c.Param("id"), page, pageSize)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, toProductResponses(items), "products",
		response.PageMeta{Page: page, PageSize: pageSize, Total: total})
}

type adjustStockRequest struct {
	Delta int `json:"delta" binding:"required"`
}

// AdjustStock POST /api/products/:id/stock
func (h *ProductHandler) AdjustStock(c *gin.Context) {
	var req adjustStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	p, err := h.Svc.AdjustStock(c.Request.Context(), c.Param("id"), req.Delta)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, toProductResponse(p), "stock adjusted", nil)
}

type changeCategoryRequest struct {
	CategoryID string `json:"category_id" binding:"required,uuid"`
}

// ChangeCategory POST /api/products/:id/category
func (h *ProductHandler) ChangeCategory(c *gin.Context) {
	var req changeCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	p, err := h.Svc.ChangeCategory(c.Request.Context(), c.Param("id"), req.CategoryID)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, toProductResponse(p), "category changed", nil)
}

type updatePriceRequest struct {
	PriceAmount   string `json:"price_amount" binding:"required"`
	PriceCurrency string `json:"price_currency" binding:"required,currency"`
}

// UpdatePrice PUT /api/products/:id/price
func (h *ProductHandler) UpdatePrice(c *gin.Context) {
	var req updatePriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	price, err := valueobject.NewMoneyFromString(req.PriceAmount, req.PriceCurrency)
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, err.Error(), nil)
		return
	}
	p, err := h.Svc.UpdatePrice(c.Request.Context(), c.Param("id"), price)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, toProductResponse(p), "price updated", nil)
}

// Deactivate DELETE /api/products/:id
func (h *ProductHandler) Deactivate(c *gin.Context) {
	if err := h.Svc.DeactivateProduct(c.Request.Context(), c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"deleted": true}, "product deactivated", nil)
}

// Search GET /api/products/search?q=&size=
func (h *ProductHandler) Search(c *gin.Context) {
	q := c.Query("q")
	size, _ := strconv.Atoi(c.DefaultQuery("size", "10"))
	res, err := h.Svc.SearchProducts(c.Request.Context(), q, size)
	if err != nil {
		h.Logger.WithError(err).Warn("product search failed")
		response.Error[any](c, http.StatusBadGateway, "search unavailable", nil)
		return
	}
	response.Success(c, http.StatusOK, res, "search results", gin.H{"count": len(res)})
}

// UploadImage POST /api/products/:id/image (multipart field "image")
func (h *ProductHandler) UploadImage(c *gin.Context) {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "image file is required", nil)
		return
	}
	f, err := fileHeader.Open()
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "cannot read image file", nil)
		return
	}
	defer func() { _ = f.Close() }()

	url, err := h.Svc.UploadProductImage(c.Request.Context(), c.Param("id"), f,
		fileHeader.Filename, fileHeader.Header.Get("Content-Type"))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"image_url": url}, "image uploaded", nil)
}
