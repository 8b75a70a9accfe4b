package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	app "github.com/shoplite/catalog-backend/internal/application"
	"github.com/shoplite/catalog-backend/internal/domain/entity"
	"github.com/shoplite/catalog-backend/pkg/response"
	"github.com/shoplite/catalog-backend/pkg/validation"
)

type CategoryHandler struct {
	Svc    *app.CategoryService
	Logger *logrus.Logger
}

func NewCategoryHandler(svc *app.CategoryService, logger *logrus.Logger) *CategoryHandler {
	return &CategoryHandler{Svc: svc, Logger: logger}
}

type categoryRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

// Create POST /api/categories
func (h *CategoryHandler) Create(c *gin.Context) {
	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	cat, err := h.Svc.CreateCategory(c.Request.Context(), &entity.Category{Name: req.Name, Description: req.Description})
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusCreated, toCategoryResponse(cat), "category created", nil)
}

// Update PUT /api/categories/:id
func (h *CategoryHandler) Update(c *gin.Context) {
	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	cat, err := h.Svc.UpdateCategory(c.Request.Context(), c.Param("id"), &entity.Category{Name: req.Name, Description: req.Description})
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, toCategoryResponse(cat), "category updated", nil)
}

// Get GET /api/categories/:id
func (h *CategoryHandler) Get(c *gin.Context) {
	cat, err := h.Svc.GetCategoryByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, toCategoryResponse(cat), "category", nil)
}

// List GET /api/categories?page=&page_size=
func (h *CategoryHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	items, total, err := h.Svc.ListCategories(c.Request.Context(), page, pageSize)
	if err != nil {
		fail(c, err)
		return
	}
	out := make([]categoryResponse, 0, len(items))
	for _, cat := range items {
		out = append(out, toCategoryResponse(cat))
	}
	response.Success(c, http.StatusOK, out, "categories",
		response.PageMeta{Page: page, PageSize: pageSize, Total: total})
}

type setActiveRequest struct {
	Active *bool `json:"active" binding:"required"`
}

// SetActive PATCH /api/categories/:id/active
func (h *CategoryHandler) SetActive(c *gin.Context) {
	var req setActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	cat, err := h.Svc.SetCategoryActive(c.Request.Context(), c.Param("id"), *req.Active)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, toCategoryResponse(cat), "category updated", nil)
}

// Delete DELETE /api/categories/:id
func (h *CategoryHandler) Delete(c *gin.Context) {
	if err := h.Svc.DeleteCategory(c.Request.Context(), c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"deleted": true}, "category deleted", nil)
}
