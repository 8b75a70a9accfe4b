package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	app "github.com/shoplite/catalog-backend/internal/application"
	"github.com/shoplite/catalog-backend/internal/domain/entity"
	"github.com/shoplite/catalog-backend/internal/domain/valueobject"
	"github.com/shoplite/catalog-backend/internal/interface/middleware"
	"github.com/shoplite/catalog-backend/pkg/response"
	"github.com/shoplite/catalog-backend/pkg/validation"
)

type UserHandler struct {
	Svc    *app.UserService
	Logger *logrus.Logger
}

func NewUserHandler(svc *app.UserService, logger *logrus.Logger) *UserHandler {
	return &UserHandler{Svc: svc, Logger: logger}
}

// actingUser loads the authenticated user set by the auth middleware.
func (h *UserHandler) actingUser(c *gin.Context) (*entity.User, bool) {
	uid := c.GetString(middleware.CtxUserIDKey)
	if uid == "" {
		response.Error[any](c, http.StatusUnauthorized, "not authenticated", nil)
		return nil, false
	}
	u, err := h.Svc.GetUserByID(c.Request.Context(), uid)
	if err != nil {
		fail(c, err)
		return nil, false
	}
	return u, true
}

// Me GET /api/users/me
func (h *UserHandler) Me(c *gin.Context) {
	u, ok := h.actingUser(c)
	if !ok {
		return
	}
	response.Success(c, http.StatusOK, toUserResponse(u), "profile", nil)
}

// Get GET /api/users/:id
func (h *UserHandler) Get(c *gin.Context) {
	u, err := h.Svc.GetUserByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, toUserResponse(u), "user", nil)
}

// List GET /api/users?page=&page_size=
func (h *UserHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	items, total, err := h.Svc.ListUsers(c.Request.Context(), page, pageSize)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, toUserResponses(items), "users",
		response.PageMeta{Page: page, PageSize: pageSize, Total: total})
}

type updateUserRequest struct {
	FirstName string `json:"first_name" binding:"required,personname"`
	LastName  string `json:"last_name" binding:"required,personname"`
	Email     string `json:"email" binding:"required,email"`
	Role      string `json:"role"`
}

// Update PUT /api/users/:id
func (h *UserHandler) Update(c *gin.Context) {
	acting, ok := h.actingUser(c)
	if !ok {
		return
	}
	var req updateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	email, err := valueobject.NewEmailAddress(req.Email)
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, err.Error(), nil)
		return
	}
	candidate := &entity.User{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     email,
	}
	if req.Role != "" {
		role, rErr := valueobject.ParseRole(req.Role)
		if rErr != nil {
			response.Error[any](c, http.StatusBadRequest, rErr.Error(), nil)
			return
		}
		candidate.Role = role
	}
	u, err := h.Svc.UpdateUser(c.Request.Context(), c.Param("id"), candidate, acting)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, toUserResponse(u), "user updated", nil)
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,pwd"`
}

// ChangePassword POST /api/users/me/password
func (h *UserHandler) ChangePassword(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)
	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	u, err := h.Svc.ChangePassword(c.Request.Context(), uid, req.CurrentPassword, req.NewPassword)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, toUserResponse(u), "password changed", nil)
}

type changeRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

// ChangeRole PATCH /api/users/:id/role
func (h *UserHandler) ChangeRole(c *gin.Context) {
	acting, ok := h.actingUser(c)
	if !ok {
		return
	}
	var req changeRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	role, err := valueobject.ParseRole(req.Role)
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, err.Error(), nil)
		return
	}
	u, err := h.Svc.ChangeRole(c.Request.Context(), c.Param("id"), role, acting)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, toUserResponse(u), "role changed", nil)
}

// Activate POST /api/users/:id/activate
func (h *UserHandler) Activate(c *gin.Context) {
	u, err := h.Svc.ActivateUser(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, toUserResponse(u), "user activated", nil)
}

// Deactivate POST /api/users/:id/deactivate
func (h *UserHandler) Deactivate(c *gin.Context) {
	acting, ok := h.actingUser(c)
	if !ok {
		return
	}
	u, err := h.Svc.DeactivateUser(c.Request.Context(), c.Param("id"), acting)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, toUserResponse(u), "user deactivated", nil)
}
