package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sarcoord/rescue-backend-go/internal/models"
	"github.com/sarcoord/rescue-backend-go/internal/service"
	"github.com/sarcoord/rescue-backend-go/pkg/response"
)

// UserHandler handles HTTP requests for console users
type UserHandler struct {
	userService *service.UserService
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// List handles GET /api/v1/users
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.userService.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, users)
}

// Update handles PUT /api/v1/users/:userId
func (h *UserHandler) Update(c *gin.Context) {
	var req models.UserUpdateRequest
	if !bindJSON(c, &req) {
		return
	}
	u, err := h.userService.Update(c.Request.Context(), c.Param("userId"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, u)
}

// Me handles GET /api/v1/me
func (h *UserHandler) Me(c *gin.Context) {
	id, ok := caller(c)
	if !ok {
		return
	}
	u, err := h.userService.Get(c.Request.Context(), id.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, u)
}

// SetLanguage handles PUT /api/v1/me/language
func (h *UserHandler) SetLanguage(c *gin.Context) {
	id, ok := caller(c)
	if !ok {
		return
	}
	var req models.LanguageRequest
	if !bindJSON(c, &req) {
		return
	}
	u, err := h.userService.SetLanguage(c.Request.Context(), id.UserID, req.Language)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, u)
}
