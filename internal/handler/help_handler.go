package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sarcoord/rescue-backend-go/internal/models"
	"github.com/sarcoord/rescue-backend-go/internal/service"
	"github.com/sarcoord/rescue-backend-go/pkg/response"
)

// HelpHandler handles HTTP requests for help content
type HelpHandler struct {
	helpService *service.HelpService
}

// NewHelpHandler creates a new help handler
func NewHelpHandler(helpService *service.HelpService) *HelpHandler {
	return &HelpHandler{helpService: helpService}
}

// List handles GET /api/v1/help
func (h *HelpHandler) List(c *gin.Context) {
	entries, err := h.helpService.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, entries)
}

// Localized handles GET /api/v1/help/localized?lang=. Without lang the
// Accept-Language header is used.
func (h *HelpHandler) Localized(c *gin.Context) {
	lang := c.Query("lang")
	if lang == "" {
		lang = c.GetHeader("Accept-Language")
	}
	entries, err := h.helpService.Localized(c.Request.Context(), lang)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, entries)
}

// Get handles GET /api/v1/help/:helpId
func (h *HelpHandler) Get(c *gin.Context) {
	entry, err := h.helpService.Get(c.Request.Context(), c.Param("helpId"))
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, entry)
}

// Create handles POST /api/v1/help
func (h *HelpHandler) Create(c *gin.Context) {
	var req models.HelpRequest
	if !bindJSON(c, &req) {
		return
	}
	entry, err := h.helpService.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Created(c, entry)
}

// Update handles PUT /api/v1/help/:helpId
func (h *HelpHandler) Update(c *gin.Context) {
	var req models.HelpRequest
	if !bindJSON(c, &req) {
		return
	}
	entry, err := h.helpService.Update(c.Request.Context(), c.Param("helpId"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, entry)
}

// Delete handles DELETE /api/v1/help/:helpId
func (h *HelpHandler) Delete(c *gin.Context) {
	if err := h.helpService.Delete(c.Request.Context(), c.Param("helpId")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
