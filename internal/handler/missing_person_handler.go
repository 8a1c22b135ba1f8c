package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sarcoord/rescue-backend-go/internal/models"
	"github.com/sarcoord/rescue-backend-go/internal/service"
	"github.com/sarcoord/rescue-backend-go/pkg/response"
)

// MissingPersonHandler handles HTTP requests for missing persons
type MissingPersonHandler struct {
	personService *service.MissingPersonService
}

// NewMissingPersonHandler creates a new missing person handler
func NewMissingPersonHandler(personService *service.MissingPersonService) *MissingPersonHandler {
	return &MissingPersonHandler{personService: personService}
}

// List handles GET /api/v1/events/:id/missing-persons
func (h *MissingPersonHandler) List(c *gin.Context) {
	persons, err := h.personService.List(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, persons)
}

// Create handles POST /api/v1/events/:id/missing-persons
func (h *MissingPersonHandler) Create(c *gin.Context) {
	var req models.MissingPersonRequest
	if !bindJSON(c, &req) {
		return
	}

	p, err := h.personService.Create(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Created(c, p)
}

// Get handles GET /api/v1/missing-persons/:personId
func (h *MissingPersonHandler) Get(c *gin.Context) {
	p, err := h.personService.Get(c.Request.Context(), c.Param("personId"))
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, p)
}

// Update handles PUT /api/v1/missing-persons/:personId
func (h *MissingPersonHandler) Update(c *gin.Context) {
	var req models.MissingPersonRequest
	if !bindJSON(c, &req) {
		return
	}

	p, err := h.personService.Update(c.Request.Context(), c.Param("personId"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, p)
}

// Delete handles DELETE /api/v1/missing-persons/:personId
func (h *MissingPersonHandler) Delete(c *gin.Context) {
	if err := h.personService.Delete(c.Request.Context(), c.Param("personId")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
