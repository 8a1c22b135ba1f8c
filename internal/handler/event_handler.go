package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sarcoord/rescue-backend-go/internal/models"
	"github.com/sarcoord/rescue-backend-go/internal/service"
	"github.com/sarcoord/rescue-backend-go/pkg/response"
)

// EventHandler handles HTTP requests for search events
type EventHandler struct {
	eventService *service.EventService
}

// NewEventHandler creates a new event handler
func NewEventHandler(eventService *service.EventService) *EventHandler {
	return &EventHandler{eventService: eventService}
}

// List handles GET /api/v1/events
func (h *EventHandler) List(c *gin.Context) {
	events, err := h.eventService.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, events)
}

// Get handles GET /api/v1/events/:id
func (h *EventHandler) Get(c *gin.Context) {
	e, err := h.eventService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, e)
}

// Create handles POST /api/v1/events
func (h *EventHandler) Create(c *gin.Context) {
	id, ok := caller(c)
	if !ok {
		return
	}
	var req models.EventRequest
	if !bindJSON(c, &req) {
		return
	}

	e, err := h.eventService.Create(c.Request.Context(), id.UserID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Created(c, e)
}

// Update handles PUT /api/v1/events/:id
func (h *EventHandler) Update(c *gin.Context) {
	var req models.EventRequest
	if !bindJSON(c, &req) {
		return
	}

	e, err := h.eventService.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, e)
}

// Delete handles DELETE /api/v1/events/:id
func (h *EventHandler) Delete(c *gin.Context) {
	if err := h.eventService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
