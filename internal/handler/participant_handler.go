package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sarcoord/rescue-backend-go/internal/models"
	"github.com/sarcoord/rescue-backend-go/internal/service"
	"github.com/sarcoord/rescue-backend-go/pkg/response"
)

// ParticipantHandler handles HTTP requests for event participants
type ParticipantHandler struct {
	participantService *service.ParticipantService
}

// NewParticipantHandler creates a new participant handler
func NewParticipantHandler(participantService *service.ParticipantService) *ParticipantHandler {
	return &ParticipantHandler{participantService: participantService}
}

// List handles GET /api/v1/events/:id/participants
func (h *ParticipantHandler) List(c *gin.Context) {
	participants, err := h.participantService.List(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, participants)
}

// Join handles POST /api/v1/events/:id/join
func (h *ParticipantHandler) Join(c *gin.Context) {
	id, ok := caller(c)
	if !ok {
		return
	}
	p, err := h.participantService.Join(c.Request.Context(), c.Param("id"), id.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, p)
}

// Leave handles POST /api/v1/events/:id/leave
func (h *ParticipantHandler) Leave(c *gin.Context) {
	id, ok := caller(c)
	if !ok {
		return
	}
	p, err := h.participantService.Leave(c.Request.Context(), c.Param("id"), id.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, p)
}

// SetStatus handles PUT /api/v1/events/:id/participants/:userId/status
func (h *ParticipantHandler) SetStatus(c *gin.Context) {
	var req models.ParticipantStatusRequest
	if !bindJSON(c, &req) {
		return
	}
	p, err := h.participantService.SetStatus(c.Request.Context(), c.Param("id"), c.Param("userId"), req.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, p)
}
