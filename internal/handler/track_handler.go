package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sarcoord/rescue-backend-go/internal/models"
	"github.com/sarcoord/rescue-backend-go/internal/service"
	"github.com/sarcoord/rescue-backend-go/pkg/response"
)

// TrackHandler handles field position reports and the map layers
type TrackHandler struct {
	trackService *service.TrackService
}

// NewTrackHandler creates a new track handler
func NewTrackHandler(trackService *service.TrackService) *TrackHandler {
	return &TrackHandler{trackService: trackService}
}

// RecordGPS handles POST /api/v1/events/:id/gps-tracks
func (h *TrackHandler) RecordGPS(c *gin.Context) {
	id, ok := caller(c)
	if !ok {
		return
	}
	var req models.GPSBatchRequest
	if !bindJSON(c, &req) {
		return
	}

	n, err := h.trackService.RecordSamples(c.Request.Context(), c.Param("id"), id.UserID, req.Samples)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Created(c, gin.H{"count": n})
}

// AddMarker handles POST /api/v1/events/:id/map-markers
func (h *TrackHandler) AddMarker(c *gin.Context) {
	id, ok := caller(c)
	if !ok {
		return
	}
	var req models.MapMarkerRequest
	if !bindJSON(c, &req) {
		return
	}

	m, err := h.trackService.AddMarker(c.Request.Context(), c.Param("id"), id.UserID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Created(c, m)
}

// AddPolygon handles POST /api/v1/events/:id/polygons
func (h *TrackHandler) AddPolygon(c *gin.Context) {
	id, ok := caller(c)
	if !ok {
		return
	}
	var req models.PolygonRequest
	if !bindJSON(c, &req) {
		return
	}

	p, err := h.trackService.AddPolygon(c.Request.Context(), c.Param("id"), id.UserID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Created(c, p)
}

// Markers handles GET /api/v1/events/:id/markers
func (h *TrackHandler) Markers(c *gin.Context) {
	layer, err := h.trackService.Markers(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, layer)
}

// Tracks handles GET /api/v1/events/:id/tracks
func (h *TrackHandler) Tracks(c *gin.Context) {
	tracks, err := h.trackService.Tracks(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, gin.H{
		"tracks": tracks,
		"count":  len(tracks),
	})
}
