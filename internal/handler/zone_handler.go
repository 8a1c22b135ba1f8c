package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sarcoord/rescue-backend-go/internal/service"
	"github.com/sarcoord/rescue-backend-go/pkg/response"
)

// ZoneHandler handles probability zone checks
type ZoneHandler struct {
	zoneService *service.ZoneService
}

// NewZoneHandler creates a new zone handler
func NewZoneHandler(zoneService *service.ZoneService) *ZoneHandler {
	return &ZoneHandler{zoneService: zoneService}
}

// Validate handles POST /api/v1/zones/validate. The body is the zone JSON
// itself.
func (h *ZoneHandler) Validate(c *gin.Context) {
	raw, err := c.GetRawData()
	if err != nil {
		response.BadRequest(c, "Invalid request body", err)
		return
	}

	report, err := h.zoneService.Validate(raw)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, report)
}
