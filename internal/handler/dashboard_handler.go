package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sarcoord/rescue-backend-go/internal/service"
	"github.com/sarcoord/rescue-backend-go/pkg/response"
)

// DashboardHandler serves the start page numbers
type DashboardHandler struct {
	dashboardService *service.DashboardService
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(dashboardService *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// Stats handles GET /api/v1/dashboard
func (h *DashboardHandler) Stats(c *gin.Context) {
	stats, err := h.dashboardService.Stats(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, stats)
}
