package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sarcoord/rescue-backend-go/internal/analysis/zones"
	"github.com/sarcoord/rescue-backend-go/internal/auth"
	"github.com/sarcoord/rescue-backend-go/internal/middleware"
	"github.com/sarcoord/rescue-backend-go/internal/service"
	"github.com/sarcoord/rescue-backend-go/pkg/response"
)

// respondError maps service errors onto the response envelope
func respondError(c *gin.Context, err error) {
	var ze *zones.ZoneError
	switch {
	case errors.As(err, &ze):
		response.Unprocessable(c, ze.Error(), ze.Details(), err)
	case errors.Is(err, service.ErrNotFound):
		response.NotFound(c, err.Error(), err)
	case errors.Is(err, service.ErrInvalidInput):
		response.BadRequest(c, err.Error(), err)
	case errors.Is(err, auth.ErrUnauthenticated):
		response.Unauthorized(c, "authentication required", err)
	case errors.Is(err, auth.ErrForbidden):
		response.Forbidden(c, "forbidden", err)
	default:
		response.InternalError(c, err)
	}
}

// caller returns the authenticated user, answering 401 when there is none
func caller(c *gin.Context) (auth.Identity, bool) {
	id, ok := middleware.IdentityFrom(c)
	if !ok || id.UserID == "" {
		response.Error(c, http.StatusUnauthorized, "authentication required", auth.ErrUnauthenticated)
		return auth.Identity{}, false
	}
	return id, true
}

// bindJSON decodes the request body, answering 400 on failure
func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		response.BadRequest(c, "Invalid request body", err)
		return false
	}
	return true
}
