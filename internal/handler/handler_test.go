package handler

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sarcoord/rescue-backend-go/internal/analysis/zones"
	"github.com/sarcoord/rescue-backend-go/internal/auth"
	"github.com/sarcoord/rescue-backend-go/internal/service"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestRespondError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
		body string
	}{
		{"not found", fmt.Errorf("%w: search event", service.ErrNotFound), http.StatusNotFound, "search event"},
		{"invalid", fmt.Errorf("%w: name is required", service.ErrInvalidInput), http.StatusBadRequest, "name is required"},
		{"unauthenticated", auth.ErrUnauthenticated, http.StatusUnauthorized, "authentication required"},
		{"forbidden", fmt.Errorf("%w: nope", auth.ErrForbidden), http.StatusForbidden, "forbidden"},
		{"zone", &zones.ZoneError{Kind: zones.ErrInvalidZoneShape, Label: "zone25", Index: -1}, http.StatusUnprocessableEntity, `"kind":"InvalidZoneShape"`},
		{"other", errors.New("database is locked"), http.StatusInternalServerError, "internal server error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			respondError(c, tt.err)

			if w.Code != tt.code {
				t.Errorf("status = %d, want %d", w.Code, tt.code)
			}
			if !strings.Contains(w.Body.String(), tt.body) {
				t.Errorf("body %s missing %q", w.Body.String(), tt.body)
			}
			if strings.Contains(w.Body.String(), "database is locked") {
				t.Error("internal error leaked to the client")
			}
		})
	}
}

func TestCaller_RequiresIdentity(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	if _, ok := caller(c); ok {
		t.Fatal("caller without identity reported ok")
	}
	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d", w.Code)
	}
}
