package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func decode(t *testing.T, w *httptest.ResponseRecorder) Response {
	t.Helper()
	var r Response
	if err := json.Unmarshal(w.Body.Bytes(), &r); err != nil {
		t.Fatalf("decode body %q: %v", w.Body.String(), err)
	}
	return r
}

func TestSuccess(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	Success(c, gin.H{"id": "e1"})

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	r := decode(t, w)
	if r.Code != 0 || r.Message != "success" || r.Data.(map[string]any)["id"] != "e1" {
		t.Errorf("body = %+v", r)
	}
}

func TestError_RecordsCauseAndAborts(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	NotFound(c, "search event not found", errors.New("no row"))

	if w.Code != http.StatusNotFound || !c.IsAborted() {
		t.Fatalf("status = %d aborted = %v", w.Code, c.IsAborted())
	}
	if len(c.Errors) != 1 || c.Errors[0].Error() != "no row" {
		t.Errorf("context errors = %v", c.Errors)
	}
	if r := decode(t, w); r.Code != http.StatusNotFound || r.Data != nil {
		t.Errorf("body = %+v", r)
	}
}

func TestInternalError_HidesCause(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	InternalError(c, errors.New("disk I/O error"))

	r := decode(t, w)
	if w.Code != http.StatusInternalServerError || r.Message != "internal server error" {
		t.Errorf("status %d body %+v", w.Code, r)
	}
}

func TestUnprocessable_CarriesData(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	Unprocessable(c, "zone too large", map[string]any{"label": "zone95"}, nil)

	r := decode(t, w)
	if w.Code != http.StatusUnprocessableEntity || r.Data.(map[string]any)["label"] != "zone95" {
		t.Errorf("status %d body %+v", w.Code, r)
	}
	if len(c.Errors) != 0 {
		t.Errorf("nil cause recorded: %v", c.Errors)
	}
}
