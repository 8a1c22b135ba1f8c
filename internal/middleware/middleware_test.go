package middleware

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sarcoord/rescue-backend-go/internal/auth"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubVerifier map[string]auth.Identity

func (s stubVerifier) Verify(_ context.Context, token string) (auth.Identity, error) {
	id, ok := s[token]
	if !ok {
		return auth.Identity{}, errors.New("unknown token")
	}
	return id, nil
}

var tokens = stubVerifier{
	"admin-token":    {UserID: "a1", Role: auth.RoleAdmin},
	"searcher-token": {UserID: "s1", Role: auth.RoleSearcher},
}

func serve(r *gin.Engine, method, target string, header http.Header) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	for k, v := range header {
		req.Header[k] = v
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func bearer(token string) http.Header {
	return http.Header{"Authorization": {"Bearer " + token}}
}

func authRouter() *gin.Engine {
	r := gin.New()
	r.Use(Authenticate(tokens))
	r.GET("/whoami", func(c *gin.Context) {
		id, _ := IdentityFrom(c)
		c.String(http.StatusOK, id.UserID)
	})
	r.DELETE("/users", RequireCapability(auth.DefaultPolicy(), auth.ActionManageUsers), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return r
}

func TestAuthenticate(t *testing.T) {
	r := authRouter()

	tests := []struct {
		name   string
		target string
		header http.Header
		code   int
		body   string
	}{
		{"bearer header", "/whoami", bearer("admin-token"), http.StatusOK, "a1"},
		{"lowercase scheme", "/whoami", http.Header{"Authorization": {"bearer searcher-token"}}, http.StatusOK, "s1"},
		{"query token", "/whoami?access_token=searcher-token", nil, http.StatusOK, "s1"},
		{"missing", "/whoami", nil, http.StatusUnauthorized, ""},
		{"basic scheme", "/whoami", http.Header{"Authorization": {"Basic admin-token"}}, http.StatusUnauthorized, ""},
		{"unknown token", "/whoami", bearer("nope"), http.StatusUnauthorized, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(r, http.MethodGet, tt.target, tt.header)
			if w.Code != tt.code {
				t.Fatalf("status = %d, want %d", w.Code, tt.code)
			}
			if tt.body != "" && w.Body.String() != tt.body {
				t.Errorf("body = %q, want %q", w.Body.String(), tt.body)
			}
		})
	}
}

func TestRequireCapability(t *testing.T) {
	r := authRouter()

	if w := serve(r, http.MethodDelete, "/users", bearer("admin-token")); w.Code != http.StatusNoContent {
		t.Errorf("admin: status = %d", w.Code)
	}
	w := serve(r, http.MethodDelete, "/users", bearer("searcher-token"))
	if w.Code != http.StatusForbidden || !strings.Contains(w.Body.String(), "manage_users") {
		t.Errorf("searcher: status = %d body %s", w.Code, w.Body.String())
	}
}

func TestRequireCapability_WithoutIdentity(t *testing.T) {
	r := gin.New()
	r.GET("/x", RequireCapability(auth.DefaultPolicy(), auth.ActionViewEvent), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	if w := serve(r, http.MethodGet, "/x", nil); w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestBearerToken(t *testing.T) {
	tests := map[string]string{
		"Bearer abc":    "abc",
		"  Bearer  abc": "abc",
		"BEARER abc":    "abc",
		"Bearer":        "",
		"Token abc":     "",
		"":              "",
	}
	for in, want := range tests {
		if got := bearerToken(in); got != want {
			t.Errorf("bearerToken(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	r := gin.New()
	r.Use(Logger(logger))
	r.GET("/events/:id", func(c *gin.Context) {
		_ = c.Error(errors.New("lookup failed"))
		c.Status(http.StatusNotFound)
	})
	serve(r, http.MethodGet, "/events/e1?verbose=1", nil)

	out := buf.String()
	for _, want := range []string{"level=WARN", "method=GET", `path="/events/e1?verbose=1"`, "status=404", "lookup failed"} {
		if !strings.Contains(out, want) {
			t.Errorf("log %q missing %q", out, want)
		}
	}
}

func TestRateLimiter_Allow(t *testing.T) {
	rl := NewRateLimiter(1, 2, time.Minute)
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	if !rl.Allow("1.1.1.1") || !rl.Allow("1.1.1.1") {
		t.Fatal("burst of 2 was not allowed")
	}
	if rl.Allow("1.1.1.1") {
		t.Error("third request within the same instant was allowed")
	}
	if !rl.Allow("2.2.2.2") {
		t.Error("a different IP shares the bucket")
	}

	now = now.Add(time.Second)
	if !rl.Allow("1.1.1.1") {
		t.Error("token was not refilled after one second")
	}
}

func TestRateLimiter_Sweep(t *testing.T) {
	rl := NewRateLimiter(10, 10, time.Minute)
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	rl.Allow("old")
	now = now.Add(2 * time.Minute)
	rl.Allow("fresh")

	if n := rl.Sweep(); n != 1 {
		t.Errorf("Sweep left %d visitors, want 1", n)
	}
}

func TestRateLimit_Middleware(t *testing.T) {
	r := gin.New()
	r.Use(RateLimit(NewRateLimiter(0.001, 1, time.Minute)))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	if w := serve(r, http.MethodGet, "/x", nil); w.Code != http.StatusOK {
		t.Fatalf("first request = %d", w.Code)
	}
	w := serve(r, http.MethodGet, "/x", nil)
	if w.Code != http.StatusTooManyRequests || w.Header().Get("Retry-After") == "" {
		t.Errorf("second request = %d, Retry-After %q", w.Code, w.Header().Get("Retry-After"))
	}
}

type requestLog struct {
	mu     sync.Mutex
	routes []string
	status []int
}

func (l *requestLog) ObserveRequest(_ string, route string, status int, _ time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.routes = append(l.routes, route)
	l.status = append(l.status, status)
}

func TestMetrics_UsesRouteTemplate(t *testing.T) {
	obs := &requestLog{}
	r := gin.New()
	r.Use(Metrics(obs))
	r.GET("/events/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

	serve(r, http.MethodGet, "/events/e1", nil)
	serve(r, http.MethodGet, "/events/e2", nil)
	serve(r, http.MethodGet, "/nowhere", nil)

	want := []string{"/events/:id", "/events/:id", "unmatched"}
	for i, route := range want {
		if obs.routes[i] != route {
			t.Errorf("route[%d] = %q, want %q", i, obs.routes[i], route)
		}
	}
	if obs.status[2] != http.StatusNotFound {
		t.Errorf("unmatched status = %d", obs.status[2])
	}
}
