package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sarcoord/rescue-backend-go/internal/auth"
	"github.com/sarcoord/rescue-backend-go/pkg/response"
)

const identityKey = "identity"

// Verifier turns a bearer token into an identity
type Verifier interface {
	Verify(ctx context.Context, token string) (auth.Identity, error)
}

// Authenticate resolves the caller from the Authorization header. Browsers
// cannot set headers on an EventSource, so the access_token query parameter
// is accepted as well.
func Authenticate(v Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))
		if token == "" {
			token = c.Query("access_token")
		}
		if token == "" {
			response.Unauthorized(c, "missing bearer token", auth.ErrUnauthenticated)
			return
		}

		id, err := v.Verify(c.Request.Context(), token)
		if err != nil {
			response.Unauthorized(c, "invalid token", err)
			return
		}

		c.Set(identityKey, id)
		c.Next()
	}
}

// RequireCapability rejects callers the authorizer does not allow to perform
// action. It must run after Authenticate.
func RequireCapability(a auth.Authorizer, action auth.Action) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, _ := IdentityFrom(c)
		err := a.Authorize(c.Request.Context(), id, action)
		switch {
		case err == nil:
			c.Next()
		case errors.Is(err, auth.ErrUnauthenticated):
			response.Unauthorized(c, "authentication required", err)
		default:
			response.Forbidden(c, "not allowed to "+string(action), err)
		}
	}
}

// IdentityFrom returns the identity stored by Authenticate
func IdentityFrom(c *gin.Context) (auth.Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return auth.Identity{}, false
	}
	id, ok := v.(auth.Identity)
	return id, ok
}

func bearerToken(header string) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
