package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// RoleLookup finds a stored role for users whose token carries none
type RoleLookup interface {
	UserRole(ctx context.Context, userID string) (string, error)
}

// Claims are the access token claims issued by the identity provider
type Claims struct {
	Email        string         `json:"email,omitempty"`
	Role         string         `json:"role,omitempty"`
	UserMetadata map[string]any `json:"user_metadata,omitempty"`
	jwt.RegisteredClaims
}

// TokenVerifier checks HS256 access tokens
type TokenVerifier struct {
	secret []byte
	roles  RoleLookup
	now    func() time.Time
}

// NewTokenVerifier creates a verifier. roles may be nil.
func NewTokenVerifier(secret string, roles RoleLookup) *TokenVerifier {
	return &TokenVerifier{secret: []byte(secret), roles: roles, now: time.Now}
}

// Verify parses token and resolves the caller's identity. The role comes
// from user_metadata.role, then a top-level console role, then the users
// table, and defaults to searcher.
func (v *TokenVerifier) Verify(ctx context.Context, token string) (Identity, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return v.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(v.now),
	)
	if err != nil || !parsed.Valid {
		return Identity{}, fmt.Errorf("%w: %v", ErrUnauthenticated, err)
	}
	if claims.Subject == "" {
		return Identity{}, fmt.Errorf("%w: token has no subject", ErrUnauthenticated)
	}

	id := Identity{UserID: claims.Subject}
	if r, ok := metadataRole(claims); ok {
		id.Role = r
		return id, nil
	}
	if r, ok := ParseRole(claims.Role); ok {
		id.Role = r
		return id, nil
	}
	if v.roles != nil {
		stored, err := v.roles.UserRole(ctx, claims.Subject)
		if err != nil {
			return Identity{}, fmt.Errorf("failed to look up role: %w", err)
		}
		if r, ok := ParseRole(stored); ok {
			id.Role = r
			return id, nil
		}
	}
	id.Role = RoleSearcher
	return id, nil
}

func metadataRole(c *Claims) (Role, bool) {
	s, ok := c.UserMetadata["role"].(string)
	if !ok {
		return "", false
	}
	return ParseRole(s)
}

// Sign issues a token for id. Used by tooling and tests; the console's
// tokens come from the identity provider.
func (v *TokenVerifier) Sign(id Identity, ttl time.Duration) (string, error) {
	if len(v.secret) == 0 {
		return "", errors.New("token secret is empty")
	}
	now := v.now()
	claims := Claims{
		UserMetadata: map[string]any{"role": string(id.Role)},
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(v.secret)
}
