package types

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenClaims represents the claims in a JWT token
type TokenClaims struct {
	jwt.RegisteredClaims
	UserID   uuid.UUID `json:"user_id"`
	Username string    `json:"username"`
}

// Caller is the identity a request runs as. The zero value is anonymous.
type Caller struct {
	UserID        uuid.UUID
	Username      string
	Authenticated bool
}

// Anonymous returns the caller of an unauthenticated request.
func Anonymous() Caller {
	return Caller{}
}

// CallerFromClaims builds an authenticated caller from validated claims.
func CallerFromClaims(c *TokenClaims) Caller {
	return Caller{UserID: c.UserID, Username: c.Username, Authenticated: true}
}

// Is reports whether the caller is the authenticated user id.
func (c Caller) Is(id uuid.UUID) bool {
	return c.Authenticated && c.UserID == id
}
