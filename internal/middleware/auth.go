package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/foodgram/backend/internal/types"
)

const (
	callerKey = "caller"
	claimsKey = "claims"
)

// TokenValidator is an interface for validating JWT tokens
type TokenValidator interface {
	ValidateToken(ctx context.Context, token string) (*types.TokenClaims, error)
}

// Authenticate resolves the caller from the Authorization header. Requests
// without the header continue anonymously; a header carrying a bad token is
// rejected with 401.
func Authenticate(validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(callerKey, types.Anonymous())

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Next()
			return
		}

		parts := strings.Fields(authHeader)
		if len(parts) != 2 || (parts[0] != "Bearer" && parts[0] != "Token") {
			abortWithError(c, http.StatusUnauthorized, "invalid_token", "invalid authorization header format")
			return
		}

		claims, err := validator.ValidateToken(c.Request.Context(), parts[1])
		if err != nil {
			abortWithError(c, http.StatusUnauthorized, "invalid_token", err.Error())
			return
		}

		// Store user info in context
		c.Set("user_id", claims.UserID)
		c.Set("username", claims.Username)
		c.Set(claimsKey, claims)
		c.Set(callerKey, types.CallerFromClaims(claims))
		c.Next()
	}
}

// RequireAuth rejects anonymous callers. It must run after Authenticate.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !CallerFrom(c).Authenticated {
			abortWithError(c, http.StatusUnauthorized, "not_authenticated", "authentication credentials were not provided")
			return
		}
		c.Next()
	}
}

// CallerFrom returns the caller stored by Authenticate, anonymous if none.
func CallerFrom(c *gin.Context) types.Caller {
	if v, ok := c.Get(callerKey); ok {
		if caller, ok := v.(types.Caller); ok {
			return caller
		}
	}
	return types.Anonymous()
}

// ClaimsFrom returns the validated token claims of the request, if any.
func ClaimsFrom(c *gin.Context) (*types.TokenClaims, bool) {
	v, ok := c.Get(claimsKey)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*types.TokenClaims)
	return claims, ok
}

func abortWithError(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, gin.H{"error": message, "code": code})
}
