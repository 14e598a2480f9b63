package middleware

import (
	"net/http"
	"strings"

	"menuscan/internal/auth"

	"github.com/gin-gonic/gin"
)

// Context keys set by Identity.
const (
	UserIDKey    = "userID"
	UserEmailKey = "userEmail"
)

// TokenValidator verifies bearer tokens.
type TokenValidator interface {
	ValidateToken(token string) (*auth.Identity, error)
}

// Identity resolves an optional bearer token. Requests without an
// Authorization header continue anonymously; a malformed or invalid token
// is rejected with 401.
func Identity(tokens TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Next()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization format, use 'Bearer <token>'"})
			return
		}

		id, err := tokens.ValidateToken(parts[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set(UserIDKey, id.UserID)
		c.Set(UserEmailKey, id.Email)
		c.Next()
	}
}

// RequireUser rejects anonymous callers. It must run after Identity.
func RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(UserIDKey) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing authorization header"})
			return
		}
		c.Next()
	}
}

// UserID returns the caller's id, or "" for anonymous requests.
func UserID(c *gin.Context) string {
	return c.GetString(UserIDKey)
}
