package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/samiserrag/denver-songwriters-collective-sub014/internal/entity"
)

const (
	// ContextUserKey is where Auth stores the resolved *entity.User.
	ContextUserKey = "currentUser"

	authHeader   = "Authorization"
	bearerPrefix = "Bearer "
)

// UserResolver turns a bearer token into a user record. The user service
// satisfies it.
type UserResolver interface {
	ParseToken(tokenString string) (int64, error)
	GetUser(ctx context.Context, id int64) (*entity.User, error)
}

// Auth requires a valid bearer token and loads the user into the context.
func Auth(resolver UserResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader(authHeader)
		if !strings.HasPrefix(header, bearerPrefix) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}

		userID, err := resolver.ParseToken(strings.TrimPrefix(header, bearerPrefix))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		user, err := resolver.GetUser(c.Request.Context(), userID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unknown user"})
			return
		}

		c.Set(ContextUserKey, user)
		c.Next()
	}
}

// RequireHost rejects members; hosts and admins pass.
func RequireHost() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil || !user.IsHost() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "host role required"})
			return
		}
		c.Next()
	}
}

// RequireAdmin passes admins only.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil || !user.IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin role required"})
			return
		}
		c.Next()
	}
}

// CurrentUser returns the authenticated user, or nil on public routes.
func CurrentUser(c *gin.Context) *entity.User {
	value, exists := c.Get(ContextUserKey)
	if !exists {
		return nil
	}
	user, ok := value.(*entity.User)
	if !ok {
		return nil
	}
	return user
}
