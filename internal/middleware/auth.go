package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/pheme-social/pheme-service/internal/identity"
	"github.com/pheme-social/pheme-service/pkg/response"
)

const (
	// Context keys; the names double as log field names.
	UserIDKey   = "user_id"
	UserNameKey = "user_name"
)

// AuthMiddleware resolves the session cookie to a caller identity.
type AuthMiddleware struct {
	resolver   identity.Resolver
	cookieName string
}

// NewAuthMiddleware creates a new auth middleware.
func NewAuthMiddleware(resolver identity.Resolver, cookieName string) *AuthMiddleware {
	return &AuthMiddleware{resolver: resolver, cookieName: cookieName}
}

// RequireAuth returns a Gin middleware that rejects requests without a valid
// session cookie.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(m.cookieName)
		if err != nil {
			response.Unauthorized(c, "unauthenticated")
			c.Abort()
			return
		}

		id, err := m.resolver.Resolve(c.Request.Context(), token)
		if err != nil {
			response.Unauthorized(c, "unauthenticated")
			c.Abort()
			return
		}

		c.Set(UserIDKey, id.ID)
		c.Set(UserNameKey, id.Name)

		c.Next()
	}
}

// OptionalAuth resolves the cookie when present but never rejects the
// request. Used by public-read endpoints such as user search.
func (m *AuthMiddleware) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(m.cookieName)
		if err == nil {
			if id, rerr := m.resolver.Resolve(c.Request.Context(), token); rerr == nil {
				c.Set(UserIDKey, id.ID)
				c.Set(UserNameKey, id.Name)
			}
		}
		c.Next()
	}
}

// GetIdentity extracts the caller identity set by RequireAuth/OptionalAuth.
func GetIdentity(c *gin.Context) (identity.UserIdentity, bool) {
	idVal, ok := c.Get(UserIDKey)
	if !ok {
		return identity.UserIdentity{}, false
	}
	name, _ := c.Get(UserNameKey)
	nameStr, _ := name.(string)
	return identity.UserIdentity{ID: idVal.(uint), Name: nameStr}, true
}
