package auth

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type contextKey string

const userContextKey contextKey = "nuvoryxUser"

// ContextUser is the authenticated principal stored in the request context.
type ContextUser struct {
	ID    uuid.UUID
	Email string
}

// Required validates bearer tokens and rejects unauthenticated requests.
func Required(service *Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := principal(c, service)
		if !ok {
			c.AbortWithStatusJSON(401, gin.H{"error": "unauthorized"})
			return
		}
		c.Set(string(userContextKey), user)
		c.Next()
	}
}

// Optional injects the principal when a valid token is present and lets
// anonymous requests through. Endpoints behind it decide per-operation what
// anonymous callers may see.
func Optional(service *Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		if user, ok := principal(c, service); ok {
			c.Set(string(userContextKey), user)
		}
		c.Next()
	}
}

func principal(c *gin.Context, service *Service) (ContextUser, bool) {
	header := c.GetHeader("Authorization")
	if header == "" {
		return ContextUser{}, false
	}
	token := extractBearerToken(header)
	if token == "" {
		return ContextUser{}, false
	}
	claims, err := service.ValidateAccessToken(token)
	if err != nil {
		return ContextUser{}, false
	}
	return ContextUser{ID: claims.UserID, Email: claims.Email}, true
}

// CurrentUser extracts the principal from the context.
func CurrentUser(c *gin.Context) (ContextUser, bool) {
	value, exists := c.Get(string(userContextKey))
	if !exists {
		return ContextUser{}, false
	}
	user, ok := value.(ContextUser)
	return user, ok
}

// RequireUser is CurrentUser for handlers that must not serve anonymously.
func RequireUser(c *gin.Context) (uuid.UUID, ContextUser, bool) {
	user, ok := CurrentUser(c)
	if !ok {
		return uuid.Nil, ContextUser{}, false
	}
	return user.ID, user, true
}

func extractBearerToken(header string) string {
	if !strings.HasPrefix(strings.ToLower(header), "bearer ") {
		return ""
	}
	return strings.TrimSpace(header[7:])
}
