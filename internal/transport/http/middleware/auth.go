package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/ErlanBelekov/shiptrack/internal/domain"
	"github.com/ErlanBelekov/shiptrack/internal/reqctx"
	"github.com/gin-gonic/gin"
)

const (
	errMissingAuthHeader = "Missing or invalid authorization header"
	errTokenInvalid      = "Invalid or expired token"
	errUserNotFound      = "User not found"
	errAdminRequired     = "Admin access required"
	errInternalServer    = "Internal server error"
)

// Context keys set by Auth.
const (
	UserIDKey   = "userID"
	IdentityKey = "identity"
)

type TokenVerifier interface {
	Verify(raw string) (string, error)
}

type UserFinder interface {
	FindByID(ctx context.Context, id string) (*domain.User, error)
}

// Auth validates a Bearer JWT, loads the user it names and sets "userID" and
// "identity" in the gin context. The user id is also attached to the request
// context for log enrichment.
func Auth(tokens TokenVerifier, users UserFinder, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": errMissingAuthHeader})
			return
		}

		userID, err := tokens.Verify(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": errTokenInvalid})
			return
		}

		user, err := users.FindByID(c.Request.Context(), userID)
		if err != nil {
			if errors.Is(err, domain.ErrUserNotFound) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": errUserNotFound})
				return
			}
			logger.ErrorContext(c.Request.Context(), "auth user lookup", "error", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
			return
		}

		c.Set(UserIDKey, user.ID)
		c.Set(IdentityKey, user.Identity())
		c.Request = c.Request.WithContext(reqctx.WithUserID(c.Request.Context(), user.ID))
		c.Next()
	}
}

// RequireAdmin runs after Auth and rejects non-admin callers.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := CurrentIdentity(c)
		if !ok || !id.IsAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": errAdminRequired})
			return
		}
		c.Next()
	}
}

// CurrentIdentity returns the identity stored by Auth.
func CurrentIdentity(c *gin.Context) (domain.Identity, bool) {
	v, ok := c.Get(IdentityKey)
	if !ok {
		return domain.Identity{}, false
	}
	id, ok := v.(domain.Identity)
	return id, ok
}
