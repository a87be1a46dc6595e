package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"donatehub/api/internal/models"
)

const (
	ContextUserKey    = "current_user"
	ContextSessionKey = "current_session"
)

type Authenticator interface {
	Authenticate(ctx context.Context, token string) (models.User, models.Session, error)
	TouchSession(ctx context.Context, sessionID string, ip string, userAgent string) error
}

// Auth rejects the request with the envelope 401 before any handler
// logic when the bearer token does not resolve to a live session.
func Auth(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			abortUnauthenticated(c)
			return
		}

		token := strings.TrimPrefix(authHeader, "Bearer ")

		user, session, err := auth.Authenticate(c.Request.Context(), token)
		if err != nil {
			abortUnauthenticated(c)
			return
		}

		// Best effort; auth itself is a pure lookup.
		_ = auth.TouchSession(c.Request.Context(), session.ID, c.ClientIP(), c.GetHeader("User-Agent"))

		c.Set(ContextUserKey, user)
		c.Set(ContextSessionKey, session)

		c.Next()
	}
}

func abortUnauthenticated(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"success": false,
		"message": "Unauthenticated",
	})
}
