package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"dwight/internal/auth"
	apperrors "dwight/internal/errors"
)

// Context keys set by AuthMiddleware.
const (
	UserIDKey = "userID"
	UserKey   = "user"
)

// AuthMiddleware resolves the bearer token to an active user and stores the
// user and its id in the context. Rejected callers get a 401; resolver
// failures keep their own status.
func AuthMiddleware(resolver auth.CallerResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		scheme, token, ok := strings.Cut(c.GetHeader("Authorization"), " ")
		token = strings.TrimSpace(token)
		if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" {
			abortUnauthorized(c, apperrors.ErrUnauthorized)
			return
		}

		user, err := resolver.ResolveCaller(c.Request.Context(), token)
		if err != nil {
			if !errors.Is(err, apperrors.ErrUnauthorized) {
				RespondWithError(c, err)
				c.Abort()
				return
			}
			abortUnauthorized(c, err)
			return
		}

		c.Set(UserIDKey, user.ID)
		c.Set(UserKey, user)
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, err error) {
	c.Header("WWW-Authenticate", "Bearer")
	RespondWithError(c, err)
	c.Abort()
}
