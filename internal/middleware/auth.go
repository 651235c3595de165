package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/packflow/internal/auth"
)

const (
	UserIDKey    = "user_id"
	UserEmailKey = "user_email"
)

// RequireAuth validates the bearer token and exposes the caller's identity
// both on the gin context and on the request context.
func RequireAuth(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := auth.BearerToken(c.GetHeader("Authorization"))
		if err != nil {
			AbortWithError(c, http.StatusUnauthorized, "Authentication required", nil)
			return
		}
		claims, err := auth.ParseJWT(token, secret)
		if err != nil {
			AbortWithError(c, http.StatusUnauthorized, "Invalid or expired token", nil)
			return
		}

		c.Set(UserIDKey, claims.Subject)
		c.Set(UserEmailKey, claims.Email)
		c.Request = c.Request.WithContext(auth.WithIdentity(c.Request.Context(), claims.Subject, claims.Email))
		c.Next()
	}
}
