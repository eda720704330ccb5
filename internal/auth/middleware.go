package auth

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

const authorizationHeader = "Authorization"
const bearerPrefix = "Bearer "

// Authenticate verifies a bearer access token and attaches the
// authorization snapshot to the request context. It performs no role
// checks; those belong to internal/rbac.
func Authenticate(m *Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := strings.TrimSpace(c.GetHeader(authorizationHeader))
		if raw == "" || !strings.HasPrefix(raw, bearerPrefix) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"errorCode": "TOKEN_MISSING",
				"message":   "missing bearer token",
			})
			return
		}
		tok := strings.TrimPrefix(raw, bearerPrefix)

		claims, err := m.Verify(tok, TokenTypeAccess, time.Now())
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"errorCode": "INVALID_TOKEN",
				"message":   "invalid or expired token",
			})
			return
		}

		ac := Context{
			UserID:     claims.UserID,
			Email:      claims.Email,
			GlobalRole: claims.GlobalRole,
			TenantID:   claims.TenantID,
			TenantRole: claims.TenantRole,
		}
		c.Request = c.Request.WithContext(WithContext(c.Request.Context(), ac))

		// For request logging only; handlers read the snapshot.
		c.Set("user_id", ac.UserID)
		if ac.TenantID != "" {
			c.Set("tenant_id", ac.TenantID)
		}

		c.Next()
	}
}

// FromGin returns the snapshot attached by Authenticate.
func FromGin(c *gin.Context) (Context, bool) {
	return FromContext(c.Request.Context())
}
