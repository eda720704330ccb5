package rbac

import (
	"net/http"

	"github.com/jonoyanguren/smartcashlesshub-sub000/internal/auth"

	"github.com/gin-gonic/gin"
)

// RequireTenant enforces the multi-tenant invariant: the session must
// carry a tenant context. It does not hit the store; tenant context is
// only ever minted from a verified membership at login or refresh.
func RequireTenant() gin.HandlerFunc {
	return func(c *gin.Context) {
		ac, ok := auth.FromGin(c)
		if !ok {
			abort(c, http.StatusUnauthorized, "TOKEN_MISSING", "authentication required")
			return
		}
		if !Allow(ac, Check{Kind: CheckTenantContext}) {
			abort(c, http.StatusForbidden, "TENANT_CONTEXT_REQUIRED", "tenant context required")
			return
		}
		c.Next()
	}
}

// RequireGlobalRole restricts a route to one platform-level role.
// The match is exact; there is no bypass for platform-level checks.
func RequireGlobalRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ac, ok := auth.FromGin(c)
		if !ok {
			abort(c, http.StatusUnauthorized, "TOKEN_MISSING", "authentication required")
			return
		}
		if !Allow(ac, Check{Kind: CheckGlobalRole, Role: role}) {
			abort(c, http.StatusForbidden, "INSUFFICIENT_PERMISSIONS", "forbidden")
			return
		}
		c.Next()
	}
}

// RequireTenantRole restricts a route to one tenant-scoped role.
// SUPERADMIN passes every tenant-scoped guard.
func RequireTenantRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ac, ok := auth.FromGin(c)
		if !ok {
			abort(c, http.StatusUnauthorized, "TOKEN_MISSING", "authentication required")
			return
		}
		if !Allow(ac, Check{Kind: CheckTenantRole, Role: role}) {
			abort(c, http.StatusForbidden, "INSUFFICIENT_PERMISSIONS", "forbidden")
			return
		}
		c.Next()
	}
}

// RequireAnyTenantRole passes when any of the listed tenant-scoped
// roles would pass. The superadmin bypass applies the same way it does
// for a single role.
func RequireAnyTenantRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ac, ok := auth.FromGin(c)
		if !ok {
			abort(c, http.StatusUnauthorized, "TOKEN_MISSING", "authentication required")
			return
		}
		for _, role := range roles {
			if Allow(ac, Check{Kind: CheckTenantRole, Role: role}) {
				c.Next()
				return
			}
		}
		abort(c, http.StatusForbidden, "INSUFFICIENT_PERMISSIONS", "forbidden")
	}
}

func abort(c *gin.Context, status int, code, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"errorCode": code, "message": msg})
}
