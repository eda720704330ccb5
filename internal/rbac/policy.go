package rbac

import "github.com/jonoyanguren/smartcashlesshub-sub000/internal/auth"

// CheckKind enumerates the guard checks a route can demand.
type CheckKind int

const (
	CheckAuthenticated CheckKind = iota
	CheckTenantContext
	CheckGlobalRole
	CheckTenantRole
)

// Check is one authorization demand. Role is set only for the role
// check kinds.
type Check struct {
	Kind CheckKind
	Role string
}

// Allow is the single authorization decision point. Every guard
// translates its route demand into one Check and calls here, so the
// superadmin bypass is written exactly once instead of being re-derived
// per guard.
//
// Rules:
//   - CheckAuthenticated: any authenticated snapshot passes.
//   - CheckTenantContext: the session must carry a tenant. No bypass;
//     a superadmin still needs an explicit tenant context for
//     tenant-scoped data.
//   - CheckGlobalRole: exact match on the platform role.
//   - CheckTenantRole: SUPERADMIN passes unconditionally, otherwise
//     exact match on the membership role.
func Allow(ac auth.Context, check Check) bool {
	switch check.Kind {
	case CheckAuthenticated:
		return ac.UserID != ""
	case CheckTenantContext:
		return ac.HasTenant()
	case CheckGlobalRole:
		return ac.GlobalRole == check.Role
	case CheckTenantRole:
		if IsSuperAdmin(ac.GlobalRole) {
			return true
		}
		return ac.TenantRole == check.Role
	default:
		return false
	}
}
