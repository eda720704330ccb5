package rbac

// Role names. Keep these stable; they are part of the token and API
// contracts.
//
// SUPERADMIN and END_USER are platform-level roles carried on the user
// record. TENANT_ADMIN, TENANT_STAFF and END_USER are tenant-scoped
// roles carried on a membership.
const (
	RoleSuperAdmin  = "SUPERADMIN"
	RoleTenantAdmin = "TENANT_ADMIN"
	RoleTenantStaff = "TENANT_STAFF"
	RoleEndUser     = "END_USER"
)

func IsSuperAdmin(globalRole string) bool { return globalRole == RoleSuperAdmin }
