package identity

import "time"

// User is owned by account management; this package only ever reads it.
// PasswordHash never leaves the process: it is excluded from JSON and
// only compared through a PasswordVerifier.
type User struct {
	ID           string    `json:"id" db:"id"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	GlobalRole   string    `json:"globalRole" db:"global_role"`
	IsActive     bool      `json:"isActive" db:"is_active"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
}

type Tenant struct {
	ID        string    `json:"id" db:"id"`
	Slug      string    `json:"slug" db:"slug"`
	Name      string    `json:"name" db:"name"`
	IsActive  bool      `json:"isActive" db:"is_active"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// Membership joins a user to a tenant with a tenant-scoped role.
// A user holds zero or more; creation order decides which tenant a
// session lands in when the caller does not pick one.
type Membership struct {
	ID         string    `json:"id" db:"id"`
	UserID     string    `json:"userId" db:"user_id"`
	TenantID   string    `json:"tenantId" db:"tenant_id"`
	TenantRole string    `json:"tenantRole" db:"tenant_role"`
	CreatedAt  time.Time `json:"createdAt" db:"created_at"`
}
