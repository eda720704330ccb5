package auth

import "github.com/golang-jwt/jwt/v5"

type TokenType string

const (
	TokenTypeAccess  TokenType = "access"
	TokenTypeRefresh TokenType = "refresh"
)

// Claims are the only supported JWT claims shape for this service.
// An access token snapshots the session (identity plus resolved tenant
// context) at issue time; a later role change never rewrites tokens
// already in the wild, it only shows up after the next refresh.
// Refresh tokens carry identity alone; every refresh re-derives tenant
// context from current membership state.
type Claims struct {
	jwt.RegisteredClaims

	UserID     string    `json:"userId"`
	Email      string    `json:"email,omitempty"`
	GlobalRole string    `json:"globalRole,omitempty"`
	TenantID   string    `json:"tenantId,omitempty"`
	TenantRole string    `json:"tenantRole,omitempty"`
	TokenType  TokenType `json:"type"`
}
