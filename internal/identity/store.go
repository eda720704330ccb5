package identity

import (
	"context"
	"errors"
)

var (
	ErrUserNotFound   = errors.New("user not found")
	ErrTenantNotFound = errors.New("tenant not found")
)

// Store is the read-side persistence contract consumed by the auth
// core. Account and tenant management write through their own paths;
// nothing here mutates.
type Store interface {
	FindUserByEmail(ctx context.Context, email string) (User, error)
	FindUserByID(ctx context.Context, id string) (User, error)

	// FindMembershipsForUser returns memberships in creation order so
	// tenant selection stays deterministic across calls.
	FindMembershipsForUser(ctx context.Context, userID string) ([]Membership, error)

	FindTenantByID(ctx context.Context, id string) (Tenant, error)
}
