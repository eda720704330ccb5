package identity

import (
	"context"
	"errors"
)

var (
	ErrNotAuthorizedForTenant = errors.New("not authorized for tenant")
	ErrTenantInactive         = errors.New("tenant inactive")
)

// TenantContext is the resolved tenant half of a session.
type TenantContext struct {
	Tenant     Tenant
	TenantRole string
}

// Resolver picks the membership that becomes part of a session. The
// same resolution runs at login and at refresh, so tenant context is
// always re-derived from current membership state, never cached inside
// a token beyond its own TTL.
type Resolver struct {
	store Store
}

func NewResolver(store Store) *Resolver {
	return &Resolver{store: store}
}

// ResolveTenantContext returns nil when the user has no usable
// membership; that is a valid no-tenant session, not an error.
//
// With requestedTenantID set, the user must hold a membership for that
// tenant and the tenant must be active. Without it, the first
// membership in creation order whose tenant is active wins. Memberships
// pointing at a missing tenant are skipped.
func (r *Resolver) ResolveTenantContext(ctx context.Context, userID, requestedTenantID string) (*TenantContext, error) {
	memberships, err := r.store.FindMembershipsForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if requestedTenantID != "" {
		for _, m := range memberships {
			if m.TenantID != requestedTenantID {
				continue
			}
			t, err := r.store.FindTenantByID(ctx, m.TenantID)
			if err != nil {
				if errors.Is(err, ErrTenantNotFound) {
					// A membership onto a vanished tenant grants nothing.
					return nil, ErrNotAuthorizedForTenant
				}
				return nil, err
			}
			if !t.IsActive {
				return nil, ErrTenantInactive
			}
			return &TenantContext{Tenant: t, TenantRole: m.TenantRole}, nil
		}
		return nil, ErrNotAuthorizedForTenant
	}

	for _, m := range memberships {
		t, err := r.store.FindTenantByID(ctx, m.TenantID)
		if err != nil {
			if errors.Is(err, ErrTenantNotFound) {
				continue
			}
			return nil, err
		}
		if t.IsActive {
			return &TenantContext{Tenant: t, TenantRole: m.TenantRole}, nil
		}
	}
	return nil, nil
}
