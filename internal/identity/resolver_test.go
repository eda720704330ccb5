package identity

import (
	"context"
	"errors"
	"testing"
	"time"
)

var base = time.Unix(1700000000, 0).UTC()

func seedTenant(s *MemoryStore, id string, active bool, createdAt time.Time) {
	s.AddTenant(Tenant{ID: id, Slug: id, Name: id, IsActive: active, CreatedAt: createdAt})
}

func seedMembership(s *MemoryStore, userID, tenantID, role string, createdAt time.Time) {
	s.AddMembership(Membership{
		ID:         userID + ":" + tenantID,
		UserID:     userID,
		TenantID:   tenantID,
		TenantRole: role,
		CreatedAt:  createdAt,
	})
}

func TestResolve_PicksFirstActiveTenant(t *testing.T) {
	store := NewMemoryStore()
	seedTenant(store, "tenant-a", false, base)
	seedTenant(store, "tenant-b", true, base)
	seedMembership(store, "u1", "tenant-a", "TENANT_ADMIN", base)
	seedMembership(store, "u1", "tenant-b", "TENANT_STAFF", base.Add(time.Hour))

	tc, err := NewResolver(store).ResolveTenantContext(context.Background(), "u1", "")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if tc == nil || tc.Tenant.ID != "tenant-b" || tc.TenantRole != "TENANT_STAFF" {
		t.Fatalf("expected tenant-b staff context, got %+v", tc)
	}
}

func TestResolve_CreationOrderWinsAmongActive(t *testing.T) {
	store := NewMemoryStore()
	seedTenant(store, "tenant-a", true, base)
	seedTenant(store, "tenant-b", true, base)
	seedMembership(store, "u1", "tenant-a", "TENANT_STAFF", base)
	seedMembership(store, "u1", "tenant-b", "TENANT_ADMIN", base.Add(time.Hour))

	tc, err := NewResolver(store).ResolveTenantContext(context.Background(), "u1", "")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if tc == nil || tc.Tenant.ID != "tenant-a" {
		t.Fatalf("expected earliest membership to win, got %+v", tc)
	}
}

func TestResolve_NoUsableMembershipIsNotAnError(t *testing.T) {
	store := NewMemoryStore()
	seedTenant(store, "tenant-a", false, base)
	seedMembership(store, "u1", "tenant-a", "TENANT_ADMIN", base)

	r := NewResolver(store)

	tc, err := r.ResolveTenantContext(context.Background(), "u1", "")
	if err != nil || tc != nil {
		t.Fatalf("expected no-tenant session, got %+v, %v", tc, err)
	}

	// Same for a user with no memberships at all.
	tc, err = r.ResolveTenantContext(context.Background(), "u2", "")
	if err != nil || tc != nil {
		t.Fatalf("expected no-tenant session, got %+v, %v", tc, err)
	}
}

func TestResolve_ExplicitTenantRequiresMembership(t *testing.T) {
	store := NewMemoryStore()
	seedTenant(store, "tenant-a", true, base)
	seedTenant(store, "tenant-c", true, base)
	seedMembership(store, "u1", "tenant-a", "TENANT_ADMIN", base)

	_, err := NewResolver(store).ResolveTenantContext(context.Background(), "u1", "tenant-c")
	if !errors.Is(err, ErrNotAuthorizedForTenant) {
		t.Fatalf("expected ErrNotAuthorizedForTenant, got %v", err)
	}
}

func TestResolve_ExplicitInactiveTenant(t *testing.T) {
	store := NewMemoryStore()
	seedTenant(store, "tenant-a", false, base)
	seedMembership(store, "u1", "tenant-a", "TENANT_ADMIN", base)

	_, err := NewResolver(store).ResolveTenantContext(context.Background(), "u1", "tenant-a")
	if !errors.Is(err, ErrTenantInactive) {
		t.Fatalf("expected ErrTenantInactive, got %v", err)
	}
}

func TestResolve_ExplicitTenantOverridesOrder(t *testing.T) {
	store := NewMemoryStore()
	seedTenant(store, "tenant-a", true, base)
	seedTenant(store, "tenant-b", true, base)
	seedMembership(store, "u1", "tenant-a", "TENANT_STAFF", base)
	seedMembership(store, "u1", "tenant-b", "TENANT_ADMIN", base.Add(time.Hour))

	tc, err := NewResolver(store).ResolveTenantContext(context.Background(), "u1", "tenant-b")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if tc == nil || tc.Tenant.ID != "tenant-b" || tc.TenantRole != "TENANT_ADMIN" {
		t.Fatalf("expected explicit tenant-b context, got %+v", tc)
	}
}

func TestResolve_SkipsDanglingMembership(t *testing.T) {
	store := NewMemoryStore()
	seedTenant(store, "tenant-b", true, base)
	seedMembership(store, "u1", "tenant-gone", "TENANT_ADMIN", base)
	seedMembership(store, "u1", "tenant-b", "TENANT_STAFF", base.Add(time.Hour))

	r := NewResolver(store)

	tc, err := r.ResolveTenantContext(context.Background(), "u1", "")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if tc == nil || tc.Tenant.ID != "tenant-b" {
		t.Fatalf("expected dangling membership to be skipped, got %+v", tc)
	}

	// Explicitly requesting the vanished tenant grants nothing.
	if _, err := r.ResolveTenantContext(context.Background(), "u1", "tenant-gone"); !errors.Is(err, ErrNotAuthorizedForTenant) {
		t.Fatalf("expected ErrNotAuthorizedForTenant, got %v", err)
	}
}
