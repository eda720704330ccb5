package identity

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jonoyanguren/smartcashlesshub-sub000/internal/auth"
	"github.com/jonoyanguren/smartcashlesshub-sub000/internal/config"
)

func newAuthManager(t *testing.T) *auth.Manager {
	t.Helper()
	m, err := auth.NewManager(config.AuthConfig{
		AccessSecret:    "access-secret",
		RefreshSecret:   "refresh-secret",
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: 7 * 24 * time.Hour,
	})
	if err != nil {
		t.Fatalf("manager: %v", err)
	}
	return m
}

func seedUser(t *testing.T, store *MemoryStore, id, email, globalRole string, active bool) {
	t.Helper()
	hash, err := HashPassword("correct-pw")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	store.AddUser(User{
		ID:           id,
		Email:        email,
		PasswordHash: hash,
		GlobalRole:   globalRole,
		IsActive:     active,
		CreatedAt:    base,
	})
}

func newTestService(t *testing.T, store *MemoryStore) (*Service, *auth.Manager) {
	t.Helper()
	m := newAuthManager(t)
	svc := NewService(store, BcryptVerifier{}, m)
	svc.clock = func() time.Time { return base }
	return svc, m
}

func TestLogin_IssuesSessionTokens(t *testing.T) {
	store := NewMemoryStore()
	seedUser(t, store, "u1", "admin@x.com", "END_USER", true)
	seedTenant(store, "t1", true, base)
	seedMembership(store, "u1", "t1", "TENANT_ADMIN", base)

	svc, m := newTestService(t, store)

	res, err := svc.Login(context.Background(), "admin@x.com", "correct-pw", "")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if res.Tenant == nil || res.Tenant.ID != "t1" || res.TenantRole != "TENANT_ADMIN" {
		t.Fatalf("unexpected tenant result: %+v", res)
	}

	claims, err := m.Verify(res.AccessToken, auth.TokenTypeAccess, base)
	if err != nil {
		t.Fatalf("verify access: %v", err)
	}
	if claims.UserID != "u1" || claims.Email != "admin@x.com" {
		t.Fatalf("unexpected identity claims: %+v", claims)
	}
	if claims.TenantID != "t1" || claims.TenantRole != "TENANT_ADMIN" || claims.TokenType != auth.TokenTypeAccess {
		t.Fatalf("unexpected session claims: %+v", claims)
	}

	if _, err := m.Verify(res.RefreshToken, auth.TokenTypeRefresh, base); err != nil {
		t.Fatalf("verify refresh: %v", err)
	}
}

func TestLogin_FailuresAreOpaque(t *testing.T) {
	store := NewMemoryStore()
	seedUser(t, store, "u1", "admin@x.com", "END_USER", true)
	seedUser(t, store, "u2", "gone@x.com", "END_USER", false)

	svc, _ := newTestService(t, store)

	cases := []struct {
		name            string
		email, password string
	}{
		{"wrong password", "admin@x.com", "wrong-pw"},
		{"unknown email", "nobody@x.com", "correct-pw"},
		{"inactive user", "gone@x.com", "correct-pw"},
		{"empty password", "admin@x.com", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Login(context.Background(), tc.email, tc.password, ""); !errors.Is(err, ErrInvalidCredentials) {
				t.Fatalf("expected ErrInvalidCredentials, got %v", err)
			}
		})
	}
}

func TestLogin_NormalizesEmail(t *testing.T) {
	store := NewMemoryStore()
	seedUser(t, store, "u1", "admin@x.com", "END_USER", true)

	svc, _ := newTestService(t, store)

	if _, err := svc.Login(context.Background(), "  Admin@X.com ", "correct-pw", ""); err != nil {
		t.Fatalf("expected normalized login to succeed, got %v", err)
	}
}

func TestLogin_ExplicitTenantRejection(t *testing.T) {
	store := NewMemoryStore()
	seedUser(t, store, "u1", "admin@x.com", "END_USER", true)
	seedTenant(store, "t1", true, base)
	seedMembership(store, "u1", "t1", "TENANT_ADMIN", base)

	svc, _ := newTestService(t, store)

	if _, err := svc.Login(context.Background(), "admin@x.com", "correct-pw", "t9"); !errors.Is(err, ErrNotAuthorizedForTenant) {
		t.Fatalf("expected ErrNotAuthorizedForTenant, got %v", err)
	}
}

func TestLogin_NoTenantSession(t *testing.T) {
	store := NewMemoryStore()
	seedUser(t, store, "u1", "solo@x.com", "END_USER", true)

	svc, m := newTestService(t, store)

	res, err := svc.Login(context.Background(), "solo@x.com", "correct-pw", "")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if res.Tenant != nil || res.TenantRole != "" {
		t.Fatalf("expected no tenant, got %+v", res)
	}

	claims, err := m.Verify(res.AccessToken, auth.TokenTypeAccess, base)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if claims.TenantID != "" || claims.TenantRole != "" {
		t.Fatalf("expected no tenant claims, got %+v", claims)
	}
}

func TestRefresh_ReResolvesTenantContext(t *testing.T) {
	store := NewMemoryStore()
	seedUser(t, store, "u1", "admin@x.com", "END_USER", true)
	seedTenant(store, "t-first", true, base)
	seedTenant(store, "t-second", true, base)
	seedMembership(store, "u1", "t-first", "TENANT_STAFF", base)
	seedMembership(store, "u1", "t-second", "TENANT_ADMIN", base.Add(time.Hour))

	svc, m := newTestService(t, store)

	// Login explicitly against the second tenant.
	res, err := svc.Login(context.Background(), "admin@x.com", "correct-pw", "t-second")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	loginClaims, err := m.Verify(res.AccessToken, auth.TokenTypeAccess, base)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if loginClaims.TenantID != "t-second" {
		t.Fatalf("expected login tenant t-second, got %+v", loginClaims)
	}

	// Refresh re-derives from membership state, so the creation-order
	// rule lands the session back on the first tenant.
	ref, err := svc.Refresh(context.Background(), res.RefreshToken)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	claims, err := m.Verify(ref.AccessToken, auth.TokenTypeAccess, base)
	if err != nil {
		t.Fatalf("verify refreshed: %v", err)
	}
	if claims.TenantID != "t-first" || claims.TenantRole != "TENANT_STAFF" {
		t.Fatalf("expected re-resolved tenant t-first, got %+v", claims)
	}
}

func TestRefresh_RejectsAccessToken(t *testing.T) {
	store := NewMemoryStore()
	seedUser(t, store, "u1", "admin@x.com", "END_USER", true)

	svc, _ := newTestService(t, store)

	res, err := svc.Login(context.Background(), "admin@x.com", "correct-pw", "")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	if _, err := svc.Refresh(context.Background(), res.AccessToken); !errors.Is(err, auth.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for access-as-refresh, got %v", err)
	}
}

func TestRefresh_DeactivatedUser(t *testing.T) {
	store := NewMemoryStore()
	seedUser(t, store, "u1", "admin@x.com", "END_USER", true)

	svc, _ := newTestService(t, store)

	res, err := svc.Login(context.Background(), "admin@x.com", "correct-pw", "")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	// Deactivate after login; the refresh token outlives the account.
	u, _ := store.FindUserByID(context.Background(), "u1")
	u.IsActive = false
	store.AddUser(u)

	if _, err := svc.Refresh(context.Background(), res.RefreshToken); !errors.Is(err, auth.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for deactivated user, got %v", err)
	}
}

func TestProfile_ListsMembershipsWithTenants(t *testing.T) {
	store := NewMemoryStore()
	seedUser(t, store, "u1", "admin@x.com", "END_USER", true)
	seedTenant(store, "t1", true, base)
	seedTenant(store, "t2", false, base)
	seedMembership(store, "u1", "t1", "TENANT_ADMIN", base)
	seedMembership(store, "u1", "t2", "TENANT_STAFF", base.Add(time.Hour))
	seedMembership(store, "u1", "t-gone", "TENANT_STAFF", base.Add(2*time.Hour))

	svc, _ := newTestService(t, store)

	u, infos, err := svc.Profile(context.Background(), "u1")
	if err != nil {
		t.Fatalf("profile: %v", err)
	}
	if u.ID != "u1" {
		t.Fatalf("unexpected user: %+v", u)
	}
	// Inactive tenants stay listed; only the dangling membership drops.
	if len(infos) != 2 {
		t.Fatalf("expected 2 memberships, got %d", len(infos))
	}
	if infos[0].TenantID != "t1" || infos[0].Tenant.Name != "t1" {
		t.Fatalf("unexpected first membership: %+v", infos[0])
	}
	if infos[1].TenantID != "t2" || infos[1].Tenant.IsActive {
		t.Fatalf("unexpected second membership: %+v", infos[1])
	}

	if _, _, err := svc.Profile(context.Background(), "u9"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}
