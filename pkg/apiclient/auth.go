package apiclient

import (
	"context"
	"fmt"
	"net/http"
)

// User is the caller's identity as the API reports it.
type User struct {
	ID         string `json:"id"`
	Email      string `json:"email"`
	GlobalRole string `json:"globalRole"`
	IsActive   bool   `json:"isActive"`
}

// Tenant is an organization the caller can act within.
type Tenant struct {
	ID       string `json:"id"`
	Slug     string `json:"slug"`
	Name     string `json:"name"`
	IsActive bool   `json:"isActive"`
}

// Membership ties the caller to one tenant with a role.
type Membership struct {
	TenantID   string `json:"tenantId"`
	TenantRole string `json:"tenantRole"`
	Tenant     Tenant `json:"tenant"`
}

// Session is the result of a successful login. Tenant and TenantRole
// are empty for logins without a tenant context.
type Session struct {
	User       User
	Tenant     *Tenant
	TenantRole string
}

// Profile is the caller's identity plus every tenant membership.
type Profile struct {
	User        User         `json:"user"`
	Memberships []Membership `json:"memberships"`
	TenantID    string       `json:"tenantId"`
	TenantRole  string       `json:"tenantRole"`
}

// Login authenticates and stores the returned token pair. tenantID is
// optional; pass it to bind the session to one tenant up front.
func (c *Client) Login(ctx context.Context, email, password, tenantID string) (Session, error) {
	body := map[string]string{"email": email, "password": password}
	if tenantID != "" {
		body["tenantId"] = tenantID
	}

	var out struct {
		AccessToken  string  `json:"accessToken"`
		RefreshToken string  `json:"refreshToken"`
		User         User    `json:"user"`
		Tenant       *Tenant `json:"tenant"`
		TenantRole   string  `json:"tenantRole"`
	}
	if err := c.do(ctx, http.MethodPost, "/auth/login", body, &out, false); err != nil {
		return Session{}, err
	}

	user := out.User
	err := c.creds.Save(Credentials{
		AccessToken:  out.AccessToken,
		RefreshToken: out.RefreshToken,
		User:         &user,
		Tenant:       out.Tenant,
	})
	if err != nil {
		return Session{}, fmt.Errorf("persist credentials: %w", err)
	}
	return Session{User: out.User, Tenant: out.Tenant, TenantRole: out.TenantRole}, nil
}

// Logout forgets the stored credentials. Tokens are stateless server
// side, so there is nothing to revoke remotely.
func (c *Client) Logout() error {
	return c.creds.Clear()
}

// Me fetches the caller's profile for the current session.
func (c *Client) Me(ctx context.Context) (Profile, error) {
	var out Profile
	if err := c.do(ctx, http.MethodGet, "/auth/me", nil, &out, true); err != nil {
		return Profile{}, err
	}
	return out, nil
}
