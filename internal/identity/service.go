package identity

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jonoyanguren/smartcashlesshub-sub000/internal/auth"
)

// ErrInvalidCredentials is the single failure a caller sees for a bad
// login. Unknown email, disabled account and wrong password all fold
// into it so responses never reveal whether an account exists.
var ErrInvalidCredentials = errors.New("invalid credentials")

// Service owns the login, refresh and profile flows on top of the
// read-only store.
type Service struct {
	store    Store
	verifier PasswordVerifier
	tokens   *auth.Manager
	resolver *Resolver

	// clock is injectable for deterministic tests.
	clock func() time.Time
}

func NewService(store Store, verifier PasswordVerifier, tokens *auth.Manager) *Service {
	return &Service{
		store:    store,
		verifier: verifier,
		tokens:   tokens,
		resolver: NewResolver(store),
		clock:    time.Now,
	}
}

type LoginResult struct {
	User         User
	Tenant       *Tenant
	TenantRole   string
	AccessToken  string
	RefreshToken string
}

// Login authenticates a user and mints a token pair. requestedTenantID
// is optional; when empty the resolver's creation-order rule picks the
// tenant.
func (s *Service) Login(ctx context.Context, email, password, requestedTenantID string) (LoginResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return LoginResult{}, ErrInvalidCredentials
	}

	u, err := s.store.FindUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return LoginResult{}, ErrInvalidCredentials
		}
		return LoginResult{}, err
	}
	if !u.IsActive {
		return LoginResult{}, ErrInvalidCredentials
	}
	if !s.verifier.Verify(u.PasswordHash, password) {
		return LoginResult{}, ErrInvalidCredentials
	}

	// Tenant failures surface distinctly; by this point the caller has
	// already proven the password.
	tc, err := s.resolver.ResolveTenantContext(ctx, u.ID, requestedTenantID)
	if err != nil {
		return LoginResult{}, err
	}

	session := sessionFor(u, tc)
	pair, err := s.tokens.IssuePair(s.clock().UTC(), session)
	if err != nil {
		return LoginResult{}, err
	}

	out := LoginResult{
		User:         u,
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	}
	if tc != nil {
		t := tc.Tenant
		out.Tenant = &t
		out.TenantRole = tc.TenantRole
	}
	return out, nil
}

type RefreshResult struct {
	UserID      string
	AccessToken string
	Tenant      *Tenant
	TenantRole  string
}

// Refresh verifies a refresh token and mints a new access token. Tenant
// context is re-resolved from current membership state; the refresh
// token itself never carries any. No new refresh token is issued.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (RefreshResult, error) {
	now := s.clock().UTC()

	claims, err := s.tokens.Verify(refreshToken, auth.TokenTypeRefresh, now)
	if err != nil {
		return RefreshResult{}, err
	}

	u, err := s.store.FindUserByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return RefreshResult{}, auth.ErrInvalidToken
		}
		return RefreshResult{}, err
	}
	if !u.IsActive {
		return RefreshResult{}, auth.ErrInvalidToken
	}

	// TODO: carry the session's tenant through refresh. Resolving with no
	// requested tenant can move a user who logged into their second
	// tenant back to their first.
	tc, err := s.resolver.ResolveTenantContext(ctx, u.ID, "")
	if err != nil {
		return RefreshResult{}, err
	}

	access, err := s.tokens.IssueAccessToken(now, sessionFor(u, tc))
	if err != nil {
		return RefreshResult{}, err
	}

	out := RefreshResult{UserID: u.ID, AccessToken: access}
	if tc != nil {
		t := tc.Tenant
		out.Tenant = &t
		out.TenantRole = tc.TenantRole
	}
	return out, nil
}

// MembershipInfo is a membership joined with its tenant for profile
// responses.
type MembershipInfo struct {
	Membership
	Tenant Tenant `json:"tenant"`
}

// Profile returns the user plus the full membership list. Memberships
// onto missing tenants are dropped rather than erroring the whole call.
func (s *Service) Profile(ctx context.Context, userID string) (User, []MembershipInfo, error) {
	u, err := s.store.FindUserByID(ctx, userID)
	if err != nil {
		return User{}, nil, err
	}

	memberships, err := s.store.FindMembershipsForUser(ctx, userID)
	if err != nil {
		return User{}, nil, err
	}

	infos := make([]MembershipInfo, 0, len(memberships))
	for _, m := range memberships {
		t, err := s.store.FindTenantByID(ctx, m.TenantID)
		if err != nil {
			if errors.Is(err, ErrTenantNotFound) {
				continue
			}
			return User{}, nil, err
		}
		infos = append(infos, MembershipInfo{Membership: m, Tenant: t})
	}
	return u, infos, nil
}

func sessionFor(u User, tc *TenantContext) auth.Session {
	s := auth.Session{
		UserID:     u.ID,
		Email:      u.Email,
		GlobalRole: u.GlobalRole,
	}
	if tc != nil {
		s.TenantID = tc.Tenant.ID
		s.TenantRole = tc.TenantRole
	}
	return s
}
