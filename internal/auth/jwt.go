package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/jonoyanguren/smartcashlesshub-sub000/internal/config"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	// ErrInvalidToken covers malformed, tampered and expired tokens.
	// Callers surface it opaquely; the underlying cause stays wrapped
	// for logs and tests.
	ErrInvalidToken = errors.New("invalid token")

	// ErrWrongTokenType means the signature checked out but the token's
	// declared type is not what the caller expected, e.g. a refresh
	// token presented as an access token. It wraps ErrInvalidToken so
	// clients never see the distinction.
	ErrWrongTokenType = fmt.Errorf("%w: wrong token type", ErrInvalidToken)
)

// Manager signs and verifies both token kinds. Access and refresh tokens
// use distinct secrets, so a leaked refresh token cannot be replayed as
// an access token even though both are HS256.
type Manager struct {
	accessSecret  []byte
	refreshSecret []byte
	issuer        string
	audience      string
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

// NewManager fails when a signing secret is absent. Never substitute a
// default; tokens signed with a known secret are forgeable.
func NewManager(cfg config.AuthConfig) (*Manager, error) {
	if cfg.AccessSecret == "" {
		return nil, errors.New("JWT_ACCESS_SECRET is required")
	}
	if cfg.RefreshSecret == "" {
		return nil, errors.New("JWT_REFRESH_SECRET is required")
	}
	if cfg.AccessSecret == cfg.RefreshSecret {
		return nil, errors.New("JWT_ACCESS_SECRET and JWT_REFRESH_SECRET must differ")
	}

	return &Manager{
		accessSecret:  []byte(cfg.AccessSecret),
		refreshSecret: []byte(cfg.RefreshSecret),
		issuer:        cfg.Issuer,
		audience:      cfg.Audience,
		accessTTL:     cfg.AccessTokenTTL,
		refreshTTL:    cfg.RefreshTokenTTL,
	}, nil
}

type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// Session is the caller-provided identity snapshot minted into an access
// token. TenantID and TenantRole are empty for a no-tenant session.
type Session struct {
	UserID     string
	Email      string
	GlobalRole string
	TenantID   string
	TenantRole string
}

/* ===================== ISSUE TOKENS ===================== */

func (m *Manager) IssuePair(now time.Time, s Session) (TokenPair, error) {
	access, err := m.IssueAccessToken(now, s)
	if err != nil {
		return TokenPair{}, err
	}

	refresh, err := m.IssueRefreshToken(now, s.UserID)
	if err != nil {
		return TokenPair{}, err
	}

	return TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
	}, nil
}

func (m *Manager) IssueAccessToken(now time.Time, s Session) (string, error) {
	claims := Claims{
		RegisteredClaims: m.registered(now, m.accessTTL),
		UserID:           s.UserID,
		Email:            s.Email,
		GlobalRole:       s.GlobalRole,
		TenantID:         s.TenantID,
		TenantRole:       s.TenantRole,
		TokenType:        TokenTypeAccess,
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(m.accessSecret)
}

// IssueRefreshToken deliberately carries no role or tenant claims.
func (m *Manager) IssueRefreshToken(now time.Time, userID string) (string, error) {
	claims := Claims{
		RegisteredClaims: m.registered(now, m.refreshTTL),
		UserID:           userID,
		TokenType:        TokenTypeRefresh,
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(m.refreshSecret)
}

/* ===================== VERIFY TOKEN ===================== */

func (m *Manager) Verify(tokenString string, expected TokenType, now time.Time) (Claims, error) {
	var claims Claims

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(func() time.Time { return now }),
		jwt.WithLeeway(30 * time.Second), // clock skew tolerance
		jwt.WithIssuedAt(),
		jwt.WithExpirationRequired(),
	}
	if m.issuer != "" {
		opts = append(opts, jwt.WithIssuer(m.issuer))
	}
	if m.audience != "" {
		opts = append(opts, jwt.WithAudience(m.audience))
	}

	parser := jwt.NewParser(opts...)
	// The signing key is chosen by what the caller expects, never by the
	// token's own type claim, so a forged type cannot steer key selection.
	_, err := parser.ParseWithClaims(tokenString, &claims, func(*jwt.Token) (any, error) {
		return m.secretFor(expected), nil
	})
	if err != nil {
		return Claims{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if claims.TokenType != expected {
		return Claims{}, ErrWrongTokenType
	}
	if claims.UserID == "" {
		return Claims{}, fmt.Errorf("%w: userId missing", ErrInvalidToken)
	}

	// Role is required ONLY for access tokens; refresh tokens never
	// carry one.
	if expected == TokenTypeAccess && claims.GlobalRole == "" {
		return Claims{}, fmt.Errorf("%w: globalRole missing", ErrInvalidToken)
	}

	return claims, nil
}

/* ===================== INTERNAL ===================== */

func (m *Manager) secretFor(t TokenType) []byte {
	if t == TokenTypeRefresh {
		return m.refreshSecret
	}
	return m.accessSecret
}

func (m *Manager) registered(now time.Time, ttl time.Duration) jwt.RegisteredClaims {
	return jwt.RegisteredClaims{
		Issuer:    m.issuer,
		Audience:  audienceOrNil(m.audience),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		ID:        uuid.NewString(),
	}
}

func audienceOrNil(aud string) jwt.ClaimStrings {
	if aud == "" {
		return nil
	}
	return jwt.ClaimStrings{aud}
}
