package audit

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Repository is the persistence contract for audit events.
//
// It MUST be append-only.
// No Update/Delete methods are provided by design.

type Repository interface {
	Append(ctx context.Context, e Event) error
}

// Service logs internal audit information.
//
// IMPORTANT:
// - Audit is internal-only. Do not expose these records to tenant users
//   by default.
// - Callers should treat audit logging as best-effort.

type Service struct {
	repo  Repository
	clock func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, clock: time.Now}
}

var ErrInvalidEvent = errors.New("audit: invalid event")

func (s *Service) Append(ctx context.Context, e Event) error {
	if s.repo == nil {
		return errors.New("audit: repository not configured")
	}
	if e.Type == "" {
		return ErrInvalidEvent
	}

	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = s.clock().UTC()
	}
	return s.repo.Append(ctx, e)
}

// LogLogin records a login attempt. userID and tenantID are empty for
// failures; the attempted email is kept either way.
func (s *Service) LogLogin(ctx context.Context, succeeded bool, userID, email, tenantID, ip string) error {
	typ := EventTypeLoginSucceeded
	msg := "login succeeded"
	if !succeeded {
		typ = EventTypeLoginFailed
		msg = "login failed"
	}
	return s.Append(ctx, Event{
		TenantID:    tenantID,
		Type:        typ,
		ActorUserID: userID,
		ActorEmail:  email,
		IPAddress:   ip,
		Message:     msg,
	})
}

// LogRefresh records a token refresh outcome.
func (s *Service) LogRefresh(ctx context.Context, succeeded bool, userID, tenantID, ip string) error {
	typ := EventTypeTokenRefreshed
	msg := "access token refreshed"
	if !succeeded {
		typ = EventTypeRefreshRejected
		msg = "refresh token rejected"
	}
	return s.Append(ctx, Event{
		TenantID:    tenantID,
		Type:        typ,
		ActorUserID: userID,
		IPAddress:   ip,
		Message:     msg,
	})
}

// LogAdminAction records a privileged mutation for internal ops review.
func (s *Service) LogAdminAction(ctx context.Context, tenantID, actorUserID, actorEmail, ip, message, metadata string) error {
	return s.Append(ctx, Event{
		TenantID:    tenantID,
		Type:        EventTypeAdminAction,
		ActorUserID: actorUserID,
		ActorEmail:  actorEmail,
		IPAddress:   ip,
		Message:     message,
		Metadata:    metadata,
	})
}
