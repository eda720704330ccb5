package audit

import "time"

// Event is an immutable, append-only audit record.
//
// Invariants:
// - Events are never updated or deleted.
// - TenantID is optional: login-time events can precede any tenant
//   context, and platform-admin actions have none.
// - Actor and IP capture are best-effort; never block an auth flow on
//   an audit failure.
//
// Storage recommendation (Postgres):
// - Table audit_events with an INSERT-only policy.
// - Optional: trigger to prevent UPDATE/DELETE.
// - Optional: partition by time for retention.

type Event struct {
	ID       string `json:"id" db:"id"`
	TenantID string `json:"tenantId,omitempty" db:"tenant_id"`

	// Type indicates the business category of the audit record.
	Type EventType `json:"type" db:"type"`

	// ActorUserID is the authenticated user causing the event, when one
	// exists. Failed logins record only the attempted email.
	ActorUserID string `json:"actorUserId,omitempty" db:"actor_user_id"`
	ActorEmail  string `json:"actorEmail,omitempty" db:"actor_email"`

	// IPAddress should capture the original client IP when available.
	// Prefer X-Forwarded-For processing at the edge; store the resolved
	// client IP here.
	IPAddress string `json:"ipAddress,omitempty" db:"ip_address"`

	// Message is a short human-readable description for internal ops.
	Message string `json:"message,omitempty" db:"message"`

	// Metadata is optional JSON for full details.
	Metadata string `json:"metadata,omitempty" db:"metadata"`

	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

type EventType string

const (
	EventTypeLoginSucceeded  EventType = "login_succeeded"
	EventTypeLoginFailed     EventType = "login_failed"
	EventTypeTokenRefreshed  EventType = "token_refreshed"
	EventTypeRefreshRejected EventType = "refresh_rejected"
	EventTypeAdminAction     EventType = "admin_action"
)
