package events

import "time"

type Status string

const (
	StatusDraft     Status = "draft"
	StatusPublished Status = "published"
	StatusClosed    Status = "closed"
)

// Event is a tenant-scoped happening people buy into. Lifecycle:
// draft -> published -> closed, never backwards.
type Event struct {
	ID       string `json:"id" db:"id"`
	TenantID string `json:"tenantId" db:"tenant_id"`

	Name     string    `json:"name" db:"name"`
	Venue    string    `json:"venue,omitempty" db:"venue"`
	StartsAt time.Time `json:"startsAt" db:"starts_at"`
	EndsAt   time.Time `json:"endsAt" db:"ends_at"`

	// Capacity 0 means unbounded.
	Capacity int `json:"capacity" db:"capacity"`

	Status    Status    `json:"status" db:"status"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}
