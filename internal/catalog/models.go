package catalog

import "time"

// Catalog rows are tenant-scoped (tenant_id required everywhere).
// Prices are expressed in minor units (e.g., cents) using int64.

type PackageStatus string

const (
	PackageStatusActive   PackageStatus = "active"
	PackageStatusInactive PackageStatus = "inactive"
)

// Package is a sellable ticket package (entry, entry plus credit,
// VIP bundle, ...). The list price never changes in place; offers
// discount it for a bounded window instead.
type Package struct {
	ID       string `json:"id" db:"id"`
	TenantID string `json:"tenantId" db:"tenant_id"`

	// EventID is optional; empty means the package is valid for any
	// of the tenant's events.
	EventID string `json:"eventId,omitempty" db:"event_id"`

	Name        string `json:"name" db:"name"`
	Description string `json:"description,omitempty" db:"description"`

	PriceMinor int64  `json:"priceMinor" db:"price_minor"`
	Currency   string `json:"currency" db:"currency"`

	Status PackageStatus `json:"status" db:"status"`

	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// Offer applies a percentage discount to one package for a bounded
// window. EndsAt nil means open-ended.
type Offer struct {
	ID        string `json:"id" db:"id"`
	TenantID  string `json:"tenantId" db:"tenant_id"`
	PackageID string `json:"packageId" db:"package_id"`

	Name       string `json:"name,omitempty" db:"name"`
	PercentOff int    `json:"percentOff" db:"percent_off"`

	StartsAt time.Time  `json:"startsAt" db:"starts_at"`
	EndsAt   *time.Time `json:"endsAt,omitempty" db:"ends_at"`

	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// covers reports whether the offer window contains at.
// Windows are half-open: [StartsAt, EndsAt).
func (o Offer) covers(at time.Time) bool {
	if at.Before(o.StartsAt) {
		return false
	}
	if o.EndsAt != nil && !at.Before(*o.EndsAt) {
		return false
	}
	return true
}
