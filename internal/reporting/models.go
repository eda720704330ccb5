package reporting

import "time"

// Common filtering inputs.

type TimeRange struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

// PaymentsSummaryRequest requests aggregated payment metrics.
// Tenant isolation: TenantID is required.

type PaymentsSummaryRequest struct {
	TenantID string    `json:"tenantId"`
	Range    TimeRange `json:"range"`
	EventID  string    `json:"eventId,omitempty"`
}

type PaymentsSummary struct {
	TenantID string `json:"tenantId"`
	EventID  string `json:"eventId,omitempty"`

	TotalPayments int `json:"totalPayments"`

	// Gross amounts are kept per currency; summing across currencies
	// would be meaningless.
	GrossByCurrency map[string]int64 `json:"grossByCurrency"`
	CountByMethod   map[string]int   `json:"countByMethod"`

	LargestPaymentMinor int64 `json:"largestPaymentMinor"`
}

// EventTakingsRequest requests per-event payment totals for a tenant.

type EventTakingsRequest struct {
	TenantID string    `json:"tenantId"`
	Range    TimeRange `json:"range"`
}

type EventTakings struct {
	TenantID string            `json:"tenantId"`
	Events   []EventTakingsRow `json:"events"`
}

// EventTakingsRow aggregates one event's payments. Payments recorded
// without an event land on a row with an empty EventID.
type EventTakingsRow struct {
	EventID string `json:"eventId,omitempty"`

	Payments        int              `json:"payments"`
	GrossByCurrency map[string]int64 `json:"grossByCurrency"`
}
