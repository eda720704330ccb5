package payments

import "time"

type Method string

const (
	MethodCard     Method = "card"
	MethodCash     Method = "cash"
	MethodTransfer Method = "transfer"
)

// Payment is an immutable record of money received for an event.
//
// Invariants:
// - Records are append-only; corrections happen via compensating
//   records, never edits.
// - tenant_id is required and enforced in all queries.
// - (tenant_id, idempotency_key) is unique, so a retried submission
//   lands on the original record.
type Payment struct {
	ID       string `json:"id" db:"id"`
	TenantID string `json:"tenantId" db:"tenant_id"`

	EventID     string `json:"eventId,omitempty" db:"event_id"`
	PayerUserID string `json:"payerUserId,omitempty" db:"payer_user_id"`

	AmountMinor int64  `json:"amountMinor" db:"amount_minor"`
	Currency    string `json:"currency" db:"currency"`
	Method      Method `json:"method" db:"method"`

	ExternalRef    string `json:"externalRef,omitempty" db:"external_ref"`
	IdempotencyKey string `json:"idempotencyKey" db:"idempotency_key"`
	Metadata       string `json:"metadata,omitempty" db:"metadata"`

	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

func validMethod(m Method) bool {
	switch m {
	case MethodCard, MethodCash, MethodTransfer:
		return true
	default:
		return false
	}
}
