package reporting

import (
	"context"
	"time"

	"github.com/jonoyanguren/smartcashlesshub-sub000/internal/payments"
)

// PaymentsRepo adapts the live payments store to the reporting
// Repository. Reports read the same rows the record path wrote.
type PaymentsRepo struct {
	store payments.Repository
}

func NewPaymentsRepo(store payments.Repository) *PaymentsRepo {
	return &PaymentsRepo{store: store}
}

func (r *PaymentsRepo) ListPayments(ctx context.Context, tenantID string, from, to time.Time, eventID string) ([]payments.Payment, error) {
	return r.store.List(ctx, tenantID, payments.ListFilter{
		EventID: eventID,
		From:    from,
		To:      to,
	})
}
