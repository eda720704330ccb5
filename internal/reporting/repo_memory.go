package reporting

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/jonoyanguren/smartcashlesshub-sub000/internal/payments"
)

// MemoryRepo is a simple in-memory reporting repository for tests and
// early development. It enforces tenant isolation on reads.

type MemoryRepo struct {
	mu sync.Mutex

	Payments []payments.Payment
}

func NewMemoryRepo() *MemoryRepo { return &MemoryRepo{} }

func (r *MemoryRepo) ListPayments(ctx context.Context, tenantID string, from, to time.Time, eventID string) ([]payments.Payment, error) {
	if tenantID == "" {
		return nil, errors.New("tenant_id required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]payments.Payment, 0)
	for _, p := range r.Payments {
		if p.TenantID != tenantID {
			continue
		}
		if !p.CreatedAt.IsZero() {
			if p.CreatedAt.Before(from) || !p.CreatedAt.Before(to) {
				continue
			}
		}
		if eventID != "" && p.EventID != eventID {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}
