package payments

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepo is an in-memory Repository for tests and local development.
type MemoryRepo struct {
	mu       sync.Mutex
	payments map[string]Payment // keyed by id
	byKey    map[string]string  // tenantID+"\x00"+idempotencyKey -> id
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		payments: make(map[string]Payment),
		byKey:    make(map[string]string),
	}
}

func keyOf(tenantID, idempotencyKey string) string {
	return tenantID + "\x00" + idempotencyKey
}

func (r *MemoryRepo) InsertIdempotent(_ context.Context, p Payment) (Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if id, ok := r.byKey[keyOf(p.TenantID, p.IdempotencyKey)]; ok {
		return r.payments[id], nil
	}
	r.payments[p.ID] = p
	r.byKey[keyOf(p.TenantID, p.IdempotencyKey)] = p.ID
	return p, nil
}

func (r *MemoryRepo) FindByID(_ context.Context, tenantID, id string) (Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.payments[id]
	if !ok || p.TenantID != tenantID {
		return Payment{}, ErrNotFound
	}
	return p, nil
}

func (r *MemoryRepo) List(_ context.Context, tenantID string, f ListFilter) ([]Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []Payment
	for _, p := range r.payments {
		if p.TenantID != tenantID {
			continue
		}
		if f.EventID != "" && p.EventID != f.EventID {
			continue
		}
		if f.Method != "" && p.Method != f.Method {
			continue
		}
		if !f.From.IsZero() && p.CreatedAt.Before(f.From) {
			continue
		}
		if !f.To.IsZero() && !p.CreatedAt.Before(f.To) {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}
