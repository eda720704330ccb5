package events

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepo is an in-memory Repository for tests and local development.
type MemoryRepo struct {
	mu     sync.RWMutex
	events map[string]Event // keyed by id
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{events: make(map[string]Event)}
}

func (r *MemoryRepo) Insert(_ context.Context, e Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events[e.ID] = e
	return nil
}

func (r *MemoryRepo) FindByID(_ context.Context, tenantID, id string) (Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.events[id]
	if !ok || e.TenantID != tenantID {
		return Event{}, ErrNotFound
	}
	return e, nil
}

func (r *MemoryRepo) ListByTenant(_ context.Context, tenantID string) ([]Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []Event
	for _, e := range r.events {
		if e.TenantID == tenantID {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].StartsAt.Equal(out[j].StartsAt) {
			return out[i].StartsAt.Before(out[j].StartsAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *MemoryRepo) Update(_ context.Context, e Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.events[e.ID]
	if !ok || cur.TenantID != e.TenantID {
		return ErrNotFound
	}
	r.events[e.ID] = e
	return nil
}
