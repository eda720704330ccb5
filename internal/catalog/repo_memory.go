package catalog

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryRepo is an in-memory Repository for tests and local development.
type MemoryRepo struct {
	mu       sync.Mutex
	packages map[string]Package // keyed by id
	offers   []Offer
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{packages: make(map[string]Package)}
}

func (r *MemoryRepo) InsertPackage(_ context.Context, p Package) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.packages[p.ID] = p
	return nil
}

func (r *MemoryRepo) FindPackage(_ context.Context, tenantID, id string) (Package, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.packages[id]
	if !ok || p.TenantID != tenantID {
		return Package{}, ErrNotFound
	}
	return p, nil
}

func (r *MemoryRepo) ListPackages(_ context.Context, tenantID string) ([]Package, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Package, 0)
	for _, p := range r.packages {
		if p.TenantID == tenantID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *MemoryRepo) UpdatePackage(_ context.Context, p Package) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	prev, ok := r.packages[p.ID]
	if !ok || prev.TenantID != p.TenantID {
		return ErrNotFound
	}
	r.packages[p.ID] = p
	return nil
}

func (r *MemoryRepo) InsertOffer(_ context.Context, o Offer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.offers = append(r.offers, o)
	return nil
}

func (r *MemoryRepo) FindBestOffer(_ context.Context, tenantID, packageID string, at time.Time) (Offer, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var best Offer
	found := false

	for _, o := range r.offers {
		if o.TenantID != tenantID || o.PackageID != packageID {
			continue
		}
		if !o.covers(at) {
			continue
		}

		if !found {
			best = o
			found = true
			continue
		}
		if o.PercentOff > best.PercentOff {
			best = o
			continue
		}
		if o.PercentOff == best.PercentOff && o.StartsAt.After(best.StartsAt) {
			best = o
		}
	}

	return best, found, nil
}
