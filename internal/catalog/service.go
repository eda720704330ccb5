package catalog

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Repository abstracts catalog persistence.
//
// Tenancy invariant: tenant_id is required and enforced in all queries;
// packages and offers are never visible outside their tenant.
type Repository interface {
	InsertPackage(ctx context.Context, p Package) error
	FindPackage(ctx context.Context, tenantID, id string) (Package, error)
	ListPackages(ctx context.Context, tenantID string) ([]Package, error)
	UpdatePackage(ctx context.Context, p Package) error

	InsertOffer(ctx context.Context, o Offer) error
	// FindBestOffer returns the covering offer with the largest
	// discount, breaking ties toward the most recently started one.
	FindBestOffer(ctx context.Context, tenantID, packageID string, at time.Time) (Offer, bool, error)
}

var (
	ErrNotFound        = errors.New("package not found")
	ErrInvalidArgument = errors.New("invalid argument")
)

type Service struct {
	repo Repository
	// clock is injectable for deterministic tests.
	clock func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, clock: time.Now}
}

type CreatePackageRequest struct {
	EventID     string `json:"eventId,omitempty"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	PriceMinor  int64  `json:"priceMinor"`
	Currency    string `json:"currency"`
}

// CreatePackage stores a new active package for the tenant.
func (s *Service) CreatePackage(ctx context.Context, tenantID string, req CreatePackageRequest) (Package, error) {
	if tenantID == "" || req.Name == "" {
		return Package{}, ErrInvalidArgument
	}
	if req.PriceMinor < 0 || req.Currency == "" {
		return Package{}, ErrInvalidArgument
	}

	now := s.clock().UTC()
	p := Package{
		ID:          uuid.NewString(),
		TenantID:    tenantID,
		EventID:     req.EventID,
		Name:        req.Name,
		Description: req.Description,
		PriceMinor:  req.PriceMinor,
		Currency:    req.Currency,
		Status:      PackageStatusActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.InsertPackage(ctx, p); err != nil {
		return Package{}, err
	}
	return p, nil
}

func (s *Service) GetPackage(ctx context.Context, tenantID, id string) (Package, error) {
	if tenantID == "" || id == "" {
		return Package{}, ErrInvalidArgument
	}
	return s.repo.FindPackage(ctx, tenantID, id)
}

func (s *Service) ListPackages(ctx context.Context, tenantID string) ([]Package, error) {
	if tenantID == "" {
		return nil, ErrInvalidArgument
	}
	return s.repo.ListPackages(ctx, tenantID)
}

// DeactivatePackage retires a package from sale. Existing payments
// referencing it are untouched.
func (s *Service) DeactivatePackage(ctx context.Context, tenantID, id string) (Package, error) {
	p, err := s.GetPackage(ctx, tenantID, id)
	if err != nil {
		return Package{}, err
	}
	if p.Status == PackageStatusInactive {
		return p, nil
	}
	p.Status = PackageStatusInactive
	p.UpdatedAt = s.clock().UTC()
	if err := s.repo.UpdatePackage(ctx, p); err != nil {
		return Package{}, err
	}
	return p, nil
}

type CreateOfferRequest struct {
	PackageID  string     `json:"packageId"`
	Name       string     `json:"name,omitempty"`
	PercentOff int        `json:"percentOff"`
	StartsAt   time.Time  `json:"startsAt"`
	EndsAt     *time.Time `json:"endsAt,omitempty"`
}

// CreateOffer attaches a time-boxed percentage discount to a package.
func (s *Service) CreateOffer(ctx context.Context, tenantID string, req CreateOfferRequest) (Offer, error) {
	if tenantID == "" || req.PackageID == "" {
		return Offer{}, ErrInvalidArgument
	}
	if req.PercentOff < 1 || req.PercentOff > 100 {
		return Offer{}, ErrInvalidArgument
	}
	if req.StartsAt.IsZero() {
		return Offer{}, ErrInvalidArgument
	}
	if req.EndsAt != nil && !req.EndsAt.After(req.StartsAt) {
		return Offer{}, ErrInvalidArgument
	}

	// The package must exist in this tenant before anything discounts it.
	if _, err := s.repo.FindPackage(ctx, tenantID, req.PackageID); err != nil {
		return Offer{}, err
	}

	o := Offer{
		ID:         uuid.NewString(),
		TenantID:   tenantID,
		PackageID:  req.PackageID,
		Name:       req.Name,
		PercentOff: req.PercentOff,
		StartsAt:   req.StartsAt.UTC(),
		CreatedAt:  s.clock().UTC(),
	}
	if req.EndsAt != nil {
		ends := req.EndsAt.UTC()
		o.EndsAt = &ends
	}
	if err := s.repo.InsertOffer(ctx, o); err != nil {
		return Offer{}, err
	}
	return o, nil
}

// EffectivePrice is the resolved price of a package at an instant.
type EffectivePrice struct {
	TenantID  string `json:"tenantId"`
	PackageID string `json:"packageId"`

	Currency string `json:"currency"`

	ListPriceMinor int64 `json:"listPriceMinor"`

	// OfferID is empty when no offer covers the instant.
	OfferID       string `json:"offerId,omitempty"`
	PercentOff    int    `json:"percentOff"`
	DiscountMinor int64  `json:"discountMinor"`

	FinalMinor int64 `json:"finalMinor"`

	At time.Time `json:"at"`
}

// ResolvePrice computes what a package costs at a given instant,
// applying the best covering offer. A zero at uses the service clock.
// Inactive packages are not for sale and resolve to ErrNotFound.
func (s *Service) ResolvePrice(ctx context.Context, tenantID, packageID string, at time.Time) (EffectivePrice, error) {
	if tenantID == "" || packageID == "" {
		return EffectivePrice{}, ErrInvalidArgument
	}

	if at.IsZero() {
		at = s.clock().UTC()
	}

	p, err := s.repo.FindPackage(ctx, tenantID, packageID)
	if err != nil {
		return EffectivePrice{}, err
	}
	if p.Status != PackageStatusActive {
		return EffectivePrice{}, ErrNotFound
	}

	ep := EffectivePrice{
		TenantID:       tenantID,
		PackageID:      packageID,
		Currency:       p.Currency,
		ListPriceMinor: p.PriceMinor,
		FinalMinor:     p.PriceMinor,
		At:             at,
	}

	o, ok, err := s.repo.FindBestOffer(ctx, tenantID, packageID, at)
	if err != nil {
		return EffectivePrice{}, err
	}
	if !ok {
		return ep, nil
	}

	// Integer math; the discount rounds down in minor units.
	discount := p.PriceMinor * int64(o.PercentOff) / 100

	ep.OfferID = o.ID
	ep.PercentOff = o.PercentOff
	ep.DiscountMinor = discount
	ep.FinalMinor = p.PriceMinor - discount
	return ep, nil
}
