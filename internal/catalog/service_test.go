package catalog

import (
	"context"
	"errors"
	"testing"
	"time"
)

var base = time.Unix(1700000000, 0).UTC()

func newTestService() *Service {
	s := NewService(NewMemoryRepo())
	s.clock = func() time.Time { return base }
	return s
}

func seedPackage(t *testing.T, s *Service, tenantID string, price int64) Package {
	t.Helper()
	p, err := s.CreatePackage(context.Background(), tenantID, CreatePackageRequest{
		Name:       "entry-plus-credit",
		PriceMinor: price,
		Currency:   "EUR",
	})
	if err != nil {
		t.Fatalf("seed package: %v", err)
	}
	return p
}

func seedOffer(t *testing.T, s *Service, tenantID, packageID string, pct int, from, to time.Time) Offer {
	t.Helper()
	req := CreateOfferRequest{PackageID: packageID, PercentOff: pct, StartsAt: from}
	if !to.IsZero() {
		req.EndsAt = &to
	}
	o, err := s.CreateOffer(context.Background(), tenantID, req)
	if err != nil {
		t.Fatalf("seed offer: %v", err)
	}
	return o
}

func TestCreatePackage_Validates(t *testing.T) {
	s := newTestService()

	cases := []struct {
		name     string
		tenantID string
		req      CreatePackageRequest
	}{
		{"missing tenant", "", CreatePackageRequest{Name: "x", PriceMinor: 100, Currency: "EUR"}},
		{"missing name", "t1", CreatePackageRequest{PriceMinor: 100, Currency: "EUR"}},
		{"negative price", "t1", CreatePackageRequest{Name: "x", PriceMinor: -1, Currency: "EUR"}},
		{"missing currency", "t1", CreatePackageRequest{Name: "x", PriceMinor: 100}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := s.CreatePackage(context.Background(), tc.tenantID, tc.req); !errors.Is(err, ErrInvalidArgument) {
				t.Fatalf("expected ErrInvalidArgument, got %v", err)
			}
		})
	}
}

func TestCreateOffer_Validates(t *testing.T) {
	s := newTestService()
	p := seedPackage(t, s, "t1", 2000)

	past := base.Add(-time.Hour)

	cases := []struct {
		name string
		req  CreateOfferRequest
		want error
	}{
		{"missing package", CreateOfferRequest{PercentOff: 10, StartsAt: base}, ErrInvalidArgument},
		{"zero percent", CreateOfferRequest{PackageID: p.ID, PercentOff: 0, StartsAt: base}, ErrInvalidArgument},
		{"over hundred", CreateOfferRequest{PackageID: p.ID, PercentOff: 101, StartsAt: base}, ErrInvalidArgument},
		{"missing start", CreateOfferRequest{PackageID: p.ID, PercentOff: 10}, ErrInvalidArgument},
		{"inverted window", CreateOfferRequest{PackageID: p.ID, PercentOff: 10, StartsAt: base, EndsAt: &past}, ErrInvalidArgument},
		{"unknown package", CreateOfferRequest{PackageID: "nope", PercentOff: 10, StartsAt: base}, ErrNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := s.CreateOffer(context.Background(), "t1", tc.req); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestCreateOffer_ForeignPackageRejected(t *testing.T) {
	s := newTestService()
	p := seedPackage(t, s, "t1", 2000)

	_, err := s.CreateOffer(context.Background(), "t2", CreateOfferRequest{
		PackageID:  p.ID,
		PercentOff: 10,
		StartsAt:   base,
	})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for another tenant's package, got %v", err)
	}
}

func TestResolvePrice_NoOfferReturnsListPrice(t *testing.T) {
	s := newTestService()
	p := seedPackage(t, s, "t1", 2000)

	ep, err := s.ResolvePrice(context.Background(), "t1", p.ID, base)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if ep.FinalMinor != 2000 || ep.DiscountMinor != 0 || ep.OfferID != "" {
		t.Fatalf("expected undiscounted price, got %+v", ep)
	}
	if ep.Currency != "EUR" || ep.ListPriceMinor != 2000 {
		t.Fatalf("unexpected price fields: %+v", ep)
	}
}

func TestResolvePrice_AppliesBestCoveringOffer(t *testing.T) {
	s := newTestService()
	p := seedPackage(t, s, "t1", 2000)

	// Expired 50% must not win over the live 10% and 25%.
	seedOffer(t, s, "t1", p.ID, 50, base.Add(-48*time.Hour), base.Add(-24*time.Hour))
	seedOffer(t, s, "t1", p.ID, 10, base.Add(-time.Hour), base.Add(time.Hour))
	best := seedOffer(t, s, "t1", p.ID, 25, base.Add(-time.Hour), base.Add(time.Hour))

	ep, err := s.ResolvePrice(context.Background(), "t1", p.ID, base)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if ep.OfferID != best.ID {
		t.Fatalf("expected offer %s to win, got %s", best.ID, ep.OfferID)
	}
	if ep.PercentOff != 25 || ep.DiscountMinor != 500 || ep.FinalMinor != 1500 {
		t.Fatalf("unexpected discount math: %+v", ep)
	}
}

func TestResolvePrice_WindowIsHalfOpen(t *testing.T) {
	s := newTestService()
	p := seedPackage(t, s, "t1", 1000)

	from := base
	to := base.Add(time.Hour)
	seedOffer(t, s, "t1", p.ID, 20, from, to)

	at := func(ts time.Time) EffectivePrice {
		t.Helper()
		ep, err := s.ResolvePrice(context.Background(), "t1", p.ID, ts)
		if err != nil {
			t.Fatalf("resolve at %v: %v", ts, err)
		}
		return ep
	}

	if ep := at(from); ep.PercentOff != 20 {
		t.Fatalf("offer should apply at its start instant, got %+v", ep)
	}
	if ep := at(to.Add(-time.Second)); ep.PercentOff != 20 {
		t.Fatalf("offer should apply just before its end, got %+v", ep)
	}
	if ep := at(to); ep.PercentOff != 0 {
		t.Fatalf("offer must not apply at its end instant, got %+v", ep)
	}
	if ep := at(from.Add(-time.Second)); ep.PercentOff != 0 {
		t.Fatalf("offer must not apply before its start, got %+v", ep)
	}
}

func TestResolvePrice_DiscountRoundsDown(t *testing.T) {
	s := newTestService()
	p := seedPackage(t, s, "t1", 999)
	seedOffer(t, s, "t1", p.ID, 10, base.Add(-time.Hour), base.Add(time.Hour))

	ep, err := s.ResolvePrice(context.Background(), "t1", p.ID, base)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if ep.DiscountMinor != 99 || ep.FinalMinor != 900 {
		t.Fatalf("expected 99 off 999, got %+v", ep)
	}
}

func TestResolvePrice_ZeroInstantUsesClock(t *testing.T) {
	s := newTestService()
	p := seedPackage(t, s, "t1", 1000)
	seedOffer(t, s, "t1", p.ID, 30, base.Add(-time.Minute), base.Add(time.Minute))

	ep, err := s.ResolvePrice(context.Background(), "t1", p.ID, time.Time{})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if ep.PercentOff != 30 {
		t.Fatalf("expected clock instant to land inside the offer, got %+v", ep)
	}
	if !ep.At.Equal(base) {
		t.Fatalf("expected At to be the clock instant, got %v", ep.At)
	}
}

func TestResolvePrice_OpenEndedOffer(t *testing.T) {
	s := newTestService()
	p := seedPackage(t, s, "t1", 1000)
	seedOffer(t, s, "t1", p.ID, 15, base.Add(-time.Hour), time.Time{})

	ep, err := s.ResolvePrice(context.Background(), "t1", p.ID, base.Add(365*24*time.Hour))
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if ep.PercentOff != 15 {
		t.Fatalf("open-ended offer should still apply, got %+v", ep)
	}
}

func TestResolvePrice_TenantScoped(t *testing.T) {
	s := newTestService()
	p := seedPackage(t, s, "t1", 1000)

	if _, err := s.ResolvePrice(context.Background(), "t2", p.ID, base); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for foreign tenant, got %v", err)
	}
	if _, err := s.ResolvePrice(context.Background(), "t1", "missing", base); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown package, got %v", err)
	}
}

func TestResolvePrice_InactivePackage(t *testing.T) {
	s := newTestService()
	p := seedPackage(t, s, "t1", 1000)

	if _, err := s.DeactivatePackage(context.Background(), "t1", p.ID); err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	if _, err := s.ResolvePrice(context.Background(), "t1", p.ID, base); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for inactive package, got %v", err)
	}
}

func TestDeactivatePackage_Idempotent(t *testing.T) {
	s := newTestService()
	p := seedPackage(t, s, "t1", 1000)

	first, err := s.DeactivatePackage(context.Background(), "t1", p.ID)
	if err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	second, err := s.DeactivatePackage(context.Background(), "t1", p.ID)
	if err != nil {
		t.Fatalf("second deactivate: %v", err)
	}
	if first.Status != PackageStatusInactive || second.Status != PackageStatusInactive {
		t.Fatalf("expected inactive, got %q then %q", first.Status, second.Status)
	}
}

func TestListPackages_SortedByName(t *testing.T) {
	s := newTestService()

	for _, name := range []string{"vip", "basic", "family"} {
		if _, err := s.CreatePackage(context.Background(), "t1", CreatePackageRequest{
			Name: name, PriceMinor: 100, Currency: "EUR",
		}); err != nil {
			t.Fatalf("create %s: %v", name, err)
		}
	}
	seedPackage(t, s, "t2", 100)

	list, err := s.ListPackages(context.Background(), "t1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("expected 3 packages for t1, got %d", len(list))
	}
	want := []string{"basic", "family", "vip"}
	for i, p := range list {
		if p.Name != want[i] {
			t.Fatalf("expected %s at %d, got %s", want[i], i, p.Name)
		}
	}
}
