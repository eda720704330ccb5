package reporting

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jonoyanguren/smartcashlesshub-sub000/internal/payments"
)

func TestReporting_TenantIsolation(t *testing.T) {
	repo := NewMemoryRepo()
	now := time.Unix(1700000000, 0).UTC()
	repo.Payments = []payments.Payment{
		{ID: "p1", TenantID: "t1", AmountMinor: 1000, Currency: "EUR", Method: payments.MethodCard, CreatedAt: now},
		{ID: "p2", TenantID: "t2", AmountMinor: 5000, Currency: "EUR", Method: payments.MethodCard, CreatedAt: now},
	}
	svc := NewService(repo)

	out, err := svc.PaymentsSummary(context.Background(), PaymentsSummaryRequest{
		TenantID: "t1",
		Range:    TimeRange{From: now.Add(-time.Hour), To: now.Add(time.Hour)},
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if out.TotalPayments != 1 {
		t.Fatalf("expected 1 payment, got %d", out.TotalPayments)
	}
	if out.GrossByCurrency["EUR"] != 1000 {
		t.Fatalf("expected gross 1000, got %d", out.GrossByCurrency["EUR"])
	}
}

func TestReporting_PaymentsSummaryAggregates(t *testing.T) {
	repo := NewMemoryRepo()
	now := time.Unix(1700000000, 0).UTC()
	repo.Payments = []payments.Payment{
		{ID: "p1", TenantID: "t1", EventID: "e1", AmountMinor: 1000, Currency: "EUR", Method: payments.MethodCard, CreatedAt: now},
		{ID: "p2", TenantID: "t1", EventID: "e1", AmountMinor: 250, Currency: "EUR", Method: payments.MethodCash, CreatedAt: now},
		{ID: "p3", TenantID: "t1", EventID: "e1", AmountMinor: 4200, Currency: "USD", Method: payments.MethodCard, CreatedAt: now},
		{ID: "p4", TenantID: "t1", EventID: "e1", AmountMinor: 99, Currency: "EUR", Method: payments.MethodCard, CreatedAt: now.Add(48 * time.Hour)},
	}
	svc := NewService(repo)

	out, err := svc.PaymentsSummary(context.Background(), PaymentsSummaryRequest{
		TenantID: "t1",
		EventID:  "e1",
		Range:    TimeRange{From: now.Add(-time.Hour), To: now.Add(time.Hour)},
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if out.TotalPayments != 3 {
		t.Fatalf("expected 3 payments inside the window, got %d", out.TotalPayments)
	}
	if out.GrossByCurrency["EUR"] != 1250 || out.GrossByCurrency["USD"] != 4200 {
		t.Fatalf("unexpected gross: %+v", out.GrossByCurrency)
	}
	if out.CountByMethod["card"] != 2 || out.CountByMethod["cash"] != 1 {
		t.Fatalf("unexpected method counts: %+v", out.CountByMethod)
	}
	if out.LargestPaymentMinor != 4200 {
		t.Fatalf("expected largest 4200, got %d", out.LargestPaymentMinor)
	}
}

func TestReporting_EventTakingsGroupsByEvent(t *testing.T) {
	repo := NewMemoryRepo()
	now := time.Unix(1700000000, 0).UTC()
	repo.Payments = []payments.Payment{
		{ID: "p1", TenantID: "t1", EventID: "e1", AmountMinor: 1000, Currency: "EUR", Method: payments.MethodCard, CreatedAt: now},
		{ID: "p2", TenantID: "t1", EventID: "e2", AmountMinor: 300, Currency: "EUR", Method: payments.MethodCash, CreatedAt: now},
		{ID: "p3", TenantID: "t1", EventID: "e1", AmountMinor: 700, Currency: "EUR", Method: payments.MethodCard, CreatedAt: now},
		{ID: "p4", TenantID: "t1", AmountMinor: 50, Currency: "EUR", Method: payments.MethodCash, CreatedAt: now},
	}
	svc := NewService(repo)

	out, err := svc.EventTakings(context.Background(), EventTakingsRequest{
		TenantID: "t1",
		Range:    TimeRange{From: now.Add(-time.Hour), To: now.Add(time.Hour)},
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(out.Events) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(out.Events))
	}

	// Rows come back sorted by event id, unattributed first.
	if out.Events[0].EventID != "" || out.Events[0].Payments != 1 {
		t.Fatalf("unexpected unattributed row: %+v", out.Events[0])
	}
	if out.Events[1].EventID != "e1" || out.Events[1].Payments != 2 || out.Events[1].GrossByCurrency["EUR"] != 1700 {
		t.Fatalf("unexpected e1 row: %+v", out.Events[1])
	}
	if out.Events[2].EventID != "e2" || out.Events[2].GrossByCurrency["EUR"] != 300 {
		t.Fatalf("unexpected e2 row: %+v", out.Events[2])
	}
}

func TestReporting_RejectsInvalidRequests(t *testing.T) {
	svc := NewService(NewMemoryRepo())
	now := time.Unix(1700000000, 0).UTC()

	cases := []struct {
		name string
		req  PaymentsSummaryRequest
	}{
		{"missing tenant", PaymentsSummaryRequest{Range: TimeRange{From: now, To: now.Add(time.Hour)}}},
		{"missing range", PaymentsSummaryRequest{TenantID: "t1"}},
		{"inverted range", PaymentsSummaryRequest{TenantID: "t1", Range: TimeRange{From: now.Add(time.Hour), To: now}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.PaymentsSummary(context.Background(), tc.req); !errors.Is(err, ErrInvalidRequest) {
				t.Fatalf("expected ErrInvalidRequest, got %v", err)
			}
		})
	}

	if _, err := svc.EventTakings(context.Background(), EventTakingsRequest{TenantID: ""}); !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("expected ErrInvalidRequest, got %v", err)
	}
}

func TestReporting_PaymentsRepoAdapts(t *testing.T) {
	store := payments.NewMemoryRepo()
	now := time.Unix(1700000000, 0).UTC()
	_, err := store.InsertIdempotent(context.Background(), payments.Payment{
		ID: "p1", TenantID: "t1", EventID: "e1", AmountMinor: 900, Currency: "EUR",
		Method: payments.MethodCard, IdempotencyKey: "k1", CreatedAt: now,
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}

	svc := NewService(NewPaymentsRepo(store))
	out, err := svc.PaymentsSummary(context.Background(), PaymentsSummaryRequest{
		TenantID: "t1",
		Range:    TimeRange{From: now.Add(-time.Hour), To: now.Add(time.Hour)},
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if out.TotalPayments != 1 || out.GrossByCurrency["EUR"] != 900 {
		t.Fatalf("unexpected summary: %+v", out)
	}
}
