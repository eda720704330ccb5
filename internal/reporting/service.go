package reporting

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/jonoyanguren/smartcashlesshub-sub000/internal/payments"
)

var ErrInvalidRequest = errors.New("reporting: invalid request")

// Repository abstracts data access for reporting.
//
// IMPORTANT:
// - Methods must enforce tenant filtering.
// - Implementations should query immutable sources (the payments
//   record is append-only).

type Repository interface {
	ListPayments(ctx context.Context, tenantID string, from, to time.Time, eventID string) ([]payments.Payment, error)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service { return &Service{repo: repo} }

func (s *Service) PaymentsSummary(ctx context.Context, req PaymentsSummaryRequest) (PaymentsSummary, error) {
	if req.TenantID == "" {
		return PaymentsSummary{}, ErrInvalidRequest
	}
	if req.Range.From.IsZero() || req.Range.To.IsZero() || !req.Range.To.After(req.Range.From) {
		return PaymentsSummary{}, ErrInvalidRequest
	}
	if s.repo == nil {
		return PaymentsSummary{}, errors.New("reporting: repository not configured")
	}

	rows, err := s.repo.ListPayments(ctx, req.TenantID, req.Range.From, req.Range.To, req.EventID)
	if err != nil {
		return PaymentsSummary{}, err
	}

	out := PaymentsSummary{
		TenantID:        req.TenantID,
		EventID:         req.EventID,
		GrossByCurrency: map[string]int64{},
		CountByMethod:   map[string]int{},
	}
	for _, p := range rows {
		out.TotalPayments++
		out.GrossByCurrency[p.Currency] += p.AmountMinor
		out.CountByMethod[string(p.Method)]++
		if p.AmountMinor > out.LargestPaymentMinor {
			out.LargestPaymentMinor = p.AmountMinor
		}
	}
	return out, nil
}

func (s *Service) EventTakings(ctx context.Context, req EventTakingsRequest) (EventTakings, error) {
	if req.TenantID == "" {
		return EventTakings{}, ErrInvalidRequest
	}
	if req.Range.From.IsZero() || req.Range.To.IsZero() || !req.Range.To.After(req.Range.From) {
		return EventTakings{}, ErrInvalidRequest
	}
	if s.repo == nil {
		return EventTakings{}, errors.New("reporting: repository not configured")
	}

	rows, err := s.repo.ListPayments(ctx, req.TenantID, req.Range.From, req.Range.To, "")
	if err != nil {
		return EventTakings{}, err
	}

	byEvent := map[string]*EventTakingsRow{}
	for _, p := range rows {
		row, ok := byEvent[p.EventID]
		if !ok {
			row = &EventTakingsRow{EventID: p.EventID, GrossByCurrency: map[string]int64{}}
			byEvent[p.EventID] = row
		}
		row.Payments++
		row.GrossByCurrency[p.Currency] += p.AmountMinor
	}

	out := EventTakings{TenantID: req.TenantID, Events: make([]EventTakingsRow, 0, len(byEvent))}
	for _, row := range byEvent {
		out.Events = append(out.Events, *row)
	}
	sort.Slice(out.Events, func(i, j int) bool { return out.Events[i].EventID < out.Events[j].EventID })
	return out, nil
}
