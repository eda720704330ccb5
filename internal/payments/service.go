package payments

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Repository abstracts payment persistence.
//
// InsertIdempotent must be atomic per (tenant, idempotency key):
// concurrent submissions with the same key yield one stored record,
// which every caller gets back.
type Repository interface {
	InsertIdempotent(ctx context.Context, p Payment) (Payment, error)
	FindByID(ctx context.Context, tenantID, id string) (Payment, error)
	List(ctx context.Context, tenantID string, f ListFilter) ([]Payment, error)
}

type ListFilter struct {
	EventID string
	Method  Method
	From    time.Time
	To      time.Time
}

var (
	ErrNotFound        = errors.New("payment not found")
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

type RecordRequest struct {
	EventID        string `json:"eventId,omitempty"`
	PayerUserID    string `json:"payerUserId,omitempty"`
	AmountMinor    int64  `json:"amountMinor"`
	Currency       string `json:"currency"`
	Method         Method `json:"method"`
	ExternalRef    string `json:"externalRef,omitempty"`
	IdempotencyKey string `json:"idempotencyKey"`
	Metadata       string `json:"metadata,omitempty"`
}

// Record stores a payment. Replaying the same idempotency key returns
// the original record instead of creating a duplicate.
func (s *Service) Record(ctx context.Context, tenantID string, req RecordRequest) (Payment, error) {
	if tenantID == "" || req.IdempotencyKey == "" {
		return Payment{}, ErrInvalidArgument
	}
	if req.AmountMinor <= 0 || req.Currency == "" {
		return Payment{}, ErrInvalidArgument
	}
	if !validMethod(req.Method) {
		return Payment{}, ErrInvalidArgument
	}

	p := Payment{
		ID:             uuid.NewString(),
		TenantID:       tenantID,
		EventID:        req.EventID,
		PayerUserID:    req.PayerUserID,
		AmountMinor:    req.AmountMinor,
		Currency:       req.Currency,
		Method:         req.Method,
		ExternalRef:    req.ExternalRef,
		IdempotencyKey: req.IdempotencyKey,
		Metadata:       req.Metadata,
		CreatedAt:      s.clock().UTC(),
	}
	return s.repo.InsertIdempotent(ctx, p)
}

func (s *Service) Get(ctx context.Context, tenantID, id string) (Payment, error) {
	if tenantID == "" || id == "" {
		return Payment{}, ErrInvalidArgument
	}
	return s.repo.FindByID(ctx, tenantID, id)
}

func (s *Service) List(ctx context.Context, tenantID string, f ListFilter) ([]Payment, error) {
	if tenantID == "" {
		return nil, ErrInvalidArgument
	}
	if !f.From.IsZero() && !f.To.IsZero() && f.To.Before(f.From) {
		return nil, ErrInvalidArgument
	}
	return s.repo.List(ctx, tenantID, f)
}
