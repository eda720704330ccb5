package events

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Repository abstracts event persistence.
//
// Tenancy invariant: tenant_id is required and enforced in all queries;
// an event is never visible outside its tenant.
type Repository interface {
	Insert(ctx context.Context, e Event) error
	FindByID(ctx context.Context, tenantID, id string) (Event, error)
	ListByTenant(ctx context.Context, tenantID string) ([]Event, error)
	Update(ctx context.Context, e Event) error
}

var (
	ErrNotFound        = errors.New("event not found")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrInvalidStatus   = errors.New("invalid status transition")
)

type Service struct {
	repo Repository
	// clock is injectable for deterministic tests.
	clock func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, clock: time.Now}
}

type CreateRequest struct {
	Name     string    `json:"name"`
	Venue    string    `json:"venue,omitempty"`
	StartsAt time.Time `json:"startsAt"`
	EndsAt   time.Time `json:"endsAt"`
	Capacity int       `json:"capacity"`
}

// Create stores a new draft event for the tenant.
func (s *Service) Create(ctx context.Context, tenantID string, req CreateRequest) (Event, error) {
	if tenantID == "" || req.Name == "" {
		return Event{}, ErrInvalidArgument
	}
	if req.Capacity < 0 {
		return Event{}, ErrInvalidArgument
	}
	if !req.StartsAt.IsZero() && !req.EndsAt.IsZero() && !req.EndsAt.After(req.StartsAt) {
		return Event{}, ErrInvalidArgument
	}

	now := s.clock().UTC()
	e := Event{
		ID:        uuid.NewString(),
		TenantID:  tenantID,
		Name:      req.Name,
		Venue:     req.Venue,
		StartsAt:  req.StartsAt,
		EndsAt:    req.EndsAt,
		Capacity:  req.Capacity,
		Status:    StatusDraft,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Insert(ctx, e); err != nil {
		return Event{}, err
	}
	return e, nil
}

func (s *Service) Get(ctx context.Context, tenantID, id string) (Event, error) {
	if tenantID == "" || id == "" {
		return Event{}, ErrInvalidArgument
	}
	return s.repo.FindByID(ctx, tenantID, id)
}

func (s *Service) List(ctx context.Context, tenantID string) ([]Event, error) {
	if tenantID == "" {
		return nil, ErrInvalidArgument
	}
	return s.repo.ListByTenant(ctx, tenantID)
}

// Publish moves a draft event live.
func (s *Service) Publish(ctx context.Context, tenantID, id string) (Event, error) {
	return s.transition(ctx, tenantID, id, StatusDraft, StatusPublished)
}

// Close ends a published event.
func (s *Service) Close(ctx context.Context, tenantID, id string) (Event, error) {
	return s.transition(ctx, tenantID, id, StatusPublished, StatusClosed)
}

func (s *Service) transition(ctx context.Context, tenantID, id string, from, to Status) (Event, error) {
	if tenantID == "" || id == "" {
		return Event{}, ErrInvalidArgument
	}

	e, err := s.repo.FindByID(ctx, tenantID, id)
	if err != nil {
		return Event{}, err
	}
	if e.Status != from {
		return Event{}, ErrInvalidStatus
	}

	e.Status = to
	e.UpdatedAt = s.clock().UTC()
	if err := s.repo.Update(ctx, e); err != nil {
		return Event{}, err
	}
	return e, nil
}
