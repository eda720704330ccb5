package apiclient

import (
	"context"
	"net/http"
	"net/url"
	"time"
)

// Event mirrors the API's event resource.
type Event struct {
	ID        string    `json:"id"`
	TenantID  string    `json:"tenantId"`
	Name      string    `json:"name"`
	Venue     string    `json:"venue,omitempty"`
	StartsAt  time.Time `json:"startsAt"`
	EndsAt    time.Time `json:"endsAt"`
	Capacity  int       `json:"capacity"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CreateEventRequest describes a new draft event.
type CreateEventRequest struct {
	Name     string    `json:"name"`
	Venue    string    `json:"venue,omitempty"`
	StartsAt time.Time `json:"startsAt"`
	EndsAt   time.Time `json:"endsAt"`
	Capacity int       `json:"capacity"`
}

func (c *Client) CreateEvent(ctx context.Context, req CreateEventRequest) (Event, error) {
	var out Event
	if err := c.do(ctx, http.MethodPost, "/v1/events", req, &out, true); err != nil {
		return Event{}, err
	}
	return out, nil
}

func (c *Client) ListEvents(ctx context.Context) ([]Event, error) {
	var out struct {
		Events []Event `json:"events"`
	}
	if err := c.do(ctx, http.MethodGet, "/v1/events", nil, &out, true); err != nil {
		return nil, err
	}
	return out.Events, nil
}

func (c *Client) GetEvent(ctx context.Context, eventID string) (Event, error) {
	var out Event
	if err := c.do(ctx, http.MethodGet, "/v1/events/"+url.PathEscape(eventID), nil, &out, true); err != nil {
		return Event{}, err
	}
	return out, nil
}

// PublishEvent moves a draft event to published.
func (c *Client) PublishEvent(ctx context.Context, eventID string) (Event, error) {
	var out Event
	if err := c.do(ctx, http.MethodPost, "/v1/events/"+url.PathEscape(eventID)+"/publish", nil, &out, true); err != nil {
		return Event{}, err
	}
	return out, nil
}

// CloseEvent moves a published event to closed.
func (c *Client) CloseEvent(ctx context.Context, eventID string) (Event, error) {
	var out Event
	if err := c.do(ctx, http.MethodPost, "/v1/events/"+url.PathEscape(eventID)+"/close", nil, &out, true); err != nil {
		return Event{}, err
	}
	return out, nil
}
