package apiclient

import (
	"context"
	"net/http"
	"net/url"
	"time"
)

// Payment mirrors the API's payment record.
type Payment struct {
	ID             string    `json:"id"`
	TenantID       string    `json:"tenantId"`
	EventID        string    `json:"eventId,omitempty"`
	PayerUserID    string    `json:"payerUserId,omitempty"`
	AmountMinor    int64     `json:"amountMinor"`
	Currency       string    `json:"currency"`
	Method         string    `json:"method"`
	ExternalRef    string    `json:"externalRef,omitempty"`
	IdempotencyKey string    `json:"idempotencyKey"`
	Metadata       string    `json:"metadata,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
}

// RecordPaymentRequest captures one received payment. IdempotencyKey
// makes resubmission safe: the server returns the original record.
type RecordPaymentRequest struct {
	EventID        string `json:"eventId,omitempty"`
	PayerUserID    string `json:"payerUserId,omitempty"`
	AmountMinor    int64  `json:"amountMinor"`
	Currency       string `json:"currency"`
	Method         string `json:"method"`
	ExternalRef    string `json:"externalRef,omitempty"`
	IdempotencyKey string `json:"idempotencyKey"`
	Metadata       string `json:"metadata,omitempty"`
}

// PaymentFilter narrows ListPayments. Zero fields are ignored.
type PaymentFilter struct {
	EventID string
	Method  string
	From    time.Time
	To      time.Time
}

func (c *Client) RecordPayment(ctx context.Context, req RecordPaymentRequest) (Payment, error) {
	var out Payment
	if err := c.do(ctx, http.MethodPost, "/v1/payments", req, &out, true); err != nil {
		return Payment{}, err
	}
	return out, nil
}

func (c *Client) ListPayments(ctx context.Context, filter PaymentFilter) ([]Payment, error) {
	q := url.Values{}
	if filter.EventID != "" {
		q.Set("eventId", filter.EventID)
	}
	if filter.Method != "" {
		q.Set("method", filter.Method)
	}
	if !filter.From.IsZero() {
		q.Set("from", filter.From.Format(time.RFC3339))
	}
	if !filter.To.IsZero() {
		q.Set("to", filter.To.Format(time.RFC3339))
	}
	path := "/v1/payments"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var out struct {
		Payments []Payment `json:"payments"`
	}
	if err := c.do(ctx, http.MethodGet, path, nil, &out, true); err != nil {
		return nil, err
	}
	return out.Payments, nil
}

func (c *Client) GetPayment(ctx context.Context, paymentID string) (Payment, error) {
	var out Payment
	if err := c.do(ctx, http.MethodGet, "/v1/payments/"+url.PathEscape(paymentID), nil, &out, true); err != nil {
		return Payment{}, err
	}
	return out, nil
}
