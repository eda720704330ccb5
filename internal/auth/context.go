package auth

import "context"

// Context is the authorization snapshot for one request. The
// authenticate guard builds it once from verified claims; everything
// downstream reads it as a value and never mutates it.
type Context struct {
	UserID     string
	Email      string
	GlobalRole string
	TenantID   string
	TenantRole string
}

func (c Context) HasTenant() bool { return c.TenantID != "" }

type ctxKey struct{}

// WithContext attaches the snapshot to a request context.
func WithContext(ctx context.Context, ac Context) context.Context {
	return context.WithValue(ctx, ctxKey{}, ac)
}

// FromContext returns the snapshot, reporting whether the request was
// authenticated.
func FromContext(ctx context.Context) (Context, bool) {
	ac, ok := ctx.Value(ctxKey{}).(Context)
	return ac, ok
}
