package httpapi

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jonoyanguren/smartcashlesshub-sub000/pkg/utils"
)

// LoginThrottle caps login attempts per email and client IP over a
// fixed window. A nil throttle allows everything, which is how the
// server runs when Redis is not configured.
type LoginThrottle struct {
	rdb         *redis.Client
	maxAttempts int
	window      time.Duration
}

func NewLoginThrottle(rdb *redis.Client, maxAttempts int, window time.Duration) *LoginThrottle {
	return &LoginThrottle{rdb: rdb, maxAttempts: maxAttempts, window: window}
}

func (t *LoginThrottle) Allow(ctx context.Context, email, ip string) (bool, error) {
	if t == nil || t.rdb == nil {
		return true, nil
	}
	return utils.AllowFixedWindow(ctx, t.rdb, loginKey(email, ip), t.maxAttempts, t.window)
}

// Reset clears the attempt counter after a successful login.
func (t *LoginThrottle) Reset(ctx context.Context, email, ip string) error {
	if t == nil || t.rdb == nil {
		return nil
	}
	return utils.ResetFixedWindow(ctx, t.rdb, loginKey(email, ip))
}

func loginKey(email, ip string) string {
	return "login_attempts:" + email + "|" + ip
}
