// internal/pkg/ratelimit/ratelimit.go
package ratelimit

import (
	"context"
	"fmt"
	"time"

	xerrors "kynix-service/internal/pkg/errors"

	"github.com/redis/go-redis/v9"
)

const (
	loginMaxAttempts = 5
	loginWindow      = 15 * time.Minute
)

// Limiter counts login attempts per (ip, email) in redis.
type Limiter struct {
	client *redis.Client
}

func NewLimiter(client *redis.Client) *Limiter {
	return &Limiter{client: client}
}

// CheckLoginAttempt records one attempt and reports whether it is still
// within the window, plus the remaining allowance.
func (l *Limiter) CheckLoginAttempt(ctx context.Context, ip, email string) (bool, int64, error) {
	key := loginKey(ip, email)

	count, err := l.client.Incr(ctx, key).Result()
	if err != nil {
		return false, 0, xerrors.Wrap(err, "failed to increment login attempt")
	}

	// First attempt opens the window
	if count == 1 {
		l.client.Expire(ctx, key, loginWindow)
	}

	remaining := loginMaxAttempts - count
	if remaining < 0 {
		remaining = 0
	}

	return count <= loginMaxAttempts, remaining, nil
}

// ResetLoginAttempts clears the counter, called after a successful login.
func (l *Limiter) ResetLoginAttempts(ctx context.Context, ip, email string) error {
	return l.client.Del(ctx, loginKey(ip, email)).Err()
}

func loginKey(ip, email string) string {
	return fmt.Sprintf("ratelimit:login:%s:%s", ip, email)
}
