package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// LoginAttemptRepository counts failed logins per email inside a fixed window
// opened by the first failure.
type LoginAttemptRepository interface {
	Failures(ctx context.Context, email string) (int64, error)
	RecordFailure(ctx context.Context, email string) (int64, error)
	Reset(ctx context.Context, email string) error
}

type loginAttemptRepository struct {
	client *redis.Client
	window time.Duration
}

// NewLoginAttemptRepository returns a Redis-backed counter.
func NewLoginAttemptRepository(client *redis.Client, window time.Duration) LoginAttemptRepository {
	return &loginAttemptRepository{client: client, window: window}
}

func loginAttemptKey(email string) string {
	return "login_attempts:" + strings.ToLower(strings.TrimSpace(email))
}

func (r *loginAttemptRepository) Failures(ctx context.Context, email string) (int64, error) {
	n, err := r.client.Get(ctx, loginAttemptKey(email)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read login attempts: %w", err)
	}
	return n, nil
}

// RecordFailure counts one failed login. The first failure opens the window.
func (r *loginAttemptRepository) RecordFailure(ctx context.Context, email string) (int64, error) {
	key := loginAttemptKey(email)

	n, err := r.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("record login attempt: %w", err)
	}
	if n == 1 {
		if err := r.client.Expire(ctx, key, r.window).Err(); err != nil {
			return n, fmt.Errorf("open login attempt window: %w", err)
		}
	}
	return n, nil
}

func (r *loginAttemptRepository) Reset(ctx context.Context, email string) error {
	if err := r.client.Del(ctx, loginAttemptKey(email)).Err(); err != nil {
		return fmt.Errorf("reset login attempts: %w", err)
	}
	return nil
}
