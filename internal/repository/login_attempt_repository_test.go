package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAttemptStore(t *testing.T, window time.Duration) (LoginAttemptRepository, *miniredis.Miniredis) {
	t.Helper()
	mini := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mini.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewLoginAttemptRepository(client, window), mini
}

func TestLoginAttemptKeyNormalizesEmail(t *testing.T) {
	assert.Equal(t, "login_attempts:alice@example.com", loginAttemptKey("  Alice@Example.COM "))
	assert.Equal(t, loginAttemptKey("bob@example.com"), loginAttemptKey("BOB@example.com"))
}

func TestRecordFailureCountsPerEmail(t *testing.T) {
	store, mini := newAttemptStore(t, time.Minute)
	ctx := context.Background()

	for want := int64(1); want <= 3; want++ {
		n, err := store.RecordFailure(ctx, "Alice@Example.com")
		require.NoError(t, err)
		assert.Equal(t, want, n)
	}

	failures, err := store.Failures(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, int64(3), failures)
	assert.Equal(t, time.Minute, mini.TTL("login_attempts:alice@example.com"))

	other, err := store.Failures(ctx, "bob@example.com")
	require.NoError(t, err)
	assert.Zero(t, other)
}

func TestLoginAttemptWindowIsNotExtended(t *testing.T) {
	store, mini := newAttemptStore(t, time.Minute)
	ctx := context.Background()

	_, err := store.RecordFailure(ctx, "alice@example.com")
	require.NoError(t, err)
	mini.FastForward(40 * time.Second)
	_, err = store.RecordFailure(ctx, "alice@example.com")
	require.NoError(t, err)

	assert.Equal(t, 20*time.Second, mini.TTL("login_attempts:alice@example.com"))
}

func TestLoginAttemptsExpireAfterWindow(t *testing.T) {
	store, mini := newAttemptStore(t, time.Minute)
	ctx := context.Background()

	_, err := store.RecordFailure(ctx, "alice@example.com")
	require.NoError(t, err)
	mini.FastForward(2 * time.Minute)

	failures, err := store.Failures(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Zero(t, failures)

	n, err := store.RecordFailure(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestResetClearsFailures(t *testing.T) {
	store, mini := newAttemptStore(t, time.Minute)
	ctx := context.Background()

	_, err := store.RecordFailure(ctx, "alice@example.com")
	require.NoError(t, err)
	require.NoError(t, store.Reset(ctx, "ALICE@example.com"))

	assert.False(t, mini.Exists("login_attempts:alice@example.com"))
	failures, err := store.Failures(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Zero(t, failures)
}

func TestLoginAttemptsReportRedisErrors(t *testing.T) {
	store, mini := newAttemptStore(t, time.Minute)
	mini.Close()

	_, err := store.Failures(context.Background(), "alice@example.com")
	assert.ErrorContains(t, err, "read login attempts")
	_, err = store.RecordFailure(context.Background(), "alice@example.com")
	assert.ErrorContains(t, err, "record login attempt")
}
