package worker

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spec-kit/posts-service/internal/auth"
	"github.com/spec-kit/posts-service/internal/domain"
	"github.com/spec-kit/posts-service/internal/events"
)

func testPool(size int) *HashPool {
	return NewHashPool(auth.NewPasswordHasher(auth.Argon2Params{Memory: 64, Time: 1, Threads: 1}), size)
}

func TestHashPoolRoundTrip(t *testing.T) {
	pool := testPool(2)

	hash, err := pool.Hash(context.Background(), "secret1")
	require.NoError(t, err)

	ok, err := pool.Verify(context.Background(), "secret1", hash)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = pool.Verify(context.Background(), "secret2", hash)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHashPoolPropagatesHasherErrors(t *testing.T) {
	_, err := testPool(1).Hash(context.Background(), "")
	assert.ErrorIs(t, err, auth.ErrEmptyInput)
}

func TestHashPoolHonoursContextWhileWaiting(t *testing.T) {
	pool := testPool(1)
	require.NoError(t, pool.sem.Acquire(context.Background(), 1))
	defer pool.sem.Release(1)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := pool.Hash(ctx, "secret1")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestAuditWorkerLogsAccountEvents(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	dispatcher := events.NewInMemoryDispatcher()
	StartAuditWorker(dispatcher, zap.New(core))

	admin := uuid.New()
	target := uuid.New()
	err := dispatcher.Publish(context.Background(), events.NewEvent(
		events.EventUserRoleChanged, target, &admin, events.UserRoleChangedPayload{NewRole: domain.RoleAdmin},
	))
	require.NoError(t, err)

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "user_role_changed", fields["event"])
	assert.Equal(t, target.String(), fields["user_id"])
	assert.Equal(t, admin.String(), fields["actor_id"])
}
