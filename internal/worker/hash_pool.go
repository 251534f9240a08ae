package worker

import (
	"context"

	"golang.org/x/sync/semaphore"

	"github.com/spec-kit/posts-service/internal/auth"
)

// HashPool bounds how many memory-hard password operations run at once so
// login and register bursts cannot starve the rest of the server.
type HashPool struct {
	hasher *auth.PasswordHasher
	sem    *semaphore.Weighted
}

// NewHashPool allows size concurrent operations. size below one is treated as one.
func NewHashPool(hasher *auth.PasswordHasher, size int) *HashPool {
	if size < 1 {
		size = 1
	}
	return &HashPool{hasher: hasher, sem: semaphore.NewWeighted(int64(size))}
}

// Hash waits for a slot, then hashes password. It returns ctx.Err() if the
// request ends while waiting.
func (p *HashPool) Hash(ctx context.Context, password string) (string, error) {
	if err := p.sem.Acquire(ctx, 1); err != nil {
		return "", err
	}
	defer p.sem.Release(1)
	return p.hasher.Hash(password)
}

// Verify waits for a slot, then checks password against hash.
func (p *HashPool) Verify(ctx context.Context, password, hash string) (bool, error) {
	if err := p.sem.Acquire(ctx, 1); err != nil {
		return false, err
	}
	defer p.sem.Release(1)
	return p.hasher.Verify(password, hash)
}
