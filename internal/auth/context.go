package auth

import (
	"context"

	"github.com/spec-kit/posts-service/internal/domain"
)

// RequestContext is the value threaded through authorization steps. It is
// never mutated; steps return a new value instead.
type RequestContext struct {
	identity *domain.User
}

// Identity returns a copy of the authenticated user, if any.
func (rc RequestContext) Identity() (domain.User, bool) {
	if rc.identity == nil {
		return domain.User{}, false
	}
	return *rc.identity, true
}

// WithIdentity returns a context carrying user.
func (rc RequestContext) WithIdentity(user domain.User) RequestContext {
	return RequestContext{identity: &user}
}

type identityContextKey struct{}

// ContextWithIdentity attaches the authenticated user to ctx.
func ContextWithIdentity(ctx context.Context, user domain.User) context.Context {
	return context.WithValue(ctx, identityContextKey{}, user)
}

// IdentityFromContext extracts the authenticated user placed by the pipeline.
func IdentityFromContext(ctx context.Context) (domain.User, bool) {
	if ctx == nil {
		return domain.User{}, false
	}
	user, ok := ctx.Value(identityContextKey{}).(domain.User)
	return user, ok
}
