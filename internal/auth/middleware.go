package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/spec-kit/posts-service/internal/domain"
	"github.com/spec-kit/posts-service/internal/repository"
	apperrors "github.com/spec-kit/posts-service/pkg/util"
)

const bearerPrefix = "Bearer "

// UserLookup is the slice of the user store the guard needs.
type UserLookup interface {
	GetUser(ctx context.Context, filter domain.UserFilter) (*domain.User, error)
}

// AuthGuard resolves a bearer access token to a user. Every request re-reads
// the user from storage so role changes and deletions apply immediately.
type AuthGuard struct {
	codec  *TokenCodec
	secret []byte
	users  UserLookup
}

// NewAuthGuard builds the guard. secret must be the access-token secret.
func NewAuthGuard(codec *TokenCodec, accessSecret []byte, users UserLookup) *AuthGuard {
	return &AuthGuard{codec: codec, secret: accessSecret, users: users}
}

func (g *AuthGuard) Name() string { return "auth" }

// Authorize implements Step.
func (g *AuthGuard) Authorize(req Request, rc RequestContext) (RequestContext, error) {
	header := req.Header(fiber.HeaderAuthorization)
	if header == "" {
		return rc, apperrors.NewUnauthorized("missing authorization header")
	}
	if !strings.HasPrefix(header, bearerPrefix) {
		return rc, apperrors.NewUnauthorized("invalid authorization header format")
	}

	claims, err := g.codec.Decode(strings.TrimPrefix(header, bearerPrefix), g.secret)
	if err != nil {
		return rc, apperrors.NewUnauthorized("invalid authorization token")
	}
	claims, err = g.codec.Validate(claims)
	if err != nil {
		return rc, apperrors.NewUnauthorized("authorization token is expired or invalid")
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return rc, apperrors.NewUnauthorized("invalid user ID in token")
	}

	user, err := g.users.GetUser(req.Context(), domain.ByID(userID))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return rc, apperrors.NewUnauthorized("user not found or does not have access to this resource")
		}
		return rc, apperrors.NewServerError("failed to look up the authenticated user", err)
	}

	return rc.WithIdentity(*user), nil
}

// Guards builds per-route pipelines that always start with the AuthGuard.
type Guards struct {
	auth     *AuthGuard
	observer RejectionObserver
}

// NewGuards wires a guard factory.
func NewGuards(authGuard *AuthGuard, observer RejectionObserver) *Guards {
	return &Guards{auth: authGuard, observer: observer}
}

// Protect returns a handler running authentication followed by steps.
func (g *Guards) Protect(steps ...Step) fiber.Handler {
	return g.Pipeline(steps...).Handler()
}

// Pipeline returns the underlying pipeline for Protect.
func (g *Guards) Pipeline(steps ...Step) *Pipeline {
	all := make([]Step, 0, len(steps)+1)
	all = append(all, g.auth)
	all = append(all, steps...)
	return NewPipeline(all...).Observe(g.observer)
}
