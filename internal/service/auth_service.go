package service

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/posts-service/internal/auth"
	"github.com/spec-kit/posts-service/internal/config"
	"github.com/spec-kit/posts-service/internal/domain"
	"github.com/spec-kit/posts-service/internal/events"
	"github.com/spec-kit/posts-service/internal/repository"
	apperrors "github.com/spec-kit/posts-service/pkg/util"
)

// RefreshCookieName is the cookie carrying the refresh token.
const RefreshCookieName = "refresh_token"

const (
	loginSuccess   = "success"
	loginFailure   = "failure"
	loginThrottled = "throttled"
)

// PasswordPool hashes and verifies passwords off the request's hot path.
type PasswordPool interface {
	Hash(ctx context.Context, password string) (string, error)
	Verify(ctx context.Context, password, hash string) (bool, error)
}

// LoginRecorder counts login outcomes.
type LoginRecorder interface {
	RecordLogin(outcome string)
}

// AuthService coordinates registration, login and token refresh.
type AuthService struct {
	users         repository.UserRepository
	attempts      repository.LoginAttemptRepository
	passwords     PasswordPool
	codec         *auth.TokenCodec
	events        events.Dispatcher
	metrics       LoginRecorder
	logger        *zap.Logger
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	maxAttempts   int64
}

// AuthDependencies encapsulates collaborators for the auth service.
// Attempts, Events and Metrics are optional.
type AuthDependencies struct {
	Users     repository.UserRepository
	Attempts  repository.LoginAttemptRepository
	Passwords PasswordPool
	Codec     *auth.TokenCodec
	Events    events.Dispatcher
	Metrics   LoginRecorder
	Logger    *zap.Logger
}

// NewAuthService builds the service.
func NewAuthService(cfg config.AuthConfig, deps AuthDependencies) *AuthService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	codec := deps.Codec
	if codec == nil {
		codec = auth.NewTokenCodec()
	}
	return &AuthService{
		users:         deps.Users,
		attempts:      deps.Attempts,
		passwords:     deps.Passwords,
		codec:         codec,
		events:        deps.Events,
		metrics:       deps.Metrics,
		logger:        logger,
		accessSecret:  []byte(cfg.AccessTokenSecret),
		refreshSecret: []byte(cfg.RefreshTokenSecret),
		accessTTL:     cfg.AccessTokenTTL(),
		refreshTTL:    cfg.RefreshTokenTTL(),
		maxAttempts:   int64(cfg.LoginMaxAttempts),
	}
}

// LoginResult is what a successful login hands back to the transport.
type LoginResult struct {
	Tokens domain.TokenPair
	User   domain.User
}

// Login authenticates by email and password. Unknown emails and wrong
// passwords produce the same error.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	if s.throttled(ctx, email) {
		s.recordLogin(loginThrottled)
		return nil, apperrors.NewTooManyRequests("too many login attempts")
	}

	user, err := s.users.GetUser(ctx, domain.ByEmail(email))
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			s.logger.Warn("login lookup failed", zap.Error(err))
		}
		return nil, s.failLogin(ctx, email)
	}

	ok, err := s.passwords.Verify(ctx, password, user.PasswordHash)
	if errors.Is(err, auth.ErrEmptyInput) || errors.Is(err, auth.ErrTooLong) {
		return nil, s.failLogin(ctx, email)
	}
	if err != nil {
		return nil, apperrors.NewServerError("failed to verify password", err)
	}
	if !ok {
		return nil, s.failLogin(ctx, email)
	}

	access, err := s.codec.Encode(user.ID.String(), s.accessSecret, s.accessTTL)
	if err != nil {
		return nil, apperrors.NewServerError("failed to sign access token", err)
	}
	refresh, err := s.codec.Encode(user.ID.String(), s.refreshSecret, s.refreshTTL)
	if err != nil {
		return nil, apperrors.NewServerError("failed to sign refresh token", err)
	}

	if s.attempts != nil {
		if err := s.attempts.Reset(ctx, email); err != nil {
			s.logger.Warn("reset login attempts failed", zap.Error(err))
		}
	}
	s.recordLogin(loginSuccess)
	s.publish(ctx, events.NewEvent(events.EventUserLoggedIn, user.ID, nil, nil))

	return &LoginResult{
		Tokens: domain.TokenPair{
			AccessToken:      access,
			RefreshToken:     refresh,
			RefreshExpiresIn: s.refreshTTL,
		},
		User: *user,
	}, nil
}

// Register creates a user account with the default role. Password
// confirmation is checked by the transport.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (*domain.User, error) {
	_, err := s.users.GetUser(ctx, domain.ByEmail(email))
	switch {
	case err == nil:
		return nil, apperrors.NewBadRequest("user already exists")
	case !errors.Is(err, repository.ErrNotFound):
		return nil, apperrors.NewServerError("failed to check existing user", err)
	}

	hash, err := hashPassword(ctx, s.passwords, password)
	if err != nil {
		return nil, err
	}

	user, err := s.users.CreateUser(ctx, name, email, hash)
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, apperrors.NewBadRequest("user already exists")
		}
		return nil, apperrors.NewServerError("failed to create user", err)
	}

	s.publish(ctx, events.NewEvent(events.EventUserRegistered, user.ID, nil, events.UserRegisteredPayload{Email: user.Email}))
	return user, nil
}

// Refresh mints a new access token from the refresh cookie found in
// cookieHeader. The refresh token itself is not rotated.
func (s *AuthService) Refresh(ctx context.Context, cookieHeader string) (string, error) {
	token, err := RefreshTokenFromCookies(cookieHeader)
	if err != nil {
		return "", err
	}

	claims, err := s.codec.DecodeAndValidate(token, s.refreshSecret)
	if err != nil {
		if errors.Is(err, auth.ErrExpiredToken) {
			return "", apperrors.NewUnauthorized("expired refresh token")
		}
		return "", apperrors.NewUnauthorized("invalid refresh token")
	}

	access, err := s.codec.Encode(claims.Subject, s.accessSecret, s.accessTTL)
	if err != nil {
		return "", apperrors.NewServerError("failed to sign access token", err)
	}
	return access, nil
}

// Logout checks that a refresh cookie was presented. Tokens are stateless, so
// nothing is revoked server side; the caller clears the cookie.
func (s *AuthService) Logout(_ context.Context, cookieHeader string) error {
	_, err := RefreshTokenFromCookies(cookieHeader)
	return err
}

// RefreshTTL is the refresh token lifetime, used as the cookie max-age.
func (s *AuthService) RefreshTTL() time.Duration {
	return s.refreshTTL
}

// RefreshTokenFromCookies extracts the refresh token from a raw Cookie header.
// Pairs are parsed one by one so an unrelated malformed cookie does not hide
// the refresh token.
func RefreshTokenFromCookies(cookieHeader string) (string, error) {
	if cookieHeader == "" {
		return "", apperrors.NewUnauthorized("missing authentication cookie")
	}

	parsed := false
	for _, pair := range strings.Split(cookieHeader, ";") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		cookies, err := http.ParseCookie(pair)
		if err != nil {
			continue
		}
		parsed = true
		for _, cookie := range cookies {
			if cookie.Name == RefreshCookieName {
				return cookie.Value, nil
			}
		}
	}
	if !parsed {
		return "", apperrors.NewBadRequest("invalid cookie")
	}
	return "", apperrors.NewBadRequest("refresh token not found")
}

func (s *AuthService) throttled(ctx context.Context, email string) bool {
	if s.attempts == nil || s.maxAttempts <= 0 {
		return false
	}
	failures, err := s.attempts.Failures(ctx, email)
	if err != nil {
		s.logger.Warn("login throttle unavailable", zap.Error(err))
		return false
	}
	return failures >= s.maxAttempts
}

func (s *AuthService) failLogin(ctx context.Context, email string) error {
	if s.attempts != nil && s.maxAttempts > 0 {
		if _, err := s.attempts.RecordFailure(ctx, email); err != nil {
			s.logger.Warn("record login failure failed", zap.Error(err))
		}
	}
	s.recordLogin(loginFailure)
	return apperrors.NewUnauthorized("invalid credentials")
}

func (s *AuthService) recordLogin(outcome string) {
	if s.metrics != nil {
		s.metrics.RecordLogin(outcome)
	}
}

func (s *AuthService) publish(ctx context.Context, event events.Event) {
	publish(ctx, s.events, s.logger, event)
}

// hashPassword maps hasher failures onto the error taxonomy.
func hashPassword(ctx context.Context, pool PasswordPool, password string) (string, error) {
	hash, err := pool.Hash(ctx, password)
	switch {
	case err == nil:
		return hash, nil
	case errors.Is(err, auth.ErrEmptyInput):
		return "", apperrors.NewBadRequest("password cannot be empty")
	case errors.Is(err, auth.ErrTooLong):
		return "", apperrors.NewBadRequest("password exceeds maximum length of 128")
	default:
		return "", apperrors.NewServerError("failed to hash password", err)
	}
}

func publish(ctx context.Context, dispatcher events.Dispatcher, logger *zap.Logger, event events.Event) {
	if dispatcher == nil {
		return
	}
	if err := dispatcher.Publish(ctx, event); err != nil {
		logger.Warn("publish event failed", zap.String("event", string(event.Type)), zap.Error(err))
	}
}
