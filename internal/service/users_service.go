package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/posts-service/internal/auth"
	"github.com/spec-kit/posts-service/internal/domain"
	"github.com/spec-kit/posts-service/internal/events"
	"github.com/spec-kit/posts-service/internal/repository"
	apperrors "github.com/spec-kit/posts-service/pkg/util"
)

// UsersService manages accounts after registration.
type UsersService struct {
	users     repository.UserRepository
	passwords PasswordPool
	events    events.Dispatcher
	logger    *zap.Logger
}

// UsersDependencies bundles collaborators for the users service.
type UsersDependencies struct {
	Users     repository.UserRepository
	Passwords PasswordPool
	Events    events.Dispatcher
	Logger    *zap.Logger
}

// NewUsersService builds the service.
func NewUsersService(deps UsersDependencies) *UsersService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UsersService{
		users:     deps.Users,
		passwords: deps.Passwords,
		events:    deps.Events,
		logger:    logger,
	}
}

// UserPage is one page of users plus the overall count.
type UserPage struct {
	Users []domain.User
	Total int64
	Page  int
	Limit int
}

// UserUpdate carries the optional fields of a profile update.
type UserUpdate struct {
	Email    *string
	Password *string
}

func userNotFound(id uuid.UUID) error {
	return apperrors.NewNotFound(fmt.Sprintf("user with id: %s not found", id))
}

// GetUser returns a single user.
func (s *UsersService) GetUser(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	user, err := s.users.GetUser(ctx, domain.ByID(id))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, userNotFound(id)
		}
		return nil, apperrors.NewServerError("failed to get user", err)
	}
	return user, nil
}

// ListUsers returns a page of users, newest first.
func (s *UsersService) ListUsers(ctx context.Context, page, limit int) (*UserPage, error) {
	users, err := s.users.GetUsers(ctx, page, limit)
	if err != nil {
		return nil, apperrors.NewServerError("failed to get users", err)
	}
	total, err := s.users.GetUserCount(ctx)
	if err != nil {
		return nil, apperrors.NewServerError("failed to get user count", err)
	}
	return &UserPage{Users: users, Total: total, Page: page, Limit: limit}, nil
}

// UpdateUser changes email and/or password. A new password is re-hashed.
func (s *UsersService) UpdateUser(ctx context.Context, id uuid.UUID, in UserUpdate) (*domain.User, error) {
	var hash *string
	if in.Password != nil {
		h, err := hashPassword(ctx, s.passwords, *in.Password)
		if err != nil {
			return nil, err
		}
		hash = &h
	}

	user, err := s.users.UpdateUser(ctx, id, in.Email, hash)
	switch {
	case err == nil:
		return user, nil
	case errors.Is(err, repository.ErrNotFound):
		return nil, userNotFound(id)
	case errors.Is(err, repository.ErrConflict):
		return nil, apperrors.NewConflict("email already in use", map[string]any{"field": "email"})
	default:
		return nil, apperrors.NewServerError("failed to update user", err)
	}
}

// UpdateUserRole assigns role to the user.
func (s *UsersService) UpdateUserRole(ctx context.Context, id uuid.UUID, role domain.Role) (*domain.User, error) {
	if !role.Valid() {
		return nil, apperrors.NewBadRequest(fmt.Sprintf("unknown role %q", role))
	}

	user, err := s.users.UpdateUserRole(ctx, id, role)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, userNotFound(id)
		}
		return nil, apperrors.NewServerError("failed to update user role", err)
	}

	publish(ctx, s.events, s.logger, events.NewEvent(
		events.EventUserRoleChanged, user.ID, actorFrom(ctx, user.ID), events.UserRoleChangedPayload{NewRole: role},
	))
	return user, nil
}

// DeleteUser removes the account and, through the foreign key, its posts.
func (s *UsersService) DeleteUser(ctx context.Context, id uuid.UUID) error {
	deleted, err := s.users.DeleteUser(ctx, id)
	if err != nil {
		return apperrors.NewServerError("failed to delete user", err)
	}
	if !deleted {
		return userNotFound(id)
	}

	publish(ctx, s.events, s.logger, events.NewEvent(events.EventUserDeleted, id, actorFrom(ctx, id), nil))
	return nil
}

// actorFrom returns the authenticated caller when it differs from subject.
func actorFrom(ctx context.Context, subject uuid.UUID) *uuid.UUID {
	identity, ok := auth.IdentityFromContext(ctx)
	if !ok || identity.ID == subject {
		return nil
	}
	return &identity.ID
}
