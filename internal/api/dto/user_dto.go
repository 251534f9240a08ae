package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/posts-service/internal/domain"
)

// UserSummary is the public view of a user. It never carries the password hash.
type UserSummary struct {
	ID        uuid.UUID   `json:"id"`
	Name      string      `json:"name"`
	Email     string      `json:"email"`
	Role      domain.Role `json:"role"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// NewUserSummary maps a domain user.
func NewUserSummary(u domain.User) UserSummary {
	return UserSummary{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// UserResponse wraps a single user.
type UserResponse struct {
	User UserSummary `json:"user"`
}

// UserListResponse is one page of users.
type UserListResponse struct {
	Users []UserSummary `json:"users"`
	Total int64         `json:"total"`
	Page  int           `json:"page"`
	Limit int           `json:"limit"`
}

// NewUserListResponse maps a page of users. An empty page encodes as [].
func NewUserListResponse(users []domain.User, total int64, page, limit int) UserListResponse {
	out := make([]UserSummary, 0, len(users))
	for _, u := range users {
		out = append(out, NewUserSummary(u))
	}
	return UserListResponse{Users: out, Total: total, Page: page, Limit: limit}
}

// UpdateUserRequest changes a user's email and/or password.
type UpdateUserRequest struct {
	Email    *string `json:"email" validate:"omitempty,email,max=255"`
	Password *string `json:"password" validate:"omitempty,min=6,max=128"`
}

// UpdateRoleRequest assigns a role.
type UpdateRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=admin user"`
}
