package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/posts-service/internal/api/dto"
	"github.com/spec-kit/posts-service/internal/domain"
	"github.com/spec-kit/posts-service/internal/service"
)

// UsersHandler exposes account management.
type UsersHandler struct {
	users *service.UsersService
}

// NewUsersHandler constructs handler.
func NewUsersHandler(users *service.UsersService) *UsersHandler {
	return &UsersHandler{users: users}
}

// Get handles GET /users/:id.
func (h *UsersHandler) Get(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	user, err := h.users.GetUser(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(dto.UserResponse{User: dto.NewUserSummary(*user)})
}

// List handles GET /users.
func (h *UsersHandler) List(c *fiber.Ctx) error {
	q, err := parsePage(c)
	if err != nil {
		return err
	}
	page, err := h.users.ListUsers(c.UserContext(), q.Page, q.Limit)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewUserListResponse(page.Users, page.Total, page.Page, page.Limit))
}

// Update handles PATCH /users/:id.
func (h *UsersHandler) Update(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var req dto.UpdateUserRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if _, err := h.users.UpdateUser(c.UserContext(), id, service.UserUpdate{Email: req.Email, Password: req.Password}); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// UpdateRole handles PUT /users/role/:id.
func (h *UsersHandler) UpdateRole(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var req dto.UpdateRoleRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if _, err := h.users.UpdateUserRole(c.UserContext(), id, domain.Role(req.Role)); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// Delete handles DELETE /users/:id.
func (h *UsersHandler) Delete(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	if err := h.users.DeleteUser(c.UserContext(), id); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}
