package handlers

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/posts-service/internal/api/dto"
	"github.com/spec-kit/posts-service/internal/service"
)

const bearerPrefix = "Bearer "

// AuthHandler exposes login, registration and token refresh.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: authService}
}

// Login handles POST /auth/login. The access token is returned in the
// Authorization header and the refresh token in an HTTP-only cookie.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	res, err := h.auth.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}

	c.Set(fiber.HeaderAuthorization, bearerPrefix+res.Tokens.AccessToken)
	c.Cookie(&fiber.Cookie{
		Name:     service.RefreshCookieName,
		Value:    res.Tokens.RefreshToken,
		Path:     "/",
		MaxAge:   int(res.Tokens.RefreshExpiresIn / time.Second),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return c.JSON(dto.LoginResponse{
		Message: "Login successful",
		User:    dto.NewUserSummary(res.User),
	})
}

// Register handles POST /auth/register.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	user, err := h.auth.Register(c.UserContext(), req.Name, req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.UserResponse{User: dto.NewUserSummary(*user)})
}

// Refresh handles GET /auth/refresh.
func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	access, err := h.auth.Refresh(c.UserContext(), c.Get(fiber.HeaderCookie))
	if err != nil {
		return err
	}
	c.Set(fiber.HeaderAuthorization, bearerPrefix+access)
	return c.JSON(dto.MessageResponse{Message: "Token refreshed"})
}

// Logout handles DELETE /auth/logout by overwriting the refresh cookie.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if err := h.auth.Logout(c.UserContext(), c.Get(fiber.HeaderCookie)); err != nil {
		return err
	}
	c.Cookie(&fiber.Cookie{
		Name:     service.RefreshCookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return c.SendStatus(http.StatusOK)
}
