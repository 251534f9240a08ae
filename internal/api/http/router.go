package http

import (
	nethttp "net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/spec-kit/posts-service/internal/api/http/handlers"
	"github.com/spec-kit/posts-service/internal/auth"
	"github.com/spec-kit/posts-service/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health    *handlers.HealthHandler
	Auth      *handlers.AuthHandler
	Users     *handlers.UsersHandler
	Posts     *handlers.PostsHandler
	Guards    *auth.Guards
	PostOwner auth.OwnerResolver
	Metrics   nethttp.Handler
}

// RegisterRoutes wires HTTP routes. Each protected route lists its
// authorization steps; authentication always runs first.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/", cfg.Health.Welcome)
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	if cfg.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(cfg.Metrics))
	}

	authGroup := app.Group("/auth")
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Get("/refresh", cfg.Auth.Refresh)
	authGroup.Delete("/logout", cfg.Auth.Logout)

	adminOnly := cfg.Guards.Protect(auth.RequireRoles(domain.RoleAdmin))
	selfOrAdmin := cfg.Guards.Protect(auth.RequireSelfOr(auth.PathOwner, domain.RoleAdmin))

	users := app.Group("/users")
	users.Get("/", adminOnly, cfg.Users.List)
	users.Put("/role/:id", adminOnly, cfg.Users.UpdateRole)
	users.Get("/:id", cfg.Users.Get)
	users.Patch("/:id", selfOrAdmin, cfg.Users.Update)
	users.Delete("/:id", selfOrAdmin, cfg.Users.Delete)

	postAuthorOrAdmin := cfg.Guards.Protect(auth.RequireSelfOr(cfg.PostOwner, domain.RoleAdmin))

	posts := app.Group("/posts")
	posts.Get("/", cfg.Posts.List)
	posts.Get("/user/:id", cfg.Posts.ListByUser)
	posts.Get("/:id", cfg.Posts.Get)
	posts.Post("/", cfg.Guards.Protect(), cfg.Posts.Create)
	posts.Patch("/:id", postAuthorOrAdmin, cfg.Posts.Update)
	posts.Delete("/:id", postAuthorOrAdmin, cfg.Posts.Delete)
}
