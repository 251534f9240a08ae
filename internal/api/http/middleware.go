package http

import (
	"context"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"go.uber.org/zap"

	"github.com/spec-kit/posts-service/internal/observability"
	apperrors "github.com/spec-kit/posts-service/pkg/util"
)

// MiddlewareConfig bundles settings for the global middleware chain.
type MiddlewareConfig struct {
	Logger       *zap.Logger
	Metrics      *observability.Metrics
	Timeout      time.Duration
	AllowOrigins string
}

// RegisterMiddlewares attaches request ids, logging, panic recovery, CORS and
// the request timeout, in that order.
func RegisterMiddlewares(app *fiber.App, cfg MiddlewareConfig) {
	logger := cfg.Logger
	app.Use(requestid.New())
	app.Use(observability.RequestLogger(logger, cfg.Metrics))
	app.Use(recover.New(recover.Config{
		EnableStackTrace: true,
		StackTraceHandler: func(c *fiber.Ctx, e any) {
			logger.Error("panic recovered", zap.String("panic", fmt.Sprint(e)), zap.Stack("stack"))
		},
	}))
	if cfg.AllowOrigins != "" {
		app.Use(cors.New(cors.Config{
			AllowOrigins:  cfg.AllowOrigins,
			AllowHeaders:  "Origin, Content-Type, Accept, Authorization",
			ExposeHeaders: "Authorization",
		}))
	}
	if cfg.Timeout > 0 {
		app.Use(requestTimeoutMiddleware(cfg.Timeout))
	}
}

func requestTimeoutMiddleware(timeout time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), timeout)
		defer cancel()
		c.SetUserContext(ctx)
		return c.Next()
	}
}

// ErrorHandler renders every error as {"error": message}. Server errors are
// logged with their internal cause, which never reaches the client.
func ErrorHandler(logger *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		domainErr := apperrors.ToDomainError(err)
		if domainErr.HTTPStatus >= fiber.StatusInternalServerError {
			fields := []zap.Field{
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.Error(err),
			}
			if id, ok := c.Locals("requestid").(string); ok {
				fields = append(fields, zap.String("request_id", id))
			}
			logger.Error("server error", fields...)
		}
		return c.Status(domainErr.HTTPStatus).JSON(fiber.Map{"error": domainErr.Message})
	}
}
