package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/posts-service/internal/auth"
	"github.com/spec-kit/posts-service/internal/observability"
	apperrors "github.com/spec-kit/posts-service/pkg/util"
)

// NewApp creates the fiber application with the JSON error renderer.
func NewApp(name string, logger *zap.Logger) *fiber.App {
	return fiber.New(fiber.Config{
		AppName:               name,
		DisableStartupMessage: true,
		ErrorHandler:          ErrorHandler(logger),
	})
}

// RejectionRecorder reports authorization rejections to metrics and the debug log.
func RejectionRecorder(metrics *observability.Metrics, logger *zap.Logger) auth.RejectionObserver {
	return func(step string, err error) {
		domainErr := apperrors.ToDomainError(err)
		metrics.RecordRejection(step, strings.ToLower(domainErr.Code))
		logger.Debug("request rejected", zap.String("step", step), zap.String("reason", domainErr.Message))
	}
}
