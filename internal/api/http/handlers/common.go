package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/spec-kit/posts-service/internal/api/dto"
	apperrors "github.com/spec-kit/posts-service/pkg/util"
)

func parseID(c *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return uuid.Nil, apperrors.NewBadRequest("Invalid UUID format for `id` param")
	}
	return id, nil
}

// parseBody decodes the JSON body into out and runs its validation rules.
func parseBody(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return apperrors.NewBadRequest("invalid request payload")
	}
	return dto.Validate(out)
}

func parsePage(c *fiber.Ctx) (dto.PageQuery, error) {
	q := dto.NewPageQuery()
	if err := c.QueryParser(&q); err != nil {
		return q, apperrors.NewBadRequest("invalid pagination parameters")
	}
	return q, dto.Validate(q)
}
