package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/posts-service/internal/api/dto"
	"github.com/spec-kit/posts-service/internal/auth"
	"github.com/spec-kit/posts-service/internal/service"
	apperrors "github.com/spec-kit/posts-service/pkg/util"
)

// PostsHandler exposes the posts resource.
type PostsHandler struct {
	posts *service.PostsService
}

// NewPostsHandler constructs handler.
func NewPostsHandler(posts *service.PostsService) *PostsHandler {
	return &PostsHandler{posts: posts}
}

// Get handles GET /posts/:id.
func (h *PostsHandler) Get(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	post, err := h.posts.GetPost(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(dto.PostResponse{Post: dto.NewPostSummary(*post)})
}

// List handles GET /posts.
func (h *PostsHandler) List(c *fiber.Ctx) error {
	q, err := parsePage(c)
	if err != nil {
		return err
	}
	page, err := h.posts.ListPosts(c.UserContext(), q.Page, q.Limit)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewPostListResponse(page.Posts, page.Total, page.Page, page.Limit))
}

// ListByUser handles GET /posts/user/:id.
func (h *PostsHandler) ListByUser(c *fiber.Ctx) error {
	userID, err := parseID(c)
	if err != nil {
		return err
	}
	q, err := parsePage(c)
	if err != nil {
		return err
	}
	page, err := h.posts.ListUserPosts(c.UserContext(), userID, q.Page, q.Limit)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewPostListResponse(page.Posts, page.Total, page.Page, page.Limit))
}

// Create handles POST /posts. The author is the authenticated user.
func (h *PostsHandler) Create(c *fiber.Ctx) error {
	author, ok := auth.IdentityFromContext(c.UserContext())
	if !ok {
		return apperrors.NewUnauthorized("user not authenticated")
	}
	var req dto.CreatePostRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	post, err := h.posts.CreatePost(c.UserContext(), author.ID, req.Title, req.Body)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.PostResponse{Post: dto.NewPostSummary(*post)})
}

// Update handles PATCH /posts/:id.
func (h *PostsHandler) Update(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var req dto.UpdatePostRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if _, err := h.posts.UpdatePost(c.UserContext(), id, service.PostUpdate{Title: req.Title, Body: req.Body}); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// Delete handles DELETE /posts/:id.
func (h *PostsHandler) Delete(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	if err := h.posts.DeletePost(c.UserContext(), id); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}
