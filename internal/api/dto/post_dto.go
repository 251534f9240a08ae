package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/posts-service/internal/domain"
)

// CreatePostRequest payload. The author is the authenticated user.
type CreatePostRequest struct {
	Title string `json:"title" validate:"required,min=5,max=255"`
	Body  string `json:"body" validate:"required,min=20"`
}

// UpdatePostRequest changes a post's title and/or body.
type UpdatePostRequest struct {
	Title *string `json:"title" validate:"omitempty,min=5,max=255"`
	Body  *string `json:"body" validate:"omitempty,min=20"`
}

// PostSummary is the public view of a post.
type PostSummary struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewPostSummary maps a domain post.
func NewPostSummary(p domain.Post) PostSummary {
	return PostSummary{
		ID:        p.ID,
		UserID:    p.UserID,
		Title:     p.Title,
		Body:      p.Body,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

// PostResponse wraps a single post.
type PostResponse struct {
	Post PostSummary `json:"post"`
}

// PostListResponse is one page of posts.
type PostListResponse struct {
	Posts []PostSummary `json:"posts"`
	Total int64         `json:"total"`
	Page  int           `json:"page"`
	Limit int           `json:"limit"`
}

// NewPostListResponse maps a page of posts. An empty page encodes as [].
func NewPostListResponse(posts []domain.Post, total int64, page, limit int) PostListResponse {
	out := make([]PostSummary, 0, len(posts))
	for _, p := range posts {
		out = append(out, NewPostSummary(p))
	}
	return PostListResponse{Posts: out, Total: total, Page: page, Limit: limit}
}
