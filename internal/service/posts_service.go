package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/spec-kit/posts-service/internal/domain"
	"github.com/spec-kit/posts-service/internal/repository"
	apperrors "github.com/spec-kit/posts-service/pkg/util"
)

// PostsService manages posts.
type PostsService struct {
	posts repository.PostRepository
}

// NewPostsService builds the service.
func NewPostsService(posts repository.PostRepository) *PostsService {
	return &PostsService{posts: posts}
}

// PostPage is one page of posts plus the count of the listed set.
type PostPage struct {
	Posts []domain.Post
	Total int64
	Page  int
	Limit int
}

// PostUpdate carries the optional fields of a post update.
type PostUpdate struct {
	Title *string
	Body  *string
}

func postNotFound(id uuid.UUID) error {
	return apperrors.NewNotFound(fmt.Sprintf("post with id: %s not found", id))
}

// GetPost returns a single post.
func (s *PostsService) GetPost(ctx context.Context, id uuid.UUID) (*domain.Post, error) {
	post, err := s.posts.GetPost(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, postNotFound(id)
		}
		return nil, apperrors.NewServerError("failed to get post", err)
	}
	return post, nil
}

// ListPosts returns a page of all posts, newest first.
func (s *PostsService) ListPosts(ctx context.Context, page, limit int) (*PostPage, error) {
	posts, err := s.posts.GetPosts(ctx, page, limit)
	if err != nil {
		return nil, apperrors.NewServerError("failed to get posts", err)
	}
	total, err := s.posts.GetPostCount(ctx)
	if err != nil {
		return nil, apperrors.NewServerError("failed to get post count", err)
	}
	return &PostPage{Posts: posts, Total: total, Page: page, Limit: limit}, nil
}

// ListUserPosts returns a page of the posts written by userID.
func (s *PostsService) ListUserPosts(ctx context.Context, userID uuid.UUID, page, limit int) (*PostPage, error) {
	posts, err := s.posts.GetPostsByUser(ctx, userID, page, limit)
	if err != nil {
		return nil, apperrors.NewServerError("failed to get posts", err)
	}
	total, err := s.posts.GetPostCountByUser(ctx, userID)
	if err != nil {
		return nil, apperrors.NewServerError("failed to get post count", err)
	}
	return &PostPage{Posts: posts, Total: total, Page: page, Limit: limit}, nil
}

// CreatePost stores a post owned by author.
func (s *PostsService) CreatePost(ctx context.Context, author uuid.UUID, title, body string) (*domain.Post, error) {
	post, err := s.posts.CreatePost(ctx, author, title, body)
	if err != nil {
		return nil, apperrors.NewServerError("failed to create post", err)
	}
	return post, nil
}

// UpdatePost changes title and/or body.
func (s *PostsService) UpdatePost(ctx context.Context, id uuid.UUID, in PostUpdate) (*domain.Post, error) {
	post, err := s.posts.UpdatePost(ctx, id, in.Title, in.Body)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, postNotFound(id)
		}
		return nil, apperrors.NewServerError("failed to update post", err)
	}
	return post, nil
}

// DeletePost removes a post.
func (s *PostsService) DeletePost(ctx context.Context, id uuid.UUID) error {
	deleted, err := s.posts.DeletePost(ctx, id)
	if err != nil {
		return apperrors.NewServerError("failed to delete post", err)
	}
	if !deleted {
		return postNotFound(id)
	}
	return nil
}

// ResolveOwner implements auth.OwnerResolver for routes addressed by post id.
func (s *PostsService) ResolveOwner(ctx context.Context, id uuid.UUID) (uuid.UUID, error) {
	post, err := s.GetPost(ctx, id)
	if err != nil {
		return uuid.Nil, err
	}
	return post.UserID, nil
}
