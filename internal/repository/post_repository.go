package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/posts-service/internal/domain"
)

// PostRepository persists posts.
type PostRepository interface {
	GetPost(ctx context.Context, id uuid.UUID) (*domain.Post, error)
	GetPosts(ctx context.Context, page, limit int) ([]domain.Post, error)
	GetPostsByUser(ctx context.Context, userID uuid.UUID, page, limit int) ([]domain.Post, error)
	GetPostCount(ctx context.Context) (int64, error)
	GetPostCountByUser(ctx context.Context, userID uuid.UUID) (int64, error)
	CreatePost(ctx context.Context, userID uuid.UUID, title, body string) (*domain.Post, error)
	UpdatePost(ctx context.Context, id uuid.UUID, title, body *string) (*domain.Post, error)
	DeletePost(ctx context.Context, id uuid.UUID) (bool, error)
}

type postRepository struct {
	db DB
}

// NewPostRepository returns a Postgres-backed implementation.
func NewPostRepository(db DB) PostRepository {
	return &postRepository{db: db}
}

const postColumns = `id, user_id, title, body, created_at, updated_at`

func (r *postRepository) GetPost(ctx context.Context, id uuid.UUID) (*domain.Post, error) {
	return scanPost(r.db.QueryRow(ctx, `SELECT `+postColumns+` FROM posts WHERE id = $1`, id))
}

func (r *postRepository) GetPosts(ctx context.Context, page, limit int) ([]domain.Post, error) {
	const query = `
        SELECT ` + postColumns + `
        FROM posts
        ORDER BY created_at DESC
        LIMIT $1 OFFSET $2`

	return r.list(ctx, query, limit, offset(page, limit))
}

func (r *postRepository) GetPostsByUser(ctx context.Context, userID uuid.UUID, page, limit int) ([]domain.Post, error) {
	const query = `
        SELECT ` + postColumns + `
        FROM posts
        WHERE user_id = $1
        ORDER BY created_at DESC
        LIMIT $2 OFFSET $3`

	return r.list(ctx, query, userID, limit, offset(page, limit))
}

func (r *postRepository) GetPostCount(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM posts`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count posts: %w", err)
	}
	return count, nil
}

func (r *postRepository) GetPostCountByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM posts WHERE user_id = $1`, userID).Scan(&count); err != nil {
		return 0, fmt.Errorf("count posts by user: %w", err)
	}
	return count, nil
}

func (r *postRepository) CreatePost(ctx context.Context, userID uuid.UUID, title, body string) (*domain.Post, error) {
	const query = `
        INSERT INTO posts (user_id, title, body)
        VALUES ($1, $2, $3)
        RETURNING ` + postColumns

	post, err := scanPost(r.db.QueryRow(ctx, query, userID, title, body))
	if err != nil {
		return nil, mapWriteError(err)
	}
	return post, nil
}

func (r *postRepository) UpdatePost(ctx context.Context, id uuid.UUID, title, body *string) (*domain.Post, error) {
	const query = `
        UPDATE posts
        SET title = COALESCE($2, title),
            body = COALESCE($3, body),
            updated_at = NOW()
        WHERE id = $1
        RETURNING ` + postColumns

	post, err := scanPost(r.db.QueryRow(ctx, query, id, title, body))
	if err != nil {
		return nil, mapWriteError(err)
	}
	return post, nil
}

func (r *postRepository) DeletePost(ctx context.Context, id uuid.UUID) (bool, error) {
	cmd, err := r.db.Exec(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete post: %w", err)
	}
	return cmd.RowsAffected() > 0, nil
}

func (r *postRepository) list(ctx context.Context, query string, args ...any) ([]domain.Post, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	defer rows.Close()

	var posts []domain.Post
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, *post)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	return posts, nil
}

func scanPost(row pgx.Row) (*domain.Post, error) {
	var post domain.Post
	if err := row.Scan(
		&post.ID,
		&post.UserID,
		&post.Title,
		&post.Body,
		&post.CreatedAt,
		&post.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan post: %w", err)
	}
	return &post, nil
}
