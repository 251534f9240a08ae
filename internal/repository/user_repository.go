package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/posts-service/internal/domain"
)

// UserRepository is the storage collaborator for accounts.
type UserRepository interface {
	// GetUser matches on ID, then Name, then Email. An empty filter matches nothing.
	GetUser(ctx context.Context, filter domain.UserFilter) (*domain.User, error)
	GetUsers(ctx context.Context, page, limit int) ([]domain.User, error)
	GetUserCount(ctx context.Context) (int64, error)
	CreateUser(ctx context.Context, name, email, passwordHash string) (*domain.User, error)
	// UpdateUser changes only the non-nil fields.
	UpdateUser(ctx context.Context, id uuid.UUID, email, passwordHash *string) (*domain.User, error)
	UpdateUserRole(ctx context.Context, id uuid.UUID, role domain.Role) (*domain.User, error)
	DeleteUser(ctx context.Context, id uuid.UUID) (bool, error)
}

type userRepository struct {
	db DB
}

// NewUserRepository returns a Postgres-backed implementation.
func NewUserRepository(db DB) UserRepository {
	return &userRepository{db: db}
}

const userColumns = `id, name, email, password, role, created_at, updated_at`

func (r *userRepository) GetUser(ctx context.Context, filter domain.UserFilter) (*domain.User, error) {
	if filter.Empty() {
		return nil, ErrNotFound
	}

	var (
		query string
		arg   any
	)
	switch {
	case filter.ID != nil:
		query, arg = `SELECT `+userColumns+` FROM users WHERE id = $1`, *filter.ID
	case filter.Name != nil:
		query, arg = `SELECT `+userColumns+` FROM users WHERE name = $1`, *filter.Name
	default:
		query, arg = `SELECT `+userColumns+` FROM users WHERE email = $1`, *filter.Email
	}

	user, err := scanUser(r.db.QueryRow(ctx, query, arg))
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (r *userRepository) GetUsers(ctx context.Context, page, limit int) ([]domain.User, error) {
	const query = `
        SELECT ` + userColumns + `
        FROM users
        ORDER BY created_at DESC
        LIMIT $1 OFFSET $2`

	rows, err := r.db.Query(ctx, query, limit, offset(page, limit))
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	users := make([]domain.User, 0, limit)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

func (r *userRepository) GetUserCount(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return count, nil
}

func (r *userRepository) CreateUser(ctx context.Context, name, email, passwordHash string) (*domain.User, error) {
	const query = `
        INSERT INTO users (name, email, password)
        VALUES ($1, $2, $3)
        RETURNING ` + userColumns

	user, err := scanUser(r.db.QueryRow(ctx, query, name, email, passwordHash))
	if err != nil {
		return nil, mapWriteError(err)
	}
	return user, nil
}

func (r *userRepository) UpdateUser(ctx context.Context, id uuid.UUID, email, passwordHash *string) (*domain.User, error) {
	const query = `
        UPDATE users
        SET email = COALESCE($1, email),
            password = COALESCE($2, password),
            updated_at = NOW()
        WHERE id = $3
        RETURNING ` + userColumns

	user, err := scanUser(r.db.QueryRow(ctx, query, email, passwordHash, id))
	if err != nil {
		return nil, mapWriteError(err)
	}
	return user, nil
}

func (r *userRepository) UpdateUserRole(ctx context.Context, id uuid.UUID, role domain.Role) (*domain.User, error) {
	const query = `
        UPDATE users
        SET role = $1::user_role, updated_at = NOW()
        WHERE id = $2
        RETURNING ` + userColumns

	user, err := scanUser(r.db.QueryRow(ctx, query, string(role), id))
	if err != nil {
		return nil, mapWriteError(err)
	}
	return user, nil
}

func (r *userRepository) DeleteUser(ctx context.Context, id uuid.UUID) (bool, error) {
	cmd, err := r.db.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete user: %w", err)
	}
	return cmd.RowsAffected() > 0, nil
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var user domain.User
	if err := row.Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&user.Role,
		&user.CreatedAt,
		&user.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}
	return &user, nil
}
