package service

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/spec-kit/posts-service/internal/auth"
	"github.com/spec-kit/posts-service/internal/domain"
	"github.com/spec-kit/posts-service/internal/repository"
)

type stubUserRepo struct {
	getUser        func(ctx context.Context, filter domain.UserFilter) (*domain.User, error)
	getUsers       func(ctx context.Context, page, limit int) ([]domain.User, error)
	getUserCount   func(ctx context.Context) (int64, error)
	createUser     func(ctx context.Context, name, email, passwordHash string) (*domain.User, error)
	updateUser     func(ctx context.Context, id uuid.UUID, email, passwordHash *string) (*domain.User, error)
	updateUserRole func(ctx context.Context, id uuid.UUID, role domain.Role) (*domain.User, error)
	deleteUser     func(ctx context.Context, id uuid.UUID) (bool, error)
}

var errUnexpectedCall = errors.New("unexpected call")

func (s *stubUserRepo) GetUser(ctx context.Context, filter domain.UserFilter) (*domain.User, error) {
	if s.getUser == nil {
		return nil, errUnexpectedCall
	}
	return s.getUser(ctx, filter)
}

func (s *stubUserRepo) GetUsers(ctx context.Context, page, limit int) ([]domain.User, error) {
	if s.getUsers == nil {
		return nil, errUnexpectedCall
	}
	return s.getUsers(ctx, page, limit)
}

func (s *stubUserRepo) GetUserCount(ctx context.Context) (int64, error) {
	if s.getUserCount == nil {
		return 0, errUnexpectedCall
	}
	return s.getUserCount(ctx)
}

func (s *stubUserRepo) CreateUser(ctx context.Context, name, email, passwordHash string) (*domain.User, error) {
	if s.createUser == nil {
		return nil, errUnexpectedCall
	}
	return s.createUser(ctx, name, email, passwordHash)
}

func (s *stubUserRepo) UpdateUser(ctx context.Context, id uuid.UUID, email, passwordHash *string) (*domain.User, error) {
	if s.updateUser == nil {
		return nil, errUnexpectedCall
	}
	return s.updateUser(ctx, id, email, passwordHash)
}

func (s *stubUserRepo) UpdateUserRole(ctx context.Context, id uuid.UUID, role domain.Role) (*domain.User, error) {
	if s.updateUserRole == nil {
		return nil, errUnexpectedCall
	}
	return s.updateUserRole(ctx, id, role)
}

func (s *stubUserRepo) DeleteUser(ctx context.Context, id uuid.UUID) (bool, error) {
	if s.deleteUser == nil {
		return false, errUnexpectedCall
	}
	return s.deleteUser(ctx, id)
}

// usersByEmail answers GetUser from a fixed set keyed by email or id.
func usersByEmail(users ...domain.User) func(context.Context, domain.UserFilter) (*domain.User, error) {
	return func(_ context.Context, filter domain.UserFilter) (*domain.User, error) {
		for _, u := range users {
			if (filter.Email != nil && *filter.Email == u.Email) || (filter.ID != nil && *filter.ID == u.ID) {
				u := u
				return &u, nil
			}
		}
		return nil, repository.ErrNotFound
	}
}

type stubPostRepo struct {
	getPost            func(ctx context.Context, id uuid.UUID) (*domain.Post, error)
	getPosts           func(ctx context.Context, page, limit int) ([]domain.Post, error)
	getPostsByUser     func(ctx context.Context, userID uuid.UUID, page, limit int) ([]domain.Post, error)
	getPostCount       func(ctx context.Context) (int64, error)
	getPostCountByUser func(ctx context.Context, userID uuid.UUID) (int64, error)
	createPost         func(ctx context.Context, userID uuid.UUID, title, body string) (*domain.Post, error)
	updatePost         func(ctx context.Context, id uuid.UUID, title, body *string) (*domain.Post, error)
	deletePost         func(ctx context.Context, id uuid.UUID) (bool, error)
}

func (s *stubPostRepo) GetPost(ctx context.Context, id uuid.UUID) (*domain.Post, error) {
	if s.getPost == nil {
		return nil, errUnexpectedCall
	}
	return s.getPost(ctx, id)
}

func (s *stubPostRepo) GetPosts(ctx context.Context, page, limit int) ([]domain.Post, error) {
	if s.getPosts == nil {
		return nil, errUnexpectedCall
	}
	return s.getPosts(ctx, page, limit)
}

func (s *stubPostRepo) GetPostsByUser(ctx context.Context, userID uuid.UUID, page, limit int) ([]domain.Post, error) {
	if s.getPostsByUser == nil {
		return nil, errUnexpectedCall
	}
	return s.getPostsByUser(ctx, userID, page, limit)
}

func (s *stubPostRepo) GetPostCount(ctx context.Context) (int64, error) {
	if s.getPostCount == nil {
		return 0, errUnexpectedCall
	}
	return s.getPostCount(ctx)
}

func (s *stubPostRepo) GetPostCountByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	if s.getPostCountByUser == nil {
		return 0, errUnexpectedCall
	}
	return s.getPostCountByUser(ctx, userID)
}

func (s *stubPostRepo) CreatePost(ctx context.Context, userID uuid.UUID, title, body string) (*domain.Post, error) {
	if s.createPost == nil {
		return nil, errUnexpectedCall
	}
	return s.createPost(ctx, userID, title, body)
}

func (s *stubPostRepo) UpdatePost(ctx context.Context, id uuid.UUID, title, body *string) (*domain.Post, error) {
	if s.updatePost == nil {
		return nil, errUnexpectedCall
	}
	return s.updatePost(ctx, id, title, body)
}

func (s *stubPostRepo) DeletePost(ctx context.Context, id uuid.UUID) (bool, error) {
	if s.deletePost == nil {
		return false, errUnexpectedCall
	}
	return s.deletePost(ctx, id)
}

// memoryAttempts is an in-process LoginAttemptRepository.
type memoryAttempts struct {
	mu       sync.Mutex
	failures map[string]int64
	err      error
}

func newMemoryAttempts() *memoryAttempts {
	return &memoryAttempts{failures: map[string]int64{}}
}

func (m *memoryAttempts) Failures(_ context.Context, email string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return 0, m.err
	}
	return m.failures[strings.ToLower(email)], nil
}

func (m *memoryAttempts) RecordFailure(_ context.Context, email string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return 0, m.err
	}
	m.failures[strings.ToLower(email)]++
	return m.failures[strings.ToLower(email)], nil
}

func (m *memoryAttempts) Reset(_ context.Context, email string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.failures, strings.ToLower(email))
	return m.err
}

// plainPasswords is a fast PasswordPool applying the real input policy.
type plainPasswords struct {
	hashErr error
}

func (p plainPasswords) Hash(_ context.Context, password string) (string, error) {
	if p.hashErr != nil {
		return "", p.hashErr
	}
	if password == "" {
		return "", auth.ErrEmptyInput
	}
	if len(password) > auth.MaxPasswordLength {
		return "", auth.ErrTooLong
	}
	return "hashed:" + password, nil
}

func (p plainPasswords) Verify(_ context.Context, password, hash string) (bool, error) {
	if password == "" || hash == "" {
		return false, auth.ErrEmptyInput
	}
	return hash == "hashed:"+password, nil
}

type loginCounter map[string]int

func (c loginCounter) RecordLogin(outcome string) { c[outcome]++ }
