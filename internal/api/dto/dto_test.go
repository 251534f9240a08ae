package dto

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/posts-service/internal/domain"
	apperrors "github.com/spec-kit/posts-service/pkg/util"
)

func validationMessage(t *testing.T, err error) string {
	t.Helper()
	var de *apperrors.DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, http.StatusBadRequest, de.HTTPStatus)
	return de.Message
}

func TestRegisterRequestValidation(t *testing.T) {
	ok := RegisterRequest{Name: "alice-smith", Email: "alice@example.com", Password: "secret1", ConfirmPassword: "secret1"}
	assert.NoError(t, Validate(ok))

	mismatch := ok
	mismatch.ConfirmPassword = "secret2"
	assert.Equal(t, "confirm_password: Passwords do not match", validationMessage(t, Validate(mismatch)))

	bad := RegisterRequest{Name: "al", Email: "not-an-email", Password: "123", ConfirmPassword: "123"}
	msg := validationMessage(t, Validate(bad))
	assert.Contains(t, msg, "name: must be at least 5 characters long")
	assert.Contains(t, msg, "email: must be a valid email address")
	assert.Contains(t, msg, "password: must be at least 6 characters long")
	assert.Contains(t, msg, "; ")
}

func TestUpdateUserRequestOptionalFields(t *testing.T) {
	assert.NoError(t, Validate(UpdateUserRequest{}))

	short := "123"
	assert.Equal(t, "password: must be at least 6 characters long", validationMessage(t, Validate(UpdateUserRequest{Password: &short})))
}

func TestUpdateRoleRequest(t *testing.T) {
	assert.NoError(t, Validate(UpdateRoleRequest{Role: "admin"}))
	assert.Equal(t, "role: must be one of: admin user", validationMessage(t, Validate(UpdateRoleRequest{Role: "root"})))
}

func TestPostRequests(t *testing.T) {
	assert.NoError(t, Validate(CreatePostRequest{Title: "Hello", Body: "twenty characters!!!"}))

	msg := validationMessage(t, Validate(CreatePostRequest{Title: "Hi", Body: "short"}))
	assert.Equal(t, "title: must be at least 5 characters long; body: must be at least 20 characters long", msg)
}

func TestPageQuery(t *testing.T) {
	q := NewPageQuery()
	assert.Equal(t, 1, q.Page)
	assert.Equal(t, 10, q.Limit)
	assert.NoError(t, Validate(q))

	assert.Equal(t, "limit: must be at most 50", validationMessage(t, Validate(PageQuery{Page: 1, Limit: 51})))
	assert.Equal(t, "page: must be at least 1", validationMessage(t, Validate(PageQuery{Page: 0, Limit: 10})))
}

func TestSummariesOmitPasswordHash(t *testing.T) {
	list := NewUserListResponse(nil, 0, 1, 10)
	assert.NotNil(t, list.Users)

	summary := NewUserSummary(domain.User{Name: "alice-smith", PasswordHash: "secret-hash"})
	assert.Equal(t, "alice-smith", summary.Name)
}
