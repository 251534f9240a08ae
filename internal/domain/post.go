package domain

import (
	"time"

	"github.com/google/uuid"
)

// Post is a short article owned by a user.
type Post struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Title     string
	Body      string
	CreatedAt time.Time
	UpdatedAt time.Time
}
