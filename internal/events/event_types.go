package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/posts-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventUserRegistered  EventType = "user_registered"
	EventUserLoggedIn    EventType = "user_logged_in"
	EventUserRoleChanged EventType = "user_role_changed"
	EventUserDeleted     EventType = "user_deleted"
)

// AccountEventTypes lists every account event, in a stable order.
var AccountEventTypes = []EventType{
	EventUserRegistered,
	EventUserLoggedIn,
	EventUserRoleChanged,
	EventUserDeleted,
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        uuid.UUID  `json:"id"`
	Type      EventType  `json:"type"`
	UserID    uuid.UUID  `json:"user_id"`
	ActorID   *uuid.UUID `json:"actor_id,omitempty"`
	Timestamp time.Time  `json:"timestamp"`
	Payload   any        `json:"payload,omitempty"`
}

// NewEvent stamps a new event about userID. actor is nil when the user acts
// on their own account.
func NewEvent(eventType EventType, userID uuid.UUID, actor *uuid.UUID, payload any) Event {
	return Event{
		ID:        uuid.New(),
		Type:      eventType,
		UserID:    userID,
		ActorID:   actor,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	}
}

// UserRegisteredPayload payload.
type UserRegisteredPayload struct {
	Email string `json:"email"`
}

// UserRoleChangedPayload payload.
type UserRoleChangedPayload struct {
	NewRole domain.Role `json:"new_role"`
}
