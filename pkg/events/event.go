package events

import (
	"time"

	"github.com/google/uuid"
)

// Event types emitted on the bus.
const (
	TypeUserLogin      = "USER_LOGIN"
	TypeSharePublished = "SHARE_PUBLISHED"
	TypeShareRevoked   = "SHARE_REVOKED"
)

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "USER_LOGIN").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// BaseEvent is the plain implementation most emitters use.
type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

func NewUserLoginEvent(userId uuid.UUID, email string) Event {
	return BaseEvent{
		Type: TypeUserLogin,
		Data: map[string]interface{}{
			"user_id": userId.String(),
			"email":   email,
		},
		OccurredAt: time.Now().UTC(),
	}
}

func NewSharePublishedEvent(ownerId uuid.UUID, slug string) Event {
	return BaseEvent{
		Type: TypeSharePublished,
		Data: map[string]interface{}{
			"owner_id": ownerId.String(),
			"slug":     slug,
		},
		OccurredAt: time.Now().UTC(),
	}
}

func NewShareRevokedEvent(ownerId uuid.UUID, slug string) Event {
	return BaseEvent{
		Type: TypeShareRevoked,
		Data: map[string]interface{}{
			"owner_id": ownerId.String(),
			"slug":     slug,
		},
		OccurredAt: time.Now().UTC(),
	}
}
