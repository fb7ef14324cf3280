package entity

import (
	"time"

	"github.com/google/uuid"
)

type ComponentType string

const (
	ComponentTypeComponent ComponentType = "component"
	ComponentTypePage      ComponentType = "page"
)

type Component struct {
	Id             uuid.UUID
	ConversationId uuid.UUID
	MessageId      *uuid.UUID
	Type           ComponentType
	Data           []byte
	IsCurrent      bool
	CreatedAt      time.Time
	UpdatedAt      *time.Time
}

type Snapshot struct {
	Id             uuid.UUID
	OwnerId        uuid.UUID
	ConversationId uuid.UUID
	ComponentId    uuid.UUID
	Data           []byte
	CreatedAt      time.Time
}

type ShareLink struct {
	Id         uuid.UUID
	SnapshotId uuid.UUID
	Slug       string
	ExpiresAt  *time.Time
	RevokedAt  *time.Time
	ViewCount  int
	CreatedAt  time.Time
	UpdatedAt  *time.Time
}

// Viewable reports whether the link can still be served publicly.
// Expiry is computed at read time, never stored as a state.
func (l *ShareLink) Viewable(now time.Time) bool {
	if l.RevokedAt != nil {
		return false
	}
	if l.ExpiresAt != nil && now.After(*l.ExpiresAt) {
		return false
	}
	return true
}
