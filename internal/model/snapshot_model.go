package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Snapshot is an immutable capture of a component's render data at publish
// time. Rows are never updated after insert.
type Snapshot struct {
	Id             uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OwnerId        uuid.UUID      `gorm:"type:uuid;not null;index"`
	ConversationId uuid.UUID      `gorm:"type:uuid;not null"`
	ComponentId    uuid.UUID      `gorm:"type:uuid;not null"`
	Data           datatypes.JSON `gorm:"type:jsonb;not null"`
	CreatedAt      time.Time      `gorm:"autoCreateTime"`
}

func (Snapshot) TableName() string {
	return "snapshots"
}
