package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Message struct {
	Id             uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ConversationId uuid.UUID      `gorm:"type:uuid;not null;index:idx_messages_conversation_created,priority:1"`
	Role           string         `gorm:"type:varchar(20);not null"`
	Type           string         `gorm:"type:varchar(20);not null;default:'text'"`
	Data           datatypes.JSON `gorm:"type:jsonb;not null"`
	Version        int            `gorm:"not null"` // strictly increasing per conversation
	IsEdited       bool           `gorm:"default:false"`
	CreatedAt      time.Time      `gorm:"autoCreateTime;index:idx_messages_conversation_created,priority:2,sort:desc"`
}

func (Message) TableName() string {
	return "messages"
}
