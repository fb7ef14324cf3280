package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Component struct {
	Id             uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ConversationId uuid.UUID      `gorm:"type:uuid;not null;index"`
	MessageId      *uuid.UUID     `gorm:"type:uuid;index"`
	Type           string         `gorm:"type:varchar(50);not null;default:'component'"`
	Data           datatypes.JSON `gorm:"type:jsonb;not null"`
	IsCurrent      bool           `gorm:"default:true"` // one current component per conversation
	CreatedAt      time.Time      `gorm:"autoCreateTime"`
	UpdatedAt      time.Time      `gorm:"autoUpdateTime"`
}

func (Component) TableName() string {
	return "components"
}
