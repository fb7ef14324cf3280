package model

import (
	"time"

	"github.com/google/uuid"
)

type Quota struct {
	Id         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId     uuid.UUID `gorm:"type:uuid;uniqueIndex;not null"`
	DailyLimit int       `gorm:"not null"`
	UsedToday  int       `gorm:"not null;default:0"`
	ResetAt    time.Time `gorm:"not null"` // next UTC midnight
	CreatedAt  time.Time `gorm:"autoCreateTime"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime"`
}

func (Quota) TableName() string {
	return "quotas"
}
