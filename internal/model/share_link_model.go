package model

import (
	"time"

	"github.com/google/uuid"
)

type ShareLink struct {
	Id         uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SnapshotId uuid.UUID  `gorm:"type:uuid;not null;index"`
	Slug       string     `gorm:"type:varchar(32);uniqueIndex:share_links_slug_idx;not null"`
	ExpiresAt  *time.Time
	RevokedAt  *time.Time
	ViewCount  int       `gorm:"default:0"`
	CreatedAt  time.Time `gorm:"autoCreateTime"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime"`
}

func (ShareLink) TableName() string {
	return "share_links"
}
