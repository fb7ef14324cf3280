package dto

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type PublishShareRequest struct {
	ComponentId uuid.UUID  `json:"component_id" validate:"required"`
	ExpiresAt   *time.Time `json:"expires_at"`
}

type ShareLinkResponse struct {
	Id        uuid.UUID  `json:"id"`
	Slug      string     `json:"slug"`
	ExpiresAt *time.Time `json:"expires_at"`
	RevokedAt *time.Time `json:"revoked_at"`
	ViewCount int        `json:"view_count"`
	CreatedAt time.Time  `json:"created_at"`
}

type SharedViewResponse struct {
	Slug      string          `json:"slug"`
	Type      string          `json:"type"`
	Data      json.RawMessage `json:"data"`
	CreatedAt time.Time       `json:"created_at"`
}
