package dto

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type CreateConversationRequest struct {
	Title *string `json:"title" validate:"omitempty,max=255"`
}

type UpdateConversationRequest struct {
	Id       uuid.UUID
	Title    *string `json:"title" validate:"omitempty,max=255"`
	IsActive *bool   `json:"is_active"`
}

type ConversationResponse struct {
	Id        uuid.UUID  `json:"id"`
	Title     *string    `json:"title"`
	IsActive  bool       `json:"is_active"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at"`
}

type ListQuery struct {
	Cursor     string `query:"cursor"`
	Limit      int    `query:"limit"`
	ActiveOnly bool   `query:"active_only"`
}

type MessageResponse struct {
	Id             uuid.UUID       `json:"id"`
	ConversationId uuid.UUID       `json:"conversation_id"`
	Role           string          `json:"role"`
	Type           string          `json:"type"`
	Data           json.RawMessage `json:"data"`
	Version        int             `json:"version"`
	IsEdited       bool            `json:"is_edited"`
	CreatedAt      time.Time       `json:"created_at"`
}

type CreateMessageRequest struct {
	ConversationId uuid.UUID
	Role           string          `json:"role" validate:"required,oneof=user assistant"`
	Type           string          `json:"type" validate:"omitempty,oneof=text jsx page image code"`
	Data           json.RawMessage `json:"data" validate:"required"`
}

type UpdateMessageRequest struct {
	Id   uuid.UUID
	Data json.RawMessage `json:"data" validate:"required"`
}
