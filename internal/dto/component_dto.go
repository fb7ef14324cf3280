package dto

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type CreateComponentRequest struct {
	ConversationId uuid.UUID       `json:"conversation_id" validate:"required"`
	MessageId      *uuid.UUID      `json:"message_id"`
	Type           string          `json:"type" validate:"omitempty,oneof=component page"`
	Data           json.RawMessage `json:"data" validate:"required"`
}

type UpdateComponentRequest struct {
	Id   uuid.UUID
	Data json.RawMessage `json:"data" validate:"required"`
}

type ComponentResponse struct {
	Id             uuid.UUID       `json:"id"`
	ConversationId uuid.UUID       `json:"conversation_id"`
	MessageId      *uuid.UUID      `json:"message_id"`
	Type           string          `json:"type"`
	Data           json.RawMessage `json:"data"`
	IsCurrent      bool            `json:"is_current"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      *time.Time      `json:"updated_at"`
}
