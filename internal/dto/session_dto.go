package dto

import (
	"time"

	"github.com/google/uuid"
)

type SessionListQuery struct {
	ActiveOnly bool `query:"active_only"`
}

type UpdateSessionRequest struct {
	Id         uuid.UUID
	DeviceInfo *string `json:"device_info" validate:"omitempty,max=255"`
	IsActive   *bool   `json:"is_active"`
}

type RevokeOthersRequest struct {
	ExceptSessionId *uuid.UUID `json:"except_session_id"`
}

type RevokeOthersResponse struct {
	Revoked int `json:"revoked"`
}

type SessionResponse struct {
	Id         uuid.UUID `json:"id"`
	UserId     uuid.UUID `json:"user_id"`
	DeviceInfo *string   `json:"device_info"`
	IsActive   bool      `json:"is_active"`
	ExpiresAt  time.Time `json:"expires_at"`
	CreatedAt  time.Time `json:"created_at"`
}
