package entity

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	Id           uuid.UUID
	Email        string
	PasswordHash string
	Name         string
	IsVerified   bool
	CreatedAt    time.Time
	UpdatedAt    *time.Time
}

type AuthSession struct {
	Id           uuid.UUID
	UserId       uuid.UUID
	RefreshToken string
	ExpiresAt    time.Time
	DeviceInfo   *string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    *time.Time
}

func (s *AuthSession) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}
