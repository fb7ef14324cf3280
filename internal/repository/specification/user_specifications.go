package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ByEmailSpecification struct {
	Email string
}

func (s *ByEmailSpecification) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("email = ?", s.Email)
}

func ByEmail(email string) Specification {
	return &ByEmailSpecification{Email: email}
}

type UserOwnedBySpecification struct {
	UserID uuid.UUID
}

func (s *UserOwnedBySpecification) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("user_id = ?", s.UserID)
}

func UserOwnedBy(userID uuid.UUID) Specification {
	return &UserOwnedBySpecification{UserID: userID}
}

type ActiveSessionsSpecification struct{}

func (s *ActiveSessionsSpecification) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("is_active = ?", true)
}

func ActiveSessions() Specification {
	return &ActiveSessionsSpecification{}
}
