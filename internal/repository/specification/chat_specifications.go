package specification

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ByConversationIDSpecification struct {
	ConversationID uuid.UUID
}

func (s *ByConversationIDSpecification) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("conversation_id = ?", s.ConversationID)
}

func ByConversationID(id uuid.UUID) Specification {
	return &ByConversationIDSpecification{ConversationID: id}
}

// CreatedBeforeSpecification filters rows strictly older than the cursor
// position. The id column breaks ties between rows sharing a timestamp.
type CreatedBeforeSpecification struct {
	Time time.Time
	ID   uuid.UUID
}

func (s *CreatedBeforeSpecification) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("(created_at, id) < (?, ?)", s.Time, s.ID)
}

func CreatedBefore(t time.Time, id uuid.UUID) Specification {
	return &CreatedBeforeSpecification{Time: t, ID: id}
}

type CurrentOnlySpecification struct{}

func (s *CurrentOnlySpecification) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("is_current = ?", true)
}

func CurrentOnly() Specification {
	return &CurrentOnlySpecification{}
}
