package entity

import (
	"time"

	"github.com/google/uuid"
)

type MessageRole string
type MessageType string

const (
	MessageRoleUser      MessageRole = "user"
	MessageRoleAssistant MessageRole = "assistant"

	MessageTypeText  MessageType = "text"
	MessageTypeJSX   MessageType = "jsx"
	MessageTypePage  MessageType = "page"
	MessageTypeImage MessageType = "image"
	MessageTypeCode  MessageType = "code"
)

type Conversation struct {
	Id        uuid.UUID
	UserId    uuid.UUID
	Title     *string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt *time.Time
	DeletedAt *time.Time
	IsDeleted bool
}

type Message struct {
	Id             uuid.UUID
	ConversationId uuid.UUID
	Role           MessageRole
	Type           MessageType
	Data           []byte // opaque JSON payload
	Version        int
	IsEdited       bool
	CreatedAt      time.Time
}
