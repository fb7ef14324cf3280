package contract

import (
	"context"

	"ai-uigen-be/internal/entity"
	"ai-uigen-be/internal/repository/specification"

	"github.com/google/uuid"
)

type ComponentRepository interface {
	Create(ctx context.Context, component *entity.Component) error
	Update(ctx context.Context, component *entity.Component) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByConversationId(ctx context.Context, conversationId uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Component, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Component, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	// ClearCurrent unsets is_current on every component of the conversation.
	ClearCurrent(ctx context.Context, conversationId uuid.UUID) error
}
