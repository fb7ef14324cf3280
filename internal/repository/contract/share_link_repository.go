package contract

import (
	"context"

	"ai-uigen-be/internal/entity"
	"ai-uigen-be/internal/repository/specification"

	"github.com/google/uuid"
)

type ShareLinkRepository interface {
	Create(ctx context.Context, link *entity.ShareLink) error
	Update(ctx context.Context, link *entity.ShareLink) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ShareLink, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ShareLink, error)
	// IncrementViewCount bumps the counter atomically in SQL.
	IncrementViewCount(ctx context.Context, id uuid.UUID) error
}
