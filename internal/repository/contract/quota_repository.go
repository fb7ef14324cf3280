package contract

import (
	"context"

	"ai-uigen-be/internal/entity"
	"ai-uigen-be/internal/repository/specification"
)

type QuotaRepository interface {
	Create(ctx context.Context, quota *entity.Quota) error
	Update(ctx context.Context, quota *entity.Quota) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Quota, error)
	// FindOneForUpdate locks the row until the surrounding transaction ends.
	// Must be called inside a unit of work.
	FindOneForUpdate(ctx context.Context, specs ...specification.Specification) (*entity.Quota, error)
}
