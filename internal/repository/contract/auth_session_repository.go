package contract

import (
	"context"
	"time"

	"ai-uigen-be/internal/entity"
	"ai-uigen-be/internal/repository/specification"

	"github.com/google/uuid"
)

type AuthSessionRepository interface {
	Create(ctx context.Context, session *entity.AuthSession) error
	Update(ctx context.Context, session *entity.AuthSession) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteExpiredBefore(ctx context.Context, cutoff time.Time) (int64, error)
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.AuthSession, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.AuthSession, error)
}
