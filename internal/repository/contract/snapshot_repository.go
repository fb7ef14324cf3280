package contract

import (
	"context"

	"ai-uigen-be/internal/entity"
	"ai-uigen-be/internal/repository/specification"
)

// SnapshotRepository has no Update. Snapshots are written once at publish
// time and only ever read after that.
type SnapshotRepository interface {
	Create(ctx context.Context, snapshot *entity.Snapshot) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Snapshot, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Snapshot, error)
}
