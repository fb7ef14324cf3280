package implementation

import (
	"context"
	"errors"

	"ai-uigen-be/internal/entity"
	"ai-uigen-be/internal/mapper"
	"ai-uigen-be/internal/model"
	"ai-uigen-be/internal/repository/contract"
	"ai-uigen-be/internal/repository/specification"

	"gorm.io/gorm"
)

type SnapshotRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ComponentMapper
}

func NewSnapshotRepository(db *gorm.DB) contract.SnapshotRepository {
	return &SnapshotRepositoryImpl{
		db:     db,
		mapper: mapper.NewComponentMapper(),
	}
}

func (r *SnapshotRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *SnapshotRepositoryImpl) Create(ctx context.Context, snapshot *entity.Snapshot) error {
	m := r.mapper.SnapshotToModel(snapshot)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*snapshot = *r.mapper.SnapshotToEntity(m)
	return nil
}

func (r *SnapshotRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Snapshot, error) {
	var m model.Snapshot
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.SnapshotToEntity(&m), nil
}

func (r *SnapshotRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Snapshot, error) {
	var models []*model.Snapshot
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.Snapshot, len(models))
	for i, m := range models {
		entities[i] = r.mapper.SnapshotToEntity(m)
	}
	return entities, nil
}
