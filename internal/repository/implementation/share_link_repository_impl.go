package implementation

import (
	"context"
	"errors"

	"ai-uigen-be/internal/entity"
	"ai-uigen-be/internal/mapper"
	"ai-uigen-be/internal/model"
	"ai-uigen-be/internal/repository/contract"
	"ai-uigen-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ShareLinkRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ComponentMapper
}

func NewShareLinkRepository(db *gorm.DB) contract.ShareLinkRepository {
	return &ShareLinkRepositoryImpl{
		db:     db,
		mapper: mapper.NewComponentMapper(),
	}
}

func (r *ShareLinkRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *ShareLinkRepositoryImpl) Create(ctx context.Context, link *entity.ShareLink) error {
	m := r.mapper.ShareLinkToModel(link)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*link = *r.mapper.ShareLinkToEntity(m)
	return nil
}

func (r *ShareLinkRepositoryImpl) Update(ctx context.Context, link *entity.ShareLink) error {
	m := r.mapper.ShareLinkToModel(link)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*link = *r.mapper.ShareLinkToEntity(m)
	return nil
}

func (r *ShareLinkRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ShareLink, error) {
	var m model.ShareLink
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ShareLinkToEntity(&m), nil
}

func (r *ShareLinkRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ShareLink, error) {
	var models []*model.ShareLink
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.ShareLink, len(models))
	for i, m := range models {
		entities[i] = r.mapper.ShareLinkToEntity(m)
	}
	return entities, nil
}

func (r *ShareLinkRepositoryImpl) IncrementViewCount(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.ShareLink{}).
		Where("id = ?", id).
		Update("view_count", gorm.Expr("view_count + 1")).Error
}
