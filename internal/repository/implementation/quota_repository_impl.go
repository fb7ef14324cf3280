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
	"gorm.io/gorm/clause"
)

type QuotaRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.QuotaMapper
}

func NewQuotaRepository(db *gorm.DB) contract.QuotaRepository {
	return &QuotaRepositoryImpl{
		db:     db,
		mapper: mapper.NewQuotaMapper(),
	}
}

func (r *QuotaRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *QuotaRepositoryImpl) Create(ctx context.Context, quota *entity.Quota) error {
	m := r.mapper.ToModel(quota)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*quota = *r.mapper.ToEntity(m)
	return nil
}

func (r *QuotaRepositoryImpl) Update(ctx context.Context, quota *entity.Quota) error {
	m := r.mapper.ToModel(quota)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*quota = *r.mapper.ToEntity(m)
	return nil
}

func (r *QuotaRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Quota, error) {
	var m model.Quota
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *QuotaRepositoryImpl) FindOneForUpdate(ctx context.Context, specs ...specification.Specification) (*entity.Quota, error) {
	var m model.Quota
	query := r.applySpecifications(r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}
