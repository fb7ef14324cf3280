package implementation

import (
	"context"
	"errors"
	"time"

	"ai-uigen-be/internal/entity"
	"ai-uigen-be/internal/mapper"
	"ai-uigen-be/internal/model"
	"ai-uigen-be/internal/repository/contract"
	"ai-uigen-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AuthSessionRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.UserMapper
}

func NewAuthSessionRepository(db *gorm.DB) contract.AuthSessionRepository {
	return &AuthSessionRepositoryImpl{
		db:     db,
		mapper: mapper.NewUserMapper(),
	}
}

func (r *AuthSessionRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *AuthSessionRepositoryImpl) Create(ctx context.Context, session *entity.AuthSession) error {
	m := r.mapper.SessionToModel(session)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*session = *r.mapper.SessionToEntity(m)
	return nil
}

func (r *AuthSessionRepositoryImpl) Update(ctx context.Context, session *entity.AuthSession) error {
	m := r.mapper.SessionToModel(session)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*session = *r.mapper.SessionToEntity(m)
	return nil
}

func (r *AuthSessionRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.AuthSession{}, id).Error
}

func (r *AuthSessionRepositoryImpl) DeleteExpiredBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Where("expires_at < ?", cutoff).Delete(&model.AuthSession{})
	return res.RowsAffected, res.Error
}

func (r *AuthSessionRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.AuthSession, error) {
	var m model.AuthSession
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.SessionToEntity(&m), nil
}

func (r *AuthSessionRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.AuthSession, error) {
	var models []*model.AuthSession
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.AuthSession, len(models))
	for i, m := range models {
		entities[i] = r.mapper.SessionToEntity(m)
	}
	return entities, nil
}
