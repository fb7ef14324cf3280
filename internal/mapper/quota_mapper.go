package mapper

import (
	"time"

	"ai-uigen-be/internal/entity"
	"ai-uigen-be/internal/model"
)

type QuotaMapper struct{}

func NewQuotaMapper() *QuotaMapper {
	return &QuotaMapper{}
}

func (m *QuotaMapper) ToEntity(q *model.Quota) *entity.Quota {
	if q == nil {
		return nil
	}

	var updatedAt *time.Time
	if !q.UpdatedAt.IsZero() {
		t := q.UpdatedAt
		updatedAt = &t
	}

	return &entity.Quota{
		Id:         q.Id,
		UserId:     q.UserId,
		DailyLimit: q.DailyLimit,
		UsedToday:  q.UsedToday,
		ResetAt:    q.ResetAt,
		CreatedAt:  q.CreatedAt,
		UpdatedAt:  updatedAt,
	}
}

func (m *QuotaMapper) ToModel(q *entity.Quota) *model.Quota {
	if q == nil {
		return nil
	}

	var updatedAt time.Time
	if q.UpdatedAt != nil {
		updatedAt = *q.UpdatedAt
	}

	return &model.Quota{
		Id:         q.Id,
		UserId:     q.UserId,
		DailyLimit: q.DailyLimit,
		UsedToday:  q.UsedToday,
		ResetAt:    q.ResetAt,
		CreatedAt:  q.CreatedAt,
		UpdatedAt:  updatedAt,
	}
}
