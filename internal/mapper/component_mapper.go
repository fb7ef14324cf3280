package mapper

import (
	"time"

	"ai-uigen-be/internal/entity"
	"ai-uigen-be/internal/model"

	"gorm.io/datatypes"
)

type ComponentMapper struct{}

func NewComponentMapper() *ComponentMapper {
	return &ComponentMapper{}
}

func (m *ComponentMapper) ToEntity(c *model.Component) *entity.Component {
	if c == nil {
		return nil
	}

	var updatedAt *time.Time
	if !c.UpdatedAt.IsZero() {
		t := c.UpdatedAt
		updatedAt = &t
	}

	return &entity.Component{
		Id:             c.Id,
		ConversationId: c.ConversationId,
		MessageId:      c.MessageId,
		Type:           entity.ComponentType(c.Type),
		Data:           []byte(c.Data),
		IsCurrent:      c.IsCurrent,
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      updatedAt,
	}
}

func (m *ComponentMapper) ToModel(c *entity.Component) *model.Component {
	if c == nil {
		return nil
	}

	var updatedAt time.Time
	if c.UpdatedAt != nil {
		updatedAt = *c.UpdatedAt
	}

	return &model.Component{
		Id:             c.Id,
		ConversationId: c.ConversationId,
		MessageId:      c.MessageId,
		Type:           string(c.Type),
		Data:           datatypes.JSON(c.Data),
		IsCurrent:      c.IsCurrent,
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      updatedAt,
	}
}

func (m *ComponentMapper) SnapshotToEntity(s *model.Snapshot) *entity.Snapshot {
	if s == nil {
		return nil
	}

	return &entity.Snapshot{
		Id:             s.Id,
		OwnerId:        s.OwnerId,
		ConversationId: s.ConversationId,
		ComponentId:    s.ComponentId,
		Data:           []byte(s.Data),
		CreatedAt:      s.CreatedAt,
	}
}

func (m *ComponentMapper) SnapshotToModel(s *entity.Snapshot) *model.Snapshot {
	if s == nil {
		return nil
	}

	return &model.Snapshot{
		Id:             s.Id,
		OwnerId:        s.OwnerId,
		ConversationId: s.ConversationId,
		ComponentId:    s.ComponentId,
		Data:           datatypes.JSON(s.Data),
		CreatedAt:      s.CreatedAt,
	}
}

func (m *ComponentMapper) ShareLinkToEntity(l *model.ShareLink) *entity.ShareLink {
	if l == nil {
		return nil
	}

	var updatedAt *time.Time
	if !l.UpdatedAt.IsZero() {
		t := l.UpdatedAt
		updatedAt = &t
	}

	return &entity.ShareLink{
		Id:         l.Id,
		SnapshotId: l.SnapshotId,
		Slug:       l.Slug,
		ExpiresAt:  l.ExpiresAt,
		RevokedAt:  l.RevokedAt,
		ViewCount:  l.ViewCount,
		CreatedAt:  l.CreatedAt,
		UpdatedAt:  updatedAt,
	}
}

func (m *ComponentMapper) ShareLinkToModel(l *entity.ShareLink) *model.ShareLink {
	if l == nil {
		return nil
	}

	var updatedAt time.Time
	if l.UpdatedAt != nil {
		updatedAt = *l.UpdatedAt
	}

	return &model.ShareLink{
		Id:         l.Id,
		SnapshotId: l.SnapshotId,
		Slug:       l.Slug,
		ExpiresAt:  l.ExpiresAt,
		RevokedAt:  l.RevokedAt,
		ViewCount:  l.ViewCount,
		CreatedAt:  l.CreatedAt,
		UpdatedAt:  updatedAt,
	}
}
