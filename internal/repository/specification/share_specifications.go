package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BySlugSpecification struct {
	Slug string
}

func (s *BySlugSpecification) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("slug = ?", s.Slug)
}

func BySlug(slug string) Specification {
	return &BySlugSpecification{Slug: slug}
}

type BySnapshotIDsSpecification struct {
	SnapshotIDs []uuid.UUID
}

func (s *BySnapshotIDsSpecification) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("snapshot_id IN ?", s.SnapshotIDs)
}

func BySnapshotIDs(ids []uuid.UUID) Specification {
	return &BySnapshotIDsSpecification{SnapshotIDs: ids}
}
