package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ByIDSpecification struct {
	ID uuid.UUID
}

func (s *ByIDSpecification) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("id = ?", s.ID)
}

func ByID(id uuid.UUID) Specification {
	return &ByIDSpecification{ID: id}
}

type OrderBySpecification struct {
	Field     string
	Direction string
}

func (s *OrderBySpecification) Apply(db *gorm.DB) *gorm.DB {
	return db.Order(s.Field + " " + s.Direction)
}

func OrderBy(field, direction string) Specification {
	return &OrderBySpecification{Field: field, Direction: direction}
}

type LimitSpecification struct {
	Limit int
}

func (s *LimitSpecification) Apply(db *gorm.DB) *gorm.DB {
	return db.Limit(s.Limit)
}

func Limit(limit int) Specification {
	return &LimitSpecification{Limit: limit}
}

type FilterSpecification struct {
	Field string
	Value interface{}
}

func (s *FilterSpecification) Apply(db *gorm.DB) *gorm.DB {
	return db.Where(s.Field+" = ?", s.Value)
}

func FilterBy(field string, value interface{}) Specification {
	return &FilterSpecification{Field: field, Value: value}
}

// LockForUpdateSpecification acquires a row lock for the duration of the
// surrounding transaction.
type LockForUpdateSpecification struct{}

func (s *LockForUpdateSpecification) Apply(db *gorm.DB) *gorm.DB {
	return db.Clauses(clause.Locking{Strength: "UPDATE"})
}

func LockForUpdate() Specification {
	return &LockForUpdateSpecification{}
}
