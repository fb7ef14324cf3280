package specification

import "gorm.io/gorm"

// Specification narrows a query before it executes. Implementations are
// composable and applied in order by the repositories.
type Specification interface {
	Apply(db *gorm.DB) *gorm.DB
}
