package entity

import (
	"time"

	"github.com/google/uuid"
)

type Quota struct {
	Id         uuid.UUID
	UserId     uuid.UUID
	DailyLimit int
	UsedToday  int
	ResetAt    time.Time
	CreatedAt  time.Time
	UpdatedAt  *time.Time
}

// WindowExpired reports whether the daily window has rolled over.
func (q *Quota) WindowExpired(now time.Time) bool {
	return now.After(q.ResetAt)
}
