package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestQuotaWindowExpired(t *testing.T) {
	now := time.Now().UTC()

	fresh := Quota{ResetAt: now.Add(time.Hour)}
	assert.False(t, fresh.WindowExpired(now))

	stale := Quota{ResetAt: now.Add(-time.Minute)}
	assert.True(t, stale.WindowExpired(now))

	boundary := Quota{ResetAt: now}
	assert.False(t, boundary.WindowExpired(now))
}
