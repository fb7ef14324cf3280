package cache

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Key builders. Every key the application writes is produced here so the
// namespace stays enumerable and invalidation never has to scan patterns.

func SessionKey(sessionId uuid.UUID) string {
	return fmt.Sprintf("session:%s", sessionId)
}

// QuotaKey carries the UTC day so stale counters die with their window.
func QuotaKey(userId uuid.UUID, day time.Time) string {
	return fmt.Sprintf("quota:%s:%s", userId, day.UTC().Format("2006-01-02"))
}

// MessageGenKey holds a per-conversation generation counter. Bumping it
// orphans every cached page of the conversation in O(1).
func MessageGenKey(conversationId uuid.UUID) string {
	return fmt.Sprintf("messages:gen:%s", conversationId)
}

func MessagePageKey(conversationId uuid.UUID, generation int64, cursor string, limit int) string {
	return fmt.Sprintf("messages:page:%s:%d:%s:%d", conversationId, generation, cursor, limit)
}
