package unitofwork

import (
	"context"

	"ai-uigen-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	UserRepository() contract.UserRepository
	AuthSessionRepository() contract.AuthSessionRepository
	ConversationRepository() contract.ConversationRepository
	MessageRepository() contract.MessageRepository
	ComponentRepository() contract.ComponentRepository
	SnapshotRepository() contract.SnapshotRepository
	ShareLinkRepository() contract.ShareLinkRepository
	QuotaRepository() contract.QuotaRepository
}
