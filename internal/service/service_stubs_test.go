package service

import (
	"bytes"
	"context"
	"time"

	"ai-uigen-be/internal/dto"
	"ai-uigen-be/internal/entity"
	"ai-uigen-be/internal/repository/contract"
	"ai-uigen-be/internal/repository/specification"
	"ai-uigen-be/internal/repository/unitofwork"
	"ai-uigen-be/pkg/cache"

	"github.com/google/uuid"
)

// Shared in-memory stand-ins for the repository layer.

type nopLogger struct{}

func (nopLogger) Debug(module, message string, details map[string]interface{}) {}
func (nopLogger) Info(module, message string, details map[string]interface{})  {}
func (nopLogger) Warn(module, message string, details map[string]interface{})  {}
func (nopLogger) Error(module, message string, details map[string]interface{}) {}
func (nopLogger) Sync() error                                                  { return nil }

type nopMailer struct{}

func (nopMailer) SendWelcome(toEmail, name string) error { return nil }

type capturePublisher struct {
	payloads [][]byte
}

func (p *capturePublisher) Publish(ctx context.Context, payload []byte) error {
	p.payloads = append(p.payloads, payload)
	return nil
}

// offlineCache reports redis as unreachable so the database path runs.
type offlineCache struct {
	*cache.MemoryClient
}

func (offlineCache) Available(ctx context.Context) bool { return false }

type stubSessionService struct {
	cached []*entity.AuthSession
}

func (s *stubSessionService) VerifyActive(ctx context.Context, sessionId, userId uuid.UUID) (bool, error) {
	return true, nil
}

func (s *stubSessionService) ListSessions(ctx context.Context, userId uuid.UUID, activeOnly bool) ([]*dto.SessionResponse, error) {
	return nil, nil
}

func (s *stubSessionService) GetSession(ctx context.Context, userId, sessionId uuid.UUID) (*dto.SessionResponse, error) {
	return nil, nil
}

func (s *stubSessionService) UpdateSession(ctx context.Context, userId uuid.UUID, req *dto.UpdateSessionRequest) (*dto.SessionResponse, error) {
	return nil, nil
}

func (s *stubSessionService) RevokeSession(ctx context.Context, userId, sessionId uuid.UUID) error {
	return nil
}

func (s *stubSessionService) RevokeAllExcept(ctx context.Context, userId, exceptId uuid.UUID) (int, error) {
	return 0, nil
}

func (s *stubSessionService) CacheSession(ctx context.Context, session *entity.AuthSession) {
	s.cached = append(s.cached, session)
}

func (s *stubSessionService) DropCachedSession(ctx context.Context, sessionId uuid.UUID) {}

func (s *stubSessionService) CleanupExpired(ctx context.Context) (int64, error) { return 0, nil }

func (s *stubSessionService) StartCleanupLoop(ctx context.Context, interval time.Duration) {}

type stubUserRepo struct {
	users   []*entity.User
	created *entity.User
}

func (r *stubUserRepo) Create(ctx context.Context, user *entity.User) error {
	r.created = user
	r.users = append(r.users, user)
	return nil
}

func (r *stubUserRepo) Update(ctx context.Context, user *entity.User) error { return nil }
func (r *stubUserRepo) Delete(ctx context.Context, id uuid.UUID) error      { return nil }

func (r *stubUserRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.User, error) {
	for _, spec := range specs {
		switch s := spec.(type) {
		case *specification.ByEmailSpecification:
			for _, u := range r.users {
				if u.Email == s.Email {
					return u, nil
				}
			}
			return nil, nil
		case *specification.ByIDSpecification:
			for _, u := range r.users {
				if u.Id == s.ID {
					return u, nil
				}
			}
			return nil, nil
		}
	}
	return nil, nil
}

func (r *stubUserRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.User, error) {
	return r.users, nil
}

func (r *stubUserRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	return int64(len(r.users)), nil
}

type stubAuthSessionRepo struct {
	sessions []*entity.AuthSession
}

func (r *stubAuthSessionRepo) Create(ctx context.Context, session *entity.AuthSession) error {
	r.sessions = append(r.sessions, session)
	return nil
}

func (r *stubAuthSessionRepo) Update(ctx context.Context, session *entity.AuthSession) error {
	return nil
}

func (r *stubAuthSessionRepo) Delete(ctx context.Context, id uuid.UUID) error { return nil }

func (r *stubAuthSessionRepo) DeleteExpiredBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	return 0, nil
}

func (r *stubAuthSessionRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.AuthSession, error) {
	for _, spec := range specs {
		if s, ok := spec.(*specification.ByIDSpecification); ok {
			for _, sess := range r.sessions {
				if sess.Id == s.ID {
					return sess, nil
				}
			}
		}
	}
	return nil, nil
}

func (r *stubAuthSessionRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.AuthSession, error) {
	return r.sessions, nil
}

type stubConversationRepo struct {
	conversation *entity.Conversation
	touched      int
}

func (r *stubConversationRepo) Create(ctx context.Context, conversation *entity.Conversation) error {
	return nil
}

func (r *stubConversationRepo) Update(ctx context.Context, conversation *entity.Conversation) error {
	return nil
}

func (r *stubConversationRepo) Delete(ctx context.Context, id uuid.UUID) error         { return nil }
func (r *stubConversationRepo) DeleteUnscoped(ctx context.Context, id uuid.UUID) error { return nil }

func (r *stubConversationRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Conversation, error) {
	return r.conversation, nil
}

func (r *stubConversationRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Conversation, error) {
	return nil, nil
}

func (r *stubConversationRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	return 0, nil
}

func (r *stubConversationRepo) TouchUpdatedAt(ctx context.Context, id uuid.UUID) error {
	r.touched++
	return nil
}

// stubMessageRepo holds messages in listing order, newest first, and
// interprets the limit and cursor specifications the way the database would.
type stubMessageRepo struct {
	messages []*entity.Message
}

// beforeCursor mirrors the composite row comparison (created_at, id) < (t, id).
func beforeCursor(m *entity.Message, c *specification.CreatedBeforeSpecification) bool {
	if m.CreatedAt.Before(c.Time) {
		return true
	}
	if m.CreatedAt.Equal(c.Time) {
		return bytes.Compare(m.Id[:], c.ID[:]) < 0
	}
	return false
}

func (r *stubMessageRepo) Create(ctx context.Context, message *entity.Message) error {
	r.messages = append([]*entity.Message{message}, r.messages...)
	return nil
}

func (r *stubMessageRepo) Update(ctx context.Context, message *entity.Message) error { return nil }
func (r *stubMessageRepo) Delete(ctx context.Context, id uuid.UUID) error            { return nil }

func (r *stubMessageRepo) DeleteByConversationId(ctx context.Context, conversationId uuid.UUID) error {
	return nil
}

func (r *stubMessageRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Message, error) {
	for _, spec := range specs {
		if s, ok := spec.(*specification.ByIDSpecification); ok {
			for _, m := range r.messages {
				if m.Id == s.ID {
					return m, nil
				}
			}
		}
	}
	return nil, nil
}

func (r *stubMessageRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Message, error) {
	limit := len(r.messages)
	var cursor *specification.CreatedBeforeSpecification
	for _, spec := range specs {
		switch s := spec.(type) {
		case *specification.LimitSpecification:
			limit = s.Limit
		case *specification.CreatedBeforeSpecification:
			cursor = s
		}
	}

	out := make([]*entity.Message, 0, limit)
	for _, m := range r.messages {
		if cursor != nil && !beforeCursor(m, cursor) {
			continue
		}
		out = append(out, m)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (r *stubMessageRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	return int64(len(r.messages)), nil
}

func (r *stubMessageRepo) MaxVersion(ctx context.Context, conversationId uuid.UUID) (int, error) {
	max := 0
	for _, m := range r.messages {
		if m.Version > max {
			max = m.Version
		}
	}
	return max, nil
}

type stubComponentRepo struct {
	component *entity.Component
}

func (r *stubComponentRepo) Create(ctx context.Context, component *entity.Component) error {
	return nil
}

func (r *stubComponentRepo) Update(ctx context.Context, component *entity.Component) error {
	return nil
}

func (r *stubComponentRepo) Delete(ctx context.Context, id uuid.UUID) error { return nil }

func (r *stubComponentRepo) DeleteByConversationId(ctx context.Context, conversationId uuid.UUID) error {
	return nil
}

func (r *stubComponentRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Component, error) {
	return r.component, nil
}

func (r *stubComponentRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Component, error) {
	return nil, nil
}

func (r *stubComponentRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	return 0, nil
}

func (r *stubComponentRepo) ClearCurrent(ctx context.Context, conversationId uuid.UUID) error {
	return nil
}

type stubSnapshotRepo struct {
	created []*entity.Snapshot
}

func (r *stubSnapshotRepo) Create(ctx context.Context, snapshot *entity.Snapshot) error {
	r.created = append(r.created, snapshot)
	return nil
}

func (r *stubSnapshotRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Snapshot, error) {
	if len(r.created) == 0 {
		return nil, nil
	}
	return r.created[0], nil
}

func (r *stubSnapshotRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Snapshot, error) {
	return r.created, nil
}

type stubQuotaRepo struct {
	quota   *entity.Quota
	created *entity.Quota
	updated *entity.Quota
}

func (r *stubQuotaRepo) Create(ctx context.Context, q *entity.Quota) error {
	r.created = q
	r.quota = q
	return nil
}

func (r *stubQuotaRepo) Update(ctx context.Context, q *entity.Quota) error {
	r.updated = q
	r.quota = q
	return nil
}

func (r *stubQuotaRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Quota, error) {
	return r.quota, nil
}

func (r *stubQuotaRepo) FindOneForUpdate(ctx context.Context, specs ...specification.Specification) (*entity.Quota, error) {
	return r.quota, nil
}

type stubShareLinkRepo struct {
	createErrs []error // consumed per Create call, nil entry means success
	creates    int
	links      []*entity.ShareLink
}

func (r *stubShareLinkRepo) Create(ctx context.Context, link *entity.ShareLink) error {
	var err error
	if r.creates < len(r.createErrs) {
		err = r.createErrs[r.creates]
	}
	r.creates++
	if err == nil {
		r.links = append(r.links, link)
	}
	return err
}

func (r *stubShareLinkRepo) Update(ctx context.Context, link *entity.ShareLink) error { return nil }

func (r *stubShareLinkRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ShareLink, error) {
	return nil, nil
}

func (r *stubShareLinkRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ShareLink, error) {
	return r.links, nil
}

func (r *stubShareLinkRepo) IncrementViewCount(ctx context.Context, id uuid.UUID) error {
	return nil
}

type stubUow struct {
	userRepo         contract.UserRepository
	authSessionRepo  contract.AuthSessionRepository
	conversationRepo contract.ConversationRepository
	messageRepo      contract.MessageRepository
	componentRepo    contract.ComponentRepository
	snapshotRepo     contract.SnapshotRepository
	quotaRepo        contract.QuotaRepository
	shareLinkRepo    contract.ShareLinkRepository

	begun      bool
	committed  bool
	rolledBack bool
}

func (u *stubUow) Begin(ctx context.Context) error { u.begun = true; return nil }
func (u *stubUow) Commit() error                   { u.committed = true; return nil }

func (u *stubUow) Rollback() error {
	if !u.committed {
		u.rolledBack = true
	}
	return nil
}

func (u *stubUow) UserRepository() contract.UserRepository                 { return u.userRepo }
func (u *stubUow) AuthSessionRepository() contract.AuthSessionRepository   { return u.authSessionRepo }
func (u *stubUow) ConversationRepository() contract.ConversationRepository { return u.conversationRepo }
func (u *stubUow) MessageRepository() contract.MessageRepository           { return u.messageRepo }
func (u *stubUow) ComponentRepository() contract.ComponentRepository       { return u.componentRepo }
func (u *stubUow) SnapshotRepository() contract.SnapshotRepository         { return u.snapshotRepo }
func (u *stubUow) ShareLinkRepository() contract.ShareLinkRepository       { return u.shareLinkRepo }
func (u *stubUow) QuotaRepository() contract.QuotaRepository               { return u.quotaRepo }

type stubFactory struct {
	uow unitofwork.UnitOfWork
}

func (f stubFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork { return f.uow }
