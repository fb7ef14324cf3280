package service

import (
	"context"
	"errors"
	"time"

	"ai-uigen-be/internal/dto"
	"ai-uigen-be/internal/entity"
	"ai-uigen-be/internal/pkg/logger"
	"ai-uigen-be/internal/pkg/serverutils"
	"ai-uigen-be/internal/repository/specification"
	"ai-uigen-be/internal/repository/unitofwork"
	"ai-uigen-be/pkg/cache"

	"github.com/google/uuid"
)

const sessionCacheTTL = 15 * time.Minute

type ISessionService interface {
	VerifyActive(ctx context.Context, sessionId, userId uuid.UUID) (bool, error)
	ListSessions(ctx context.Context, userId uuid.UUID, activeOnly bool) ([]*dto.SessionResponse, error)
	GetSession(ctx context.Context, userId, sessionId uuid.UUID) (*dto.SessionResponse, error)
	UpdateSession(ctx context.Context, userId uuid.UUID, req *dto.UpdateSessionRequest) (*dto.SessionResponse, error)
	RevokeSession(ctx context.Context, userId, sessionId uuid.UUID) error
	// RevokeAllExcept deactivates every active session of the user apart
	// from exceptId. Pass uuid.Nil to revoke all of them.
	RevokeAllExcept(ctx context.Context, userId, exceptId uuid.UUID) (int, error)
	CacheSession(ctx context.Context, session *entity.AuthSession)
	DropCachedSession(ctx context.Context, sessionId uuid.UUID)
	CleanupExpired(ctx context.Context) (int64, error)
	StartCleanupLoop(ctx context.Context, interval time.Duration)
}

// cachedSession is the redis representation of an auth session row.
type cachedSession struct {
	UserId    uuid.UUID `json:"user_id"`
	IsActive  bool      `json:"is_active"`
	ExpiresAt time.Time `json:"expires_at"`
}

type sessionService struct {
	uowFactory unitofwork.RepositoryFactory
	cache      cache.Client
	logger     logger.ILogger
}

func NewSessionService(uowFactory unitofwork.RepositoryFactory, cacheClient cache.Client, log logger.ILogger) ISessionService {
	return &sessionService{
		uowFactory: uowFactory,
		cache:      cacheClient,
		logger:     log,
	}
}

// VerifyActive checks redis first, then falls back to the database and
// repopulates the cache.
func (s *sessionService) VerifyActive(ctx context.Context, sessionId, userId uuid.UUID) (bool, error) {
	key := cache.SessionKey(sessionId)

	var cached cachedSession
	err := s.cache.GetJSON(ctx, key, &cached)
	if err == nil {
		if cached.UserId != userId {
			return false, nil
		}
		return cached.IsActive && time.Now().Before(cached.ExpiresAt), nil
	}
	if !errors.Is(err, cache.ErrCacheMiss) {
		s.logger.Warn("session", "Session cache read failed, using database", map[string]interface{}{"error": err.Error()})
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	session, err := uow.AuthSessionRepository().FindOne(ctx, specification.ByID(sessionId))
	if err != nil {
		return false, err
	}
	if session == nil || session.UserId != userId {
		return false, nil
	}

	s.CacheSession(ctx, session)
	return session.IsActive && !session.Expired(time.Now()), nil
}

func toSessionResponse(sess *entity.AuthSession) *dto.SessionResponse {
	return &dto.SessionResponse{
		Id:         sess.Id,
		UserId:     sess.UserId,
		DeviceInfo: sess.DeviceInfo,
		IsActive:   sess.IsActive,
		ExpiresAt:  sess.ExpiresAt,
		CreatedAt:  sess.CreatedAt,
	}
}

func (s *sessionService) ListSessions(ctx context.Context, userId uuid.UUID, activeOnly bool) ([]*dto.SessionResponse, error) {
	specs := []specification.Specification{
		specification.UserOwnedBy(userId),
		specification.OrderBy("created_at", "DESC"),
	}
	if activeOnly {
		specs = append(specs, specification.ActiveSessions())
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	sessions, err := uow.AuthSessionRepository().FindAll(ctx, specs...)
	if err != nil {
		return nil, err
	}

	result := make([]*dto.SessionResponse, 0, len(sessions))
	for _, sess := range sessions {
		result = append(result, toSessionResponse(sess))
	}
	return result, nil
}

func (s *sessionService) findOwned(ctx context.Context, uow unitofwork.UnitOfWork, userId, sessionId uuid.UUID) (*entity.AuthSession, error) {
	session, err := uow.AuthSessionRepository().FindOne(ctx, specification.ByID(sessionId))
	if err != nil {
		return nil, err
	}
	if session == nil || session.UserId != userId {
		return nil, serverutils.NewNotFoundError("Session not found")
	}
	return session, nil
}

func (s *sessionService) GetSession(ctx context.Context, userId, sessionId uuid.UUID) (*dto.SessionResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	session, err := s.findOwned(ctx, uow, userId, sessionId)
	if err != nil {
		return nil, err
	}
	return toSessionResponse(session), nil
}

func (s *sessionService) UpdateSession(ctx context.Context, userId uuid.UUID, req *dto.UpdateSessionRequest) (*dto.SessionResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	session, err := s.findOwned(ctx, uow, userId, req.Id)
	if err != nil {
		return nil, err
	}

	if req.DeviceInfo != nil {
		session.DeviceInfo = req.DeviceInfo
	}
	if req.IsActive != nil {
		session.IsActive = *req.IsActive
	}
	if err := uow.AuthSessionRepository().Update(ctx, session); err != nil {
		return nil, err
	}

	s.DropCachedSession(ctx, session.Id)
	return toSessionResponse(session), nil
}

func (s *sessionService) RevokeSession(ctx context.Context, userId, sessionId uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	session, err := uow.AuthSessionRepository().FindOne(ctx, specification.ByID(sessionId))
	if err != nil {
		return err
	}
	if session == nil || session.UserId != userId {
		return serverutils.NewNotFoundError("Session not found")
	}

	session.IsActive = false
	if err := uow.AuthSessionRepository().Update(ctx, session); err != nil {
		return err
	}

	s.DropCachedSession(ctx, sessionId)
	return nil
}

func (s *sessionService) RevokeAllExcept(ctx context.Context, userId, exceptId uuid.UUID) (int, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	sessions, err := uow.AuthSessionRepository().FindAll(ctx,
		specification.UserOwnedBy(userId),
		specification.ActiveSessions(),
	)
	if err != nil {
		return 0, err
	}

	revoked := 0
	for _, session := range sessions {
		if session.Id == exceptId {
			continue
		}
		session.IsActive = false
		if err := uow.AuthSessionRepository().Update(ctx, session); err != nil {
			return revoked, err
		}
		s.DropCachedSession(ctx, session.Id)
		revoked++
	}
	return revoked, nil
}

func (s *sessionService) CacheSession(ctx context.Context, session *entity.AuthSession) {
	err := s.cache.SetJSON(ctx, cache.SessionKey(session.Id), cachedSession{
		UserId:    session.UserId,
		IsActive:  session.IsActive,
		ExpiresAt: session.ExpiresAt,
	}, sessionCacheTTL)
	if err != nil {
		s.logger.Warn("session", "Failed to cache session", map[string]interface{}{"error": err.Error()})
	}
}

func (s *sessionService) DropCachedSession(ctx context.Context, sessionId uuid.UUID) {
	if err := s.cache.Del(ctx, cache.SessionKey(sessionId)); err != nil {
		s.logger.Warn("session", "Failed to drop cached session", map[string]interface{}{"error": err.Error()})
	}
}

func (s *sessionService) CleanupExpired(ctx context.Context) (int64, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.AuthSessionRepository().DeleteExpiredBefore(ctx, time.Now())
}

// StartCleanupLoop removes expired session rows on an interval until the
// context is cancelled.
func (s *sessionService) StartCleanupLoop(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				deleted, err := s.CleanupExpired(ctx)
				if err != nil {
					s.logger.Error("session", "Expired session cleanup failed", map[string]interface{}{"error": err.Error()})
					continue
				}
				if deleted > 0 {
					s.logger.Info("session", "Removed expired sessions", map[string]interface{}{"count": deleted})
				}
			}
		}
	}()
}
