package service

import (
	"context"
	"encoding/json"
	"time"

	"ai-uigen-be/internal/config"
	"ai-uigen-be/internal/dto"
	"ai-uigen-be/internal/entity"
	"ai-uigen-be/internal/pkg/logger"
	"ai-uigen-be/internal/pkg/serverutils"
	"ai-uigen-be/internal/repository/specification"
	"ai-uigen-be/internal/repository/unitofwork"
	"ai-uigen-be/pkg/cache"

	"github.com/google/uuid"
)

type IQuotaService interface {
	GetQuota(ctx context.Context, userId uuid.UUID) (*dto.QuotaResponse, error)
	UpdateQuota(ctx context.Context, userId uuid.UUID, req *dto.UpdateQuotaRequest) (*dto.QuotaResponse, error)
	// CheckAndIncrement consumes one unit of today's quota or fails with
	// QUOTA_EXCEEDED. The redis fast path keeps the hot loop off the
	// database; when redis is down the transactional path takes over.
	CheckAndIncrement(ctx context.Context, userId uuid.UUID) error
}

// QuotaReconcileMessage asks the reconciler to fold the redis counter back
// into the quota row.
type QuotaReconcileMessage struct {
	UserId uuid.UUID `json:"user_id"`
	Day    string    `json:"day"`
	Count  int64     `json:"count"`
}

type quotaService struct {
	uowFactory unitofwork.RepositoryFactory
	cache      cache.Client
	publisher  IPublisherService
	logger     logger.ILogger
	cfg        config.QuotaConfig
}

func NewQuotaService(
	uowFactory unitofwork.RepositoryFactory,
	cacheClient cache.Client,
	publisher IPublisherService,
	log logger.ILogger,
	cfg config.QuotaConfig,
) IQuotaService {
	return &quotaService{
		uowFactory: uowFactory,
		cache:      cacheClient,
		publisher:  publisher,
		logger:     log,
		cfg:        cfg,
	}
}

func nextUTCMidnight(now time.Time) time.Time {
	utc := now.UTC()
	return time.Date(utc.Year(), utc.Month(), utc.Day(), 0, 0, 0, 0, time.UTC).Add(24 * time.Hour)
}

// getOrCreate fetches the quota row, creating it with the configured
// default on first use and rolling the window when reset_at has passed.
func (s *quotaService) getOrCreate(ctx context.Context, uow unitofwork.UnitOfWork, userId uuid.UUID, forUpdate bool) (*entity.Quota, error) {
	var quota *entity.Quota
	var err error
	if forUpdate {
		quota, err = uow.QuotaRepository().FindOneForUpdate(ctx, specification.FilterBy("user_id", userId))
	} else {
		quota, err = uow.QuotaRepository().FindOne(ctx, specification.FilterBy("user_id", userId))
	}
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if quota == nil {
		quota = &entity.Quota{
			Id:         uuid.New(),
			UserId:     userId,
			DailyLimit: s.cfg.DefaultDailyLimit,
			UsedToday:  0,
			ResetAt:    nextUTCMidnight(now),
			CreatedAt:  now,
		}
		if err := uow.QuotaRepository().Create(ctx, quota); err != nil {
			return nil, err
		}
		return quota, nil
	}

	if quota.WindowExpired(now) {
		quota.UsedToday = 0
		quota.ResetAt = nextUTCMidnight(now)
		if err := uow.QuotaRepository().Update(ctx, quota); err != nil {
			return nil, err
		}
	}
	return quota, nil
}

func (s *quotaService) GetQuota(ctx context.Context, userId uuid.UUID) (*dto.QuotaResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	quota, err := s.getOrCreate(ctx, uow, userId, false)
	if err != nil {
		return nil, serverutils.NewInternalError(err)
	}

	used := quota.UsedToday
	// The redis counter may be ahead of the row between reconciliations.
	if s.cache.Available(ctx) {
		key := cache.QuotaKey(userId, time.Now())
		var counter int64
		if err := s.cache.GetJSON(ctx, key, &counter); err == nil && int(counter) > used {
			used = int(counter)
		}
	}
	if used > quota.DailyLimit {
		used = quota.DailyLimit
	}

	return &dto.QuotaResponse{
		DailyLimit: quota.DailyLimit,
		UsedToday:  used,
		Remaining:  quota.DailyLimit - used,
		ResetAt:    quota.ResetAt,
	}, nil
}

func (s *quotaService) UpdateQuota(ctx context.Context, userId uuid.UUID, req *dto.UpdateQuotaRequest) (*dto.QuotaResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, serverutils.NewInternalError(err)
	}
	defer uow.Rollback()

	quota, err := s.getOrCreate(ctx, uow, userId, true)
	if err != nil {
		return nil, serverutils.NewInternalError(err)
	}

	if req.DailyLimit != nil {
		quota.DailyLimit = *req.DailyLimit
	}
	if req.UsedToday != nil {
		quota.UsedToday = *req.UsedToday
	}
	if req.ResetAt != nil {
		quota.ResetAt = *req.ResetAt
	}
	if quota.UsedToday > quota.DailyLimit {
		quota.UsedToday = quota.DailyLimit
	}
	if err := uow.QuotaRepository().Update(ctx, quota); err != nil {
		return nil, serverutils.NewInternalError(err)
	}
	if err := uow.Commit(); err != nil {
		return nil, serverutils.NewInternalError(err)
	}

	// Drop today's counter so the next increment reseeds from the row.
	if s.cache.Available(ctx) {
		if err := s.cache.Del(ctx, cache.QuotaKey(userId, time.Now())); err != nil {
			s.logger.Warn("quota", "Failed to drop quota counter after update", map[string]interface{}{"error": err.Error()})
		}
	}

	return &dto.QuotaResponse{
		DailyLimit: quota.DailyLimit,
		UsedToday:  quota.UsedToday,
		Remaining:  quota.DailyLimit - quota.UsedToday,
		ResetAt:    quota.ResetAt,
	}, nil
}

func (s *quotaService) CheckAndIncrement(ctx context.Context, userId uuid.UUID) error {
	if s.cache.Available(ctx) {
		return s.incrementCached(ctx, userId)
	}
	return s.incrementTransactional(ctx, userId)
}

func (s *quotaService) incrementCached(ctx context.Context, userId uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	quota, err := s.getOrCreate(ctx, uow, userId, false)
	if err != nil {
		return serverutils.NewInternalError(err)
	}

	now := time.Now()
	key := cache.QuotaKey(userId, now)

	n, err := s.cache.Incr(ctx, key)
	if err != nil {
		s.logger.Warn("quota", "Redis increment failed, falling back to database", map[string]interface{}{"error": err.Error()})
		return s.incrementTransactional(ctx, userId)
	}

	if n == 1 {
		// Fresh counter: seed from the persisted usage so a cache flush
		// cannot hand back already-spent quota, then expire it with the
		// window. The seed is not atomic with the INCR above: a caller
		// racing in between sees the unseeded counter and can slip one
		// request past the boundary. The reconciler clamps the row at the
		// limit, so the persisted usage never exceeds it.
		if err := s.cache.Expire(ctx, key, time.Until(nextUTCMidnight(now))); err != nil {
			s.logger.Warn("quota", "Failed to set counter expiry", map[string]interface{}{"error": err.Error()})
		}
		if quota.UsedToday > 0 {
			n, err = s.cache.IncrBy(ctx, key, int64(quota.UsedToday))
			if err != nil {
				return serverutils.NewInternalError(err)
			}
		}
	}

	if n > int64(quota.DailyLimit) {
		if _, err := s.cache.Decr(ctx, key); err != nil {
			s.logger.Warn("quota", "Failed to roll back over-limit increment", map[string]interface{}{"error": err.Error()})
		}
		return serverutils.NewQuotaExceededError("Daily generation limit reached")
	}

	s.publishReconcile(ctx, userId, now, n)
	return nil
}

func (s *quotaService) incrementTransactional(ctx context.Context, userId uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return serverutils.NewInternalError(err)
	}
	defer uow.Rollback()

	quota, err := s.getOrCreate(ctx, uow, userId, true)
	if err != nil {
		return serverutils.NewInternalError(err)
	}

	if quota.UsedToday >= quota.DailyLimit {
		return serverutils.NewQuotaExceededError("Daily generation limit reached")
	}

	quota.UsedToday++
	if err := uow.QuotaRepository().Update(ctx, quota); err != nil {
		return serverutils.NewInternalError(err)
	}

	if err := uow.Commit(); err != nil {
		return serverutils.NewInternalError(err)
	}
	return nil
}

func (s *quotaService) publishReconcile(ctx context.Context, userId uuid.UUID, at time.Time, count int64) {
	payload, err := json.Marshal(QuotaReconcileMessage{
		UserId: userId,
		Day:    at.UTC().Format("2006-01-02"),
		Count:  count,
	})
	if err != nil {
		return
	}
	if err := s.publisher.Publish(ctx, payload); err != nil {
		s.logger.Warn("quota", "Failed to publish reconcile message", map[string]interface{}{"error": err.Error()})
	}
}
