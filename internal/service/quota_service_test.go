package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"ai-uigen-be/internal/config"
	"ai-uigen-be/internal/entity"
	"ai-uigen-be/internal/pkg/serverutils"
	"ai-uigen-be/pkg/cache"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newQuotaServiceForTest(repo *stubQuotaRepo, client cache.Client, pub *capturePublisher) (*quotaService, *stubUow) {
	uow := &stubUow{quotaRepo: repo}
	svc := &quotaService{
		uowFactory: stubFactory{uow: uow},
		cache:      client,
		publisher:  pub,
		logger:     nopLogger{},
		cfg:        config.QuotaConfig{DefaultDailyLimit: 10, ReconcileTopic: "QUOTA_RECONCILE"},
	}
	return svc, uow
}

func activeQuota(userId uuid.UUID, used, limit int) *entity.Quota {
	return &entity.Quota{
		Id:         uuid.New(),
		UserId:     userId,
		DailyLimit: limit,
		UsedToday:  used,
		ResetAt:    nextUTCMidnight(time.Now()),
		CreatedAt:  time.Now(),
	}
}

func readCounter(t *testing.T, client cache.Client, userId uuid.UUID) int64 {
	t.Helper()
	var n int64
	err := client.GetJSON(context.Background(), cache.QuotaKey(userId, time.Now()), &n)
	require.NoError(t, err)
	return n
}

func TestCheckAndIncrementSeedsCounterFromPersistedUsage(t *testing.T) {
	userId := uuid.New()
	repo := &stubQuotaRepo{quota: activeQuota(userId, 5, 10)}
	mem := cache.NewMemoryClient()
	pub := &capturePublisher{}
	svc, _ := newQuotaServiceForTest(repo, mem, pub)

	err := svc.CheckAndIncrement(context.Background(), userId)
	require.NoError(t, err)

	// 5 already spent plus the new unit.
	assert.Equal(t, int64(6), readCounter(t, mem, userId))

	require.Len(t, pub.payloads, 1)
	var msg QuotaReconcileMessage
	require.NoError(t, json.Unmarshal(pub.payloads[0], &msg))
	assert.Equal(t, userId, msg.UserId)
	assert.Equal(t, int64(6), msg.Count)
	assert.Equal(t, time.Now().UTC().Format("2006-01-02"), msg.Day)
}

func TestCheckAndIncrementRejectsWhenLimitReached(t *testing.T) {
	userId := uuid.New()
	repo := &stubQuotaRepo{quota: activeQuota(userId, 10, 10)}
	mem := cache.NewMemoryClient()
	pub := &capturePublisher{}
	svc, _ := newQuotaServiceForTest(repo, mem, pub)

	err := svc.CheckAndIncrement(context.Background(), userId)
	require.Error(t, err)

	var appErr *serverutils.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, serverutils.CodeQuotaExceeded, appErr.Code)

	// The failed increment was rolled back and nothing was published.
	assert.Equal(t, int64(10), readCounter(t, mem, userId))
	assert.Empty(t, pub.payloads)
}

func TestCheckAndIncrementCreatesRowOnFirstUse(t *testing.T) {
	userId := uuid.New()
	repo := &stubQuotaRepo{}
	mem := cache.NewMemoryClient()
	svc, _ := newQuotaServiceForTest(repo, mem, &capturePublisher{})

	err := svc.CheckAndIncrement(context.Background(), userId)
	require.NoError(t, err)

	require.NotNil(t, repo.created)
	assert.Equal(t, userId, repo.created.UserId)
	assert.Equal(t, 10, repo.created.DailyLimit)
	assert.Equal(t, 0, repo.created.UsedToday)
	assert.Equal(t, int64(1), readCounter(t, mem, userId))
}

func TestCheckAndIncrementRollsExpiredWindow(t *testing.T) {
	userId := uuid.New()
	stale := activeQuota(userId, 7, 10)
	stale.ResetAt = time.Now().UTC().Add(-time.Hour)
	repo := &stubQuotaRepo{quota: stale}
	mem := cache.NewMemoryClient()
	svc, _ := newQuotaServiceForTest(repo, mem, &capturePublisher{})

	err := svc.CheckAndIncrement(context.Background(), userId)
	require.NoError(t, err)

	require.NotNil(t, repo.updated)
	assert.Equal(t, 0, repo.updated.UsedToday)
	assert.True(t, repo.updated.ResetAt.After(time.Now()))

	// Yesterday's usage does not seed today's counter.
	assert.Equal(t, int64(1), readCounter(t, mem, userId))
}

func TestCheckAndIncrementFallsBackWhenRedisUnavailable(t *testing.T) {
	userId := uuid.New()
	repo := &stubQuotaRepo{quota: activeQuota(userId, 9, 10)}
	svc, uow := newQuotaServiceForTest(repo, offlineCache{cache.NewMemoryClient()}, &capturePublisher{})

	err := svc.CheckAndIncrement(context.Background(), userId)
	require.NoError(t, err)

	assert.True(t, uow.begun)
	assert.True(t, uow.committed)
	assert.Equal(t, 10, repo.quota.UsedToday)

	err = svc.CheckAndIncrement(context.Background(), userId)
	require.Error(t, err)

	var appErr *serverutils.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, serverutils.CodeQuotaExceeded, appErr.Code)
}

func TestGetQuotaPrefersRedisCounter(t *testing.T) {
	userId := uuid.New()
	repo := &stubQuotaRepo{quota: activeQuota(userId, 2, 10)}
	mem := cache.NewMemoryClient()
	svc, _ := newQuotaServiceForTest(repo, mem, &capturePublisher{})

	_, err := mem.IncrBy(context.Background(), cache.QuotaKey(userId, time.Now()), 7)
	require.NoError(t, err)

	res, err := svc.GetQuota(context.Background(), userId)
	require.NoError(t, err)
	assert.Equal(t, 7, res.UsedToday)
	assert.Equal(t, 3, res.Remaining)
}

func TestGetQuotaCapsUsageAtLimit(t *testing.T) {
	userId := uuid.New()
	repo := &stubQuotaRepo{quota: activeQuota(userId, 2, 10)}
	mem := cache.NewMemoryClient()
	svc, _ := newQuotaServiceForTest(repo, mem, &capturePublisher{})

	_, err := mem.IncrBy(context.Background(), cache.QuotaKey(userId, time.Now()), 50)
	require.NoError(t, err)

	res, err := svc.GetQuota(context.Background(), userId)
	require.NoError(t, err)
	assert.Equal(t, 10, res.UsedToday)
	assert.Equal(t, 0, res.Remaining)
}

func TestNextUTCMidnight(t *testing.T) {
	loc := time.FixedZone("UTC+7", 7*3600)
	// 02:30 on the 2nd in UTC+7 is still the 1st in UTC.
	at := time.Date(2026, 3, 2, 2, 30, 0, 0, loc)

	got := nextUTCMidnight(at)
	assert.Equal(t, time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC), got)
	assert.True(t, got.After(at.UTC()))
}
