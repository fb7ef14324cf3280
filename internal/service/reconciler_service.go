package service

import (
	"context"
	"encoding/json"
	"time"

	"ai-uigen-be/internal/pkg/logger"
	"ai-uigen-be/internal/repository/specification"
	"ai-uigen-be/internal/repository/unitofwork"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type IReconcilerService interface {
	Consume(ctx context.Context) error
}

// reconcilerService folds redis quota counters back into the quota rows so
// the database stays authoritative across cache flushes.
type reconcilerService struct {
	pubSub     *gochannel.GoChannel
	topicName  string
	uowFactory unitofwork.RepositoryFactory
	logger     logger.ILogger
}

func NewReconcilerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
	log logger.ILogger,
) IReconcilerService {
	return &reconcilerService{
		pubSub:     pubSub,
		topicName:  topicName,
		uowFactory: uowFactory,
		logger:     log,
	}
}

func (rs *reconcilerService) Consume(ctx context.Context) error {
	messages, err := rs.pubSub.Subscribe(ctx, rs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			rs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (rs *reconcilerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload QuotaReconcileMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		rs.logger.Error("quota", "Failed to unmarshal reconcile message", map[string]interface{}{"error": err.Error()})
		msg.Ack() // invalid payloads never become valid, do not retry
		return
	}

	// Counters from a previous day are already rolled by the window reset.
	if payload.Day != time.Now().UTC().Format("2006-01-02") {
		msg.Ack()
		return
	}

	uow := rs.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		rs.logger.Error("quota", "Failed to start reconcile transaction", map[string]interface{}{"error": err.Error()})
		msg.Nack()
		return
	}

	quota, err := uow.QuotaRepository().FindOneForUpdate(ctx, specification.FilterBy("user_id", payload.UserId))
	if err != nil {
		uow.Rollback()
		rs.logger.Error("quota", "Failed to load quota for reconcile", map[string]interface{}{"error": err.Error()})
		msg.Nack()
		return
	}
	if quota == nil {
		uow.Rollback()
		msg.Ack()
		return
	}

	// The counter only moves forward, so max() is safe against reordered
	// messages.
	count := int(payload.Count)
	if count > quota.DailyLimit {
		count = quota.DailyLimit
	}
	if count > quota.UsedToday {
		quota.UsedToday = count
		if err := uow.QuotaRepository().Update(ctx, quota); err != nil {
			uow.Rollback()
			rs.logger.Error("quota", "Failed to persist reconciled usage", map[string]interface{}{"error": err.Error()})
			msg.Nack()
			return
		}
	}

	if err := uow.Commit(); err != nil {
		rs.logger.Error("quota", "Failed to commit reconcile", map[string]interface{}{"error": err.Error()})
		msg.Nack()
		return
	}

	msg.Ack()
}
