package service

import (
	"context"
	"encoding/json"
	"time"

	"ai-uigen-be/internal/dto"
	"ai-uigen-be/internal/entity"
	"ai-uigen-be/internal/pkg/logger"
	"ai-uigen-be/internal/pkg/pagination"
	"ai-uigen-be/internal/pkg/serverutils"
	"ai-uigen-be/internal/repository/specification"
	"ai-uigen-be/internal/repository/unitofwork"
	"ai-uigen-be/pkg/cache"

	"github.com/google/uuid"
)

const (
	messagePageCacheTTL = 60 * time.Second
	maxDerivedTitleLen  = 80
)

type IMessageService interface {
	List(ctx context.Context, userId, conversationId uuid.UUID, query *dto.ListQuery) ([]*dto.MessageResponse, *serverutils.Meta, error)
	Get(ctx context.Context, userId, messageId uuid.UUID) (*dto.MessageResponse, error)
	Create(ctx context.Context, userId uuid.UUID, req *dto.CreateMessageRequest) (*dto.MessageResponse, error)
	Update(ctx context.Context, userId uuid.UUID, req *dto.UpdateMessageRequest) (*dto.MessageResponse, error)
	// InvalidatePages orphans every cached page of the conversation.
	InvalidatePages(ctx context.Context, conversationId uuid.UUID)
}

type messageService struct {
	uowFactory   unitofwork.RepositoryFactory
	cache        cache.Client
	quotaService IQuotaService
	logger       logger.ILogger
}

func NewMessageService(
	uowFactory unitofwork.RepositoryFactory,
	cacheClient cache.Client,
	quotaService IQuotaService,
	log logger.ILogger,
) IMessageService {
	return &messageService{
		uowFactory:   uowFactory,
		cache:        cacheClient,
		quotaService: quotaService,
		logger:       log,
	}
}

func toMessageResponse(m *entity.Message) *dto.MessageResponse {
	return &dto.MessageResponse{
		Id:             m.Id,
		ConversationId: m.ConversationId,
		Role:           string(m.Role),
		Type:           string(m.Type),
		Data:           json.RawMessage(m.Data),
		Version:        m.Version,
		IsEdited:       m.IsEdited,
		CreatedAt:      m.CreatedAt,
	}
}

// cachedPage is the serialized form of one message page.
type cachedPage struct {
	Messages []*dto.MessageResponse `json:"messages"`
	Meta     *serverutils.Meta      `json:"meta"`
}

func (s *messageService) checkOwnership(ctx context.Context, uow unitofwork.UnitOfWork, userId, conversationId uuid.UUID) (*entity.Conversation, error) {
	conversation, err := uow.ConversationRepository().FindOne(ctx,
		specification.ByID(conversationId),
		specification.UserOwnedBy(userId),
	)
	if err != nil {
		return nil, serverutils.NewInternalError(err)
	}
	if conversation == nil {
		return nil, serverutils.NewNotFoundError("Conversation not found")
	}
	return conversation, nil
}

// generation reads the conversation's cache generation counter. IncrBy 0
// creates the key atomically without disturbing concurrent bumps.
func (s *messageService) generation(ctx context.Context, conversationId uuid.UUID) (int64, bool) {
	if !s.cache.Available(ctx) {
		return 0, false
	}
	gen, err := s.cache.IncrBy(ctx, cache.MessageGenKey(conversationId), 0)
	if err != nil {
		return 0, false
	}
	return gen, true
}

func (s *messageService) List(ctx context.Context, userId, conversationId uuid.UUID, query *dto.ListQuery) ([]*dto.MessageResponse, *serverutils.Meta, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if _, err := s.checkOwnership(ctx, uow, userId, conversationId); err != nil {
		return nil, nil, err
	}

	limit := pagination.ClampLimit(query.Limit)

	var cursorSpec specification.Specification
	if query.Cursor != "" {
		cursor, err := pagination.Decode(query.Cursor)
		if err != nil {
			return nil, nil, serverutils.NewValidationError("Malformed cursor", nil)
		}
		cursorSpec = specification.CreatedBefore(cursor.CreatedAt, cursor.ID)
	}

	gen, cacheable := s.generation(ctx, conversationId)
	pageKey := cache.MessagePageKey(conversationId, gen, query.Cursor, limit)
	if cacheable {
		var page cachedPage
		if err := s.cache.GetJSON(ctx, pageKey, &page); err == nil {
			return page.Messages, page.Meta, nil
		}
	}

	specs := []specification.Specification{
		specification.ByConversationID(conversationId),
		specification.OrderBy("created_at", "DESC"),
		specification.OrderBy("id", "DESC"),
		specification.Limit(limit + 1),
	}
	if cursorSpec != nil {
		specs = append(specs, cursorSpec)
	}

	messages, err := uow.MessageRepository().FindAll(ctx, specs...)
	if err != nil {
		return nil, nil, serverutils.NewInternalError(err)
	}

	meta := &serverutils.Meta{}
	if len(messages) > limit {
		messages = messages[:limit]
		last := messages[len(messages)-1]
		next := pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.Id}.Encode()
		meta.NextCursor = &next
	}

	total, err := uow.MessageRepository().Count(ctx, specification.ByConversationID(conversationId))
	if err != nil {
		return nil, nil, serverutils.NewInternalError(err)
	}
	meta.Total = &total

	result := make([]*dto.MessageResponse, 0, len(messages))
	for _, m := range messages {
		result = append(result, toMessageResponse(m))
	}

	if cacheable {
		if err := s.cache.SetJSON(ctx, pageKey, cachedPage{Messages: result, Meta: meta}, messagePageCacheTTL); err != nil {
			s.logger.Warn("message", "Failed to cache message page", map[string]interface{}{"error": err.Error()})
		}
	}

	return result, meta, nil
}

// deriveTitle pulls a short title out of the first user message. The data
// payload is opaque JSON; anything without a content string is skipped.
func deriveTitle(data []byte) *string {
	var payload struct {
		Content string `json:"content"`
	}
	if err := json.Unmarshal(data, &payload); err != nil || payload.Content == "" {
		return nil
	}
	title := payload.Content
	if len(title) > maxDerivedTitleLen {
		title = title[:maxDerivedTitleLen]
	}
	return &title
}

func (s *messageService) Create(ctx context.Context, userId uuid.UUID, req *dto.CreateMessageRequest) (*dto.MessageResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if _, err := s.checkOwnership(ctx, uow, userId, req.ConversationId); err != nil {
		return nil, err
	}

	// Quota is consumed before the write. A failed transaction afterwards
	// costs the user one unit, which the daily window absorbs.
	if err := s.quotaService.CheckAndIncrement(ctx, userId); err != nil {
		return nil, err
	}

	if err := uow.Begin(ctx); err != nil {
		return nil, serverutils.NewInternalError(err)
	}
	defer uow.Rollback()

	// Lock the conversation row so concurrent inserts serialize and the
	// version sequence never produces duplicates.
	conversation, err := uow.ConversationRepository().FindOne(ctx,
		specification.ByID(req.ConversationId),
		specification.LockForUpdate(),
	)
	if err != nil {
		return nil, serverutils.NewInternalError(err)
	}
	if conversation == nil {
		return nil, serverutils.NewNotFoundError("Conversation not found")
	}

	maxVersion, err := uow.MessageRepository().MaxVersion(ctx, req.ConversationId)
	if err != nil {
		return nil, serverutils.NewInternalError(err)
	}

	msgType := req.Type
	if msgType == "" {
		msgType = string(entity.MessageTypeText)
	}

	msg := entity.Message{
		Id:             uuid.New(),
		ConversationId: req.ConversationId,
		Role:           entity.MessageRole(req.Role),
		Type:           entity.MessageType(msgType),
		Data:           req.Data,
		Version:        maxVersion + 1,
		CreatedAt:      time.Now(),
	}
	if err := uow.MessageRepository().Create(ctx, &msg); err != nil {
		return nil, serverutils.NewInternalError(err)
	}

	if conversation.Title == nil && msg.Version == 1 && msg.Role == entity.MessageRoleUser {
		if title := deriveTitle(msg.Data); title != nil {
			conversation.Title = title
			if err := uow.ConversationRepository().Update(ctx, conversation); err != nil {
				return nil, serverutils.NewInternalError(err)
			}
		}
	}

	if err := uow.ConversationRepository().TouchUpdatedAt(ctx, req.ConversationId); err != nil {
		return nil, serverutils.NewInternalError(err)
	}

	if err := uow.Commit(); err != nil {
		return nil, serverutils.NewInternalError(err)
	}

	s.InvalidatePages(ctx, req.ConversationId)
	return toMessageResponse(&msg), nil
}

func (s *messageService) Get(ctx context.Context, userId, messageId uuid.UUID) (*dto.MessageResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	msg, err := uow.MessageRepository().FindOne(ctx, specification.ByID(messageId))
	if err != nil {
		return nil, serverutils.NewInternalError(err)
	}
	if msg == nil {
		return nil, serverutils.NewNotFoundError("Message not found")
	}
	if _, err := s.checkOwnership(ctx, uow, userId, msg.ConversationId); err != nil {
		return nil, err
	}
	return toMessageResponse(msg), nil
}

func (s *messageService) Update(ctx context.Context, userId uuid.UUID, req *dto.UpdateMessageRequest) (*dto.MessageResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	msg, err := uow.MessageRepository().FindOne(ctx, specification.ByID(req.Id))
	if err != nil {
		return nil, serverutils.NewInternalError(err)
	}
	if msg == nil {
		return nil, serverutils.NewNotFoundError("Message not found")
	}
	if _, err := s.checkOwnership(ctx, uow, userId, msg.ConversationId); err != nil {
		return nil, err
	}

	msg.Data = req.Data
	msg.IsEdited = true
	if err := uow.MessageRepository().Update(ctx, msg); err != nil {
		return nil, serverutils.NewInternalError(err)
	}

	s.InvalidatePages(ctx, msg.ConversationId)
	return toMessageResponse(msg), nil
}

func (s *messageService) InvalidatePages(ctx context.Context, conversationId uuid.UUID) {
	if !s.cache.Available(ctx) {
		return
	}
	if _, err := s.cache.Incr(ctx, cache.MessageGenKey(conversationId)); err != nil {
		s.logger.Warn("message", "Failed to bump page generation", map[string]interface{}{"error": err.Error()})
	}
}
