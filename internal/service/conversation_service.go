package service

import (
	"context"
	"time"

	"ai-uigen-be/internal/dto"
	"ai-uigen-be/internal/entity"
	"ai-uigen-be/internal/pkg/pagination"
	"ai-uigen-be/internal/pkg/serverutils"
	"ai-uigen-be/internal/repository/specification"
	"ai-uigen-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

type IConversationService interface {
	List(ctx context.Context, userId uuid.UUID, query *dto.ListQuery) ([]*dto.ConversationResponse, *serverutils.Meta, error)
	Create(ctx context.Context, userId uuid.UUID, req *dto.CreateConversationRequest) (*dto.ConversationResponse, error)
	Show(ctx context.Context, userId, id uuid.UUID) (*dto.ConversationResponse, error)
	Update(ctx context.Context, userId uuid.UUID, req *dto.UpdateConversationRequest) (*dto.ConversationResponse, error)
	Delete(ctx context.Context, userId, id uuid.UUID) error
}

type conversationService struct {
	uowFactory     unitofwork.RepositoryFactory
	messageService IMessageService
}

func NewConversationService(uowFactory unitofwork.RepositoryFactory, messageService IMessageService) IConversationService {
	return &conversationService{
		uowFactory:     uowFactory,
		messageService: messageService,
	}
}

func toConversationResponse(c *entity.Conversation) *dto.ConversationResponse {
	return &dto.ConversationResponse{
		Id:        c.Id,
		Title:     c.Title,
		IsActive:  c.IsActive,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func (s *conversationService) List(ctx context.Context, userId uuid.UUID, query *dto.ListQuery) ([]*dto.ConversationResponse, *serverutils.Meta, error) {
	limit := pagination.ClampLimit(query.Limit)

	specs := []specification.Specification{
		specification.UserOwnedBy(userId),
		specification.OrderBy("created_at", "DESC"),
		specification.OrderBy("id", "DESC"),
		specification.Limit(limit + 1),
	}
	if query.ActiveOnly {
		specs = append(specs, specification.FilterBy("is_active", true))
	}
	if query.Cursor != "" {
		cursor, err := pagination.Decode(query.Cursor)
		if err != nil {
			return nil, nil, serverutils.NewValidationError("Malformed cursor", nil)
		}
		specs = append(specs, specification.CreatedBefore(cursor.CreatedAt, cursor.ID))
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	conversations, err := uow.ConversationRepository().FindAll(ctx, specs...)
	if err != nil {
		return nil, nil, serverutils.NewInternalError(err)
	}

	meta := &serverutils.Meta{}
	if len(conversations) > limit {
		conversations = conversations[:limit]
		last := conversations[len(conversations)-1]
		next := pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.Id}.Encode()
		meta.NextCursor = &next
	}

	countSpecs := []specification.Specification{specification.UserOwnedBy(userId)}
	if query.ActiveOnly {
		countSpecs = append(countSpecs, specification.FilterBy("is_active", true))
	}
	total, err := uow.ConversationRepository().Count(ctx, countSpecs...)
	if err != nil {
		return nil, nil, serverutils.NewInternalError(err)
	}
	meta.Total = &total

	result := make([]*dto.ConversationResponse, 0, len(conversations))
	for _, c := range conversations {
		result = append(result, toConversationResponse(c))
	}
	return result, meta, nil
}

func (s *conversationService) Create(ctx context.Context, userId uuid.UUID, req *dto.CreateConversationRequest) (*dto.ConversationResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	conversation := entity.Conversation{
		Id:        uuid.New(),
		UserId:    userId,
		Title:     req.Title,
		IsActive:  true,
		CreatedAt: time.Now(),
	}
	if err := uow.ConversationRepository().Create(ctx, &conversation); err != nil {
		return nil, serverutils.NewInternalError(err)
	}
	return toConversationResponse(&conversation), nil
}

func (s *conversationService) findOwned(ctx context.Context, uow unitofwork.UnitOfWork, userId, id uuid.UUID) (*entity.Conversation, error) {
	conversation, err := uow.ConversationRepository().FindOne(ctx,
		specification.ByID(id),
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

func (s *conversationService) Show(ctx context.Context, userId, id uuid.UUID) (*dto.ConversationResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	conversation, err := s.findOwned(ctx, uow, userId, id)
	if err != nil {
		return nil, err
	}
	return toConversationResponse(conversation), nil
}

func (s *conversationService) Update(ctx context.Context, userId uuid.UUID, req *dto.UpdateConversationRequest) (*dto.ConversationResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	conversation, err := s.findOwned(ctx, uow, userId, req.Id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		conversation.Title = req.Title
	}
	if req.IsActive != nil {
		conversation.IsActive = *req.IsActive
	}
	if err := uow.ConversationRepository().Update(ctx, conversation); err != nil {
		return nil, serverutils.NewInternalError(err)
	}
	return toConversationResponse(conversation), nil
}

// Delete removes the conversation with its messages and components in one
// transaction. Snapshots and share links survive: published links must
// keep working after the source conversation is gone.
func (s *conversationService) Delete(ctx context.Context, userId, id uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if _, err := s.findOwned(ctx, uow, userId, id); err != nil {
		return err
	}

	if err := uow.Begin(ctx); err != nil {
		return serverutils.NewInternalError(err)
	}
	defer uow.Rollback()

	if err := uow.MessageRepository().DeleteByConversationId(ctx, id); err != nil {
		return serverutils.NewInternalError(err)
	}
	if err := uow.ComponentRepository().DeleteByConversationId(ctx, id); err != nil {
		return serverutils.NewInternalError(err)
	}
	if err := uow.ConversationRepository().DeleteUnscoped(ctx, id); err != nil {
		return serverutils.NewInternalError(err)
	}

	if err := uow.Commit(); err != nil {
		return serverutils.NewInternalError(err)
	}

	s.messageService.InvalidatePages(ctx, id)
	return nil
}
