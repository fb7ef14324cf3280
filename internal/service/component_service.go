package service

import (
	"context"
	"encoding/json"
	"time"

	"ai-uigen-be/internal/dto"
	"ai-uigen-be/internal/entity"
	"ai-uigen-be/internal/pkg/serverutils"
	"ai-uigen-be/internal/repository/specification"
	"ai-uigen-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

type IComponentService interface {
	ListByConversation(ctx context.Context, userId, conversationId uuid.UUID) ([]*dto.ComponentResponse, error)
	GetCurrent(ctx context.Context, userId, conversationId uuid.UUID) (*dto.ComponentResponse, error)
	Create(ctx context.Context, userId uuid.UUID, req *dto.CreateComponentRequest) (*dto.ComponentResponse, error)
	Update(ctx context.Context, userId uuid.UUID, req *dto.UpdateComponentRequest) (*dto.ComponentResponse, error)
	SetCurrent(ctx context.Context, userId, componentId uuid.UUID) (*dto.ComponentResponse, error)
	Delete(ctx context.Context, userId, componentId uuid.UUID) error
}

type componentService struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewComponentService(uowFactory unitofwork.RepositoryFactory) IComponentService {
	return &componentService{
		uowFactory: uowFactory,
	}
}

func toComponentResponse(c *entity.Component) *dto.ComponentResponse {
	return &dto.ComponentResponse{
		Id:             c.Id,
		ConversationId: c.ConversationId,
		MessageId:      c.MessageId,
		Type:           string(c.Type),
		Data:           json.RawMessage(c.Data),
		IsCurrent:      c.IsCurrent,
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
	}
}

func (s *componentService) checkOwnership(ctx context.Context, uow unitofwork.UnitOfWork, userId, conversationId uuid.UUID) error {
	conversation, err := uow.ConversationRepository().FindOne(ctx,
		specification.ByID(conversationId),
		specification.UserOwnedBy(userId),
	)
	if err != nil {
		return serverutils.NewInternalError(err)
	}
	if conversation == nil {
		return serverutils.NewNotFoundError("Conversation not found")
	}
	return nil
}

// findOwnedComponent resolves a component through its conversation. A
// component in someone else's conversation reads as missing, never as
// forbidden.
func (s *componentService) findOwnedComponent(ctx context.Context, uow unitofwork.UnitOfWork, userId, componentId uuid.UUID) (*entity.Component, error) {
	component, err := uow.ComponentRepository().FindOne(ctx, specification.ByID(componentId))
	if err != nil {
		return nil, serverutils.NewInternalError(err)
	}
	if component == nil {
		return nil, serverutils.NewNotFoundError("Component not found")
	}
	conversation, err := uow.ConversationRepository().FindOne(ctx,
		specification.ByID(component.ConversationId),
		specification.UserOwnedBy(userId),
	)
	if err != nil {
		return nil, serverutils.NewInternalError(err)
	}
	if conversation == nil {
		return nil, serverutils.NewNotFoundError("Component not found")
	}
	return component, nil
}

func (s *componentService) ListByConversation(ctx context.Context, userId, conversationId uuid.UUID) ([]*dto.ComponentResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := s.checkOwnership(ctx, uow, userId, conversationId); err != nil {
		return nil, err
	}

	components, err := uow.ComponentRepository().FindAll(ctx,
		specification.ByConversationID(conversationId),
		specification.OrderBy("created_at", "DESC"),
		specification.OrderBy("id", "DESC"),
	)
	if err != nil {
		return nil, serverutils.NewInternalError(err)
	}

	result := make([]*dto.ComponentResponse, 0, len(components))
	for _, c := range components {
		result = append(result, toComponentResponse(c))
	}
	return result, nil
}

func (s *componentService) GetCurrent(ctx context.Context, userId, conversationId uuid.UUID) (*dto.ComponentResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := s.checkOwnership(ctx, uow, userId, conversationId); err != nil {
		return nil, err
	}

	component, err := uow.ComponentRepository().FindOne(ctx,
		specification.ByConversationID(conversationId),
		specification.CurrentOnly(),
	)
	if err != nil {
		return nil, serverutils.NewInternalError(err)
	}
	if component == nil {
		return nil, serverutils.NewNotFoundError("No current component for this conversation")
	}
	return toComponentResponse(component), nil
}

func (s *componentService) Create(ctx context.Context, userId uuid.UUID, req *dto.CreateComponentRequest) (*dto.ComponentResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := s.checkOwnership(ctx, uow, userId, req.ConversationId); err != nil {
		return nil, err
	}

	compType := req.Type
	if compType == "" {
		compType = string(entity.ComponentTypeComponent)
	}

	if err := uow.Begin(ctx); err != nil {
		return nil, serverutils.NewInternalError(err)
	}
	defer uow.Rollback()

	// The new component becomes current, all previous ones step down.
	if err := uow.ComponentRepository().ClearCurrent(ctx, req.ConversationId); err != nil {
		return nil, serverutils.NewInternalError(err)
	}

	component := entity.Component{
		Id:             uuid.New(),
		ConversationId: req.ConversationId,
		MessageId:      req.MessageId,
		Type:           entity.ComponentType(compType),
		Data:           req.Data,
		IsCurrent:      true,
		CreatedAt:      time.Now(),
	}
	if err := uow.ComponentRepository().Create(ctx, &component); err != nil {
		return nil, serverutils.NewInternalError(err)
	}

	if err := uow.Commit(); err != nil {
		return nil, serverutils.NewInternalError(err)
	}
	return toComponentResponse(&component), nil
}

func (s *componentService) Update(ctx context.Context, userId uuid.UUID, req *dto.UpdateComponentRequest) (*dto.ComponentResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	component, err := s.findOwnedComponent(ctx, uow, userId, req.Id)
	if err != nil {
		return nil, err
	}

	component.Data = req.Data
	if err := uow.ComponentRepository().Update(ctx, component); err != nil {
		return nil, serverutils.NewInternalError(err)
	}
	return toComponentResponse(component), nil
}

func (s *componentService) SetCurrent(ctx context.Context, userId, componentId uuid.UUID) (*dto.ComponentResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	component, err := s.findOwnedComponent(ctx, uow, userId, componentId)
	if err != nil {
		return nil, err
	}
	if component.IsCurrent {
		return toComponentResponse(component), nil
	}

	if err := uow.Begin(ctx); err != nil {
		return nil, serverutils.NewInternalError(err)
	}
	defer uow.Rollback()

	if err := uow.ComponentRepository().ClearCurrent(ctx, component.ConversationId); err != nil {
		return nil, serverutils.NewInternalError(err)
	}
	component.IsCurrent = true
	if err := uow.ComponentRepository().Update(ctx, component); err != nil {
		return nil, serverutils.NewInternalError(err)
	}

	if err := uow.Commit(); err != nil {
		return nil, serverutils.NewInternalError(err)
	}
	return toComponentResponse(component), nil
}

func (s *componentService) Delete(ctx context.Context, userId, componentId uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	component, err := s.findOwnedComponent(ctx, uow, userId, componentId)
	if err != nil {
		return err
	}
	if err := uow.ComponentRepository().Delete(ctx, component.Id); err != nil {
		return serverutils.NewInternalError(err)
	}
	return nil
}
