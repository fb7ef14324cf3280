package controller

import (
	"ai-uigen-be/internal/dto"
	"ai-uigen-be/internal/pkg/serverutils"
	"ai-uigen-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IConversationController interface {
	RegisterRoutes(r fiber.Router)
}

type conversationController struct {
	service        service.IConversationService
	messageService service.IMessageService
	authGuard      fiber.Handler
}

func NewConversationController(
	conversationService service.IConversationService,
	messageService service.IMessageService,
	authGuard fiber.Handler,
) IConversationController {
	return &conversationController{
		service:        conversationService,
		messageService: messageService,
		authGuard:      authGuard,
	}
}

func (c *conversationController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/conversation/v1")
	h.Use(c.authGuard)
	h.Get("", c.List)
	h.Post("", c.Create)
	h.Get(":id", c.Show)
	h.Put(":id", c.Update)
	h.Delete(":id", c.Delete)
	h.Get(":id/messages", c.ListMessages)
	h.Post(":id/messages", c.CreateMessage)
	h.Get(":id/messages/:messageId", c.GetMessage)
	h.Put(":id/messages/:messageId", c.UpdateMessage)
}

func (c *conversationController) List(ctx *fiber.Ctx) error {
	userId, err := serverutils.UserIdFromCtx(ctx)
	if err != nil {
		return err
	}

	var query dto.ListQuery
	if err := ctx.QueryParser(&query); err != nil {
		return serverutils.NewValidationError("Invalid query parameters", nil)
	}

	res, meta, err := c.service.List(ctx.UserContext(), userId, &query)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponseWithMeta("Conversations", res, meta))
}

func (c *conversationController) Create(ctx *fiber.Ctx) error {
	userId, err := serverutils.UserIdFromCtx(ctx)
	if err != nil {
		return err
	}

	var req dto.CreateConversationRequest
	if err := ctx.BodyParser(&req); err != nil {
		return serverutils.NewValidationError("Invalid request body", nil)
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Create(ctx.UserContext(), userId, &req)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Conversation created", res))
}

func (c *conversationController) Show(ctx *fiber.Ctx) error {
	userId, err := serverutils.UserIdFromCtx(ctx)
	if err != nil {
		return err
	}

	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return serverutils.NewValidationError("Invalid conversation id", nil)
	}

	res, err := c.service.Show(ctx.UserContext(), userId, id)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Conversation", res))
}

func (c *conversationController) Update(ctx *fiber.Ctx) error {
	userId, err := serverutils.UserIdFromCtx(ctx)
	if err != nil {
		return err
	}

	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return serverutils.NewValidationError("Invalid conversation id", nil)
	}

	var req dto.UpdateConversationRequest
	if err := ctx.BodyParser(&req); err != nil {
		return serverutils.NewValidationError("Invalid request body", nil)
	}
	req.Id = id
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Update(ctx.UserContext(), userId, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Conversation updated", res))
}

func (c *conversationController) Delete(ctx *fiber.Ctx) error {
	userId, err := serverutils.UserIdFromCtx(ctx)
	if err != nil {
		return err
	}

	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return serverutils.NewValidationError("Invalid conversation id", nil)
	}

	if err := c.service.Delete(ctx.UserContext(), userId, id); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Conversation deleted", nil))
}

func (c *conversationController) ListMessages(ctx *fiber.Ctx) error {
	userId, err := serverutils.UserIdFromCtx(ctx)
	if err != nil {
		return err
	}

	conversationId, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return serverutils.NewValidationError("Invalid conversation id", nil)
	}

	var query dto.ListQuery
	if err := ctx.QueryParser(&query); err != nil {
		return serverutils.NewValidationError("Invalid query parameters", nil)
	}

	res, meta, err := c.messageService.List(ctx.UserContext(), userId, conversationId, &query)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponseWithMeta("Messages", res, meta))
}

func (c *conversationController) CreateMessage(ctx *fiber.Ctx) error {
	userId, err := serverutils.UserIdFromCtx(ctx)
	if err != nil {
		return err
	}

	conversationId, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return serverutils.NewValidationError("Invalid conversation id", nil)
	}

	var req dto.CreateMessageRequest
	if err := ctx.BodyParser(&req); err != nil {
		return serverutils.NewValidationError("Invalid request body", nil)
	}
	req.ConversationId = conversationId
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.messageService.Create(ctx.UserContext(), userId, &req)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Message created", res))
}

func (c *conversationController) GetMessage(ctx *fiber.Ctx) error {
	userId, err := serverutils.UserIdFromCtx(ctx)
	if err != nil {
		return err
	}

	messageId, err := uuid.Parse(ctx.Params("messageId"))
	if err != nil {
		return serverutils.NewValidationError("Invalid message id", nil)
	}

	res, err := c.messageService.Get(ctx.UserContext(), userId, messageId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Message", res))
}

func (c *conversationController) UpdateMessage(ctx *fiber.Ctx) error {
	userId, err := serverutils.UserIdFromCtx(ctx)
	if err != nil {
		return err
	}

	messageId, err := uuid.Parse(ctx.Params("messageId"))
	if err != nil {
		return serverutils.NewValidationError("Invalid message id", nil)
	}

	var req dto.UpdateMessageRequest
	if err := ctx.BodyParser(&req); err != nil {
		return serverutils.NewValidationError("Invalid request body", nil)
	}
	req.Id = messageId
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.messageService.Update(ctx.UserContext(), userId, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Message updated", res))
}
