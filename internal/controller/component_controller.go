package controller

import (
	"ai-uigen-be/internal/dto"
	"ai-uigen-be/internal/pkg/serverutils"
	"ai-uigen-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IComponentController interface {
	RegisterRoutes(r fiber.Router)
}

type componentController struct {
	service   service.IComponentService
	authGuard fiber.Handler
}

func NewComponentController(componentService service.IComponentService, authGuard fiber.Handler) IComponentController {
	return &componentController{
		service:   componentService,
		authGuard: authGuard,
	}
}

func (c *componentController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/component/v1")
	h.Use(c.authGuard)
	h.Post("", c.Create)
	h.Get("/conversation/:conversationId", c.ListByConversation)
	h.Get("/conversation/:conversationId/current", c.GetCurrent)
	h.Put(":id", c.Update)
	h.Put(":id/current", c.SetCurrent)
	h.Delete(":id", c.Delete)
}

func (c *componentController) Create(ctx *fiber.Ctx) error {
	userId, err := serverutils.UserIdFromCtx(ctx)
	if err != nil {
		return err
	}

	var req dto.CreateComponentRequest
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
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Component created", res))
}

func (c *componentController) ListByConversation(ctx *fiber.Ctx) error {
	userId, err := serverutils.UserIdFromCtx(ctx)
	if err != nil {
		return err
	}

	conversationId, err := uuid.Parse(ctx.Params("conversationId"))
	if err != nil {
		return serverutils.NewValidationError("Invalid conversation id", nil)
	}

	res, err := c.service.ListByConversation(ctx.UserContext(), userId, conversationId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Components", res))
}

func (c *componentController) GetCurrent(ctx *fiber.Ctx) error {
	userId, err := serverutils.UserIdFromCtx(ctx)
	if err != nil {
		return err
	}

	conversationId, err := uuid.Parse(ctx.Params("conversationId"))
	if err != nil {
		return serverutils.NewValidationError("Invalid conversation id", nil)
	}

	res, err := c.service.GetCurrent(ctx.UserContext(), userId, conversationId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Current component", res))
}

func (c *componentController) Update(ctx *fiber.Ctx) error {
	userId, err := serverutils.UserIdFromCtx(ctx)
	if err != nil {
		return err
	}

	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return serverutils.NewValidationError("Invalid component id", nil)
	}

	var req dto.UpdateComponentRequest
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
	return ctx.JSON(serverutils.SuccessResponse("Component updated", res))
}

func (c *componentController) SetCurrent(ctx *fiber.Ctx) error {
	userId, err := serverutils.UserIdFromCtx(ctx)
	if err != nil {
		return err
	}

	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return serverutils.NewValidationError("Invalid component id", nil)
	}

	res, err := c.service.SetCurrent(ctx.UserContext(), userId, id)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Component set as current", res))
}

func (c *componentController) Delete(ctx *fiber.Ctx) error {
	userId, err := serverutils.UserIdFromCtx(ctx)
	if err != nil {
		return err
	}

	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return serverutils.NewValidationError("Invalid component id", nil)
	}

	if err := c.service.Delete(ctx.UserContext(), userId, id); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Component deleted", nil))
}
