package controller

import (
	"ai-uigen-be/internal/dto"
	"ai-uigen-be/internal/pkg/serverutils"
	"ai-uigen-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IShareController interface {
	RegisterRoutes(r fiber.Router)
}

type shareController struct {
	service   service.IShareService
	authGuard fiber.Handler
}

func NewShareController(shareService service.IShareService, authGuard fiber.Handler) IShareController {
	return &shareController{
		service:   shareService,
		authGuard: authGuard,
	}
}

func (c *shareController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/share/v1")
	// The public view route has no auth. Everything else does.
	h.Get("/view/:slug", c.View)

	p := h.Use(c.authGuard)
	p.Post("", c.Publish)
	p.Get("", c.List)
	p.Delete(":id", c.Revoke)
}

func (c *shareController) Publish(ctx *fiber.Ctx) error {
	userId, err := serverutils.UserIdFromCtx(ctx)
	if err != nil {
		return err
	}

	var req dto.PublishShareRequest
	if err := ctx.BodyParser(&req); err != nil {
		return serverutils.NewValidationError("Invalid request body", nil)
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Publish(ctx.UserContext(), userId, &req)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Share link published", res))
}

func (c *shareController) List(ctx *fiber.Ctx) error {
	userId, err := serverutils.UserIdFromCtx(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.ListLinks(ctx.UserContext(), userId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Share links", res))
}

func (c *shareController) Revoke(ctx *fiber.Ctx) error {
	userId, err := serverutils.UserIdFromCtx(ctx)
	if err != nil {
		return err
	}

	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return serverutils.NewValidationError("Invalid share link id", nil)
	}

	res, err := c.service.Revoke(ctx.UserContext(), userId, id)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Share link revoked", res))
}

func (c *shareController) View(ctx *fiber.Ctx) error {
	slug := ctx.Params("slug")
	if slug == "" {
		return serverutils.NewValidationError("Missing slug", nil)
	}

	res, err := c.service.View(ctx.UserContext(), slug)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Shared component", res))
}
