package controller

import (
	"ai-uigen-be/internal/dto"
	"ai-uigen-be/internal/pkg/serverutils"
	"ai-uigen-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IQuotaController interface {
	RegisterRoutes(r fiber.Router)
}

type quotaController struct {
	service   service.IQuotaService
	authGuard fiber.Handler
}

func NewQuotaController(quotaService service.IQuotaService, authGuard fiber.Handler) IQuotaController {
	return &quotaController{
		service:   quotaService,
		authGuard: authGuard,
	}
}

func (c *quotaController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/quota/v1")
	h.Use(c.authGuard)
	h.Get("", c.Show)
	h.Put("", c.Update)
}

func (c *quotaController) Show(ctx *fiber.Ctx) error {
	userId, err := serverutils.UserIdFromCtx(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.GetQuota(ctx.UserContext(), userId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Quota status", res))
}

func (c *quotaController) Update(ctx *fiber.Ctx) error {
	userId, err := serverutils.UserIdFromCtx(ctx)
	if err != nil {
		return err
	}

	var req dto.UpdateQuotaRequest
	if err := ctx.BodyParser(&req); err != nil {
		return serverutils.NewValidationError("Invalid request body", nil)
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.UpdateQuota(ctx.UserContext(), userId, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Quota updated", res))
}
