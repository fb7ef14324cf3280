package controller

import (
	"ai-uigen-be/internal/dto"
	"ai-uigen-be/internal/pkg/serverutils"
	"ai-uigen-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IAuthController interface {
	RegisterRoutes(r fiber.Router)
}

type authController struct {
	service        service.IAuthService
	sessionService service.ISessionService
	authGuard      fiber.Handler
}

func NewAuthController(authService service.IAuthService, sessionService service.ISessionService, authGuard fiber.Handler) IAuthController {
	return &authController{
		service:        authService,
		sessionService: sessionService,
		authGuard:      authGuard,
	}
}

func (c *authController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/auth/v1")
	h.Post("/signup", c.Signup)
	h.Post("/login", c.Login)
	h.Post("/refresh", c.Refresh)

	p := h.Use(c.authGuard)
	p.Post("/logout", c.Logout)
	p.Get("/verify", c.Verify)
	p.Get("/profile", c.GetProfile)
	p.Put("/profile", c.UpdateProfile)
	p.Put("/password", c.ChangePassword)
	p.Get("/sessions", c.ListSessions)
	p.Post("/sessions/revoke-others", c.RevokeOtherSessions)
	p.Get("/sessions/:id", c.GetSession)
	p.Put("/sessions/:id", c.UpdateSession)
	p.Delete("/sessions/:id", c.RevokeSession)
}

func (c *authController) Signup(ctx *fiber.Ctx) error {
	var req dto.SignupRequest
	if err := ctx.BodyParser(&req); err != nil {
		return serverutils.NewValidationError("Invalid request body", nil)
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Signup(ctx.UserContext(), &req)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Account created", res))
}

func (c *authController) Login(ctx *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := ctx.BodyParser(&req); err != nil {
		return serverutils.NewValidationError("Invalid request body", nil)
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Login(ctx.UserContext(), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Logged in", res))
}

func (c *authController) Refresh(ctx *fiber.Ctx) error {
	var req dto.RefreshRequest
	if err := ctx.BodyParser(&req); err != nil {
		return serverutils.NewValidationError("Invalid request body", nil)
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Refresh(ctx.UserContext(), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Token refreshed", res))
}

func (c *authController) Logout(ctx *fiber.Ctx) error {
	userId, err := serverutils.UserIdFromCtx(ctx)
	if err != nil {
		return err
	}

	var req dto.LogoutRequest
	if err := ctx.BodyParser(&req); err != nil {
		return serverutils.NewValidationError("Invalid request body", nil)
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	if err := c.service.Logout(ctx.UserContext(), userId, req.SessionId); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Logged out", nil))
}

func (c *authController) Verify(ctx *fiber.Ctx) error {
	userId, err := serverutils.UserIdFromCtx(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.Verify(ctx.UserContext(), userId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Token valid", res))
}

func (c *authController) GetProfile(ctx *fiber.Ctx) error {
	userId, err := serverutils.UserIdFromCtx(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.GetProfile(ctx.UserContext(), userId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("User profile", res))
}

func (c *authController) UpdateProfile(ctx *fiber.Ctx) error {
	userId, err := serverutils.UserIdFromCtx(ctx)
	if err != nil {
		return err
	}

	var req dto.UpdateProfileRequest
	if err := ctx.BodyParser(&req); err != nil {
		return serverutils.NewValidationError("Invalid request body", nil)
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.UpdateProfile(ctx.UserContext(), userId, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Profile updated", res))
}

func (c *authController) ChangePassword(ctx *fiber.Ctx) error {
	userId, err := serverutils.UserIdFromCtx(ctx)
	if err != nil {
		return err
	}

	var req dto.ChangePasswordRequest
	if err := ctx.BodyParser(&req); err != nil {
		return serverutils.NewValidationError("Invalid request body", nil)
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	if err := c.service.ChangePassword(ctx.UserContext(), userId, &req); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Password changed", nil))
}

func (c *authController) ListSessions(ctx *fiber.Ctx) error {
	userId, err := serverutils.UserIdFromCtx(ctx)
	if err != nil {
		return err
	}

	var query dto.SessionListQuery
	if err := ctx.QueryParser(&query); err != nil {
		return serverutils.NewValidationError("Invalid query parameters", nil)
	}

	res, err := c.sessionService.ListSessions(ctx.UserContext(), userId, query.ActiveOnly)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Sessions", res))
}

func (c *authController) GetSession(ctx *fiber.Ctx) error {
	userId, err := serverutils.UserIdFromCtx(ctx)
	if err != nil {
		return err
	}

	sessionId, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return serverutils.NewValidationError("Invalid session id", nil)
	}

	res, err := c.sessionService.GetSession(ctx.UserContext(), userId, sessionId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Session", res))
}

func (c *authController) UpdateSession(ctx *fiber.Ctx) error {
	userId, err := serverutils.UserIdFromCtx(ctx)
	if err != nil {
		return err
	}

	sessionId, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return serverutils.NewValidationError("Invalid session id", nil)
	}

	var req dto.UpdateSessionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return serverutils.NewValidationError("Invalid request body", nil)
	}
	req.Id = sessionId
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.sessionService.UpdateSession(ctx.UserContext(), userId, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Session updated", res))
}

// RevokeOtherSessions keeps the caller's current session (from the
// X-Session-Id header or the request body) and deactivates the rest.
func (c *authController) RevokeOtherSessions(ctx *fiber.Ctx) error {
	userId, err := serverutils.UserIdFromCtx(ctx)
	if err != nil {
		return err
	}

	var req dto.RevokeOthersRequest
	if err := ctx.BodyParser(&req); err != nil && len(ctx.Body()) > 0 {
		return serverutils.NewValidationError("Invalid request body", nil)
	}

	keep := uuid.Nil
	if req.ExceptSessionId != nil {
		keep = *req.ExceptSessionId
	} else if sessionId, ok := ctx.Locals("session_id").(uuid.UUID); ok {
		keep = sessionId
	}

	revoked, err := c.sessionService.RevokeAllExcept(ctx.UserContext(), userId, keep)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Sessions revoked", dto.RevokeOthersResponse{Revoked: revoked}))
}

func (c *authController) RevokeSession(ctx *fiber.Ctx) error {
	userId, err := serverutils.UserIdFromCtx(ctx)
	if err != nil {
		return err
	}

	sessionId, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return serverutils.NewValidationError("Invalid session id", nil)
	}

	if err := c.sessionService.RevokeSession(ctx.UserContext(), userId, sessionId); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Session revoked", nil))
}
