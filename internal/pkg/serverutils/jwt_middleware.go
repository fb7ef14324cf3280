package serverutils

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// SessionVerifier checks that a session row is still active for the user.
// Implemented by the session service (redis fast path, database fallback).
type SessionVerifier interface {
	VerifyActive(ctx context.Context, sessionId, userId uuid.UUID) (bool, error)
}

// NewJwtMiddleware builds the auth guard for protected routes. It parses
// the bearer token, stores user_id and user_email in locals, and when the
// client sends X-Session-Id it also verifies the session has not been
// revoked server side.
func NewJwtMiddleware(secret string, sessions SessionVerifier) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		header := ctx.Get("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			return NewUnauthorizedError("Missing or invalid authorization header")
		}
		tokenStr := strings.TrimPrefix(header, "Bearer ")

		claims := jwt.MapClaims{}
		token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			return NewUnauthorizedError("Invalid or expired token")
		}

		if typ, _ := claims["type"].(string); typ == "refresh" {
			return NewUnauthorizedError("Refresh token cannot be used for access")
		}

		userIdStr, _ := claims["user_id"].(string)
		userId, err := uuid.Parse(userIdStr)
		if err != nil {
			return NewUnauthorizedError("Invalid token claims")
		}

		if sessionHeader := ctx.Get("X-Session-Id"); sessionHeader != "" {
			sessionId, err := uuid.Parse(sessionHeader)
			if err != nil {
				return NewUnauthorizedError("Invalid session id")
			}
			active, err := sessions.VerifyActive(ctx.UserContext(), sessionId, userId)
			if err != nil {
				return NewInternalError(err)
			}
			if !active {
				return NewUnauthorizedError("Session expired or revoked")
			}
			ctx.Locals("session_id", sessionId)
		}

		ctx.Locals("user_id", userId)
		if email, ok := claims["email"].(string); ok {
			ctx.Locals("user_email", email)
		}
		return ctx.Next()
	}
}

// UserIdFromCtx reads the authenticated user set by the middleware.
func UserIdFromCtx(ctx *fiber.Ctx) (uuid.UUID, error) {
	userId, ok := ctx.Locals("user_id").(uuid.UUID)
	if !ok {
		return uuid.Nil, NewUnauthorizedError("Missing authentication context")
	}
	return userId, nil
}
