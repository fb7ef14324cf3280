package serverutils

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

type stubVerifier struct {
	active bool
	called bool
}

func (v *stubVerifier) VerifyActive(ctx context.Context, sessionId, userId uuid.UUID) (bool, error) {
	v.called = true
	return v.active, nil
}

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func accessClaims(userId uuid.UUID) jwt.MapClaims {
	return jwt.MapClaims{
		"user_id": userId.String(),
		"email":   "user@example.com",
		"exp":     time.Now().Add(time.Hour).Unix(),
		"iat":     time.Now().Unix(),
	}
}

func newGuardedApp(verifier SessionVerifier) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	app.Get("/protected", NewJwtMiddleware(testSecret, verifier), func(ctx *fiber.Ctx) error {
		userId, err := UserIdFromCtx(ctx)
		if err != nil {
			return err
		}
		return ctx.SendString(userId.String())
	})
	return app
}

func TestJwtMiddlewareAcceptsValidToken(t *testing.T) {
	userId := uuid.New()
	app := newGuardedApp(&stubVerifier{})

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, testSecret, accessClaims(userId)))

	res, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, res.StatusCode)
}

func TestJwtMiddlewareRejectsMissingHeader(t *testing.T) {
	app := newGuardedApp(&stubVerifier{})

	res, err := app.Test(httptest.NewRequest("GET", "/protected", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, res.StatusCode)
}

func TestJwtMiddlewareRejectsWrongSignature(t *testing.T) {
	userId := uuid.New()
	app := newGuardedApp(&stubVerifier{})

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, "other-secret", accessClaims(userId)))

	res, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, res.StatusCode)
}

func TestJwtMiddlewareRejectsExpiredToken(t *testing.T) {
	userId := uuid.New()
	claims := accessClaims(userId)
	claims["exp"] = time.Now().Add(-time.Minute).Unix()
	app := newGuardedApp(&stubVerifier{})

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, testSecret, claims))

	res, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, res.StatusCode)
}

func TestJwtMiddlewareRejectsRefreshToken(t *testing.T) {
	userId := uuid.New()
	claims := accessClaims(userId)
	claims["type"] = "refresh"
	app := newGuardedApp(&stubVerifier{})

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, testSecret, claims))

	res, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, res.StatusCode)
}

func TestJwtMiddlewareChecksSessionHeader(t *testing.T) {
	userId := uuid.New()

	t.Run("revoked session is rejected", func(t *testing.T) {
		verifier := &stubVerifier{active: false}
		app := newGuardedApp(verifier)

		req := httptest.NewRequest("GET", "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+signToken(t, testSecret, accessClaims(userId)))
		req.Header.Set("X-Session-Id", uuid.New().String())

		res, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, res.StatusCode)
		assert.True(t, verifier.called)
	})

	t.Run("active session passes", func(t *testing.T) {
		verifier := &stubVerifier{active: true}
		app := newGuardedApp(verifier)

		req := httptest.NewRequest("GET", "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+signToken(t, testSecret, accessClaims(userId)))
		req.Header.Set("X-Session-Id", uuid.New().String())

		res, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, res.StatusCode)
	})

	t.Run("no session header skips verification", func(t *testing.T) {
		verifier := &stubVerifier{active: false}
		app := newGuardedApp(verifier)

		req := httptest.NewRequest("GET", "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+signToken(t, testSecret, accessClaims(userId)))

		res, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, res.StatusCode)
		assert.False(t, verifier.called)
	})
}
