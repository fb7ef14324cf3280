package serverutils

import (
	"errors"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

func TestAppErrorWrapsCause(t *testing.T) {
	cause := errors.New("connection refused")
	appErr := NewInternalError(cause)

	assert.ErrorIs(t, appErr, cause)
	assert.Contains(t, appErr.Error(), "connection refused")
}

func TestErrorStatusMapping(t *testing.T) {
	cases := []struct {
		err    *AppError
		status int
		code   string
	}{
		{NewValidationError("bad input", nil), fiber.StatusBadRequest, CodeValidation},
		{NewUnauthorizedError("no token"), fiber.StatusUnauthorized, CodeUnauthorized},
		{NewForbiddenError("not yours"), fiber.StatusForbidden, CodeForbidden},
		{NewNotFoundError("missing"), fiber.StatusNotFound, CodeNotFound},
		{NewConflictError("duplicate"), fiber.StatusConflict, CodeConflict},
		{NewGoneError("expired"), fiber.StatusGone, CodeGone},
		{NewQuotaExceededError("limit reached"), fiber.StatusTooManyRequests, CodeQuotaExceeded},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.status, tc.err.Status)
		assert.Equal(t, tc.code, tc.err.Code)
	}
}

func TestValidateRequestReportsFields(t *testing.T) {
	type signupReq struct {
		Email    string `validate:"required,email"`
		Password string `validate:"required,min=8"`
	}

	err := ValidateRequest(signupReq{Email: "not-an-email", Password: "short"})
	assert.Error(t, err)

	var appErr *AppError
	assert.ErrorAs(t, err, &appErr)
	assert.Equal(t, CodeValidation, appErr.Code)
	assert.NotEmpty(t, appErr.Details)
}

func TestValidateRequestPassesValidInput(t *testing.T) {
	type signupReq struct {
		Email    string `validate:"required,email"`
		Password string `validate:"required,min=8"`
	}

	err := ValidateRequest(signupReq{Email: "dev@example.com", Password: "longenough"})
	assert.NoError(t, err)
}
