package serverutils

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

// Error codes exposed in the response envelope.
const (
	CodeValidation    = "VALIDATION"
	CodeUnauthorized  = "UNAUTHORIZED"
	CodeForbidden     = "FORBIDDEN"
	CodeNotFound      = "NOT_FOUND"
	CodeConflict      = "CONFLICT"
	CodeGone          = "GONE"
	CodeQuotaExceeded = "QUOTA_EXCEEDED"
	CodeInternal      = "INTERNAL"
)

// AppError is the only error type services return to controllers. The
// error handler maps it to a status and envelope; anything else becomes a
// 500 with no internal detail leaked.
type AppError struct {
	Code    string
	Message string
	Status  int
	Details any
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NewValidationError(message string, details any) *AppError {
	return &AppError{Code: CodeValidation, Message: message, Status: fiber.StatusBadRequest, Details: details}
}

func NewUnauthorizedError(message string) *AppError {
	return &AppError{Code: CodeUnauthorized, Message: message, Status: fiber.StatusUnauthorized}
}

func NewForbiddenError(message string) *AppError {
	return &AppError{Code: CodeForbidden, Message: message, Status: fiber.StatusForbidden}
}

func NewNotFoundError(message string) *AppError {
	return &AppError{Code: CodeNotFound, Message: message, Status: fiber.StatusNotFound}
}

func NewConflictError(message string) *AppError {
	return &AppError{Code: CodeConflict, Message: message, Status: fiber.StatusConflict}
}

func NewGoneError(message string) *AppError {
	return &AppError{Code: CodeGone, Message: message, Status: fiber.StatusGone}
}

func NewQuotaExceededError(message string) *AppError {
	return &AppError{Code: CodeQuotaExceeded, Message: message, Status: fiber.StatusTooManyRequests}
}

func NewInternalError(err error) *AppError {
	return &AppError{Code: CodeInternal, Message: "Internal server error", Status: fiber.StatusInternalServerError, Err: err}
}

// ErrorHandler is installed as the fiber app's ErrorHandler so every error
// leaving a controller ends up in the shared envelope.
func ErrorHandler(ctx *fiber.Ctx, err error) error {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return ctx.Status(appErr.Status).JSON(ErrorResponseWithDetails(appErr.Code, appErr.Message, appErr.Details))
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		code := CodeInternal
		switch fiberErr.Code {
		case fiber.StatusNotFound:
			code = CodeNotFound
		case fiber.StatusBadRequest:
			code = CodeValidation
		case fiber.StatusUnauthorized:
			code = CodeUnauthorized
		}
		return ctx.Status(fiberErr.Code).JSON(ErrorResponse(code, fiberErr.Message))
	}

	return ctx.Status(fiber.StatusInternalServerError).JSON(ErrorResponse(CodeInternal, "Internal server error"))
}
