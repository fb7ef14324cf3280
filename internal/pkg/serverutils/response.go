package serverutils

import "time"

// Meta carries pagination details for list endpoints.
type Meta struct {
	NextCursor *string `json:"nextCursor,omitempty"`
	PrevCursor *string `json:"prevCursor,omitempty"`
	Total      *int64  `json:"total,omitempty"`
}

type ErrorBody struct {
	Code    string `json:"code"`
	Details any    `json:"details,omitempty"`
}

// BaseResponse is the envelope every endpoint returns, success or failure.
type BaseResponse[T any] struct {
	Success   bool       `json:"success"`
	Message   string     `json:"message"`
	Data      *T         `json:"data,omitempty"`
	Error     *ErrorBody `json:"error,omitempty"`
	Meta      *Meta      `json:"meta,omitempty"`
	Timestamp string     `json:"timestamp"`
}

func SuccessResponse[T any](message string, data T) BaseResponse[T] {
	return BaseResponse[T]{
		Success:   true,
		Message:   message,
		Data:      &data,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

func SuccessResponseWithMeta[T any](message string, data T, meta *Meta) BaseResponse[T] {
	res := SuccessResponse(message, data)
	res.Meta = meta
	return res
}

func ErrorResponse(code string, message string) BaseResponse[any] {
	return ErrorResponseWithDetails(code, message, nil)
}

func ErrorResponseWithDetails(code string, message string, details any) BaseResponse[any] {
	return BaseResponse[any]{
		Success: false,
		Message: message,
		Error: &ErrorBody{
			Code:    code,
			Details: details,
		},
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}
