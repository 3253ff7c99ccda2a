// Package protocol defines the request/response surface of an app's
// store coordinator: a logical method+path, a typed payload, and a
// tagged success/error envelope.
package protocol

import (
	"fmt"
	"net/http"
)

const (
	MethodGet  = "GET"
	MethodPost = "POST"
)

const (
	PathLog        = "/log"
	PathLogs       = "/logs"
	PathStats      = "/stats"
	PathPrune      = "/prune"
	PathHealthURLs = "/health-urls"
	PathHealth     = "/health"
)

type ErrorCode string

const (
	CodeBadRequest         ErrorCode = "BAD_REQUEST"
	CodeUnauthorized       ErrorCode = "UNAUTHORIZED"
	CodeForbidden          ErrorCode = "FORBIDDEN"
	CodeNotFound           ErrorCode = "NOT_FOUND"
	CodeValidationError    ErrorCode = "VALIDATION_ERROR"
	CodeInternalError      ErrorCode = "INTERNAL_ERROR"
	CodeNotImplemented     ErrorCode = "NOT_IMPLEMENTED"
	CodeServiceUnavailable ErrorCode = "SERVICE_UNAVAILABLE"
)

// HTTPStatus is the fixed mapping used by the HTTP facade. Success
// envelopes always render as 200.
func (c ErrorCode) HTTPStatus() int {
	switch c {
	case CodeBadRequest:
		return http.StatusBadRequest
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeForbidden:
		return http.StatusForbidden
	case CodeNotFound:
		return http.StatusNotFound
	case CodeValidationError:
		return http.StatusUnprocessableEntity
	case CodeNotImplemented:
		return http.StatusNotImplemented
	case CodeServiceUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

type Error struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Details any       `json:"details,omitempty"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

type Request struct {
	Method string
	Path   string
	Body   any
}

type Response struct {
	OK      bool   `json:"ok"`
	Payload any    `json:"payload,omitempty"`
	Error   *Error `json:"error,omitempty"`
}

func Success(payload any) Response {
	return Response{OK: true, Payload: payload}
}

func Fail(code ErrorCode, message string) Response {
	return Response{OK: false, Error: &Error{Code: code, Message: message}}
}

func Failf(code ErrorCode, format string, args ...any) Response {
	return Fail(code, fmt.Sprintf(format, args...))
}
