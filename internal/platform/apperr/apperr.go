// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package apperr defines the centralized error type for Expensa.

It is used on both sides of the wire:

  - Client: every raw transport failure (connection error, non-2xx response) is
    converted into an [AppError] at the transport boundary by [Network] and
    [FromResponse]. Downstream code inspects [Kind] and never looks at ad hoc
    response shapes.
  - Development API: handlers return [AppError] values that the respond
    package serializes as `{"message": ..., "code": ...}`.
*/
package apperr

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// # Taxonomy

// Kind classifies a failure for recovery and messaging decisions.
type Kind string

const (
	// KindNetwork means no HTTP status was reached (connectivity loss, DNS, refused).
	KindNetwork Kind = "network"
	// KindUnauthorized is a 401 response.
	KindUnauthorized Kind = "unauthorized"
	// KindBadRequest covers client preconditions and 400/422 server rejections.
	KindBadRequest Kind = "bad_request"
	// KindNotFound is a 404 response.
	KindNotFound Kind = "not_found"
	// KindServer is any 5xx response.
	KindServer Kind = "server"
	// KindUnknown is everything else.
	KindUnknown Kind = "unknown"
)

// KindForStatus maps an HTTP status code onto the taxonomy.
// A zero status means the request never reached the server.
func KindForStatus(status int) Kind {
	switch {
	case status == 0:
		return KindNetwork
	case status == http.StatusUnauthorized:
		return KindUnauthorized
	case status == http.StatusBadRequest, status == http.StatusUnprocessableEntity:
		return KindBadRequest
	case status == http.StatusNotFound:
		return KindNotFound
	case status >= http.StatusInternalServerError:
		return KindServer
	default:
		return KindUnknown
	}
}

// AppError is the canonical error type for Expensa.
//
// # Security
//
// The Cause field is for logging only and is never serialized.
type AppError struct {
	// Kind is the taxonomy bucket. Derived from HTTPStatus unless set explicitly.
	Kind Kind `json:"-"`
	// Code is a machine-readable error identifier (e.g. "NOT_FOUND").
	Code string `json:"code"`
	// Message is a human-readable description safe to show to the user.
	Message string `json:"message"`
	// HTTPStatus is the HTTP status code, 0 for network failures.
	HTTPStatus int `json:"-"`
	// ServerMessage is the message the server put in the error body, if any.
	ServerMessage string `json:"-"`
	// Cause is the underlying error.
	Cause error `json:"-"`
	// Details holds per-field validation errors.
	Details []FieldError `json:"details,omitempty"`
}

// FieldError represents a single field-level validation failure.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error implements the error interface. It returns the user-safe message.
func (e *AppError) Error() string { return e.Message }

// Unwrap allows [errors.Is] and [errors.As] to traverse the cause chain.
func (e *AppError) Unwrap() error { return e.Cause }

// # Transport Boundary

// errorBody is the error shape every endpoint is expected to return.
type errorBody struct {
	Message string       `json:"message"`
	Code    string       `json:"code"`
	Details []FieldError `json:"details"`
}

// Network wraps a failure that happened before any HTTP status was received.
func Network(cause error) *AppError {
	return &AppError{
		Kind:    KindNetwork,
		Code:    "NETWORK_ERROR",
		Message: "Network error. Please check your connection.",
		Cause:   cause,
	}
}

// FromResponse converts a non-2xx response into an [AppError].
//
// The body is parsed as `{"message": string}`; unparseable or empty bodies
// leave ServerMessage blank so callers fall back to their own default.
func FromResponse(status int, body []byte) *AppError {
	var parsed errorBody
	if len(body) > 0 {
		_ = json.Unmarshal(body, &parsed)
	}

	message := strings.TrimSpace(parsed.Message)
	display := message
	if display == "" {
		display = http.StatusText(status)
	}

	code := parsed.Code
	if code == "" {
		code = strings.ToUpper(strings.ReplaceAll(http.StatusText(status), " ", "_"))
	}

	return &AppError{
		Kind:          KindForStatus(status),
		Code:          code,
		Message:       display,
		HTTPStatus:    status,
		ServerMessage: message,
		Details:       parsed.Details,
		Cause:         fmt.Errorf("http status %d", status),
	}
}

// Describe re-labels err with the "prefer server message, else default" rule.
//
// The returned error keeps Kind and HTTPStatus of the original and wraps it
// as Cause, so classification survives the relabel.
func Describe(err error, defaultMessage string) error {
	if err == nil {
		return nil
	}

	appError := As(err)
	if appError == nil {
		return &AppError{Kind: KindUnknown, Code: "UNKNOWN", Message: defaultMessage, Cause: err}
	}

	message := appError.ServerMessage
	if message == "" {
		message = defaultMessage
	}

	return &AppError{
		Kind:          appError.Kind,
		Code:          appError.Code,
		Message:       message,
		HTTPStatus:    appError.HTTPStatus,
		ServerMessage: appError.ServerMessage,
		Details:       appError.Details,
		Cause:         err,
	}
}

// Relabel replaces the user-facing message while keeping classification.
func Relabel(err error, message string) error {
	if err == nil {
		return nil
	}

	appError := As(err)
	if appError == nil {
		return &AppError{Kind: KindUnknown, Code: "UNKNOWN", Message: message, Cause: err}
	}

	return &AppError{
		Kind:          appError.Kind,
		Code:          appError.Code,
		Message:       message,
		HTTPStatus:    appError.HTTPStatus,
		ServerMessage: appError.ServerMessage,
		Details:       appError.Details,
		Cause:         err,
	}
}

// # Client Errors (4xx)

// BadRequest creates a client-side precondition failure. No request is sent.
func BadRequest(msg string, details ...FieldError) *AppError {
	return &AppError{
		Kind:       KindBadRequest,
		Code:       "BAD_REQUEST",
		Message:    msg,
		HTTPStatus: http.StatusBadRequest,
		Details:    details,
	}
}

// NotFound creates a 404 [AppError] for a named resource.
//
// Example:
//
//	apperr.NotFound("Expense") // Returns "Expense not found"
func NotFound(resource string) *AppError {
	return &AppError{
		Kind:       KindNotFound,
		Code:       "NOT_FOUND",
		Message:    resource + " not found",
		HTTPStatus: http.StatusNotFound,
	}
}

// Unauthorized creates a 401 [AppError].
func Unauthorized(msg string) *AppError {
	return &AppError{
		Kind:       KindUnauthorized,
		Code:       "UNAUTHORIZED",
		Message:    msg,
		HTTPStatus: http.StatusUnauthorized,
	}
}

// Forbidden creates a 403 [AppError].
func Forbidden(msg string) *AppError {
	return &AppError{
		Kind:       KindUnknown,
		Code:       "FORBIDDEN",
		Message:    msg,
		HTTPStatus: http.StatusForbidden,
	}
}

// Conflict creates a 409 [AppError] for invalid state transitions and duplicates.
func Conflict(msg string) *AppError {
	return &AppError{
		Kind:       KindUnknown,
		Code:       "CONFLICT",
		Message:    msg,
		HTTPStatus: http.StatusConflict,
	}
}

// ValidationError creates a 400 [AppError] with optional per-field details.
func ValidationError(msg string, details ...FieldError) *AppError {
	return &AppError{
		Kind:       KindBadRequest,
		Code:       "VALIDATION_ERROR",
		Message:    msg,
		HTTPStatus: http.StatusBadRequest,
		Details:    details,
	}
}

// RateLimited creates a 429 [AppError].
func RateLimited(retryAfterSeconds int) *AppError {
	return &AppError{
		Kind:       KindUnknown,
		Code:       "RATE_LIMITED",
		Message:    fmt.Sprintf("Too many requests. Try again in %ds.", retryAfterSeconds),
		HTTPStatus: http.StatusTooManyRequests,
	}
}

// # Server Errors (5xx)

// Internal creates a 500 [AppError] wrapping an unexpected server-side error.
func Internal(cause error) *AppError {
	return &AppError{
		Kind:       KindServer,
		Code:       "INTERNAL_ERROR",
		Message:    "An unexpected error occurred",
		HTTPStatus: http.StatusInternalServerError,
		Cause:      cause,
	}
}

// # Helpers

// As extracts the [*AppError] from err's chain. It returns nil if not found.
func As(err error) *AppError {
	var appError *AppError
	if errors.As(err, &appError) {
		return appError
	}
	return nil
}

// KindOf reports the taxonomy bucket of err, or [KindUnknown] for foreign errors.
func KindOf(err error) Kind {
	if appError := As(err); appError != nil {
		if appError.Kind != "" {
			return appError.Kind
		}
		return KindForStatus(appError.HTTPStatus)
	}
	return KindUnknown
}

// Is reports whether err belongs to the given Kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
