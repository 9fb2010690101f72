package types

import (
	"fmt"
	"net/http"
)

// ErrorCode is a typed string for categorizing application errors.
type ErrorCode string

// The dispatch service exposes a closed taxonomy of five outward error kinds.
// All handlers MUST use these constants instead of hardcoded strings; every
// failure that reaches a client maps to exactly one of them.
const (
	// ErrCodeUnauthenticated covers missing/invalid caller identity and
	// bearer-token rejections from the mail provider.
	ErrCodeUnauthenticated ErrorCode = "unauthenticated"

	// ErrCodeInvalidArgument covers missing or malformed request fields,
	// detected before any network call is made.
	ErrCodeInvalidArgument ErrorCode = "invalid_argument"

	// ErrCodePermissionDenied covers provider rejections of the send scope
	// for an otherwise valid token.
	ErrCodePermissionDenied ErrorCode = "permission_denied"

	// ErrCodeResourceExhausted covers rate limiting and quota exhaustion,
	// both explicit (429) and message-text ("quota") signals.
	ErrCodeResourceExhausted ErrorCode = "resource_exhausted"

	// ErrCodeInternal is the catch-all for everything else, including
	// unexpected shapes from the provider.
	ErrCodeInternal ErrorCode = "internal"
)

// HTTPStatus maps an ErrorCode to its corresponding HTTP status code.
// Used by the API layer to translate AppErrors into HTTP responses.
// Returns 500 for unrecognized error codes as a safe default.
func (c ErrorCode) HTTPStatus() int {
	switch c {
	case ErrCodeUnauthenticated:
		return http.StatusUnauthorized // 401
	case ErrCodeInvalidArgument:
		return http.StatusBadRequest // 400
	case ErrCodePermissionDenied:
		return http.StatusForbidden // 403
	case ErrCodeResourceExhausted:
		return http.StatusTooManyRequests // 429
	default:
		return http.StatusInternalServerError // 500
	}
}

// AppError is the standard application error type used throughout the service.
// All domain and handler errors should be expressed as AppError to enable
// consistent error formatting, HTTP status mapping, and error chain support.
type AppError struct {
	Code    ErrorCode      `json:"code"`
	Message string         `json:"message"`
	Err     error          `json:"-"`
	Details map[string]any `json:"details,omitempty"`
}

// Error implements the error interface.
func (e *AppError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for errors.Is/errors.As support.
func (e *AppError) Unwrap() error {
	return e.Err
}

// HTTPStatus returns the HTTP status code corresponding to this error's code.
func (e *AppError) HTTPStatus() int {
	return e.Code.HTTPStatus()
}

// NewAppError creates a new AppError with the given code, message, and optional
// underlying error. This is the standard constructor for domain errors.
func NewAppError(code ErrorCode, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// NewAppErrorWithDetails creates a new AppError with the given code, message,
// underlying error, and structured details.
func NewAppErrorWithDetails(code ErrorCode, message string, err error, details map[string]any) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
		Details: details,
	}
}

// RelayError is the raw failure shape returned by the mail relay transport.
// It carries whatever the provider gave us: an HTTP-like status code (0 when
// the request never produced a response) and the provider's message text.
// The transport does not decide user-facing semantics; the classifier in the
// mail package maps it onto the closed ErrorCode taxonomy.
type RelayError struct {
	StatusCode int
	Message    string
	Err        error
}

// Error implements the error interface.
func (e *RelayError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("mail relay failure (status %d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("mail relay failure: %s", e.Message)
}

// Unwrap returns the underlying error for errors.Is/errors.As support.
func (e *RelayError) Unwrap() error {
	return e.Err
}
