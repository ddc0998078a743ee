package companionsdk

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/phishguard/dashboard/pkg/httpx"
)

// Error codes shared between server responses and the SDK client.
const (
	ErrorCodeInvalidRequest     = "invalid_request"
	ErrorCodeUnauthorized       = "unauthorized"
	ErrorCodeInvalidCode        = "invalid_code"
	ErrorCodeCodeExpired        = "code_expired"
	ErrorCodeCodeConsumed       = "code_consumed"
	ErrorCodeIdentityNotFound   = "identity_not_found"
	ErrorCodeSessionNotFound    = "session_not_found"
	ErrorCodeRateLimited        = "rate_limited"
	ErrorCodeServerError        = "server_error"
	ErrorCodeStorageUnavailable = "storage_unavailable"
)

// APIError represents a structured error response from the dashboard API.
// It implements the error interface and is used both by handlers (to write
// responses) and by the SDK client (to surface server errors).
type APIError struct {
	// StatusCode is the HTTP status code for this error.
	StatusCode int `json:"-"`

	// Code is the machine-readable error code.
	Code string `json:"error"`

	// Description is a human-readable, actionable message.
	Description string `json:"message"`

	// ResetAt is set on rate-limit denials: the instant the current window
	// resets, so clients can back off precisely.
	ResetAt *time.Time `json:"resetAt,omitempty"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Description)
}

// WriteError writes this APIError to an HTTP response writer.
func (e *APIError) WriteError(w http.ResponseWriter) {
	httpx.WriteJSON(w, e.StatusCode, e)
}

var (
	// ErrInvalidRequest is returned for malformed or incomplete bodies.
	ErrInvalidRequest = &APIError{
		StatusCode:  http.StatusBadRequest,
		Code:        ErrorCodeInvalidRequest,
		Description: "the request is malformed or missing required fields",
	}

	// ErrUnauthorized covers missing/invalid credentials and bad logins.
	// Wrong password and unknown email deliberately look identical.
	ErrUnauthorized = &APIError{
		StatusCode:  http.StatusUnauthorized,
		Code:        ErrorCodeUnauthorized,
		Description: "invalid credentials",
	}

	// ErrInvalidCode is returned when a companion code was never issued.
	ErrInvalidCode = &APIError{
		StatusCode:  http.StatusUnauthorized,
		Code:        ErrorCodeInvalidCode,
		Description: "authorization code not recognized, please retry login",
	}

	// ErrCodeExpired is returned when a companion code outlived its TTL.
	ErrCodeExpired = &APIError{
		StatusCode:  http.StatusUnauthorized,
		Code:        ErrorCodeCodeExpired,
		Description: "authorization code expired, please retry login",
	}

	// ErrCodeConsumed is returned when a companion code was already redeemed.
	ErrCodeConsumed = &APIError{
		StatusCode:  http.StatusUnauthorized,
		Code:        ErrorCodeCodeConsumed,
		Description: "authorization code already used, please retry login",
	}

	// ErrIdentityNotFound is returned when the code's identity no longer exists.
	ErrIdentityNotFound = &APIError{
		StatusCode:  http.StatusNotFound,
		Code:        ErrorCodeIdentityNotFound,
		Description: "user account not found",
	}

	// ErrSessionNotFound is returned when deactivating a session that never existed.
	ErrSessionNotFound = &APIError{
		StatusCode:  http.StatusNotFound,
		Code:        ErrorCodeSessionNotFound,
		Description: "desktop session not found",
	}

	// ErrServerError is the generic fault response, including signing failures.
	ErrServerError = &APIError{
		StatusCode:  http.StatusInternalServerError,
		Code:        ErrorCodeServerError,
		Description: "internal server error",
	}

	// ErrStorageUnavailable signals a transient store failure; retry with backoff.
	ErrStorageUnavailable = &APIError{
		StatusCode:  http.StatusServiceUnavailable,
		Code:        ErrorCodeStorageUnavailable,
		Description: "storage temporarily unavailable, retry with backoff",
	}
)

// NewRateLimitError builds the structured 429 deny with the exact reset time.
func NewRateLimitError(resetAt time.Time) *APIError {
	return &APIError{
		StatusCode:  http.StatusTooManyRequests,
		Code:        ErrorCodeRateLimited,
		Description: "rate limit exceeded",
		ResetAt:     &resetAt,
	}
}

// ParseAPIError decodes an error body from a response. Falls back to a
// generic error carrying the status code when the body isn't structured.
func ParseAPIError(statusCode int, body []byte) *APIError {
	apiErr := &APIError{StatusCode: statusCode}
	if err := json.Unmarshal(body, apiErr); err != nil || apiErr.Code == "" {
		apiErr.Code = ErrorCodeServerError
		apiErr.Description = fmt.Sprintf("unexpected response (status %d)", statusCode)
	}
	return apiErr
}
