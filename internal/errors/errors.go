package errors

import (
	"errors"
	"net/http"
	"strings"
)

var (
	// ErrUserNotFound is returned when a user is not found by id or email.
	ErrUserNotFound = errors.New("user not found")
	// ErrEmailTaken is returned when registering an email that already exists.
	ErrEmailTaken = errors.New("email already in use")
	// ErrInvalidCredentials is returned when email or password is incorrect.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrInvalidToken is returned when a bearer token is missing, malformed, expired or orphaned.
	ErrInvalidToken = errors.New("invalid or expired token")
	// ErrRoleMissing is returned when the acting identity carries no role.
	ErrRoleMissing = errors.New("user role not found")
	// ErrInsufficientRole is returned when the identity role is not allowed on a route.
	ErrInsufficientRole = errors.New("insufficient permissions")
	// ErrInvalidPage is returned when the page query parameter is not a positive integer.
	ErrInvalidPage = errors.New("page must be a positive integer")
)

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error    string   `json:"error"`
	Code     string   `json:"code"`
	Messages []string `json:"messages,omitempty"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
	Messages   []string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error:    e.Message,
		Code:     e.Code,
		Messages: e.Messages,
	}
}

// ValidationError carries every constraint violation of a request payload.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Messages, "; ")
}

// MapErrorToHTTP maps domain errors to HTTP errors.
func MapErrorToHTTP(err error) *HTTPError {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}

	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		return &HTTPError{
			StatusCode: http.StatusBadRequest,
			Message:    "validation failed",
			Code:       "VALIDATION_FAILED",
			Messages:   validationErr.Messages,
		}
	}

	switch {
	case errors.Is(err, ErrUserNotFound):
		return NewHTTPError(http.StatusNotFound, ErrUserNotFound.Error(), "USER_NOT_FOUND")
	case errors.Is(err, ErrEmailTaken):
		return NewHTTPError(http.StatusConflict, ErrEmailTaken.Error(), "EMAIL_TAKEN")
	case errors.Is(err, ErrInvalidCredentials):
		return NewHTTPError(http.StatusUnauthorized, ErrInvalidCredentials.Error(), "INVALID_CREDENTIALS")
	case errors.Is(err, ErrInvalidToken):
		return NewHTTPError(http.StatusUnauthorized, ErrInvalidToken.Error(), "INVALID_TOKEN")
	case errors.Is(err, ErrRoleMissing):
		return NewHTTPError(http.StatusForbidden, ErrRoleMissing.Error(), "ROLE_MISSING")
	case errors.Is(err, ErrInsufficientRole):
		return NewHTTPError(http.StatusForbidden, ErrInsufficientRole.Error(), "FORBIDDEN")
	case errors.Is(err, ErrInvalidPage):
		return &HTTPError{
			StatusCode: http.StatusBadRequest,
			Message:    "validation failed",
			Code:       "VALIDATION_FAILED",
			Messages:   []string{ErrInvalidPage.Error()},
		}
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}
