package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrMissingAuthHeader is returned when no bearer credential is supplied.
	ErrMissingAuthHeader = errors.New("missing authorization header")
	// ErrMalformedToken is returned when the credential is not a three-segment token.
	ErrMalformedToken = errors.New("invalid token format")
	// ErrMissingSubject is returned when the token payload carries no subject identifier.
	ErrMissingSubject = errors.New("invalid token payload")
	// ErrInvalidToken is returned when signature verification fails or the token expired.
	ErrInvalidToken = errors.New("invalid or expired token")
	// ErrUserNotFound is returned when no local user maps to the token subject.
	ErrUserNotFound = errors.New("user not found")
	// ErrStudentNotFound is returned when a report targets an unknown student.
	ErrStudentNotFound = errors.New("student not found")
	// ErrRoleNotSet is returned when a profile write needs a role and none is set or supplied.
	ErrRoleNotSet = errors.New("role not set")
	// ErrInvalidRole is returned when a supplied role is outside the enum.
	ErrInvalidRole = errors.New("invalid role")
	// ErrCacheMiss is returned when no live cache entry exists for a query.
	ErrCacheMiss = errors.New("no cached results")
	// ErrUpstreamProvider is returned when an external AI/search provider fails.
	ErrUpstreamProvider = errors.New("upstream provider error")
)

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
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

// MapErrorToHTTP maps domain errors to HTTP errors. Database and other
// unclassified errors collapse to a generic 500 so raw driver messages
// never reach the client.
func MapErrorToHTTP(err error) *HTTPError {
	switch {
	case errors.Is(err, ErrMissingAuthHeader):
		return NewHTTPError(http.StatusUnauthorized, err.Error(), "MISSING_AUTH_HEADER")
	case errors.Is(err, ErrMalformedToken):
		return NewHTTPError(http.StatusUnauthorized, err.Error(), "MALFORMED_TOKEN")
	case errors.Is(err, ErrMissingSubject):
		return NewHTTPError(http.StatusUnauthorized, err.Error(), "MISSING_SUBJECT")
	case errors.Is(err, ErrInvalidToken):
		return NewHTTPError(http.StatusUnauthorized, err.Error(), "INVALID_TOKEN")
	case errors.Is(err, ErrUserNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "USER_NOT_FOUND")
	case errors.Is(err, ErrStudentNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "STUDENT_NOT_FOUND")
	case errors.Is(err, ErrRoleNotSet):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "ROLE_NOT_SET")
	case errors.Is(err, ErrInvalidRole):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "INVALID_ROLE")
	case errors.Is(err, ErrCacheMiss):
		return NewHTTPError(http.StatusNotFound, err.Error(), "CACHE_MISS")
	case errors.Is(err, ErrUpstreamProvider):
		return NewHTTPError(http.StatusBadGateway, err.Error(), "UPSTREAM_ERROR")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}
