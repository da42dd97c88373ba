package errors

import (
	"errors"
	"net/http"
)

// Authentication failures. All map to 401 but stay distinct so callers can
// render distinct messages; a still-valid token for a disabled account must
// fail differently from a forged one.
var (
	// ErrMissingToken is returned when no bearer token is present.
	ErrMissingToken = errors.New("missing authentication token")
	// ErrInvalidToken is returned when the token signature or claims are invalid.
	ErrInvalidToken = errors.New("invalid authentication token")
	// ErrExpiredToken is returned when the token is past its expiry.
	ErrExpiredToken = errors.New("authentication token expired")
	// ErrUserNotFound is returned when the token's user no longer exists.
	ErrUserNotFound = errors.New("user not found")
	// ErrAccountDisabled is returned when the user's account is deactivated.
	ErrAccountDisabled = errors.New("account is disabled")
)

// Authorization and domain failures.
var (
	// ErrInsufficientRole is returned when the user's role is not in the route's allow-list.
	ErrInsufficientRole = errors.New("insufficient role")
	// ErrArticleNotFound is returned when an article is not found.
	ErrArticleNotFound = errors.New("article not found")
	// ErrCategoryNotFound is returned when a category is not found.
	ErrCategoryNotFound = errors.New("category not found")
	// ErrTagNotFound is returned when a tag is not found.
	ErrTagNotFound = errors.New("tag not found")
	// ErrSlugTaken is returned when a slug collides with an existing record.
	ErrSlugTaken = errors.New("slug already in use")
	// ErrCategoryNotProtected is returned when verifying a password against an open category.
	ErrCategoryNotProtected = errors.New("category is not password protected")
	// ErrInvalidCategoryPassword is returned when the category password does not match.
	ErrInvalidCategoryPassword = errors.New("invalid category password")
	// ErrNotArticleAuthor is returned when an author edits an article they do not own.
	ErrNotArticleAuthor = errors.New("not the article author")
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

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error: e.Message,
		Code:  e.Code,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors. Unknown errors become a
// generic 500 with no internal detail.
func MapErrorToHTTP(err error) *HTTPError {
	switch {
	case errors.Is(err, ErrMissingToken):
		return NewHTTPError(http.StatusUnauthorized, err.Error(), "MISSING_TOKEN")
	case errors.Is(err, ErrInvalidToken):
		return NewHTTPError(http.StatusUnauthorized, err.Error(), "INVALID_TOKEN")
	case errors.Is(err, ErrExpiredToken):
		return NewHTTPError(http.StatusUnauthorized, err.Error(), "EXPIRED_TOKEN")
	case errors.Is(err, ErrUserNotFound):
		return NewHTTPError(http.StatusUnauthorized, err.Error(), "USER_NOT_FOUND")
	case errors.Is(err, ErrAccountDisabled):
		return NewHTTPError(http.StatusUnauthorized, err.Error(), "ACCOUNT_DISABLED")
	case errors.Is(err, ErrInsufficientRole):
		return NewHTTPError(http.StatusForbidden, err.Error(), "INSUFFICIENT_ROLE")
	case errors.Is(err, ErrArticleNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "ARTICLE_NOT_FOUND")
	case errors.Is(err, ErrCategoryNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "CATEGORY_NOT_FOUND")
	case errors.Is(err, ErrTagNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "TAG_NOT_FOUND")
	case errors.Is(err, ErrSlugTaken):
		return NewHTTPError(http.StatusConflict, err.Error(), "SLUG_TAKEN")
	case errors.Is(err, ErrCategoryNotProtected):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "CATEGORY_NOT_PROTECTED")
	case errors.Is(err, ErrInvalidCategoryPassword):
		return NewHTTPError(http.StatusUnauthorized, err.Error(), "INVALID_CATEGORY_PASSWORD")
	case errors.Is(err, ErrNotArticleAuthor):
		return NewHTTPError(http.StatusForbidden, err.Error(), "NOT_ARTICLE_AUTHOR")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}
