package errors

import (
	"errors"
	"net/http"
)

// Kind classifies a domain error for transport mapping.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindAuthentication
	KindAuthorization
	KindNotFound
	KindConflict
)

// Error is a domain error carrying its kind and a stable machine readable code.
type Error struct {
	Kind    Kind
	Code    string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Is matches errors of the same kind and code so wrapped sentinels compare equal.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind && e.Code == t.Code
}

// Validation builds a ValidationError (400).
func Validation(code, message string) *Error {
	return &Error{Kind: KindValidation, Code: code, Message: message}
}

// Authentication builds an AuthenticationError (401).
func Authentication(code, message string) *Error {
	return &Error{Kind: KindAuthentication, Code: code, Message: message}
}

// Authorization builds an AuthorizationError (403).
func Authorization(code, message string) *Error {
	return &Error{Kind: KindAuthorization, Code: code, Message: message}
}

// NotFound builds a NotFoundError (404).
func NotFound(code, message string) *Error {
	return &Error{Kind: KindNotFound, Code: code, Message: message}
}

// Conflict builds a ConflictError (409).
func Conflict(code, message string) *Error {
	return &Error{Kind: KindConflict, Code: code, Message: message}
}

var (
	// ErrInvalidCredentials is returned when username or password is incorrect.
	ErrInvalidCredentials = Authentication("INVALID_CREDENTIALS", "invalid username or password")
	// ErrUnauthorized is returned when a route needs a valid bearer token.
	ErrUnauthorized = Authentication("UNAUTHORIZED", "authentication required")
	// ErrInvalidToken is returned for expired, malformed or revoked tokens.
	ErrInvalidToken = Authentication("INVALID_TOKEN", "invalid or expired token")
	// ErrForbidden is returned when the principal lacks the required role.
	ErrForbidden = Authorization("FORBIDDEN", "access denied")
	// ErrAdminRequired is returned by admin-only operations.
	ErrAdminRequired = Authorization("ADMIN_REQUIRED", "admin access required")

	// ErrUsernameTaken is returned when signing up with an existing username.
	ErrUsernameTaken = Conflict("USERNAME_TAKEN", "username is already taken")
	// ErrEmailTaken is returned when signing up with an existing email.
	ErrEmailTaken = Conflict("EMAIL_TAKEN", "email is already in use")
	// ErrUserExists is returned when a concurrent signup won the unique index.
	ErrUserExists = Conflict("USER_EXISTS", "username or email is already registered")

	// ErrAdminRoleNotAllowed is returned when signup requests the admin role.
	ErrAdminRoleNotAllowed = Validation("ADMIN_ROLE_NOT_ALLOWED", "role 'admin' is not allowed for public registration")
	// ErrInvalidStatus is returned for a status outside PENDING, APPROVED, REJECTED.
	ErrInvalidStatus = Validation("INVALID_STATUS", "status must be one of PENDING, APPROVED, REJECTED")
	// ErrInvalidRating is returned for a rating outside 1..5.
	ErrInvalidRating = Validation("INVALID_RATING", "rating must be between 1 and 5")
	// ErrInvalidResetToken is returned when no user holds the reset token.
	ErrInvalidResetToken = Validation("INVALID_TOKEN", "invalid reset token")
	// ErrResetTokenExpired is returned when the reset token is past its expiry.
	ErrResetTokenExpired = Validation("TOKEN_EXPIRED", "reset token expired")
	// ErrFieldsRequired is returned when a required field is blank.
	ErrFieldsRequired = Validation("FIELDS_REQUIRED", "required fields are missing")
	// ErrInvalidFileName is returned for upload names with path sequences.
	ErrInvalidFileName = Validation("INVALID_FILE_NAME", "filename contains invalid path sequence")

	// ErrUserNotFound is returned when a user id or email is unknown.
	ErrUserNotFound = NotFound("USER_NOT_FOUND", "user not found")
	// ErrSubmissionNotFound is returned when a submission id is unknown or hidden.
	ErrSubmissionNotFound = NotFound("SUBMISSION_NOT_FOUND", "submission not found")
	// ErrFeedbackNotFound is returned when a feedback id is unknown.
	ErrFeedbackNotFound = NotFound("FEEDBACK_NOT_FOUND", "feedback not found")
	// ErrMessageNotFound is returned when a message id is unknown.
	ErrMessageNotFound = NotFound("MESSAGE_NOT_FOUND", "message not found")
	// ErrFileNotFound is returned when an uploaded object does not exist.
	ErrFileNotFound = NotFound("FILE_NOT_FOUND", "file not found")
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

// BadRequest wraps a binding or validation failure message as a ValidationError.
func BadRequest(message string) *Error {
	return Validation("VALIDATION_ERROR", message)
}

// StatusFor returns the HTTP status code for a kind.
func StatusFor(kind Kind) int {
	switch kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindAuthentication:
		return http.StatusUnauthorized
	case KindAuthorization:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors. Anything that is not a
// domain error surfaces as a generic 500.
func MapErrorToHTTP(err error) *HTTPError {
	var domainErr *Error
	if errors.As(err, &domainErr) && domainErr.Kind != KindInternal {
		return NewHTTPError(StatusFor(domainErr.Kind), domainErr.Message, domainErr.Code)
	}
	return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
}
