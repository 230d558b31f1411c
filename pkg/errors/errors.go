package errors

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// Tokens.
	ErrInvalidSigningMethod = errors.New("invalid token signing method")
	ErrInvalidToken         = errors.New("invalid token")
	ErrTokenExpired         = errors.New("token has expired")
	ErrTokenNotYetValid     = errors.New("token is not valid yet")
	ErrTokenIsNotRefresh    = errors.New("token is not a refresh token")
	ErrTokenIsNotAccess     = errors.New("token is not an access token")

	// Authentication and authorization.
	ErrEmptyAuthHeader    = errors.New("authorization header is missing")
	ErrInvalidAuthHeader  = errors.New("authorization header has invalid format")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("access denied")
	ErrTooManyAttempts    = errors.New("too many login attempts, try again later")

	// Request context.
	ErrUserIDNotFoundInContext = errors.New("user id not found in request context")

	// General.
	ErrNotFound   = errors.New("record not found")
	ErrUserExists = errors.New("user already exists")
	ErrBadRequest = errors.New("bad request")
)

// StatusCodes maps sentinel errors to HTTP status codes for the response helper.
var StatusCodes = map[error]int{
	ErrInvalidSigningMethod:    http.StatusUnauthorized,
	ErrInvalidToken:            http.StatusUnauthorized,
	ErrTokenExpired:            http.StatusUnauthorized,
	ErrTokenNotYetValid:        http.StatusUnauthorized,
	ErrTokenIsNotRefresh:       http.StatusUnauthorized,
	ErrTokenIsNotAccess:        http.StatusUnauthorized,
	ErrEmptyAuthHeader:         http.StatusUnauthorized,
	ErrInvalidAuthHeader:       http.StatusUnauthorized,
	ErrInvalidCredentials:      http.StatusUnauthorized,
	ErrUnauthorized:            http.StatusUnauthorized,
	ErrForbidden:               http.StatusForbidden,
	ErrTooManyAttempts:         http.StatusTooManyRequests,
	ErrUserIDNotFoundInContext: http.StatusUnauthorized,
	ErrNotFound:                http.StatusNotFound,
	ErrUserExists:              http.StatusConflict,
	ErrBadRequest:              http.StatusBadRequest,
}

// HttpError carries an explicit status code and a user-facing message,
// optionally wrapping the underlying cause.
type HttpError struct {
	Code    int
	Message string
	Err     error
	Details interface{}
}

func (e *HttpError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *HttpError) Unwrap() error { return e.Err }

func NewHttpError(code int, message string, err error, details interface{}) *HttpError {
	return &HttpError{Code: code, Message: message, Err: err, Details: details}
}

func NewBadRequestError(message string) *HttpError {
	return &HttpError{Code: http.StatusBadRequest, Message: message}
}
