// Package errors provides custom error types for the Dwight API.
// All service-layer errors should use AppError to ensure consistent,
// secure error responses that never leak internal details to clients.
package errors

import "net/http"

// FieldError describes a single failed constraint on a request field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// AppError represents a structured application error with an error code,
// human-readable message, HTTP status code, and optional internal error.
type AppError struct {
	Code       string       `json:"code"`
	Message    string       `json:"message"`
	Details    []FieldError `json:"details,omitempty"`
	StatusCode int          `json:"-"`
	Internal   error        `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string { return e.Message }

// Unwrap returns the internal error for use with errors.Is/As.
func (e *AppError) Unwrap() error { return e.Internal }

// Wrap creates a new AppError with the same code/message/status but wraps an internal error.
func Wrap(sentinel *AppError, internal error) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    sentinel.Message,
		Details:    sentinel.Details,
		StatusCode: sentinel.StatusCode,
		Internal:   internal,
	}
}

// WithMessage creates a new AppError with a custom message.
func WithMessage(sentinel *AppError, message string) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    message,
		Details:    sentinel.Details,
		StatusCode: sentinel.StatusCode,
		Internal:   sentinel.Internal,
	}
}

// WithDetails creates a new AppError carrying per-field details.
func WithDetails(sentinel *AppError, details []FieldError) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    sentinel.Message,
		Details:    details,
		StatusCode: sentinel.StatusCode,
		Internal:   sentinel.Internal,
	}
}

// Authentication errors.
var (
	ErrUnauthorized       = &AppError{Code: "UNAUTHORIZED", Message: "Authentication required", StatusCode: http.StatusUnauthorized}
	ErrInvalidCredentials = &AppError{Code: "LOGIN_BAD_CREDENTIALS", Message: "Invalid email or password", StatusCode: http.StatusBadRequest}
	ErrInvalidResetToken  = &AppError{Code: "RESET_PASSWORD_BAD_TOKEN", Message: "Reset token is invalid or expired", StatusCode: http.StatusBadRequest}
)

// General errors.
var (
	ErrValidation     = &AppError{Code: "VALIDATION_ERROR", Message: "Request validation failed", StatusCode: http.StatusUnprocessableEntity}
	ErrNotFound       = &AppError{Code: "NOT_FOUND", Message: "Resource not found", StatusCode: http.StatusNotFound}
	ErrInternalServer = &AppError{Code: "INTERNAL_ERROR", Message: "An internal error occurred", StatusCode: http.StatusInternalServerError}
)

// User errors.
var (
	ErrUserNotFound        = &AppError{Code: "USER_NOT_FOUND", Message: "User not found", StatusCode: http.StatusNotFound}
	ErrDuplicateEmail      = &AppError{Code: "REGISTER_USER_ALREADY_EXISTS", Message: "A user with this email already exists", StatusCode: http.StatusBadRequest}
	ErrUpdateEmailConflict = &AppError{Code: "UPDATE_USER_EMAIL_ALREADY_EXISTS", Message: "A user with this email already exists", StatusCode: http.StatusBadRequest}
)

// Holding errors. Both are 404: another user's holding reads as missing.
var (
	ErrHoldingNotFound               = &AppError{Code: "HOLDING_NOT_FOUND", Message: "Holding not found.", StatusCode: http.StatusNotFound}
	ErrHoldingNotFoundOrUnauthorized = &AppError{Code: "HOLDING_NOT_FOUND", Message: "Holding not found or not authorized.", StatusCode: http.StatusNotFound}
)

// Market data errors.
var (
	ErrNoPriceData       = &AppError{Code: "NO_PRICE_DATA", Message: "No price data for symbol", StatusCode: http.StatusNotFound}
	ErrMarketUnavailable = &AppError{Code: "MARKET_UNAVAILABLE", Message: "Market data provider is unavailable", StatusCode: http.StatusBadGateway}
)
