// Package errors provides custom error types for the chartkeep API.
// All service-layer errors should use AppError to ensure consistent,
// secure error responses that never leak internal details to clients.
package errors

import "net/http"

// AppError represents a structured application error with an error code,
// human-readable message, HTTP status code, and optional internal error.
// Suggestion carries a recovery hint for business-rule conflicts, e.g.
// "deactivate" when a delete is blocked by a non-zero balance.
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	Suggestion string `json:"suggestion,omitempty"`
	StatusCode int    `json:"-"`
	Internal   error  `json:"-"`
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
		Suggestion: sentinel.Suggestion,
		StatusCode: sentinel.StatusCode,
		Internal:   internal,
	}
}

// WithMessage creates a new AppError with a custom message.
func WithMessage(sentinel *AppError, message string) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    message,
		Suggestion: sentinel.Suggestion,
		StatusCode: sentinel.StatusCode,
		Internal:   sentinel.Internal,
	}
}

// General errors.
var (
	ErrInvalidInput   = &AppError{Code: "INVALID_INPUT", Message: "Invalid input", StatusCode: http.StatusBadRequest}
	ErrInternalServer = &AppError{Code: "INTERNAL_ERROR", Message: "An internal error occurred", StatusCode: http.StatusInternalServerError}
)

// Account errors.
var (
	ErrAccountNotFound = &AppError{Code: "ACCOUNT_NOT_FOUND", Message: "Account not found", StatusCode: http.StatusNotFound}
	ErrBalanceNonZero  = &AppError{Code: "BALANCE_NON_ZERO", Message: "Account has a non-zero balance and cannot be deleted", Suggestion: "deactivate", StatusCode: http.StatusConflict}
	ErrAccountHasUsage = &AppError{Code: "ACCOUNT_HAS_TRANSACTIONS", Message: "Account has recorded transactions", Suggestion: "deactivate_or_transfer", StatusCode: http.StatusConflict}
	ErrSelfParent      = &AppError{Code: "SELF_PARENT", Message: "An account cannot be its own parent", StatusCode: http.StatusBadRequest}
	ErrParentCycle     = &AppError{Code: "PARENT_CYCLE", Message: "Parent assignment would create a hierarchy cycle", StatusCode: http.StatusConflict}
	ErrParentNotFound  = &AppError{Code: "PARENT_NOT_FOUND", Message: "Parent account not found", StatusCode: http.StatusBadRequest}
)

// Merge errors.
var (
	ErrMergeBlocked         = &AppError{Code: "MERGE_BLOCKED", Message: "Accounts cannot be merged", StatusCode: http.StatusConflict}
	ErrConfirmationMismatch = &AppError{Code: "CONFIRMATION_MISMATCH", Message: "Confirmation text does not match the target account name", StatusCode: http.StatusBadRequest}
)

// Import errors.
var (
	ErrImportFile = &AppError{Code: "IMPORT_FILE", Message: "Import file could not be read", StatusCode: http.StatusBadRequest}
)
