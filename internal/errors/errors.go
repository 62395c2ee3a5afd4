// Package errors provides the AppError type returned by the service layer.
// Handlers translate an AppError into a JSON body without exposing the
// wrapped internal error.
package errors

import "net/http"

// AppError represents a structured application error with an error code,
// human-readable message, HTTP status code, and optional internal error.
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Internal   error  `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string { return e.Message }

// Unwrap returns the internal error for use with errors.Is/As.
func (e *AppError) Unwrap() error { return e.Internal }

// Is matches any AppError carrying the same code, so a wrapped or reworded
// sentinel still satisfies errors.Is against the original.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	return ok && t.Code == e.Code
}

// Wrap creates a new AppError with the same code/message/status but wraps an internal error.
func Wrap(sentinel *AppError, internal error) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    sentinel.Message,
		StatusCode: sentinel.StatusCode,
		Internal:   internal,
	}
}

// WithMessage creates a new AppError with a custom message.
func WithMessage(sentinel *AppError, message string) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    message,
		StatusCode: sentinel.StatusCode,
		Internal:   sentinel.Internal,
	}
}

// Invalid builds a validation error whose message is taken from cause.
func Invalid(cause error) *AppError {
	return &AppError{
		Code:       ErrValidation.Code,
		Message:    cause.Error(),
		StatusCode: ErrValidation.StatusCode,
		Internal:   cause,
	}
}

// Error taxonomy shared by every entry point.
var (
	ErrValidation         = &AppError{Code: "VALIDATION_ERROR", Message: "Invalid input", StatusCode: http.StatusBadRequest}
	ErrRecognitionFailure = &AppError{Code: "RECOGNITION_FAILURE", Message: "The document could not be read", StatusCode: http.StatusBadGateway}
	ErrPersistenceFailure = &AppError{Code: "PERSISTENCE_FAILURE", Message: "The ledger could not be updated", StatusCode: http.StatusInternalServerError}
	ErrInternalServer     = &AppError{Code: "INTERNAL_ERROR", Message: "An internal error occurred", StatusCode: http.StatusInternalServerError}
)

// Household errors.
var (
	ErrHouseholdRequired = &AppError{Code: "HOUSEHOLD_REQUIRED", Message: "A household must be selected", StatusCode: http.StatusBadRequest}
)

// Transaction errors.
var (
	ErrTransactionNotFound = &AppError{Code: "TRANSACTION_NOT_FOUND", Message: "Transaction not found", StatusCode: http.StatusNotFound}
)

// Description errors.
var (
	ErrDescriptionExists = &AppError{Code: "DESCRIPTION_EXISTS", Message: "A description with this name already exists", StatusCode: http.StatusConflict}
)

// Recognition and review errors.
var (
	ErrUploadInProgress  = &AppError{Code: "UPLOAD_IN_PROGRESS", Message: "Another document is still being processed", StatusCode: http.StatusConflict}
	ErrReviewNotFound    = &AppError{Code: "REVIEW_NOT_FOUND", Message: "Import review not found", StatusCode: http.StatusNotFound}
	ErrPendingNotFound   = &AppError{Code: "PENDING_NOT_FOUND", Message: "Pending entry not found", StatusCode: http.StatusNotFound}
	ErrInvalidTransition = &AppError{Code: "INVALID_TRANSITION", Message: "The entry can no longer be changed", StatusCode: http.StatusConflict}
)
