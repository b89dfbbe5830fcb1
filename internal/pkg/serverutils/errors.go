package serverutils

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

// AppError is the structured error crossing the service/transport boundary.
// Internal component errors are wrapped into one of these at the request
// boundary; the raw error is logged, never returned to the caller.
type AppError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NoPriorContext marks follow-up actions that lack a qualifying prior
// round, keyword set, or candidate pool. Recoverable and user-visible.
func NoPriorContext(message string) *AppError {
	return &AppError{Status: fiber.StatusBadRequest, Code: "NO_PRIOR_CONTEXT", Message: message}
}

// StorageFailure marks a ledger append that could not complete. Fatal to the
// current request, not the process.
func StorageFailure(err error) *AppError {
	return &AppError{
		Status:  fiber.StatusInternalServerError,
		Code:    "STORAGE_WRITE_FAILED",
		Message: "failed to access conversation state",
		Err:     err,
	}
}

// RetrievalFailure marks a corpus scan that could not complete.
func RetrievalFailure(err error) *AppError {
	return &AppError{
		Status:  fiber.StatusInternalServerError,
		Code:    "RETRIEVAL_FAILED",
		Message: "failed to search the recipe knowledge base",
		Err:     err,
	}
}

// BadRequest marks malformed or unvalidatable client input.
func BadRequest(message string) *AppError {
	return &AppError{Status: fiber.StatusBadRequest, Code: "BAD_REQUEST", Message: message}
}

// AsAppError unwraps err to an *AppError if one is in the chain.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}
