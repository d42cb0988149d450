package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrAlreadyProcessed indicates that a transaction was no longer waiting for
// approval when an approve/reject action reached it. A caller retrying an
// action that already succeeded sees this same error.
var ErrAlreadyProcessed = errors.New("transaction already processed")

// ErrSourceUnavailable indicates that a query against one of the pending
// transaction source collections failed. Aggregation aborts; partial results
// are never returned.
var ErrSourceUnavailable = errors.New("source collection unavailable")

// ErrResolutionIncomplete indicates that no usable debit/credit account pair
// could be derived for a transaction. The approval still completes, but no
// journal entry is posted. Callers must surface it for manual follow-up.
var ErrResolutionIncomplete = errors.New("account resolution incomplete")

// ErrInvalidAmount indicates that a non-positive amount reached the journal poster.
var ErrInvalidAmount = errors.New("journal amount must be positive")

// SourceError tags a source-collection failure with the collection that
// failed. It matches both ErrSourceUnavailable and the underlying cause.
type SourceError struct {
	Source string
	Err    error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("source %s unavailable: %v", e.Source, e.Err)
}

func (e *SourceError) Unwrap() []error {
	return []error{ErrSourceUnavailable, e.Err}
}

// NewSourceError wraps err as a failure of the named source collection.
func NewSourceError(source string, err error) error {
	return &SourceError{Source: source, Err: err}
}

// AppError carries a status code alongside a message and the wrapped underlying error.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new AppError wrapping err.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// NewNotFoundError creates an AppError that satisfies errors.Is(err, ErrNotFound).
func NewNotFoundError(message string) *AppError {
	return &AppError{Code: 404, Message: message, Err: ErrNotFound}
}
