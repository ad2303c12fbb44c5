package survey

import "fmt"

// StorageError carries the backend and operation behind a failed storage call.
type StorageError struct {
	Backend   string // Storage backend type ("sqlite", "memory")
	Operation string // Operation that failed ("load_structure", "load_responses", etc.)
	Cause     error  // Underlying error
}

// Error renders the backend, operation, and cause.
func (e *StorageError) Error() string {
	return fmt.Sprintf("storage error [backend=%s, operation=%s]: %v", e.Backend, e.Operation, e.Cause)
}

// Unwrap exposes the cause to errors.Is and errors.As.
func (e *StorageError) Unwrap() error {
	return e.Cause
}

// NewStorageError wraps cause with the backend and operation that failed.
func NewStorageError(backend, operation string, cause error) *StorageError {
	return &StorageError{
		Backend:   backend,
		Operation: operation,
		Cause:     cause,
	}
}

// NotFoundError reports that a survey id does not exist in storage. Loading
// the structure of a missing survey is a hard failure for an export.
type NotFoundError struct {
	SurveyID int
}

// Error names the missing survey.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("survey not found [id=%d]", e.SurveyID)
}

// NewNotFoundError records the id that failed to resolve.
func NewNotFoundError(surveyID int) *NotFoundError {
	return &NotFoundError{SurveyID: surveyID}
}
