package domain

import "fmt"

// RepositoryError marks a failure raised inside the persistence layer. The
// managers translate it into a generic result failure: the wrapped detail is
// logged, never returned to the caller.
type RepositoryError struct {
	Message string
	Cause   error
}

func (e *RepositoryError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *RepositoryError) Unwrap() error { return e.Cause }

// NewRepositoryError wraps a store-level cause with a stable message.
func NewRepositoryError(message string, cause error) *RepositoryError {
	return &RepositoryError{Message: message, Cause: cause}
}

// ConflictError marks a uniqueness violation (duplicate role name, …). Its
// message is safe to return to the caller verbatim; the HTTP boundary maps
// "already exists" failures to 409.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string { return e.Message }

// NewConflictError builds a ConflictError with the given caller-facing message.
func NewConflictError(message string) *ConflictError {
	return &ConflictError{Message: message}
}
