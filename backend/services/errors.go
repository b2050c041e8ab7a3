package services

import "fmt"

// ValidationError reports a missing or blank request parameter
type ValidationError struct {
	Details map[string]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %v", e.Details)
}

func requiredField(name string) *ValidationError {
	return &ValidationError{Details: map[string]string{name: "is required"}}
}

// NotFoundError reports a lookup that matched nothing
type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string {
	return e.Resource + " not found"
}

// SourceUnavailableError reports a failed upstream call
type SourceUnavailableError struct {
	Endpoint string
	Err      error
}

func (e *SourceUnavailableError) Error() string {
	return fmt.Sprintf("Could not fetch data from %s", e.Endpoint)
}

func (e *SourceUnavailableError) Unwrap() error { return e.Err }

// InternalError wraps a storage or other server-side failure
type InternalError struct {
	Op  string
	Err error
}

func (e *InternalError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *InternalError) Unwrap() error { return e.Err }
