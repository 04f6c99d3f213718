package services

import (
	"errors"
	"fmt"
)

// Pipeline error taxonomy. Handlers map these onto HTTP status codes; nothing
// in the pipelines retries on any of them.
var (
	// ErrUnauthorized means the request carried no valid session credential.
	ErrUnauthorized = errors.New("authentication required")

	// ErrInvalidRequest means a required input was missing or unusable.
	ErrInvalidRequest = errors.New("invalid request")

	// ErrNoEntries is returned when a summary is requested for a caller with
	// zero journal entries. The message is user-facing.
	ErrNoEntries = errors.New("No entries found. Create some journal entries first!")

	// ErrMalformedOutput means the model reply lacked a parseable JSON payload
	// of the expected shape.
	ErrMalformedOutput = errors.New("invalid JSON response from AI")
)

// UpstreamError is a non-success response from the completion gateway. Status
// and body are kept for diagnostics.
type UpstreamError struct {
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("AI API error: %d - %s", e.StatusCode, e.Body)
}

// StorageError wraps a blob store failure (download or upload).
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s failed: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// PersistenceError wraps a data-store read/write failure.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("database %s failed: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
