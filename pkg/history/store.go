package history

import (
	"context"
	"errors"
	"fmt"

	"conformance-hq/surveyor/pkg/assess"
)

// ErrInsufficientHistory is returned by Detect when a target has fewer than
// two stored reports.
var ErrInsufficientHistory = errors.New("insufficient history for drift detection")

// Store persists and retrieves assessment reports.
type Store interface {
	// Save persists a report. Reports are immutable; saving the same
	// report ID twice is an error.
	Save(ctx context.Context, report *assess.Report) error

	// Latest returns up to limit reports for a target, newest first.
	Latest(ctx context.Context, target string, limit int) ([]*assess.Report, error)

	// Targets returns all targets with at least one stored report, sorted.
	Targets(ctx context.Context) ([]string, error)

	// Close releases store resources.
	Close() error
}

// StorageError wraps a backend failure with its operation.
type StorageError struct {
	Backend   string
	Operation string
	Err       error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("history %s: %s failed: %v", e.Backend, e.Operation, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// NewStorageError creates a new StorageError.
func NewStorageError(backend, operation string, err error) *StorageError {
	return &StorageError{Backend: backend, Operation: operation, Err: err}
}
