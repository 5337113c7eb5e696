package qtable

import (
	"context"
	"fmt"
)

// Storage persists table snapshots. Implementations must make Save atomic:
// a crash mid-save never leaves a partially written table behind.
type Storage interface {
	// Load returns the last persisted snapshot, or nil if nothing has
	// been persisted yet.
	Load(ctx context.Context) (*Snapshot, error)

	// Save persists the snapshot, replacing any previous one.
	Save(ctx context.Context, snapshot *Snapshot) error

	// Close releases resources held by the backend.
	Close() error
}

// StorageError reports a persistence failure with the backend and operation
// that produced it.
type StorageError struct {
	Backend   string
	Operation string
	Cause     error
}

// Error returns the error message.
func (e *StorageError) Error() string {
	return fmt.Sprintf("qtable storage %s: %s failed: %v", e.Backend, e.Operation, e.Cause)
}

// Unwrap returns the underlying cause.
func (e *StorageError) Unwrap() error {
	return e.Cause
}

// NewStorageError creates a StorageError.
func NewStorageError(backend, operation string, cause error) *StorageError {
	return &StorageError{Backend: backend, Operation: operation, Cause: cause}
}
