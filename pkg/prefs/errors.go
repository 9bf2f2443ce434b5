package prefs

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned by a Backend when nothing is stored under the key
	ErrNotFound = errors.New("key not found")

	// ErrInvalidRecord indicates stored or submitted data that is not a valid record
	ErrInvalidRecord = errors.New("invalid preference record")
)

// StorageError wraps backend errors with additional context
type StorageError struct {
	Op  string // Operation that failed (e.g., "get", "set", "remove")
	Key string // Storage key
	Err error  // Underlying error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s %q: %v", e.Op, e.Key, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// NewStorageError creates a new StorageError
func NewStorageError(op, key string, err error) *StorageError {
	return &StorageError{
		Op:  op,
		Key: key,
		Err: err,
	}
}
