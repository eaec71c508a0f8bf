package entity

import (
	"errors"
	"fmt"
)

// Domain errors for word records.
var (
	ErrInvalidWordText     = errors.New("invalid word text")
	ErrInvalidTimestamp    = errors.New("invalid word timestamp")
	ErrDuplicateWordRecord = errors.New("word record already exists")
	ErrInvalidPageSize     = errors.New("page size must be positive")
	ErrInvalidFilter       = errors.New("invalid filter")
	ErrStorageUnavailable  = errors.New("storage unavailable")
)

// StorageError carries the underlying driver failure while matching
// ErrStorageUnavailable under errors.Is.
type StorageError struct {
	Op  string
	Err error
	// Transient marks failures that may succeed when retried (busy database,
	// dropped connection, serialization conflict).
	Transient bool
}

// NewStorageError wraps err for operation op. A nil err stays nil.
func NewStorageError(op string, err error) error {
	if err == nil {
		return nil
	}
	var se *StorageError
	if errors.As(err, &se) {
		return err
	}
	return &StorageError{Op: op, Err: err}
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrStorageUnavailable, e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

func (e *StorageError) Is(target error) bool { return target == ErrStorageUnavailable }

// IsTransientStorageError reports whether err is a storage failure worth retrying.
func IsTransientStorageError(err error) bool {
	var se *StorageError
	return errors.As(err, &se) && se.Transient
}
