package credential

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrValidation is matched by errors from Add when a field is empty.
	ErrValidation = errors.New("validation failed")
	// ErrDuplicate is matched by errors from Add when the website and
	// username pair is already stored.
	ErrDuplicate = errors.New("credential already exists")
	// ErrNotFound is matched by errors for ids that are not in the store.
	ErrNotFound = errors.New("credential not found")
	// ErrPersistence is matched by errors from writing the snapshot.
	ErrPersistence = errors.New("saving credentials failed")
)

// ValidationError lists the required fields that were empty after trimming.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%v: empty %s", ErrValidation, strings.Join(e.Fields, ", "))
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// DuplicateError reports the pair that collided with an existing record.
type DuplicateError struct {
	Website  string
	Username string
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("%v: %s for %s", ErrDuplicate, e.Username, e.Website)
}

func (e *DuplicateError) Is(target error) bool { return target == ErrDuplicate }

// NotFoundError reports the id that was looked up.
type NotFoundError struct {
	ID int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%v: id %d", ErrNotFound, e.ID)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// PersistenceError wraps a backend or encoding failure during save.
// The in-memory mutation that triggered the save is not rolled back.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%v (%s): %v", ErrPersistence, e.Op, e.Err)
}

func (e *PersistenceError) Is(target error) bool { return target == ErrPersistence }

func (e *PersistenceError) Unwrap() error { return e.Err }
