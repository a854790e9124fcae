package index

import (
	"errors"
	"fmt"
)

var (
	// ErrIndexUnavailable signals that no index has been built yet. It is
	// distinct from an index that simply yields no matches.
	ErrIndexUnavailable = errors.New("no index available")
	// ErrPersistence signals that the index artifact could not be written.
	ErrPersistence = errors.New("failed to persist index")
	// ErrImageDecode signals that a single image could not be read or analysed.
	ErrImageDecode = errors.New("failed to process image")
)

// DecodeError records an image skipped during a build.
type DecodeError struct {
	ID  string
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%s %s: %v", ErrImageDecode.Error(), e.ID, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Is reports ErrImageDecode as a match so callers can test the kind.
func (e *DecodeError) Is(target error) bool { return target == ErrImageDecode }

// PersistenceError wraps a failure to write the index artifact. The previous
// artifact, if any, is left in place.
type PersistenceError struct {
	Location string
	Err      error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s to %s: %v", ErrPersistence.Error(), e.Location, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// Is reports ErrPersistence as a match so callers can test the kind.
func (e *PersistenceError) Is(target error) bool { return target == ErrPersistence }
