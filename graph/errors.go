package graph

import (
	"errors"
	"fmt"
)

// Sentinel errors for entity lookups.
var (
	// ErrLookupNotFound indicates that no entity matches a lookup key.
	ErrLookupNotFound = errors.New("layergen: entity not found")
	// ErrLookupAmbiguous indicates that more than one entity matches a lookup key.
	ErrLookupAmbiguous = errors.New("layergen: entity lookup is ambiguous")
)

// NotFoundError is returned when no entity matches a lookup key.
type NotFoundError struct {
	Key Key
}

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("layergen: entity %s not found", e.Key)
}

// Is reports whether the target matches the sentinel error for NotFoundError.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrLookupNotFound
}

// AmbiguousError is returned when several entities match a lookup key.
type AmbiguousError struct {
	Key   Key
	Count int
}

// Error implements the error interface.
func (e *AmbiguousError) Error() string {
	return fmt.Sprintf("layergen: entity %s is ambiguous: %d matches", e.Key, e.Count)
}

// Is reports whether the target matches the sentinel error for AmbiguousError.
func (e *AmbiguousError) Is(target error) bool {
	return target == ErrLookupAmbiguous
}

// IsNotFound reports whether the error is a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// IsAmbiguous reports whether the error is an AmbiguousError.
func IsAmbiguous(err error) bool {
	var ae *AmbiguousError
	return errors.As(err, &ae)
}
