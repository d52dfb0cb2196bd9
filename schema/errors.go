package schema

import (
	"errors"
	"strings"
)

// ErrMetadataInconsistency indicates metadata that contradicts itself or the
// live database schema.
var ErrMetadataInconsistency = errors.New("layergen: metadata inconsistency")

// MetadataError represents an inconsistency in the entity metadata, such as a
// declared key column missing from the live table.
type MetadataError struct {
	Entity  string // component/feature/entity
	Field   string // metadata field or column name
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *MetadataError) Error() string {
	var b strings.Builder
	b.WriteString("layergen: metadata inconsistency")
	if e.Entity != "" {
		b.WriteString(" on entity ")
		b.WriteString(e.Entity)
	}
	if e.Field != "" {
		b.WriteString(" field ")
		b.WriteString(e.Field)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Unwrap returns the underlying error.
func (e *MetadataError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target matches the sentinel error for MetadataError.
func (e *MetadataError) Is(target error) bool {
	return target == ErrMetadataInconsistency
}

// NewMetadataError creates a new MetadataError.
func NewMetadataError(entity, field, message string) *MetadataError {
	return &MetadataError{
		Entity:  entity,
		Field:   field,
		Message: message,
	}
}

// IsMetadataError reports whether the error is a MetadataError.
func IsMetadataError(err error) bool {
	var metaErr *MetadataError
	return errors.As(err, &metaErr)
}
