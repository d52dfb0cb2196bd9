package field

import (
	"errors"
	"strings"
)

// ErrUnsupportedType indicates a column type without a priority or alias mapping.
var ErrUnsupportedType = errors.New("layergen: unsupported column type")

// TypeError reports a column whose type cannot be ordered or declared.
type TypeError struct {
	Column     string
	Type       Type
	NativeType string
}

// Error implements the error interface.
func (e *TypeError) Error() string {
	var b strings.Builder
	b.WriteString("layergen: unsupported column type")
	if e.Column != "" {
		b.WriteString(" for column ")
		b.WriteString(e.Column)
	}
	b.WriteString(": ")
	if e.NativeType != "" {
		b.WriteString(e.NativeType)
	} else {
		b.WriteString(e.Type.String())
	}
	return b.String()
}

// Is reports whether the target matches the sentinel error for TypeError.
func (e *TypeError) Is(target error) bool {
	return target == ErrUnsupportedType
}

// NewTypeError creates a new TypeError.
func NewTypeError(column string, t Type, native string) *TypeError {
	return &TypeError{Column: column, Type: t, NativeType: native}
}

// IsTypeError reports whether the error is a TypeError.
func IsTypeError(err error) bool {
	var typeErr *TypeError
	return errors.As(err, &typeErr)
}
