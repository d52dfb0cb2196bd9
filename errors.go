package layergen

import (
	"errors"

	"github.com/syssam/layergen/compiler/gen"
	"github.com/syssam/layergen/graph"
	"github.com/syssam/layergen/schema"
	"github.com/syssam/layergen/schema/field"
)

// Sentinel errors of all packages, for use with errors.Is.
var (
	// ErrMetadataInconsistency is returned when metadata and live schema disagree.
	ErrMetadataInconsistency = schema.ErrMetadataInconsistency

	// ErrUnsupportedType is returned for a column type with no classification.
	ErrUnsupportedType = field.ErrUnsupportedType

	// ErrLookupNotFound is returned when no entity matches a lookup.
	ErrLookupNotFound = graph.ErrLookupNotFound

	// ErrLookupAmbiguous is returned when several entities match a lookup.
	ErrLookupAmbiguous = graph.ErrLookupAmbiguous

	// ErrMissingTemplate is returned for a template id with no template.
	ErrMissingTemplate = gen.ErrMissingTemplate

	// ErrIO is returned when reading the database or writing files fails.
	ErrIO = gen.ErrIO

	// ErrUnresolvedPlaceholder is returned by strict rendering.
	ErrUnresolvedPlaceholder = gen.ErrUnresolvedPlaceholder

	// ErrMissingConfig is returned for invalid configuration.
	ErrMissingConfig = gen.ErrMissingConfig
)

// IsMetadataError returns true if the error is a MetadataError.
func IsMetadataError(err error) bool {
	if err == nil {
		return false
	}
	var e *schema.MetadataError
	return errors.As(err, &e) || errors.Is(err, ErrMetadataInconsistency)
}

// IsTypeError returns true if the error is a TypeError.
func IsTypeError(err error) bool {
	if err == nil {
		return false
	}
	var e *field.TypeError
	return errors.As(err, &e) || errors.Is(err, ErrUnsupportedType)
}

// IsLookupError returns true if an entity lookup found zero or several entities.
func IsLookupError(err error) bool {
	return errors.Is(err, ErrLookupNotFound) || errors.Is(err, ErrLookupAmbiguous)
}

// IsConfigError returns true if the error is a ConfigError.
func IsConfigError(err error) bool {
	return gen.IsConfigError(err)
}

// Exit codes returned by ExitCode.
const (
	ExitOK       = 0
	ExitFailure  = 1
	ExitConfig   = 2
	ExitMetadata = 3
	ExitIO       = 4
)

// ExitCode maps an error to a process exit code. Configuration problems
// take precedence over metadata problems, which take precedence over
// i/o failures.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case IsConfigError(err):
		return ExitConfig
	case IsMetadataError(err), IsTypeError(err), IsLookupError(err):
		return ExitMetadata
	case errors.Is(err, ErrIO):
		return ExitIO
	default:
		return ExitFailure
	}
}
