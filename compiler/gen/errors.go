package gen

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/syssam/layergen/graph"
	"github.com/syssam/layergen/schema"
	"github.com/syssam/layergen/schema/field"
)

// Sentinel errors for common failure cases.
var (
	// ErrMissingTemplate indicates a template id that cannot be resolved.
	ErrMissingTemplate = errors.New("layergen: missing template")
	// ErrIO indicates a read or write failure at the storage or file boundary.
	ErrIO = errors.New("layergen: i/o failure")
	// ErrUnresolvedPlaceholder indicates placeholders left in rendered text.
	ErrUnresolvedPlaceholder = errors.New("layergen: unresolved placeholder")
	// ErrMissingConfig indicates a configuration error.
	ErrMissingConfig = errors.New("layergen: missing configuration")
	// ErrGenerationFailed indicates a failed (entity, kind) unit.
	ErrGenerationFailed = errors.New("layergen: generation failed")

	// ErrMetadataInconsistency is schema.ErrMetadataInconsistency.
	ErrMetadataInconsistency = schema.ErrMetadataInconsistency
	// ErrUnsupportedType is field.ErrUnsupportedType.
	ErrUnsupportedType = field.ErrUnsupportedType
	// ErrLookupNotFound is graph.ErrLookupNotFound.
	ErrLookupNotFound = graph.ErrLookupNotFound
	// ErrLookupAmbiguous is graph.ErrLookupAmbiguous.
	ErrLookupAmbiguous = graph.ErrLookupAmbiguous
)

// TemplateError represents a template that cannot be loaded.
type TemplateError struct {
	Template string
	Path     string
	Cause    error
}

// Error implements the error interface.
func (e *TemplateError) Error() string {
	var b strings.Builder
	b.WriteString("layergen: missing template ")
	b.WriteString(e.Template)
	if e.Path != "" {
		b.WriteString(" (file: ")
		b.WriteString(e.Path)
		b.WriteString(")")
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Unwrap returns the underlying error.
func (e *TemplateError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target matches the sentinel error for TemplateError.
func (e *TemplateError) Is(target error) bool {
	return target == ErrMissingTemplate
}

// NewTemplateError creates a new TemplateError.
func NewTemplateError(template, path string, cause error) *TemplateError {
	return &TemplateError{
		Template: template,
		Path:     path,
		Cause:    cause,
	}
}

// IOError represents a failure at the database or file-system boundary.
type IOError struct {
	Op    string // "columns", "entities", "write", ...
	Path  string // file path or qualified table
	Cause error
}

// Error implements the error interface.
func (e *IOError) Error() string {
	var b strings.Builder
	b.WriteString("layergen: i/o error")
	if e.Op != "" {
		b.WriteString(" in ")
		b.WriteString(e.Op)
	}
	if e.Path != "" {
		b.WriteString(" ")
		b.WriteString(e.Path)
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Unwrap returns the underlying error.
func (e *IOError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target matches the sentinel error for IOError.
func (e *IOError) Is(target error) bool {
	return target == ErrIO
}

// NewIOError creates a new IOError.
func NewIOError(op, path string, cause error) *IOError {
	return &IOError{
		Op:    op,
		Path:  path,
		Cause: cause,
	}
}

// UnresolvedError lists the placeholders left in a rendered text.
type UnresolvedError struct {
	Template     string
	Placeholders []string
}

// Error implements the error interface.
func (e *UnresolvedError) Error() string {
	return fmt.Sprintf("layergen: unresolved placeholders in %s: %s", e.Template, strings.Join(e.Placeholders, ", "))
}

// Is reports whether the target matches the sentinel error for UnresolvedError.
func (e *UnresolvedError) Is(target error) bool {
	return target == ErrUnresolvedPlaceholder
}

// NewUnresolvedError creates a new UnresolvedError with the placeholders
// sorted and de-duplicated.
func NewUnresolvedError(template string, placeholders []string) *UnresolvedError {
	ph := slices.Clone(placeholders)
	slices.Sort(ph)
	return &UnresolvedError{
		Template:     template,
		Placeholders: slices.Compact(ph),
	}
}

// ConfigError represents a configuration error.
type ConfigError struct {
	Option  string
	Value   any
	Message string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	if e.Value != nil {
		return fmt.Sprintf("layergen: config error for %q (value: %v): %s", e.Option, e.Value, e.Message)
	}
	return fmt.Sprintf("layergen: config error for %q: %s", e.Option, e.Message)
}

// Is reports whether the target matches the sentinel error for ConfigError.
func (e *ConfigError) Is(target error) bool {
	return target == ErrMissingConfig
}

// NewConfigError creates a new ConfigError.
func NewConfigError(option string, value any, message string) *ConfigError {
	return &ConfigError{
		Option:  option,
		Value:   value,
		Message: message,
	}
}

// GenerationError represents the failure of one (entity, kind) unit.
// Kind is empty when the failure happened before any kind was rendered,
// e.g. while fetching the entity columns.
type GenerationError struct {
	Entity string // component/feature/entity
	Kind   string
	Path   string
	Cause  error
}

// Error implements the error interface.
func (e *GenerationError) Error() string {
	var b strings.Builder
	b.WriteString("layergen: generation error")
	if e.Entity != "" {
		b.WriteString(" on entity ")
		b.WriteString(e.Entity)
	}
	if e.Kind != "" {
		b.WriteString(" kind ")
		b.WriteString(e.Kind)
	}
	if e.Path != "" {
		b.WriteString(" (file: ")
		b.WriteString(e.Path)
		b.WriteString(")")
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Unwrap returns the underlying error.
func (e *GenerationError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target matches the sentinel error for GenerationError.
func (e *GenerationError) Is(target error) bool {
	return target == ErrGenerationFailed
}

// NewGenerationError creates a new GenerationError.
func NewGenerationError(entity, kind, path string, cause error) *GenerationError {
	return &GenerationError{
		Entity: entity,
		Kind:   kind,
		Path:   path,
		Cause:  cause,
	}
}

// IsTemplateError reports whether the error is a TemplateError.
func IsTemplateError(err error) bool {
	var tmplErr *TemplateError
	return errors.As(err, &tmplErr)
}

// IsIOError reports whether the error is an IOError.
func IsIOError(err error) bool {
	var ioErr *IOError
	return errors.As(err, &ioErr)
}

// IsUnresolvedError reports whether the error is an UnresolvedError.
func IsUnresolvedError(err error) bool {
	var unresolvedErr *UnresolvedError
	return errors.As(err, &unresolvedErr)
}

// IsConfigError reports whether the error is a ConfigError.
func IsConfigError(err error) bool {
	var configErr *ConfigError
	return errors.As(err, &configErr)
}

// IsGenerationError reports whether the error is a GenerationError.
func IsGenerationError(err error) bool {
	var genErr *GenerationError
	return errors.As(err, &genErr)
}
