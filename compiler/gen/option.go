package gen

import (
	"errors"
	"runtime"

	"go.uber.org/zap"

	"github.com/syssam/layergen/naming"
	"github.com/syssam/layergen/schema/field"
)

// Config holds the explicit configuration of a Generator. It is built once
// with NewConfig and passed by pointer; it is never modified after the
// Generator is created.
type Config struct {
	// Platform is the root namespace of the generated solution.
	Platform string
	// Workers bounds the number of entities generated concurrently.
	Workers int
	// StripIDSuffix strips a trailing "Id" or "Identifier" from key variables.
	StripIDSuffix bool
	// LegacyORM selects the legacy template variant of kinds that have one.
	LegacyORM bool
	// ContinueOnError keeps generating other entities after a failure.
	ContinueOnError bool
	// Types classifies, orders and declares columns.
	Types *field.Table
	// Keywords guards derived variable names.
	Keywords *naming.Keywords
	// Pluralizer derives collection names.
	Pluralizer *naming.Pluralizer
	// EqualityTarget is the object compared against key variables ("x").
	EqualityTarget string
	// AssignmentTarget is the object receiving key assignments ("entity").
	AssignmentTarget string
	// Logger receives progress and failure logs; never the generated output.
	Logger *zap.Logger
}

// Option configures code generation.
type Option func(*Config) error

// WithPlatform sets the root namespace of the generated solution.
func WithPlatform(platform string) Option {
	return func(c *Config) error {
		if platform == "" {
			return NewConfigError("Platform", nil, "platform cannot be empty")
		}
		c.Platform = platform
		return nil
	}
}

// WithWorkers sets the number of entities generated concurrently.
func WithWorkers(n int) Option {
	return func(c *Config) error {
		if n <= 0 {
			return NewConfigError("Workers", n, "workers must be positive")
		}
		c.Workers = n
		return nil
	}
}

// WithStripIDSuffix enables or disables identifier-suffix stripping of key
// variables ("InvoiceId" -> "invoice").
func WithStripIDSuffix(strip bool) Option {
	return func(c *Config) error {
		c.StripIDSuffix = strip
		return nil
	}
}

// WithLegacyORM selects the legacy template variants.
func WithLegacyORM(legacy bool) Option {
	return func(c *Config) error {
		c.LegacyORM = legacy
		return nil
	}
}

// WithContinueOnError keeps generating other entities after a failure.
// Failures are aggregated in the Report.
func WithContinueOnError(cont bool) Option {
	return func(c *Config) error {
		c.ContinueOnError = cont
		return nil
	}
}

// WithTypes sets the column classification table.
func WithTypes(t *field.Table) Option {
	return func(c *Config) error {
		if t == nil {
			return NewConfigError("Types", nil, "type table cannot be nil")
		}
		c.Types = t
		return nil
	}
}

// WithKeywords sets the reserved-word table of the target language.
func WithKeywords(k *naming.Keywords) Option {
	return func(c *Config) error {
		if k == nil {
			return NewConfigError("Keywords", nil, "keyword table cannot be nil")
		}
		c.Keywords = k
		return nil
	}
}

// WithPluralizer sets the pluralizer used for collection names.
func WithPluralizer(p *naming.Pluralizer) Option {
	return func(c *Config) error {
		if p == nil {
			return NewConfigError("Pluralizer", nil, "pluralizer cannot be nil")
		}
		c.Pluralizer = p
		return nil
	}
}

// WithEqualityTarget sets the object name used in key equality expressions.
func WithEqualityTarget(name string) Option {
	return func(c *Config) error {
		if name == "" {
			return NewConfigError("EqualityTarget", nil, "equality target cannot be empty")
		}
		c.EqualityTarget = name
		return nil
	}
}

// WithAssignmentTarget sets the object name receiving key assignments.
func WithAssignmentTarget(name string) Option {
	return func(c *Config) error {
		if name == "" {
			return NewConfigError("AssignmentTarget", nil, "assignment target cannot be empty")
		}
		c.AssignmentTarget = name
		return nil
	}
}

// WithLogger sets the logger. A nil logger disables logging.
func WithLogger(l *zap.Logger) Option {
	return func(c *Config) error {
		if l == nil {
			l = zap.NewNop()
		}
		c.Logger = l
		return nil
	}
}

// Apply applies options to the config.
// It returns the first error encountered.
func (c *Config) Apply(opts ...Option) error {
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return err
		}
	}
	return nil
}

// ApplyAll applies options and collects all errors.
// Returns a joined error if any options failed.
func (c *Config) ApplyAll(opts ...Option) error {
	var errs []error
	for _, opt := range opts {
		if err := opt(c); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// NewConfig creates a new Config with the defaults and the given options.
func NewConfig(opts ...Option) (*Config, error) {
	c := &Config{
		Platform:         "App",
		Workers:          runtime.GOMAXPROCS(0),
		StripIDSuffix:    true,
		Types:            field.Default,
		Keywords:         naming.CSharp,
		Pluralizer:       naming.NewPluralizer(),
		EqualityTarget:   "x",
		AssignmentTarget: "entity",
		Logger:           zap.NewNop(),
	}
	if err := c.Apply(opts...); err != nil {
		return nil, err
	}
	return c, nil
}

// MustNewConfig creates a new Config with the given options.
// It panics if any option fails.
func MustNewConfig(opts ...Option) *Config {
	c, err := NewConfig(opts...)
	if err != nil {
		panic(err)
	}
	return c
}
