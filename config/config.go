package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/syssam/layergen/compiler/gen"
	"github.com/syssam/layergen/dialect"
)

// DefaultFile is the configuration file read when no path is given.
const DefaultFile = "layergen.yaml"

// Config holds the layergen configuration.
// Values come from a YAML file; LAYERGEN_* environment variables override them.
type Config struct {
	// Platform is the root namespace of generated code.
	Platform string `yaml:"platform" env:"LAYERGEN_PLATFORM" env-default:"App"`
	// Templates is the folder holding <template id>.tmpl files.
	Templates string `yaml:"templates" env:"LAYERGEN_TEMPLATES" env-default:"templates"`
	// Output is the folder generated files are written under.
	Output string `yaml:"output" env:"LAYERGEN_OUTPUT" env-default:"out"`
	// Kinds restricts generation to the named artifact kinds. Empty means all.
	Kinds []string `yaml:"kinds" env:"LAYERGEN_KINDS" env-separator:","`

	Database DatabaseConfig `yaml:"database"`
	Watch    WatchConfig    `yaml:"watch"`

	LegacyORM       bool   `yaml:"legacy_orm" env:"LAYERGEN_LEGACY_ORM" env-default:"false"`
	StripIDSuffix   bool   `yaml:"strip_id_suffix" env:"LAYERGEN_STRIP_ID_SUFFIX"`
	Strict          bool   `yaml:"strict" env:"LAYERGEN_STRICT" env-default:"false"`
	Workers         int    `yaml:"workers" env:"LAYERGEN_WORKERS" env-default:"0"` // 0 uses GOMAXPROCS
	ContinueOnError bool   `yaml:"continue_on_error" env:"LAYERGEN_CONTINUE_ON_ERROR" env-default:"false"`
	LogLevel        string `yaml:"log_level" env:"LAYERGEN_LOG_LEVEL" env-default:"info"`
}

// DatabaseConfig selects the metadata database.
type DatabaseConfig struct {
	Kind          string `yaml:"kind" env:"LAYERGEN_DB_KIND" env-default:"sqlserver"`
	Driver        string `yaml:"driver" env:"LAYERGEN_DB_DRIVER"` // empty uses the dialect default
	DSN           string `yaml:"dsn" env:"LAYERGEN_DB_DSN"`
	MetadataTable string `yaml:"metadata_table" env:"LAYERGEN_DB_METADATA_TABLE" env-default:"entity_metadata"`
	Retries       uint64 `yaml:"retries" env:"LAYERGEN_DB_RETRIES" env-default:"5"`
}

// WatchConfig tunes the watch command.
type WatchConfig struct {
	Debounce time.Duration `yaml:"debounce" env:"LAYERGEN_WATCH_DEBOUNCE" env-default:"300ms"`
}

// Load reads the configuration from path, or from DefaultFile when path is
// empty. A missing default file is not an error: the environment alone is
// read.
func Load(path string) (*Config, error) {
	cfg := &Config{StripIDSuffix: true}
	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}
	_, err := os.Stat(path)
	switch {
	case err == nil:
		if err := cleanenv.ReadConfig(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist) && !explicit:
		if err := cleanenv.ReadEnv(cfg); err != nil {
			return nil, fmt.Errorf("failed to read environment: %w", err)
		}
	default:
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the loaded values.
func (c *Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Platform) == "" {
		errs = append(errs, gen.NewConfigError("platform", c.Platform, "must not be empty"))
	}
	if c.Templates == "" {
		errs = append(errs, gen.NewConfigError("templates", c.Templates, "must not be empty"))
	}
	if c.Output == "" {
		errs = append(errs, gen.NewConfigError("output", c.Output, "must not be empty"))
	}
	if c.Workers < 0 {
		errs = append(errs, gen.NewConfigError("workers", c.Workers, "must not be negative"))
	}
	if _, err := dialect.Parse(c.Database.Kind); err != nil {
		errs = append(errs, gen.NewConfigError("database.kind", c.Database.Kind, err.Error()))
	}
	if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, gen.NewConfigError("log_level", c.LogLevel, err.Error()))
	}
	if len(c.Kinds) > 0 {
		if _, err := gen.SelectKinds(c.Kinds...); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Options returns the generator options for the configuration.
func (c *Config) Options(log *zap.Logger) []gen.Option {
	opts := []gen.Option{
		gen.WithPlatform(c.Platform),
		gen.WithLegacyORM(c.LegacyORM),
		gen.WithStripIDSuffix(c.StripIDSuffix),
		gen.WithContinueOnError(c.ContinueOnError),
		gen.WithLogger(log),
	}
	if c.Workers > 0 {
		opts = append(opts, gen.WithWorkers(c.Workers))
	}
	return opts
}

// SelectedKinds returns the configured kinds in generation order, or the
// whole sequence when none are configured.
func (c *Config) SelectedKinds() ([]*gen.Kind, error) {
	return gen.SelectKinds(c.Kinds...)
}

// Logger builds a development-style zap logger at the configured level.
func (c *Config) Logger() (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(c.LogLevel)
	if err != nil {
		return nil, err
	}
	logConfig := zap.NewDevelopmentConfig()
	logConfig.Level = zap.NewAtomicLevelAt(level)
	logConfig.DisableStacktrace = true
	return logConfig.Build()
}

// YAML returns the effective configuration with the DSN redacted.
func (c *Config) YAML() ([]byte, error) {
	out := *c
	if out.Database.DSN != "" {
		out.Database.DSN = "<redacted>"
	}
	return yaml.Marshal(&out)
}
