package sql

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	// Database drivers, one per dialect (and pgx as an alternative for postgres).
	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/lib/pq"
	_ "github.com/microsoft/go-mssqldb"
	_ "modernc.org/sqlite"

	"github.com/syssam/layergen/dialect"
)

// validIdentifierRe validates SQL identifiers (alphanumeric, underscores, dots for schema.name)
var validIdentifierRe = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_.]*$`)

// isValidIdentifier checks if the string is a valid SQL identifier.
func isValidIdentifier(s string) bool {
	return s != "" && len(s) <= 128 && validIdentifierRe.MatchString(s)
}

// DriverName returns the database/sql driver registered for a dialect.
func DriverName(name string) string {
	switch name {
	case dialect.SQLServer:
		return "sqlserver"
	case dialect.Postgres:
		return "postgres"
	case dialect.MySQL:
		return "mysql"
	case dialect.SQLite:
		return "sqlite"
	}
	return name
}

// ExecQuerier wraps the standard Exec and Query methods.
type ExecQuerier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// Driver is an open database bound to a dialect. Statements issued through
// the driver are counted and slow ones are logged.
type Driver struct {
	*StatsQuerier
	db      *sql.DB
	dialect string
}

// options configures Open and OpenDB.
type options struct {
	driver  string
	retries uint64
	slow    time.Duration
	log     *zap.Logger
}

// Option configures a Driver.
type Option func(*options)

// WithDriverName overrides the database/sql driver, e.g. "pgx" for postgres.
func WithDriverName(name string) Option {
	return func(o *options) { o.driver = name }
}

// WithRetries sets how many times a failed ping is retried with exponential
// backoff. Default is 5.
func WithRetries(n uint64) Option {
	return func(o *options) { o.retries = n }
}

// WithSlowThreshold sets the duration above which statements are logged as
// slow. Default is 500ms.
func WithSlowThreshold(d time.Duration) Option {
	return func(o *options) { o.slow = d }
}

// WithLogger sets the logger. A nil logger disables logging.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) { o.log = l }
}

func newOptions(opts []Option) *options {
	o := &options{retries: 5, slow: 500 * time.Millisecond}
	for _, opt := range opts {
		opt(o)
	}
	if o.log == nil {
		o.log = zap.NewNop()
	}
	return o
}

// Open opens a database of the given dialect and pings it, retrying with
// exponential backoff until the retries are exhausted or ctx is done.
func Open(ctx context.Context, dialectName, dsn string, opts ...Option) (*Driver, error) {
	name, err := dialect.Parse(dialectName)
	if err != nil {
		return nil, err
	}
	o := newOptions(opts)
	driverName := o.driver
	if driverName == "" {
		driverName = DriverName(name)
	}
	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("dialect/sql: open %s: %w", driverName, err)
	}
	ping := func() error {
		err := db.PingContext(ctx)
		if ctx.Err() != nil {
			return backoff.Permanent(err)
		}
		return err
	}
	b := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), o.retries), ctx)
	notify := func(err error, next time.Duration) {
		o.log.Warn("database not reachable, retrying",
			zap.String("dialect", name),
			zap.Duration("next", next),
			zap.Error(err))
	}
	if err := backoff.RetryNotify(ping, b, notify); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("dialect/sql: ping %s: %w", name, err)
	}
	o.log.Debug("database connected", zap.String("dialect", name), zap.String("driver", driverName))
	return newDriver(name, db, o), nil
}

// OpenDB wraps an already opened database without pinging it.
func OpenDB(dialectName string, db *sql.DB, opts ...Option) *Driver {
	return newDriver(dialectName, db, newOptions(opts))
}

func newDriver(name string, db *sql.DB, o *options) *Driver {
	return &Driver{
		StatsQuerier: NewStatsQuerier(db, o.slow, o.log.With(zap.String("dialect", name))),
		db:           db,
		dialect:      name,
	}
}

// DB returns the underlying *sql.DB instance.
func (d *Driver) DB() *sql.DB { return d.db }

// Dialect returns the dialect name.
func (d *Driver) Dialect() string { return d.dialect }

// Close closes the underlying connection.
func (d *Driver) Close() error {
	d.log.Debug("database closed", zap.Object("stats", d.Stats()))
	return d.db.Close()
}

// placeholder returns the n-th (1-based) bind parameter of the dialect.
func (d *Driver) placeholder(n int) string {
	switch d.dialect {
	case dialect.Postgres:
		return fmt.Sprintf("$%d", n)
	case dialect.SQLServer:
		return fmt.Sprintf("@p%d", n)
	default:
		return "?"
	}
}

// placeholders returns n comma-separated bind parameters starting at 1.
func (d *Driver) placeholders(n int) string {
	ps := make([]string, n)
	for i := range n {
		ps[i] = d.placeholder(i + 1)
	}
	return strings.Join(ps, ", ")
}
