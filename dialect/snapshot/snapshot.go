package snapshot

import (
	"bufio"
	"cmp"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/syssam/layergen/compiler/gen"
	"github.com/syssam/layergen/schema"
	"github.com/syssam/layergen/schema/field"
)

// Version is the snapshot format version written by Save.
const Version = 1

// Table is the captured column set of one storage relation.
type Table struct {
	Schema  string         `msgpack:"schema,omitempty"`
	Name    string         `msgpack:"name"`
	Columns []field.Column `msgpack:"columns"`
}

// Snapshot holds the entity metadata and live columns of a database at a
// point in time.
type Snapshot struct {
	Version  int             `msgpack:"version"`
	Dialect  string          `msgpack:"dialect,omitempty"`
	Captured time.Time       `msgpack:"captured"`
	Entities []schema.Entity `msgpack:"entities"`
	Tables   []Table         `msgpack:"tables"`
}

type options struct {
	dialect string
	workers int
	log     *zap.Logger
}

// Option configures Capture.
type Option func(*options)

// WithDialect records the dialect of the captured database.
func WithDialect(name string) Option {
	return func(o *options) { o.dialect = name }
}

// WithWorkers bounds the concurrent column fetches. Default is GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.workers = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.log = l
		}
	}
}

// Capture reads all entities of src and the columns of every distinct table
// they are stored in. Tables missing from the database are left out and
// logged; generating their entities from the snapshot fails the same way it
// does live.
func Capture(ctx context.Context, src gen.Source, opts ...Option) (*Snapshot, error) {
	o := &options{workers: runtime.GOMAXPROCS(0), log: zap.NewNop()}
	for _, opt := range opts {
		opt(o)
	}
	entities, err := src.ListEntities(ctx)
	if err != nil {
		return nil, fmt.Errorf("snapshot: list entities: %w", err)
	}

	var refs []Table
	for _, e := range entities {
		refs = append(refs, Table{Schema: e.StorageSchema, Name: e.StorageTable})
	}
	slices.SortFunc(refs, compareTables)
	refs = slices.CompactFunc(refs, func(a, b Table) bool { return compareTables(a, b) == 0 })

	var (
		mu     sync.Mutex
		tables = make([]Table, 0, len(refs))
	)
	eg, gctx := errgroup.WithContext(ctx)
	eg.SetLimit(o.workers)
	for _, ref := range refs {
		eg.Go(func() error {
			cols, err := src.Columns(gctx, ref.Schema, ref.Name)
			switch {
			case errors.Is(err, schema.ErrMetadataInconsistency):
				o.log.Warn("table not captured", zap.String("table", ref.qualified()), zap.Error(err))
				return nil
			case err != nil:
				return fmt.Errorf("snapshot: columns of %s: %w", ref.qualified(), err)
			}
			ref.Columns = cols
			mu.Lock()
			tables = append(tables, ref)
			mu.Unlock()
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	slices.SortFunc(tables, compareTables)
	o.log.Info("snapshot captured", zap.Int("entities", len(entities)), zap.Int("tables", len(tables)))
	return &Snapshot{
		Version:  Version,
		Dialect:  o.dialect,
		Captured: time.Now().UTC(),
		Entities: entities,
		Tables:   tables,
	}, nil
}

func compareTables(a, b Table) int {
	return cmp.Or(
		cmp.Compare(strings.ToLower(a.Schema), strings.ToLower(b.Schema)),
		cmp.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name)),
	)
}

func (t Table) qualified() string {
	if t.Schema == "" {
		return t.Name
	}
	return t.Schema + "." + t.Name
}

// Save encodes the snapshot to w.
func (s *Snapshot) Save(w io.Writer) error {
	bw := bufio.NewWriter(w)
	enc := msgpack.NewEncoder(bw)
	enc.SetSortMapKeys(true)
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("snapshot: encode: %w", err)
	}
	return bw.Flush()
}

// SaveFile writes the snapshot to path, creating parent folders.
func (s *Snapshot) SaveFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("snapshot: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("snapshot: %w", err)
	}
	if err := s.Save(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// Load decodes a snapshot from r.
func Load(r io.Reader) (*Snapshot, error) {
	var s Snapshot
	if err := msgpack.NewDecoder(bufio.NewReader(r)).Decode(&s); err != nil {
		return nil, fmt.Errorf("snapshot: decode: %w", err)
	}
	if s.Version != Version {
		return nil, fmt.Errorf("snapshot: unsupported version %d (want %d)", s.Version, Version)
	}
	s.Captured = s.Captured.UTC()
	return &s, nil
}

// LoadFile reads a snapshot from path.
func LoadFile(path string) (*Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("snapshot: %w", err)
	}
	defer f.Close()
	return Load(f)
}
