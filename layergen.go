package layergen

import (
	"context"

	"go.uber.org/zap"

	"github.com/syssam/layergen/compiler/gen"
	"github.com/syssam/layergen/config"
	"github.com/syssam/layergen/dialect/snapshot"
	"github.com/syssam/layergen/dialect/sql"
	"github.com/syssam/layergen/graph"
	"github.com/syssam/layergen/schema"
)

// Session is an open metadata source and the configuration it serves.
type Session struct {
	cfg     *config.Config
	log     *zap.Logger
	src     gen.Source
	dialect string
	close   func() error
}

// Open connects to the database of the configuration and reads its metadata
// table.
func Open(ctx context.Context, cfg *config.Config, log *zap.Logger) (*Session, error) {
	if log == nil {
		log = zap.NewNop()
	}
	db := cfg.Database
	if db.DSN == "" {
		return nil, gen.NewConfigError("database.dsn", nil, "must be set to read metadata (or use a snapshot)")
	}
	opts := []sql.Option{sql.WithRetries(db.Retries), sql.WithLogger(log)}
	if db.Driver != "" {
		opts = append(opts, sql.WithDriverName(db.Driver))
	}
	drv, err := sql.Open(ctx, db.Kind, db.DSN, opts...)
	if err != nil {
		return nil, err
	}
	src, err := sql.NewSource(drv, sql.WithMetadataTable(db.MetadataTable), sql.WithSourceLogger(log))
	if err != nil {
		_ = drv.Close()
		return nil, err
	}
	return &Session{cfg: cfg, log: log, src: src, dialect: drv.Dialect(), close: drv.Close}, nil
}

// OpenSnapshot reads the metadata from a snapshot file.
func OpenSnapshot(cfg *config.Config, log *zap.Logger, path string) (*Session, error) {
	if log == nil {
		log = zap.NewNop()
	}
	snap, err := snapshot.LoadFile(path)
	if err != nil {
		return nil, err
	}
	log.Info("using snapshot", zap.String("path", path), zap.Time("captured", snap.Captured))
	return &Session{
		cfg:     cfg,
		log:     log,
		src:     snap.Source(),
		dialect: snap.Dialect,
		close:   func() error { return nil },
	}, nil
}

// Source returns the metadata source.
func (s *Session) Source() gen.Source { return s.src }

// Dialect returns the dialect of the database, or of the database a snapshot
// was captured from.
func (s *Session) Dialect() string { return s.dialect }

// Close releases the database connection.
func (s *Session) Close() error { return s.close() }

// Generate renders the kinds for all entities, optionally restricted to some
// storage structures, with the generator options of the configuration.
func (s *Session) Generate(ctx context.Context, r gen.Renderer, out gen.Output, kinds []*gen.Kind, filter ...schema.StorageStructure) (*gen.Report, error) {
	g, err := gen.NewGenerator(ctx, s.src, r, out, s.cfg.Options(s.log)...)
	if err != nil {
		return nil, err
	}
	return g.Generate(ctx, kinds, filter...)
}

// Index reads all entities into a lookup index.
func (s *Session) Index(ctx context.Context) (*graph.Index, error) {
	entities, err := s.src.ListEntities(ctx)
	if err != nil {
		return nil, err
	}
	return graph.New(entities), nil
}

// Capture snapshots the metadata and columns of the source.
func (s *Session) Capture(ctx context.Context, opts ...snapshot.Option) (*snapshot.Snapshot, error) {
	base := []snapshot.Option{snapshot.WithDialect(s.dialect), snapshot.WithLogger(s.log)}
	if s.cfg.Workers > 0 {
		base = append(base, snapshot.WithWorkers(s.cfg.Workers))
	}
	return snapshot.Capture(ctx, s.src, append(base, opts...)...)
}
