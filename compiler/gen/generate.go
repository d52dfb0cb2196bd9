package gen

import (
	"cmp"
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/syssam/layergen/graph"
	"github.com/syssam/layergen/schema"
	"github.com/syssam/layergen/schema/field"
)

// Generator renders the artifacts of the entities listed by a Source.
//
// NewGenerator loads the entity metadata once; afterwards Generate and
// GenerateEntity may be called any number of times, in any order. Every
// derived value is a pure function of the entity, its columns and the
// configuration, so identical inputs produce byte-identical output.
type Generator struct {
	cfg      *Config
	src      Source
	renderer Renderer
	out      Output
	index    *graph.Index
	log      *zap.Logger
}

// NewGenerator loads the entity metadata from src and returns a generator
// rendering with r into out. It fails fast when the metadata cannot be read.
func NewGenerator(ctx context.Context, src Source, r Renderer, out Output, opts ...Option) (*Generator, error) {
	switch {
	case src == nil:
		return nil, NewConfigError("Source", nil, "source cannot be nil")
	case r == nil:
		return nil, NewConfigError("Renderer", nil, "renderer cannot be nil")
	case out == nil:
		return nil, NewConfigError("Output", nil, "output cannot be nil")
	}
	cfg, err := NewConfig(opts...)
	if err != nil {
		return nil, err
	}
	entities, err := src.ListEntities(ctx)
	if err != nil {
		return nil, NewIOError("list entities", "", err)
	}
	cfg.Logger.Debug("entity metadata loaded", zap.Int("entities", len(entities)))
	return &Generator{
		cfg:      cfg,
		src:      src,
		renderer: r,
		out:      out,
		index:    graph.New(entities),
		log:      cfg.Logger,
	}, nil
}

// Config returns the generator configuration.
func (g *Generator) Config() *Config { return g.cfg }

// Index returns the entity index of the generator.
func (g *Generator) Index() *graph.Index { return g.index }

// Report summarizes a generation run.
type Report struct {
	// RunID identifies the run in logs.
	RunID string
	// Files holds the written paths, sorted.
	Files []string
	// Failures holds the failed units, sorted by entity and kind.
	Failures []*GenerationError
	// Skipped counts the entities not dispatched after a failure.
	Skipped int

	mu sync.Mutex
}

// Err returns the failures joined, or nil.
func (r *Report) Err() error {
	errs := make([]error, len(r.Failures))
	for i, f := range r.Failures {
		errs[i] = f
	}
	return errors.Join(errs...)
}

func (r *Report) addFile(path string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Files = append(r.Files, path)
}

func (r *Report) addFailure(err *GenerationError) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Failures = append(r.Failures, err)
}

func (r *Report) skip() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Skipped++
}

func (r *Report) sort() {
	slices.Sort(r.Files)
	slices.SortStableFunc(r.Failures, func(a, b *GenerationError) int {
		return cmp.Or(cmp.Compare(a.Entity, b.Entity), cmp.Compare(a.Kind, b.Kind))
	})
}

// Generate renders the given kinds for all entities, optionally restricted
// to some storage structures. Entities are generated concurrently, bounded
// by Config.Workers, with one column fetch per entity. Aggregate kinds are
// rendered once per component after all entities are done.
//
// Without ContinueOnError the first failure stops the dispatch of further
// entities; entities already in flight finish. The returned error joins all
// failures of the run.
func (g *Generator) Generate(ctx context.Context, kinds []*Kind, filter ...schema.StorageStructure) (*Report, error) {
	var (
		start     = time.Now()
		rep       = &Report{RunID: uuid.NewString()}
		log       = g.log.With(zap.String("run_id", rep.RunID))
		entities  = filterEntities(g.index.All(), filter)
		perEntity []*Kind
		aggregate []*Kind
	)
	for _, k := range kinds {
		if k.Aggregate {
			aggregate = append(aggregate, k)
		} else {
			perEntity = append(perEntity, k)
		}
	}

	stopped := false
	if len(perEntity) > 0 {
		eg, gctx := errgroup.WithContext(ctx)
		eg.SetLimit(g.cfg.Workers)
		for _, e := range entities {
			eg.Go(func() error {
				if gctx.Err() != nil {
					rep.skip()
					return nil
				}
				return g.entity(ctx, log, rep, e, perEntity)
			})
		}
		stopped = eg.Wait() != nil
	}

	if !stopped && ctx.Err() == nil {
		for _, component := range components(entities) {
			if err := g.aggregate(log, rep, component, aggregate); err != nil {
				break
			}
		}
	}

	rep.sort()
	log.Info("generation finished",
		zap.Int("entities", len(entities)),
		zap.Int("files", len(rep.Files)),
		zap.Int("failures", len(rep.Failures)),
		zap.Int("skipped", rep.Skipped),
		zap.Duration("elapsed", time.Since(start)))
	return rep, errors.Join(rep.Err(), ctx.Err())
}

// GenerateEntity renders the given per-entity kinds for one entity.
// Aggregate kinds are ignored.
func (g *Generator) GenerateEntity(ctx context.Context, e schema.Entity, kinds ...*Kind) (*Report, error) {
	rep := &Report{RunID: uuid.NewString()}
	log := g.log.With(zap.String("run_id", rep.RunID))
	var perEntity []*Kind
	for _, k := range kinds {
		if !k.Aggregate {
			perEntity = append(perEntity, k)
		}
	}
	_ = g.entity(ctx, log, rep, e, perEntity)
	rep.sort()
	return rep, rep.Err()
}

// entity renders all applicable kinds of one entity. It returns an error
// only when the failure must stop the run.
func (g *Generator) entity(ctx context.Context, log *zap.Logger, rep *Report, e schema.Entity, kinds []*Kind) error {
	var applicable []*Kind
	for _, k := range kinds {
		if k.Applies(e) {
			applicable = append(applicable, k)
		}
	}
	if len(applicable) == 0 {
		return nil
	}
	log = log.With(zap.String("entity", e.String()))
	log.Debug("generating entity", zap.Int("kinds", len(applicable)))

	if err := e.Validate(); err != nil {
		return g.fail(log, rep, NewGenerationError(e.String(), "", "", err))
	}
	cols, err := g.columns(ctx, e)
	if err != nil {
		return g.fail(log, rep, NewGenerationError(e.String(), "", "", err))
	}
	ec, err := newEntityContext(g.cfg, e, cols)
	if err != nil {
		return g.fail(log, rep, NewGenerationError(e.String(), "", "", err))
	}
	for _, k := range applicable {
		path, err := g.emit(k, ec.forKind(k))
		if err != nil {
			if err := g.fail(log, rep, NewGenerationError(e.String(), k.Name, path, err)); err != nil {
				return err
			}
			continue
		}
		rep.addFile(path)
	}
	log.Debug("entity generated")
	return nil
}

// aggregate renders the aggregate kinds of a component.
func (g *Generator) aggregate(log *zap.Logger, rep *Report, component string, kinds []*Kind) error {
	for _, k := range kinds {
		ctx := aggregateContext(g.cfg, g.index, component)
		path, err := g.emit(k, ctx)
		if err != nil {
			if err := g.fail(log, rep, NewGenerationError(component, k.Name, path, err)); err != nil {
				return err
			}
			continue
		}
		rep.addFile(path)
	}
	return nil
}

// emit expands the output path, renders the template and writes the result.
func (g *Generator) emit(k *Kind, ctx Context) (string, error) {
	path := ctx.Expand(k.Path)
	if left := Unresolved(path); len(left) > 0 {
		return path, NewUnresolvedError(k.Name+" path", left)
	}
	text, err := g.renderer.Render(k.TemplateID(g.cfg.LegacyORM), ctx)
	if err != nil {
		return path, err
	}
	if err := g.out.Write(path, text); err != nil {
		if !IsIOError(err) {
			err = NewIOError("write", path, err)
		}
		return path, err
	}
	return path, nil
}

func (g *Generator) fail(log *zap.Logger, rep *Report, err *GenerationError) error {
	rep.addFailure(err)
	log.Error("generation failed",
		zap.String("kind", err.Kind),
		zap.String("path", err.Path),
		zap.Error(err.Cause))
	if g.cfg.ContinueOnError {
		return nil
	}
	return err
}

// columns fetches the live columns of an entity once and completes missing
// storage types through the type lookups of the source.
func (g *Generator) columns(ctx context.Context, e schema.Entity) ([]field.Column, error) {
	cols, err := g.src.Columns(ctx, e.StorageSchema, e.StorageTable)
	if err != nil {
		return nil, NewIOError("columns", e.QualifiedTable(), err)
	}
	cols = slices.Clone(cols)
	table := e.QualifiedTable()
	for i, c := range cols {
		if c.NativeType == "" {
			if cols[i].NativeType, err = g.src.NativeTypeName(ctx, table, c.Name); err != nil {
				return nil, NewIOError("native type", table+"."+c.Name, err)
			}
		}
		if c.Type == field.TypeDecimal && c.Precision == 0 {
			if cols[i].Precision, err = g.src.ColumnPrecision(ctx, table, c.Name); err != nil {
				return nil, NewIOError("precision", table+"."+c.Name, err)
			}
			if cols[i].Scale, err = g.src.ColumnScale(ctx, table, c.Name); err != nil {
				return nil, NewIOError("scale", table+"."+c.Name, err)
			}
		}
	}
	return cols, nil
}

func filterEntities(entities []schema.Entity, filter []schema.StorageStructure) []schema.Entity {
	if len(filter) == 0 {
		return entities
	}
	return slices.DeleteFunc(entities, func(e schema.Entity) bool {
		return !slices.Contains(filter, e.Structure)
	})
}

func components(entities []schema.Entity) []string {
	var out []string
	for _, e := range entities {
		out = append(out, e.Component)
	}
	slices.Sort(out)
	return slices.Compact(out)
}
